package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore is a file-backed KeyValueStore holding one JSON envelope per
// key. It backs the daily gate when the server has a writable data
// directory; every failure degrades to "absent" so gameplay never blocks
// on storage.
type FileStore struct {
	Dir string
}

type fileEntry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// storeFileName maps a store key to a filesystem-safe file name.
func storeFileName(key string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, key)
	return sanitized + ".json"
}

func (fs *FileStore) Get(key string) (string, bool) {
	path := filepath.Join(fs.Dir, storeFileName(key))
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logWarn("Failed to read store entry %s: %v", path, err)
		}
		return "", false
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		logWarn("Corrupt store entry %s, removing: %v", path, err)
		os.Remove(path)
		return "", false
	}

	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		logInfo("Store entry %s expired at %v, removing", path, entry.ExpiresAt)
		os.Remove(path)
		return "", false
	}
	return entry.Value, true
}

func (fs *FileStore) Set(key, value string, expiresAt time.Time) error {
	if err := os.MkdirAll(fs.Dir, 0755); err != nil {
		logWarn("Failed to create store directory %s: %v", fs.Dir, err)
		return err
	}

	path := filepath.Join(fs.Dir, storeFileName(key))
	data, err := json.MarshalIndent(fileEntry{Value: value, ExpiresAt: expiresAt}, "", "  ")
	if err != nil {
		logWarn("Failed to marshal store entry for %s: %v", key, err)
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		logWarn("Failed to write store entry %s: %v", path, err)
		return err
	}
	return nil
}

// cleanupExpiredEntries removes store files whose envelope has expired.
// Called on startup; Get also removes expired entries lazily.
func cleanupExpiredEntries(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		logWarn("Failed to read store directory %s: %v", dir, err)
		return err
	}

	removed := 0
	for _, dirEntry := range entries {
		if dirEntry.IsDir() || !strings.HasSuffix(dirEntry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, dirEntry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var entry fileEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			logWarn("Removing corrupt store entry %s: %v", path, err)
			os.Remove(path)
			removed++
			continue
		}
		if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
			os.Remove(path)
			removed++
		}
	}
	if removed > 0 {
		logInfo("Store cleanup removed %d expired entries from %s", removed, dir)
	}
	return nil
}
