package main

import (
	"encoding/json"
	"sync"
	"time"
)

// KeyValueStore is the minimal storage contract the daily gate needs. No
// transactional guarantees are required; entries expire at the supplied
// deadline and an expired or missing entry simply reads as absent.
type KeyValueStore interface {
	Get(key string) (string, bool)
	Set(key, value string, expiresAt time.Time) error
}

// MemoryStore is an in-memory KeyValueStore. It backs tests and lets the
// server run without a writable data directory.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return "", false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		return "", false
	}
	return entry.value, true
}

func (m *MemoryStore) Set(key, value string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
	return nil
}

// DailyGate restricts a player to one completed session per calendar day
// per game and replays the prior result. The store is best-effort: a nil or
// failing store reads as "not yet played" and never blocks gameplay.
type DailyGate struct {
	Store KeyValueStore
}

// LoadPriorResult returns the persisted result for a game key, or nil if
// none exists. Unparsable content is treated as a bare "already played"
// record rather than an error, so a legacy or corrupt entry still gates the
// day instead of crashing the session.
func (g *DailyGate) LoadPriorResult(gameKey string) *SessionResult {
	if g == nil || g.Store == nil {
		return nil
	}
	raw, ok := g.Store.Get(gameKey)
	if !ok {
		return nil
	}
	var result SessionResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		logWarn("Unreadable daily result for %s, degrading to already-played: %v", gameKey, err)
		return &SessionResult{Completed: true}
	}
	return &result
}

// PersistResult writes the result for a game key, expiring at the end of
// the current calendar day so a fresh session is permitted tomorrow.
// Failures are logged and swallowed.
func (g *DailyGate) PersistResult(gameKey string, result *SessionResult) {
	if g == nil || g.Store == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		logWarn("Failed to marshal daily result for %s: %v", gameKey, err)
		return
	}
	if err := g.Store.Set(gameKey, string(data), endOfDay(time.Now())); err != nil {
		logWarn("Failed to persist daily result for %s: %v", gameKey, err)
	}
}

// endOfDay returns local midnight at the end of t's calendar day.
func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
