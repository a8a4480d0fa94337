package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// loadGameConfig reads and validates a game file. Any failure here is a
// ConfigError: the game is either fully playable or not served at all.
func loadGameConfig(path string) (*GameConfig, error) {
	logInfo("Loading game config from %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Field: "file", Reason: err.Error()}
	}
	var cfg GameConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Field: "json", Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logInfo("Loaded game %s with %d keywords (video: %v, assets: %d)",
		cfg.PromptID, len(cfg.Keywords), cfg.IsVideo, len(cfg.AssetMap))
	return &cfg, nil
}

// Validate checks the invariants the engine relies on: at least one
// keyword, a similarity row for every keyword (case-insensitive), and a
// terminal asset URL for the reveal fallback chain.
func (cfg *GameConfig) Validate() error {
	if len(cfg.Keywords) == 0 {
		return &ConfigError{Field: "keywords", Reason: "at least one keyword is required"}
	}
	for i, keyword := range cfg.Keywords {
		normalized := normalizeWord(keyword)
		if normalized == "" {
			return &ConfigError{Field: "keywords", Reason: fmt.Sprintf("keyword %d is blank", i)}
		}
		if _, ok := cfg.SimilarityTable[normalized]; !ok {
			return &ConfigError{Field: "similarity", Reason: fmt.Sprintf("no similarity table for keyword %q", keyword)}
		}
	}
	if cfg.OriginalAssetURL == "" {
		return &ConfigError{Field: "imageUrl", Reason: "original asset URL is required"}
	}
	if len(cfg.SpeechTypes) > 0 && len(cfg.SpeechTypes) != len(cfg.Keywords) {
		logWarn("Game %s has %d speech types for %d keywords, extra entries ignored",
			cfg.PromptID, len(cfg.SpeechTypes), len(cfg.Keywords))
	}
	return nil
}

// findGameConfigFile picks today's game file from the games directory,
// preferring <YYYY-MM-DD>.json and falling back to game.json.
func findGameConfigFile(dir string, now time.Time) string {
	dated := filepath.Join(dir, now.Format("2006-01-02")+".json")
	if fileExists(dated) {
		return dated
	}
	return filepath.Join(dir, "game.json")
}
