package main

import (
	"errors"
	"fmt"
	"time"
)

type contextKey string

// GameConfig is the immutable description of one day's game. It is loaded
// once per session from a game file published by the scheduling pipeline and
// validated at the boundary; the engine never mutates it.
type GameConfig struct {
	PromptID         string                        `json:"promptId"`
	PromptText       string                        `json:"prompt"`
	Keywords         []string                      `json:"keywords"`
	SpeechTypes      []string                      `json:"speechType,omitempty"`
	SimilarityTable  map[string]map[string]float64 `json:"similarity"`
	AssetMap         map[string]string             `json:"assets,omitempty"`
	OriginalAssetURL string                        `json:"imageUrl"`
	IsVideo          bool                          `json:"isVideo"`
}

// Slot is one blank in the prompt, bound to one target keyword by index.
type Slot struct {
	Index        int    `json:"index"`
	Keyword      string `json:"-"` // canonical target, withheld from clients while active
	SpeechType   string `json:"speechType,omitempty"`
	CurrentInput string `json:"currentInput"`
	Locked       bool   `json:"locked"`  // monotonic, never unset
	Invalid      bool   `json:"invalid"` // display-only, cleared on the next submit
}

// GuessRecord is one slot's scored guess in a submitted round.
type GuessRecord struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// SessionResult is the only entity that outlives a session. It is persisted
// by the daily gate at game end and replayed on the next visit that day.
type SessionResult struct {
	Completed    bool   `json:"completed"`
	WinningRound *int   `json:"winningRound"`
	RecapGrid    string `json:"recapGrid"`
}

// Session holds the full state of one player's run at a game. All mutation
// happens synchronously inside Submit; callers must not submit concurrently.
type Session struct {
	Config         *GameConfig
	Phase          string
	Round          int
	Slots          []*Slot
	History        [][]GuessRecord
	WinningRound   *int
	RevealURL      string
	RecapGrid      string
	LastAccessTime time.Time

	gate    *DailyGate
	gateKey string
}

// ConfigError reports a malformed or incomplete game config. It is the only
// fatal error in the engine: play is blocked entirely rather than exposing a
// partially valid game.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid game config: %s: %s", e.Field, e.Reason)
}

// Recoverable submit errors. None of them consume a round.
var (
	ErrSessionOver  = errors.New(ErrorSessionOver)
	ErrMissingInput = errors.New(ErrorMissingInput)
	ErrSlotCount    = errors.New(ErrorSlotCount)
)
