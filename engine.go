package main

import (
	"time"

	"github.com/samber/lo"
)

// newSession starts a session for a validated config. If the daily gate
// holds a prior result for gateKey, the session is reconstructed directly
// in the ended phase with no scoring; otherwise it opens at round 1.
func newSession(cfg *GameConfig, gate *DailyGate, gateKey string) *Session {
	if prior := gate.LoadPriorResult(gateKey); prior != nil {
		logInfo("Replaying completed game %s for %s", cfg.PromptID, gateKey)
		return restoreSession(cfg, gate, gateKey, prior)
	}

	session := &Session{
		Config: cfg,
		Phase:  PhaseActive,
		Round:  1,
		Slots: lo.Map(cfg.Keywords, func(keyword string, i int) *Slot {
			return &Slot{Index: i, Keyword: keyword, SpeechType: speechTypeAt(cfg, i)}
		}),
		History:        [][]GuessRecord{},
		LastAccessTime: time.Now(),
		gate:           gate,
		gateKey:        gateKey,
	}
	session.RevealURL = resolveRevealAsset(cfg, session.lockVector())
	return session
}

// restoreSession rebuilds an ended session from a persisted result. Slots
// come back fully locked with canonical keywords, the history is
// reconstructed from the recap grid, and the original asset is shown.
func restoreSession(cfg *GameConfig, gate *DailyGate, gateKey string, prior *SessionResult) *Session {
	history := lo.Map(parseRecapGrid(prior.RecapGrid), func(row []string, _ int) []GuessRecord {
		return lo.Map(row, func(glyph string, _ int) GuessRecord {
			switch glyph {
			case GlyphLocked:
				return GuessRecord{Score: 1}
			case GlyphClose:
				return GuessRecord{Score: 0.5}
			default:
				return GuessRecord{}
			}
		})
	})
	return &Session{
		Config: cfg,
		Phase:  PhaseEnded,
		Round:  len(history),
		Slots: lo.Map(cfg.Keywords, func(keyword string, i int) *Slot {
			return &Slot{Index: i, Keyword: keyword, SpeechType: speechTypeAt(cfg, i), CurrentInput: keyword, Locked: true}
		}),
		History:        history,
		WinningRound:   prior.WinningRound,
		RevealURL:      cfg.OriginalAssetURL,
		RecapGrid:      prior.RecapGrid,
		LastAccessTime: time.Now(),
		gate:           gate,
		gateKey:        gateKey,
	}
}

// Submit scores one round of guesses and advances the session. inputs must
// carry one entry per slot; entries for already-locked slots are ignored.
//
// A round is consumed only when every open slot has a non-blank input: on a
// validation failure the offending slots are flagged invalid and nothing
// else changes. Locking is exact normalized match against the slot's own
// keyword — never another slot's, and never on table score alone — and is
// permanent for the rest of the session.
func (s *Session) Submit(inputs []string) error {
	if s.Phase != PhaseActive {
		return ErrSessionOver
	}
	if len(inputs) != len(s.Slots) {
		return ErrSlotCount
	}

	missing := false
	for _, slot := range s.Slots {
		if slot.Locked {
			continue
		}
		slot.Invalid = normalizeWord(inputs[slot.Index]) == ""
		if slot.Invalid {
			missing = true
		}
	}
	if missing {
		return ErrMissingInput
	}

	records := make([]GuessRecord, len(s.Slots))
	for _, slot := range s.Slots {
		if slot.Locked {
			records[slot.Index] = GuessRecord{Word: slot.Keyword, Score: 1}
			continue
		}
		guess := inputs[slot.Index]
		slot.CurrentInput = guess
		if normalizeWord(guess) == normalizeWord(slot.Keyword) {
			slot.Locked = true
			slot.CurrentInput = slot.Keyword
			records[slot.Index] = GuessRecord{Word: slot.Keyword, Score: 1}
			continue
		}
		records[slot.Index] = GuessRecord{
			Word:  guess,
			Score: lookupScore(s.Config.SimilarityTable, slot.Keyword, guess),
		}
	}

	s.History = append(s.History, records)
	s.RevealURL = resolveRevealAsset(s.Config, s.lockVector())
	s.LastAccessTime = time.Now()

	if s.Round >= MaxRounds || s.lockedCount() == len(s.Slots) {
		s.finish()
		return nil
	}

	s.Round++
	for _, slot := range s.Slots {
		if !slot.Locked {
			slot.CurrentInput = ""
		}
	}
	return nil
}

// finish transitions the session into the ended phase, freezes the recap
// grid, forces the unobscured asset, and persists the result through the
// daily gate.
func (s *Session) finish() {
	s.Phase = PhaseEnded
	if s.lockedCount() == len(s.Slots) {
		round := s.Round
		s.WinningRound = &round
		logInfo("Game %s won in round %d/%d", s.Config.PromptID, round, MaxRounds)
	} else {
		logInfo("Game %s lost after %d rounds", s.Config.PromptID, len(s.History))
	}
	s.RecapGrid = recapGrid(s.History)
	s.RevealURL = s.Config.OriginalAssetURL
	s.gate.PersistResult(s.gateKey, &SessionResult{
		Completed:    true,
		WinningRound: s.WinningRound,
		RecapGrid:    s.RecapGrid,
	})
}

// Recap returns the shareable recap text for an ended session.
func (s *Session) Recap(label string) string {
	return generateRecap(label, s.History)
}

func (s *Session) lockVector() []bool {
	return lo.Map(s.Slots, func(slot *Slot, _ int) bool { return slot.Locked })
}

func (s *Session) lockedCount() int {
	return lo.CountBy(s.Slots, func(slot *Slot) bool { return slot.Locked })
}

// speechTypeAt returns the advisory speech type for a slot, tolerating a
// speechType list shorter than the keyword list.
func speechTypeAt(cfg *GameConfig, i int) string {
	if i < len(cfg.SpeechTypes) {
		return cfg.SpeechTypes[i]
	}
	return ""
}
