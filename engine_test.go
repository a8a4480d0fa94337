package main

import (
	"testing"
)

// Test game constants
const (
	TestPromptID    = "42"
	TestGateKey     = "result:test-session-abc:42"
	TestOriginalURL = "/img/original.webp"
)

// testGameConfig builds the two-keyword cat/hat game used across the
// engine tests.
func testGameConfig() *GameConfig {
	return &GameConfig{
		PromptID:   TestPromptID,
		PromptText: "A ___ wearing a ___",
		Keywords:   []string{"Cat", "Hat"},
		SpeechTypes: []string{
			"noun", "noun",
		},
		SimilarityTable: map[string]map[string]float64{
			"cat": {"cat": 1, "dog": 0.4},
			"hat": {"hat": 1, "cap": 0.7},
		},
		AssetMap: map[string]string{
			"0blur_1blur.webp": "/img/0blur_1blur.webp",
			"0_1blur.webp":     "/img/0_1blur.webp",
			"0blur_1.webp":     "/img/0blur_1.webp",
			"0_1.webp":         "/img/0_1.webp",
		},
		OriginalAssetURL: TestOriginalURL,
	}
}

func newTestSession(cfg *GameConfig) *Session {
	return newSession(cfg, &DailyGate{Store: NewMemoryStore()}, TestGateKey)
}

// TestNewSessionStartsAtRoundOne checks a fresh session opens fully blurred.
func TestNewSessionStartsAtRoundOne(t *testing.T) {
	session := newTestSession(testGameConfig())

	if session.Phase != PhaseActive {
		t.Errorf("phase = %q, want %q", session.Phase, PhaseActive)
	}
	if session.Round != 1 {
		t.Errorf("round = %d, want 1", session.Round)
	}
	if session.RevealURL != "/img/0blur_1blur.webp" {
		t.Errorf("reveal URL = %q, want fully blurred asset", session.RevealURL)
	}
	for i, slot := range session.Slots {
		if slot.Locked || slot.Invalid || slot.CurrentInput != "" {
			t.Errorf("slot %d not pristine: %+v", i, slot)
		}
	}
}

// TestSubmitWinFirstRound covers an exact match on every slot in round 1.
func TestSubmitWinFirstRound(t *testing.T) {
	session := newTestSession(testGameConfig())

	if err := session.Submit([]string{"cat", "hat"}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if session.Phase != PhaseEnded {
		t.Fatalf("phase = %q, want %q", session.Phase, PhaseEnded)
	}
	if session.WinningRound == nil || *session.WinningRound != 1 {
		t.Errorf("winningRound = %v, want 1", session.WinningRound)
	}
	if session.RevealURL != TestOriginalURL {
		t.Errorf("ended reveal URL = %q, want original", session.RevealURL)
	}
	// Canonical casing is restored on lock.
	if session.Slots[0].CurrentInput != "Cat" || session.Slots[1].CurrentInput != "Hat" {
		t.Errorf("locked inputs = %q/%q, want canonical keywords", session.Slots[0].CurrentInput, session.Slots[1].CurrentInput)
	}
	got := generateRecap("G", session.History)
	want := "G 1/5\n🟩🟩"
	if got != want {
		t.Errorf("recap = %q, want %q", got, want)
	}
}

// TestSubmitPartialThenWin covers a slot locking in round 1 and the rest
// in round 2, with the win attributed to round 2.
func TestSubmitPartialThenWin(t *testing.T) {
	session := newTestSession(testGameConfig())

	if err := session.Submit([]string{"dog", "hat"}); err != nil {
		t.Fatalf("round 1 Submit returned error: %v", err)
	}
	if session.Phase != PhaseActive || session.Round != 2 {
		t.Fatalf("after round 1: phase %q round %d, want active round 2", session.Phase, session.Round)
	}
	if !session.Slots[1].Locked || session.Slots[0].Locked {
		t.Fatalf("after round 1: locks = %v/%v, want slot 1 only", session.Slots[0].Locked, session.Slots[1].Locked)
	}
	if session.Slots[0].CurrentInput != "" {
		t.Errorf("unlocked slot input not reset for next round: %q", session.Slots[0].CurrentInput)
	}
	if session.History[0][0].Score != 0.4 {
		t.Errorf("slot 0 score = %v, want similarity table value 0.4", session.History[0][0].Score)
	}
	if session.RevealURL != "/img/0blur_1.webp" {
		t.Errorf("reveal URL = %q, want slot 1 unblurred", session.RevealURL)
	}

	// Locked slot's entry is ignored on the next round.
	if err := session.Submit([]string{"cat", ""}); err != nil {
		t.Fatalf("round 2 Submit returned error: %v", err)
	}
	if session.Phase != PhaseEnded {
		t.Fatalf("phase = %q, want ended", session.Phase)
	}
	if session.WinningRound == nil || *session.WinningRound != 2 {
		t.Errorf("winningRound = %v, want 2", session.WinningRound)
	}
}

// TestSubmitFiveRoundsLoss checks a session ends with a nil winning round
// after five submitted rounds and that the recap holds five lines.
func TestSubmitFiveRoundsLoss(t *testing.T) {
	session := newTestSession(testGameConfig())

	for round := 1; round <= MaxRounds; round++ {
		if err := session.Submit([]string{"dog", "cap"}); err != nil {
			t.Fatalf("round %d Submit returned error: %v", round, err)
		}
	}

	if session.Phase != PhaseEnded {
		t.Fatalf("phase = %q, want ended", session.Phase)
	}
	if session.WinningRound != nil {
		t.Errorf("winningRound = %d, want nil", *session.WinningRound)
	}
	if len(session.History) != MaxRounds {
		t.Errorf("history has %d rounds, want %d", len(session.History), MaxRounds)
	}
	rows := parseRecapGrid(session.RecapGrid)
	if len(rows) != MaxRounds {
		t.Errorf("recap grid has %d lines, want %d", len(rows), MaxRounds)
	}

	if err := session.Submit([]string{"cat", "hat"}); err != ErrSessionOver {
		t.Errorf("Submit after end returned %v, want ErrSessionOver", err)
	}
}

// TestSubmitValidation checks a blank open slot consumes no round and
// flags exactly the offending slots.
func TestSubmitValidation(t *testing.T) {
	session := newTestSession(testGameConfig())

	if err := session.Submit([]string{"  ", "cap"}); err != ErrMissingInput {
		t.Fatalf("Submit returned %v, want ErrMissingInput", err)
	}
	if session.Round != 1 || len(session.History) != 0 {
		t.Errorf("validation failure consumed a round: round %d, history %d", session.Round, len(session.History))
	}
	if !session.Slots[0].Invalid || session.Slots[1].Invalid {
		t.Errorf("invalid flags = %v/%v, want slot 0 only", session.Slots[0].Invalid, session.Slots[1].Invalid)
	}

	// The flag clears on the next complete submission.
	if err := session.Submit([]string{"dog", "cap"}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if session.Slots[0].Invalid {
		t.Error("invalid flag survived a valid submission")
	}

	if err := session.Submit([]string{"dog"}); err != ErrSlotCount {
		t.Errorf("short input slice returned %v, want ErrSlotCount", err)
	}
}

// TestLocksAreMonotonic checks a locked slot stays locked through
// subsequent rounds no matter what is submitted for it.
func TestLocksAreMonotonic(t *testing.T) {
	session := newTestSession(testGameConfig())

	if err := session.Submit([]string{"cat", "cap"}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if !session.Slots[0].Locked {
		t.Fatal("slot 0 did not lock on exact match")
	}

	for round := 2; round <= 4; round++ {
		if err := session.Submit([]string{"zebra", "cap"}); err != nil {
			t.Fatalf("round %d Submit returned error: %v", round, err)
		}
		if !session.Slots[0].Locked {
			t.Fatalf("slot 0 unlocked in round %d", round)
		}
		if session.Slots[0].CurrentInput != "Cat" {
			t.Fatalf("locked slot lost canonical input in round %d: %q", round, session.Slots[0].CurrentInput)
		}
		last := session.History[len(session.History)-1]
		if last[0].Score != 1 || last[0].Word != "Cat" {
			t.Fatalf("locked slot record in round %d = %+v, want canonical score-1 record", round, last[0])
		}
	}
}

// TestNoCrossSlotCredit checks a guess only ever scores against its own
// slot's keyword, even when it exactly matches another slot's target.
func TestNoCrossSlotCredit(t *testing.T) {
	session := newTestSession(testGameConfig())

	// "hat" at slot 0 matches slot 1's keyword but must not lock anything.
	if err := session.Submit([]string{"hat", "dog"}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if session.Slots[0].Locked || session.Slots[1].Locked {
		t.Errorf("cross-slot guess locked a slot: %v/%v", session.Slots[0].Locked, session.Slots[1].Locked)
	}
	if session.History[0][0].Score != 0 {
		t.Errorf("slot 0 score = %v, want 0 (no cross-slot credit)", session.History[0][0].Score)
	}
}

// TestLockRequiresExactMatch checks a table score of 1 does not lock by
// itself; only normalized string equality does.
func TestLockRequiresExactMatch(t *testing.T) {
	cfg := testGameConfig()
	cfg.SimilarityTable["cat"]["feline"] = 1
	session := newTestSession(cfg)

	if err := session.Submit([]string{"feline", "cap"}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if session.Slots[0].Locked {
		t.Error("score-1 table entry locked a slot without an exact match")
	}
	if session.History[0][0].Score != 1 {
		t.Errorf("score = %v, want 1 from the table", session.History[0][0].Score)
	}

	// Normalization still locks: trailing punctuation and casing are forgiven.
	if err := session.Submit([]string{" CAT. ", "cap"}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if !session.Slots[0].Locked {
		t.Error("normalized exact match did not lock")
	}
}

// TestReplayFromPersistedResult reconstructs an ended session from the
// daily gate without any submissions.
func TestReplayFromPersistedResult(t *testing.T) {
	cfg := testGameConfig()
	store := NewMemoryStore()
	gate := &DailyGate{Store: store}

	winning := 2
	gate.PersistResult(TestGateKey, &SessionResult{
		Completed:    true,
		WinningRound: &winning,
		RecapGrid:    "🟩⬛\n🟩🟩",
	})

	session := newSession(cfg, gate, TestGateKey)
	if session.Phase != PhaseEnded {
		t.Fatalf("phase = %q, want ended", session.Phase)
	}
	if session.WinningRound == nil || *session.WinningRound != 2 {
		t.Errorf("winningRound = %v, want 2", session.WinningRound)
	}
	if session.RecapGrid != "🟩⬛\n🟩🟩" {
		t.Errorf("recap grid = %q, want persisted grid verbatim", session.RecapGrid)
	}
	if got := session.Recap("G"); got != "G 2/5\n🟩⬛\n🟩🟩" {
		t.Errorf("replayed recap = %q", got)
	}
	if session.RevealURL != TestOriginalURL {
		t.Errorf("replayed reveal URL = %q, want original", session.RevealURL)
	}
	for i, slot := range session.Slots {
		if !slot.Locked || slot.CurrentInput != cfg.Keywords[i] {
			t.Errorf("replayed slot %d = %+v, want locked canonical", i, slot)
		}
	}
	if err := session.Submit([]string{"cat", "hat"}); err != ErrSessionOver {
		t.Errorf("Submit on replayed session returned %v, want ErrSessionOver", err)
	}
}

// TestFinishPersistsResult checks game end writes the result through the
// daily gate so the next session that day replays it.
func TestFinishPersistsResult(t *testing.T) {
	cfg := testGameConfig()
	store := NewMemoryStore()
	gate := &DailyGate{Store: store}

	first := newSession(cfg, gate, TestGateKey)
	if err := first.Submit([]string{"cat", "hat"}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	second := newSession(cfg, gate, TestGateKey)
	if second.Phase != PhaseEnded {
		t.Fatalf("second session phase = %q, want ended from gate", second.Phase)
	}
	if second.RecapGrid != first.RecapGrid {
		t.Errorf("replayed grid %q differs from original %q", second.RecapGrid, first.RecapGrid)
	}
}
