package main

// Game configuration constants
const (
	MaxRounds = 5 // Maximum number of submitted rounds per game
)

// Recap glyph constants
const (
	GlyphLocked = "🟩" // slot guessed exactly
	GlyphClose  = "🟨" // partial credit from the similarity table
	GlyphMiss   = "⬛" // no credit
)

// Session phase constants
const (
	PhaseLoading = "loading"
	PhaseActive  = "active"
	PhaseEnded   = "ended"
	PhaseError   = "error"
)

// Session configuration constants
const (
	SessionCookieName = "session_id"
	ShareLabel        = "Unprompted"
)

// Route constants
const (
	RouteGame     = "/api/game"
	RouteGuess    = "/api/guess"
	RouteRecap    = "/api/recap"
	RouteNextGame = "/api/next-game"
	RouteHealthz  = "/healthz"
)

// Error message constants
const (
	ErrorSessionOver  = "Game is over."
	ErrorMissingInput = "Every open blank needs a word."
	ErrorSlotCount    = "Wrong number of slot inputs."
	ErrorNoRecapYet   = "No recap until the game ends."
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)
