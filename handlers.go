package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// gameHandler returns the current session view for the cookie's session.
func (app *App) gameHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	session := app.getSession(sessionID)
	c.JSON(http.StatusOK, app.sessionView(session))
}

// guessRequest is the submit payload: one entry per slot, locked slots
// ignored.
type guessRequest struct {
	Inputs []string `json:"inputs"`
}

// guessHandler scores one round of guesses for the session. Submissions
// are serialized per process; recoverable failures report the per-slot
// invalid flags without consuming a round.
func (app *App) guessHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	session := app.getSession(sessionID)

	var req guessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logWarn("Session %s sent malformed guess payload: %v", sessionID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	reqID, _ := c.Request.Context().Value(requestIDKey).(string)
	if reqID != "" {
		logInfo("[request_id=%v] Session %s submitted round %d/%d of game %s", reqID, sessionID, session.Round, MaxRounds, session.Config.PromptID)
	} else {
		logInfo("Session %s submitted round %d/%d of game %s", sessionID, session.Round, MaxRounds, session.Config.PromptID)
	}

	app.SessionMutex.Lock()
	err := session.Submit(req.Inputs)
	app.SessionMutex.Unlock()

	switch {
	case errors.Is(err, ErrSessionOver):
		c.JSON(http.StatusConflict, gin.H{"error": ErrorSessionOver})
	case errors.Is(err, ErrSlotCount):
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorSlotCount})
	case errors.Is(err, ErrMissingInput):
		view := app.sessionView(session)
		view["error"] = ErrorMissingInput
		c.JSON(http.StatusUnprocessableEntity, view)
	default:
		c.JSON(http.StatusOK, app.sessionView(session))
	}
}

// recapHandler returns the shareable recap text for an ended session.
func (app *App) recapHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	session := app.getSession(sessionID)

	if session.Phase != PhaseEnded {
		c.JSON(http.StatusConflict, gin.H{"error": ErrorNoRecapYet})
		return
	}
	c.String(http.StatusOK, session.Recap(app.shareLabel()))
}

// nextGameHandler reports when the next game becomes available. Purely
// advisory: NEXT_GAME_AT overrides, otherwise the next local midnight.
func (app *App) nextGameHandler(c *gin.Context) {
	next := app.NextGameAt
	if next.IsZero() {
		next = endOfDay(time.Now())
	}
	c.JSON(http.StatusOK, gin.H{"nextGameAt": next.Format(time.RFC3339)})
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	app.SessionMutex.RLock()
	sessionCount := len(app.Sessions)
	app.SessionMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"env":       map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"game":      app.GameConfig.PromptID,
		"keywords":  len(app.GameConfig.Keywords),
		"sessions":  sessionCount,
		"uptime":    formatUptime(time.Since(app.StartTime)),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// sessionView shapes a session for the JSON API. Target keywords are
// withheld while the game is active; only their lengths are exposed so the
// client can size the blanks.
func (app *App) sessionView(session *Session) gin.H {
	slots := lo.Map(session.Slots, func(slot *Slot, _ int) gin.H {
		view := gin.H{
			"index":        slot.Index,
			"length":       utf8.RuneCountInString(slot.Keyword),
			"currentInput": slot.CurrentInput,
			"locked":       slot.Locked,
			"invalid":      slot.Invalid,
		}
		if slot.SpeechType != "" {
			view["speechType"] = slot.SpeechType
		}
		return view
	})

	view := gin.H{
		"promptId":  session.Config.PromptID,
		"prompt":    session.Config.PromptText,
		"phase":     session.Phase,
		"round":     session.Round,
		"maxRounds": MaxRounds,
		"slots":     slots,
		"history":   session.History,
		"revealUrl": session.RevealURL,
		"isVideo":   session.Config.IsVideo,
	}
	if session.Phase == PhaseEnded {
		view["winningRound"] = session.WinningRound
		view["recapGrid"] = session.RecapGrid
		view["recapRows"] = parseRecapGrid(session.RecapGrid)
		view["recap"] = session.Recap(app.shareLabel())
	}
	return view
}

// shareLabel is the recap header label for the loaded game.
func (app *App) shareLabel() string {
	return fmt.Sprintf("%s #%s", ShareLabel, app.GameConfig.PromptID)
}
