package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < 10 {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		secure := app.IsProduction
		c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", secure, true)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

// getSession retrieves or creates the engine Session for a session ID.
// Creation consults the daily gate, so a player who already finished
// today's game comes back in the ended phase with their prior result.
func (app *App) getSession(sessionID string) *Session {
	app.SessionMutex.RLock()
	session, exists := app.Sessions[sessionID]
	app.SessionMutex.RUnlock()
	if exists {
		app.SessionMutex.Lock()
		session.LastAccessTime = time.Now()
		app.SessionMutex.Unlock()
		return session
	}

	logInfo("Starting game %s for session: %s", app.GameConfig.PromptID, sessionID)
	session = newSession(app.GameConfig, app.Gate, gateKey(sessionID, app.GameConfig.PromptID))

	app.SessionMutex.Lock()
	app.Sessions[sessionID] = session
	app.SessionMutex.Unlock()
	return session
}

// gateKey builds the daily-gate store key for a player and game.
func gateKey(sessionID, promptID string) string {
	return "result:" + sessionID + ":" + promptID
}
