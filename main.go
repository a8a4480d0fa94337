package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"golang.org/x/time/rate"
)

// App holds the loaded game, live sessions, and server configuration.
type App struct {
	GameConfig   *GameConfig
	Gate         *DailyGate
	Sessions     map[string]*Session
	SessionMutex sync.RWMutex

	IsProduction   bool
	CookieMaxAge   time.Duration
	StaticCacheAge time.Duration
	RateLimitRPS   int
	RateLimitBurst int
	NextGameAt     time.Time
	StartTime      time.Time

	LimiterMap   map[string]*rate.Limiter
	LimiterMutex sync.Mutex
}

func main() {
	_ = godotenv.Load()

	app := &App{
		Sessions:       make(map[string]*Session),
		IsProduction:   os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production",
		CookieMaxAge:   getEnvDuration("COOKIE_MAX_AGE", 24*time.Hour),
		StaticCacheAge: getEnvDuration("STATIC_CACHE_AGE", 5*time.Minute),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
		NextGameAt:     getEnvTime("NEXT_GAME_AT"),
		StartTime:      time.Now(),
		LimiterMap:     make(map[string]*rate.Limiter),
	}
	logInfo("Starting Unprompted in %s mode", map[bool]string{true: "production", false: "development"}[app.IsProduction])

	gamesDir := getEnvStr("GAMES_DIR", "data/games")
	cfg, err := loadGameConfig(findGameConfigFile(gamesDir, time.Now()))
	if err != nil {
		logFatal("Failed to load game config: %v", err)
	}
	app.GameConfig = cfg

	resultsDir := getEnvStr("RESULTS_DIR", "data/results")
	if err := cleanupExpiredEntries(resultsDir); err != nil {
		logWarn("Result store cleanup failed: %v", err)
	}
	app.Gate = &DailyGate{Store: &FileStore{Dir: resultsDir}}

	router := app.setupRouter()
	startServer(router)
}

// setupRouter wires middleware and routes.
func (app *App) setupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".mp4"})))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.Use(requestIDMiddleware())
	router.Use(func(c *gin.Context) {
		app.applyCacheHeaders(c)
	})

	if dirExists("static") {
		router.Static("/static", "./static")
	}

	router.GET(RouteGame, app.gameHandler)
	router.POST(RouteGuess, app.rateLimitMiddleware(), app.guessHandler)
	router.GET(RouteRecap, app.recapHandler)
	router.GET(RouteNextGame, app.nextGameHandler)
	router.GET(RouteHealthz, app.healthzHandler)
	return router
}

// applyCacheHeaders marks static assets cacheable in production and keeps
// game state responses out of every cache.
func (app *App) applyCacheHeaders(c *gin.Context) {
	if app.IsProduction && strings.HasPrefix(c.Request.URL.Path, "/static/") {
		cachecontrol.New(cachecontrol.Config{
			Public: true,
			MaxAge: cachecontrol.Duration(app.StaticCacheAge),
		})(c)
		c.Header("Vary", "Accept-Encoding")
		return
	}
	cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})(c)
}

func startServer(router *gin.Engine) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}
