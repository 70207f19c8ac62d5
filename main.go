package main

import (
	"context"
	"crypto/rand"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"go.uber.org/zap"

	config "wordlebot/internal/config"
	handlers "wordlebot/internal/handlers"
	models "wordlebot/internal/models"
	pacing "wordlebot/internal/pacing"
	session "wordlebot/internal/session"
	solver "wordlebot/internal/solver"
	surface "wordlebot/internal/surface"
)

// App wires the explicitly constructed dependencies: config, logger,
// registry, pacer and the command API. No package-level singletons.
type App struct {
	Cfg      config.Config
	Log      *zap.Logger
	Registry *session.Registry
	Bot      *handlers.Bot

	LimiterMap   map[string]*rateLimiterEntry
	LimiterMutex sync.RWMutex
}

func newLogger(isProduction bool) *zap.Logger {
	if isProduction {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return logger
}

func main() {
	_ = godotenv.Load()

	isProduction := os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
	logger := newLogger(isProduction)
	defer func() { _ = logger.Sync() }()

	cfg := config.Load(logger)
	logger.Info("starting wordlebot",
		zap.Bool("production", cfg.IsProduction),
		zap.Duration("minDelay", cfg.MinDelay),
		zap.Duration("maxDelay", cfg.MaxDelay))

	words := solver.LoadDictionary(filepath.Join(cfg.DataDir, "words.json"), logger)

	store, err := session.NewStore(cfg.SessionsDir, logger)
	if err != nil {
		logger.Fatal("cannot open session store", zap.Error(err))
	}

	registry := session.NewRegistry(store, words,
		cfg.MaxSessionsPerUser, cfg.SessionTimeout, cfg.SweepInterval, logger)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	registry.StartSweeper(sweepCtx)

	pacer := pacing.New(cfg.MinDelay, cfg.MaxDelay, cfg.GameCooldown, nil, nil, logger)

	bot := &handlers.Bot{
		Registry: registry,
		Pacer:    pacer,
		NewSurface: func(key models.SessionKey) surface.GameSurface {
			target := pickTarget(words, logger)
			return surface.NewSimulated(target)
		},
		StartTime: time.Now(),
		Log:       logger,
	}

	app := &App{
		Cfg:        cfg,
		Log:        logger,
		Registry:   registry,
		Bot:        bot,
		LimiterMap: make(map[string]*rateLimiterEntry),
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(securityHeadersMiddleware())
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression))
	router.Use(cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	}))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logger.Warn("cannot set trusted proxies", zap.Error(err))
	}

	router.POST("/connect", app.rateLimitMiddleware(), bot.ConnectHandler)
	router.POST("/disconnect", app.rateLimitMiddleware(), bot.DisconnectHandler)
	router.GET("/sessions", bot.SessionsHandler)
	router.POST("/play", app.rateLimitMiddleware(), bot.PlayHandler)
	router.POST("/stop", app.rateLimitMiddleware(), bot.StopHandler)
	router.GET("/healthz", bot.HealthzHandler)

	app.startCleanupRoutines(sweepCtx)
	app.startServer(router)
}

// pickTarget selects a random target word for the simulated demo surface.
func pickTarget(words []string, logger *zap.Logger) string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		logger.Warn("cannot draw random target, using fallback", zap.Error(err))
		return words[0]
	}
	return words[n.Int64()]
}

func (app *App) startCleanupRoutines(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				app.cleanupStaleRateLimiters()
			}
		}
	}()
}

func (app *App) startServer(router *gin.Engine) {
	srv := &http.Server{
		Addr:              ":" + app.Cfg.Port,
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
		app.Log.Info("shutdown signal received, shutting down gracefully")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			app.Log.Warn("http server shutdown", zap.Error(err))
		}

		app.Registry.Shutdown()
		close(idleConnsClosed)
	}()

	app.Log.Info("server starting", zap.String("port", app.Cfg.Port))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		app.Log.Fatal("server failed to start", zap.Error(err))
	}
	<-idleConnsClosed
	app.Log.Info("server shutdown complete")
}
