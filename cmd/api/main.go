package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iamasit07/connect-four/internal/config"
	"github.com/iamasit07/connect-four/internal/repository/postgres"
	"github.com/iamasit07/connect-four/internal/repository/redis"
	"github.com/iamasit07/connect-four/internal/service/bot"
	"github.com/iamasit07/connect-four/internal/service/cleanup"
	"github.com/iamasit07/connect-four/internal/service/game"
	transportHttp "github.com/iamasit07/connect-four/internal/transport/http"
	"github.com/iamasit07/connect-four/internal/transport/websocket"
	"github.com/iamasit07/connect-four/pkg/auth"
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("JWT_SECRET is the built-in default, set it in production")
	}

	// Search engine, optionally behind the recommendation cache
	weights := bot.DefaultWeights()
	weights.NearWin, weights.Center = cfg.AINearWinWeight, cfg.AICenterWeight
	var search bot.Strategy = bot.NewMinimax(bot.Config{Weights: weights, Parallel: cfg.AIParallel}, logger)

	if cfg.RedisURL != "" {
		redisCfg := redis.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.Password = cfg.RedisPassword
		redisCfg.TTL = cfg.RecommendationTTL()

		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			logger.Warn("redis unavailable, recommendations are not cached", zap.Error(err))
		} else {
			cache := redis.NewWithClient(client, redisCfg)
			defer cache.Close()
			search = bot.NewCached(search, cache, logger)
			logger.Info("recommendation cache enabled")
		}
	}
	registry := bot.NewRegistry(bot.NewEasy(cfg.AISeed), search, cfg.AIDepth)

	// Finished-game archive
	var (
		archive game.GameRepository
		history *transportHttp.HistoryHandler
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, postgres.Config{
			URL:             cfg.DatabaseURL,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime(),
		})
		if err != nil {
			logger.Fatal("database unreachable", zap.Error(err))
		}
		defer db.Close()

		logger.Info("running database migrations")
		if err := postgres.RunMigrations(ctx, db); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}

		gameRepo := postgres.NewGameRepo(db)
		archive = gameRepo
		history = transportHttp.NewHistoryHandler(gameRepo, logger)
	} else {
		logger.Warn("DATABASE_URL not set, finished games are not archived")
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.GameTokenTTL())
	sessionManager := game.NewSessionManager(registry, archive, logger)

	connManager := websocket.NewConnectionManager()
	sessionManager.SetListener(connManager.Broadcast)
	wsHandler := websocket.NewHandler(sessionManager, tokens, connManager, cfg.AllowedOrigins(), logger)

	cleanupWorker := cleanup.NewWorker(sessionManager, cfg.CleanupInterval(), cfg.SessionIdle(), logger)
	go cleanupWorker.Run(ctx)

	router := transportHttp.NewRouter(transportHttp.RouterConfig{
		Games:          transportHttp.NewGameHandler(sessionManager, tokens, logger),
		History:        history,
		WebSocket:      wsHandler.HandleWebSocket,
		Tokens:         tokens,
		AllowedOrigins: cfg.AllowedOrigins(),
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("server is shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	// let in-flight archive writes finish before the database closes
	sessionManager.Wait()

	logger.Info("server exited gracefully")
}
