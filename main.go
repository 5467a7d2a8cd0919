package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"mingle/auth"
	"mingle/config"
	"mingle/db"
	"mingle/filemgr"
	"mingle/logging"
	"mingle/middleware"
	"mingle/mq"
	"mingle/posts"
	"mingle/profile"
	"mingle/ratelim"
	"mingle/rdx"
	"mingle/routes"
)

func openStore(ctx context.Context, cfg config.Config) (db.Store, error) {
	if cfg.Store == config.StoreMemory {
		return db.NewMemory(), nil
	}
	return db.Connect(ctx, cfg.MongoURL, cfg.MongoDB, cfg.DBTimeout)
}

func openRedis(ctx context.Context, cfg config.Config) (*rdx.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}
	return rdx.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
}

// newHandler applies the outer middleware: security headers → access log → CORS → body ceiling → router.
func newHandler(cfg config.Config, router http.Handler, logger *zap.Logger) http.Handler {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(middleware.MaxBody(cfg.MaxBodyBytes, router))

	return middleware.SecurityHeaders(logging.AccessLog(logger, corsHandler))
}

func main() {
	// load .env if present
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// the logger level comes from config, so this one failure goes to a default logger
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}

	logger, err := logging.New(cfg.Development(), cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("build logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()
	if envErr != nil {
		logger.Info("no .env file found; using system environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("open store", zap.String("store", cfg.Store), zap.Error(err))
	}
	redis, err := openRedis(ctx, cfg)
	if err != nil {
		logger.Fatal("connect redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	if redis == nil {
		logger.Warn("REDIS_ADDR not set; token revocation, user cache and events are disabled")
	}

	uploader, err := filemgr.NewUploader(cfg.UploadDir, logger)
	if err != nil {
		logger.Fatal("prepare upload dir", zap.String("dir", cfg.UploadDir), zap.Error(err))
	}

	events := mq.NewEmitter(redis, logger)
	go events.StartWorker(ctx, events.LogEvent)

	rateLimiter := ratelim.NewRateLimiter(cfg.AuthRate, cfg.AuthBurst)
	go rateLimiter.Cleanup(ctx, time.Minute)

	tokens := middleware.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	router := routes.RoutesWrapper(routes.Deps{
		Authn:     middleware.NewAuthenticator(tokens, redis, logger),
		Auth:      auth.NewHandler(auth.NewService(store, tokens, redis, events, logger), uploader, logger),
		Profile:   profile.NewHandler(profile.NewService(store, redis, events, logger), uploader, logger),
		Posts:     posts.NewHandler(posts.NewService(store, store, redis, events, logger), uploader, logger),
		Users:     store,
		UploadDir: uploader.Dir(),
		Logger:    logger,
	}, rateLimiter)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newHandler(cfg, router, logger),
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr()), zap.String("store", cfg.Store))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received; shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	// close the store and redis after in-flight requests drain
	if err := store.Close(shutdownCtx); err != nil {
		logger.Error("close store", zap.Error(err))
	}
	if err := redis.Close(); err != nil {
		logger.Error("close redis", zap.Error(err))
	}
	logger.Info("server stopped cleanly")
}
