package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"locator_backend/internal/device"
	"locator_backend/internal/geocode"
	apphttp "locator_backend/internal/http"
	"locator_backend/internal/http/router"
	"locator_backend/internal/locator"
	"locator_backend/internal/locator/history"
	"locator_backend/internal/places"
	"locator_backend/platform/config"
	"locator_backend/platform/logger"
	"locator_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	store, closeStore := initHistoryStore(ctx, cfg, log)
	if closeStore != nil {
		defer closeStore()
	}

	if cfg.MapsAPIKey == "" {
		log.Warn("GOOGLE_MAPS_API_KEY not configured; place search and device locate will be unavailable")
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	geocodeClient := geocode.New(cfg.MapsAPIKey, log)
	deviceClient := device.New(cfg.MapsAPIKey, log)
	placesClient := places.New(cfg.MapsAPIKey, cfg.SearchCountry, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	placesModule := places.NewModule(placesClient)
	locatorModule := locator.NewModule(store, placesClient, geocodeClient, deviceClient, cfg, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: store,
		Modules: []apphttp.Module{
			placesModule,
			locatorModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initHistoryStore connects the Redis-backed recent-locations store, or
// falls back to a process-local store when no Redis is configured. The
// fallback keeps the lookup flow working; only persistence across
// restarts is lost.
func initHistoryStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (history.Store, func()) {
	if cfg.RedisURL == "" {
		log.Warn("REDIS_URL not configured; recent locations will not survive a restart")
		return history.NewMemory(cfg.HistoryLimit), nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Error("invalid REDIS_URL", "error", err)
		panic("invalid REDIS_URL: " + err.Error())
	}

	client := redis.NewClient(opt)
	if err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		log.Error("failed to connect to redis", "error", err)
		panic("failed to connect to redis: " + err.Error())
	}
	log.Info("redis connection established", "key", cfg.HistoryKey)

	store := history.NewRedis(ctx, client, cfg.HistoryKey, cfg.HistoryLimit, log)
	return store, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
