// cmd/webhook-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gravity-webhook/internal/common/cache"
	"gravity-webhook/internal/common/config"
	"gravity-webhook/internal/common/logger"
	"gravity-webhook/internal/graph"
	"gravity-webhook/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting webhook server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

	// --- Init handle cache (optional) ---
	// The service works without Redis; an unreachable cache only costs an
	// extra pair of Graph lookups per request.
	var handleStore graph.HandleStore
	if cfg.Cache.Enabled {
		store := cache.New(cfg.Cache.Redis, cfg.Cache.CacheTTL(), log)
		err = retryWithBackoff(func() error {
			return store.Ping(ctx)
		}, 3, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("Redis unavailable, handle caching disabled", zap.Error(err))
			store.Close()
		} else {
			zapLog.Info("Redis connected", zap.String("address", cfg.Cache.Redis.Address))
			handleStore = store
			defer store.Close()
		}
	}

	// --- Init Graph client ---
	tokens := graph.NewClientCredentialsTokenSource(
		cfg.Graph.TenantID,
		cfg.Graph.ClientID,
		cfg.Graph.ClientSecret,
		cfg.Graph.Scope,
	)
	client := graph.NewClient(tokens, cfg.Graph.BaseURL, config.GetDuration(cfg.Graph.Timeout), log)

	resolver := graph.NewResolver(client, handleStore, log)
	writer := graph.NewWriter(client, log)

	srv := server.New(cfg, resolver, writer, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	case sig := <-stop:
		zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}

	zapLog.Info("Webhook server stopped")
}
