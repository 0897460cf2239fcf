package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"trashday/internal/cache"
	"trashday/internal/cli"
	apphttp "trashday/internal/http"
	applog "trashday/internal/log"
	"trashday/internal/services"
	"trashday/internal/worker"
)

const (
	shutdownTimeout      = 30 * time.Second
	versionCheckInterval = time.Minute
	cacheCleanupInterval = 5 * time.Minute
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	res := cli.InitBackend(context.Background(), logger, cfg)
	defer res.Close()

	provider := services.NewDatasetProvider(res.Loader, res.Type.String(), cfg.DatasetCacheTTL)

	cacheManager := cache.NewManager()
	cacheManager.Register(provider.Cache())
	cacheManager.StartCleanup(cacheCleanupInterval)

	explorer := services.NewExplorer(provider, cfg.MapStyle)
	srv := apphttp.NewServer(apphttp.Config{
		Addr:               ":" + cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Store:              res.Store,
	}, explorer, provider, logger.WithComponent(applog.ComponentHTTP))

	amqpClient := cli.InitAMQP(logger, cfg)

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cacheManager.Stop()
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("AMQP close error", applog.FieldError, err)
			}
		}
	})

	reloader := worker.NewReloadWorker(provider, res.Versions)
	if err := reloader.StartupCheck(ctx); err != nil {
		// The first request retries the load; pages answer 503 until it succeeds.
		logger.Warn("Initial dataset load failed",
			applog.FieldBackend, res.Type,
			applog.FieldError, err)
	}
	go reloader.Run(ctx, versionCheckInterval)

	if amqpClient != nil {
		go func() {
			if err := amqpClient.ConsumeDatasetUpdates(ctx, reloader.HandleDatasetUpdated); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Dataset update consumer stopped", applog.FieldError, err)
			}
		}()
	}

	logger.Info("Starting trashday server",
		"port", cfg.Port,
		applog.FieldBackend, res.Type,
		"rate_limit_per_minute", cfg.RateLimitPerMinute)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
