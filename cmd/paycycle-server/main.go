// Command paycycle-server serves the billing API and keeps reminders and the
// spreadsheet mirror refreshed on a schedule.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"paycycle/internal/cli"
	apphttp "paycycle/internal/http"
	"paycycle/internal/log"
	"paycycle/internal/scheduler"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	logger.Info("Starting paycycle server")

	cfg := cli.LoadAndValidateConfig(logger)

	app, err := cli.NewApp(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize billing service",
			log.FieldError, err,
			log.FieldBackend, cfg.DataBackend,
			"error_type", log.ErrorTypeDatabase)
		os.Exit(1)
	}

	if cfg.RefreshOnStart {
		if err := app.Service.Refresh(context.Background()); err != nil {
			logger.Warn("Initial refresh failed", log.FieldError, err)
		}
	}

	sched := scheduler.New(cfg.Location(), logger)
	if err := sched.AddRefresh(cfg.RefreshCron, app.Service); err != nil {
		logger.Error("Failed to schedule refresh", log.FieldError, err)
		app.Close()
		os.Exit(1)
	}
	sched.Start()

	srv := apphttp.NewServer(":"+cfg.Port, app.Service, logger)

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		sched.Stop()
		if err := app.Close(); err != nil {
			logger.Error("Failed to release backend", log.FieldError, err)
		}
	})

	go func() {
		logger.Info("Listening",
			"port", cfg.Port,
			log.FieldBackend, cfg.DataBackend,
			log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
