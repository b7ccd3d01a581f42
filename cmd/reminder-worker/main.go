// Command reminder-worker is the headless planner: it loads the collection
// from the configured backend and publishes the reminder batch to AMQP on
// start and on every refresh tick.
package main

import (
	"context"
	"os"

	"paycycle/internal/cli"
	"paycycle/internal/log"
	"paycycle/internal/scheduler"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentNotify)
	logger.Info("Starting reminder-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required by reminder-worker",
			"error_type", log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	app, err := cli.NewApp(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize billing service", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Publishing initial reminder batch",
		log.FieldMode, string(cfg.Mode()),
		log.FieldEntries, len(app.Service.Entries()))
	if err := app.Service.Refresh(context.Background()); err != nil {
		logger.Error("Initial refresh failed", log.FieldError, err)
	}

	sched := scheduler.New(cfg.Location(), logger)
	if err := sched.AddRefresh(cfg.RefreshCron, app.Service); err != nil {
		logger.Error("Failed to schedule refresh", log.FieldError, err)
		app.Close()
		os.Exit(1)
	}
	sched.Start()

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(context.Context) {
		sched.Stop()
		if err := app.Close(); err != nil {
			logger.Error("Failed to release backend", log.FieldError, err)
		}
	})
	cli.WaitForShutdown(ctx, done)
	logger.Info("reminder-worker stopped")
}
