package cli

import (
	"context"
	"fmt"

	"paycycle/internal/backend"
	"paycycle/internal/config"
	"paycycle/internal/core"
	"paycycle/internal/log"
	"paycycle/internal/notify"
	"paycycle/internal/services"
	"paycycle/internal/store"
)

// App is a billing service assembled from configuration together with the
// backend it runs on.
type App struct {
	Config  *config.Config
	Backend *backend.BackendResult
	Service *services.BillingService

	stop func()
}

// NewApp opens the configured backend, loads the collection and starts the
// billing service. Close releases everything.
func NewApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", bcfg.Type, err)
	}

	st, err := store.Open(ctx, res.Repository, logger)
	if err != nil {
		res.Close()
		return nil, fmt.Errorf("load entries: %w", err)
	}

	loc := cfg.Location()
	cur := core.NewCurrency(cfg.Currency, cfg.Locale)
	planner := notify.Planner{Hour: cfg.ReminderHour, Minute: cfg.ReminderMinute, Location: loc}

	svc := services.NewBillingService(services.Deps{
		Store:      st,
		Calendar:   core.NewSystemCalendar(loc),
		Planner:    planner,
		Dispatcher: notify.NewDispatcher(planner, res.Sink, cfg.Mode(), cur, logger),
		Mirror:     res.Mirror,
		Currency:   cur,
		Logger:     logger,
	})

	logger.Info("Billing service ready",
		"backend", bcfg.Type.String(),
		log.FieldEntries, st.Len(),
		"reminder_mode", string(cfg.Mode()),
		"timezone", loc.String(),
		"mirror", cfg.MirrorEnabled(),
		"amqp", cfg.AMQPURL != "")

	return &App{
		Config:  cfg,
		Backend: res,
		Service: svc,
		stop:    svc.Start(),
	}, nil
}

// Close stops change propagation and releases the backend.
func (a *App) Close() error {
	if a.stop != nil {
		a.stop()
	}
	return a.Backend.Close()
}
