// Package scheduler runs periodic jobs on a cron clock in the billing
// location. The main job re-plans reminders and re-mirrors the collection
// so that "now" moves forward even when nothing is edited.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"paycycle/internal/log"
)

// DefaultRefreshSpec runs the refresh job every midnight.
const DefaultRefreshSpec = "0 0 * * *"

// jobTimeout bounds a single job run.
const jobTimeout = time.Minute

// Refresher is implemented by services.BillingService.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type Scheduler struct {
	engine *cron.Cron
	logger *log.Logger
}

func New(loc *time.Location, logger *log.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Scheduler{
		engine: cron.New(cron.WithLocation(loc)),
		logger: logger.WithComponent(log.ComponentScheduler),
	}
}

// AddRefresh registers r.Refresh under the cron spec. An empty spec uses
// DefaultRefreshSpec.
func (s *Scheduler) AddRefresh(spec string, r Refresher) error {
	if spec == "" {
		spec = DefaultRefreshSpec
	}
	return s.AddJob("refresh", spec, r.Refresh)
}

// AddJob registers fn under the cron spec. Each run gets its own context
// with a timeout; failures are logged.
func (s *Scheduler) AddJob(name, spec string, fn func(context.Context) error) error {
	_, err := s.engine.AddFunc(spec, func() {
		s.run(name, fn)
	})
	if err != nil {
		return fmt.Errorf("add %s job %q: %w", name, spec, err)
	}
	s.logger.Info("Scheduled job", "job", name, "spec", spec)
	return nil
}

func (s *Scheduler) run(name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := fn(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Scheduled job failed",
			"job", name,
			log.FieldError, err)
		return
	}
	s.logger.DebugContext(ctx, "Scheduled job finished",
		"job", name,
		log.FieldDuration, time.Since(start).Milliseconds())
}

// Len reports the number of registered jobs.
func (s *Scheduler) Len() int {
	return len(s.engine.Entries())
}

func (s *Scheduler) Start() {
	s.engine.Start()
	s.logger.Info("Scheduler started", "jobs", s.Len())
}

// Stop prevents new runs and waits for running jobs to return.
func (s *Scheduler) Stop() {
	<-s.engine.Stop().Done()
	s.logger.Info("Scheduler stopped")
}
