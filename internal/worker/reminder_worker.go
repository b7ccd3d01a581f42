// Package worker holds the consumer side of the reminder queue: it keeps the
// schedule received from the billing service and delivers each reminder once
// its fire time has passed.
package worker

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"paycycle/internal/amqp"
	"paycycle/internal/log"
	"paycycle/internal/notify"
)

// Deliverer shows a reminder to the user.
type Deliverer interface {
	Deliver(ctx context.Context, n notify.Notification) error
}

// LogDeliverer writes reminders to the log. It is the default deliverer for
// headless installs.
type LogDeliverer struct {
	Logger *log.Logger
}

func (d LogDeliverer) Deliver(ctx context.Context, n notify.Notification) error {
	d.Logger.InfoContext(ctx, n.Title,
		"body", n.Body,
		log.FieldFireAt, n.FireAt.Format(time.RFC3339),
		log.FieldAmount, n.Amount.String())
	return nil
}

// ReminderWorker holds the pending schedule. Every batch replaces it whole.
type ReminderWorker struct {
	mu        sync.Mutex
	mode      notify.Mode
	pending   []notify.Notification
	delivered int
	gen       int
	latest    time.Time
	deliverer Deliverer
	now       func() time.Time
	logger    *log.Logger
}

var _ notify.Sink = (*ReminderWorker)(nil)

func NewReminderWorker(deliverer Deliverer, logger *log.Logger) *ReminderWorker {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentNotify)
	if deliverer == nil {
		deliverer = LogDeliverer{Logger: logger}
	}
	return &ReminderWorker{
		mode:      notify.ModeOff,
		deliverer: deliverer,
		now:       time.Now,
		logger:    logger,
	}
}

// HandleBatch installs a batch consumed from the queue. Several publishers
// may share the queue, so a batch generated before the installed one is
// dropped.
func (w *ReminderWorker) HandleBatch(ctx context.Context, batch *amqp.ReminderBatch) error {
	if batch == nil {
		return fmt.Errorf("nil reminder batch")
	}
	if !w.install(batch.Mode, batch.Notifications(), batch.GeneratedAt) {
		w.logger.WarnContext(ctx, "Skipping outdated reminder batch",
			log.FieldMode, batch.Mode,
			"generated_at", batch.GeneratedAt.Format(time.RFC3339Nano))
		return nil
	}
	w.logger.InfoContext(ctx, "Installed reminder batch",
		log.FieldMode, batch.Mode,
		log.FieldReminders, len(batch.Reminders),
		"generated_at", batch.GeneratedAt.Format(time.RFC3339Nano))
	return nil
}

// Replace clears the pending schedule and installs notifications in fire
// order. Off mode always leaves it empty.
func (w *ReminderWorker) Replace(_ context.Context, mode notify.Mode, notifications []notify.Notification) error {
	w.install(mode, notifications, time.Time{})
	return nil
}

// install swaps the pending set unless generatedAt is older than the last
// stamped install. A zero generatedAt is always installed.
func (w *ReminderWorker) install(mode notify.Mode, notifications []notify.Notification, generatedAt time.Time) bool {
	pending := make([]notify.Notification, 0, len(notifications))
	if mode != notify.ModeOff {
		pending = append(pending, notifications...)
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].FireAt.Before(pending[j].FireAt)
	})

	w.mu.Lock()
	defer w.mu.Unlock()
	if !generatedAt.IsZero() {
		if generatedAt.Before(w.latest) {
			return false
		}
		w.latest = generatedAt
	}
	w.mode = mode
	w.pending = pending
	w.gen++
	return true
}

// DeliverDue hands every reminder whose fire time has passed to the
// deliverer. Reminders that fail stay pending for the next run.
func (w *ReminderWorker) DeliverDue(ctx context.Context) error {
	now := w.now()

	w.mu.Lock()
	gen := w.gen
	var due, rest []notify.Notification
	for _, n := range w.pending {
		if n.FireAt.After(now) {
			rest = append(rest, n)
		} else {
			due = append(due, n)
		}
	}
	w.pending = rest
	w.mu.Unlock()

	var failed []notify.Notification
	var firstErr error
	for _, n := range due {
		if err := w.deliverer.Deliver(ctx, n); err != nil {
			w.logger.ErrorContext(ctx, "Failed to deliver reminder",
				log.FieldFireAt, n.FireAt.Format(time.RFC3339),
				log.FieldError, err)
			failed = append(failed, n)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		w.mu.Lock()
		w.delivered++
		w.mu.Unlock()
	}

	if len(failed) > 0 {
		w.mu.Lock()
		// a batch installed meanwhile supersedes the failed ones
		if w.gen == gen {
			w.pending = append(failed, w.pending...)
		}
		w.mu.Unlock()
		return fmt.Errorf("deliver %d reminders: %w", len(failed), firstErr)
	}
	return nil
}

// Pending returns the reminders not yet delivered, in fire order.
func (w *ReminderWorker) Pending() []notify.Notification {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]notify.Notification(nil), w.pending...)
}

func (w *ReminderWorker) Mode() notify.Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

// Delivered counts successful deliveries.
func (w *ReminderWorker) Delivered() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.delivered
}
