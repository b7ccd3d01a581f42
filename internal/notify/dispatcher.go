package notify

import (
	"context"
	"fmt"
	"time"

	"paycycle/internal/core"
	"paycycle/internal/log"
)

// ReminderTitle is the heading of every weekly reminder.
const ReminderTitle = "This week's upcoming payments"

// Compose renders the user-facing text of a reminder.
func Compose(r Reminder, cur core.Currency) Notification {
	return Notification{
		FireAt: r.FireAt,
		Amount: r.Amount,
		Title:  ReminderTitle,
		Body:   fmt.Sprintf("%s will be charged this week.", cur.Format(r.Amount)),
	}
}

// Dispatcher plans reminders for the configured mode and installs them.
type Dispatcher struct {
	planner  Planner
	sink     Sink
	mode     Mode
	currency core.Currency
	logger   *log.Logger
}

func NewDispatcher(planner Planner, sink Sink, mode Mode, cur core.Currency, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Discard()
	}
	return &Dispatcher{
		planner:  planner,
		sink:     sink,
		mode:     mode,
		currency: cur,
		logger:   logger.WithComponent(log.ComponentNotify),
	}
}

// Mode returns the dispatcher's install mode.
func (d *Dispatcher) Mode() Mode { return d.mode }

// Plan computes the notifications for the mode without installing them.
func (d *Dispatcher) Plan(entries []core.Entry, now time.Time) []Notification {
	var reminders []Reminder
	switch d.mode {
	case ModeSingle:
		if r, ok := d.planner.NextReminder(entries, now); ok {
			reminders = append(reminders, r)
		}
	case ModeYear:
		reminders = d.planner.YearSchedule(entries, now)
	}

	out := make([]Notification, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, Compose(r, d.currency))
	}
	return out
}

// Refresh replaces the outstanding reminders with a fresh plan.
func (d *Dispatcher) Refresh(ctx context.Context, entries []core.Entry, now time.Time) ([]Notification, error) {
	planned := d.Plan(entries, now)
	if err := d.sink.Replace(ctx, d.mode, planned); err != nil {
		d.logger.ErrorContext(ctx, "Failed to install reminders",
			log.FieldMode, d.mode,
			log.FieldError, err)
		return nil, fmt.Errorf("install %s reminders: %w", d.mode, err)
	}

	fields := []any{log.FieldMode, d.mode, log.FieldReminders, len(planned), log.FieldEntries, len(entries)}
	if len(planned) > 0 {
		fields = append(fields, log.FieldFireAt, planned[0].FireAt.Format(time.RFC3339))
	}
	d.logger.InfoContext(ctx, "Reminders replanned", fields...)
	return planned, nil
}
