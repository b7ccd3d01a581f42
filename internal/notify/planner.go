// Package notify plans weekly payment reminders and hands them to a delivery
// sink. Planning is pure; only the sink has side effects.
package notify

import (
	"time"

	"github.com/shopspring/decimal"

	"paycycle/internal/billing"
	"paycycle/internal/core"
)

const (
	// ScheduleWeeks is the number of Mondays a full-year schedule covers.
	ScheduleWeeks = 52

	DefaultHour   = 9
	DefaultMinute = 0
)

// Reminder is a single fire instant with the amount billed in that week.
type Reminder struct {
	FireAt time.Time       `json:"fire_at"`
	Amount decimal.Decimal `json:"amount"`
}

// WeekStart returns midnight of the Monday the reminder fires on.
func (r Reminder) WeekStart() time.Time {
	return core.StartOfDay(r.FireAt)
}

// Planner computes reminders for Monday at Hour:Minute in Location.
type Planner struct {
	Hour     int
	Minute   int
	Location *time.Location
}

// NewPlanner returns a planner for Monday 09:00 in loc.
func NewPlanner(loc *time.Location) Planner {
	return Planner{Hour: DefaultHour, Minute: DefaultMinute, Location: loc}
}

func (p Planner) valid() bool {
	return p.Hour >= 0 && p.Hour < 24 && p.Minute >= 0 && p.Minute < 60
}

func (p Planner) local(t time.Time) time.Time {
	if p.Location == nil {
		return t.In(time.Local)
	}
	return t.In(p.Location)
}

func (p Planner) reminderAt(entries []core.Entry, fireAt time.Time) (Reminder, bool) {
	amount := billing.WeeklyAmount(entries, core.StartOfDay(fireAt))
	if amount.IsZero() {
		return Reminder{}, false
	}
	return Reminder{FireAt: fireAt, Amount: amount}, true
}

// NextReminder returns the reminder for the first Monday fire time at or
// after now. It reports false when that week bills nothing or the fire time
// cannot be built.
func (p Planner) NextReminder(entries []core.Entry, now time.Time) (Reminder, bool) {
	if !p.valid() {
		return Reminder{}, false
	}
	return p.reminderAt(entries, core.MondayAt(p.local(now), p.Hour, p.Minute, false))
}

// YearSchedule returns the reminders for the 52 Mondays strictly after now,
// in chronological order. Each Monday is derived from the previous one and
// weeks billing nothing are left out.
func (p Planner) YearSchedule(entries []core.Entry, now time.Time) []Reminder {
	if !p.valid() {
		return nil
	}

	var out []Reminder
	for _, fireAt := range p.Mondays(now) {
		if r, ok := p.reminderAt(entries, fireAt); ok {
			out = append(out, r)
		}
	}
	return out
}

// Mondays lists the 52 candidate fire instants strictly after now.
func (p Planner) Mondays(now time.Time) []time.Time {
	if !p.valid() {
		return nil
	}
	mondays := make([]time.Time, 0, ScheduleWeeks)
	next := core.MondayAt(p.local(now), p.Hour, p.Minute, true)
	for i := 0; i < ScheduleWeeks; i++ {
		mondays = append(mondays, next)
		next = time.Date(next.Year(), next.Month(), next.Day()+billing.DaysPerWeek, p.Hour, p.Minute, 0, 0, next.Location())
	}
	return mondays
}
