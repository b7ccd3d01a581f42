// Package billing computes period totals, outstanding amounts and weekly
// projections over a collection of entries. Every function is pure: it takes
// the entries and a reference instant and keeps no state between calls.
//
// This file holds the per-cycle matching rules. Each cycle kind has its own
// matcher so the aggregators never branch on the encoding themselves.
package billing

import (
	"fmt"
	"time"

	"paycycle/internal/core"
)

// DueMatcher decides how a cycle relates to a calendar date.
type DueMatcher interface {
	// InPeriod reports whether the cycle is billed in the month of d.
	InPeriod(c core.Cycle, d time.Time) bool
	// PaidBefore reports whether the cycle fell due in d's month on a day
	// strictly before d. A payment due on d itself is not yet paid.
	PaidBefore(c core.Cycle, d time.Time) bool
	// FallsOn reports whether the cycle is due on the calendar date d.
	FallsOn(c core.Cycle, d time.Time) bool
}

// MonthlyMatcher bills every month on the cycle's day.
type MonthlyMatcher struct{}

func (MonthlyMatcher) InPeriod(core.Cycle, time.Time) bool { return true }

func (MonthlyMatcher) PaidBefore(c core.Cycle, d time.Time) bool {
	return c.Day < d.Day()
}

func (MonthlyMatcher) FallsOn(c core.Cycle, d time.Time) bool {
	return d.Day() == c.Day
}

// YearlyMatcher bills once a year on the cycle's month and day.
type YearlyMatcher struct{}

func (YearlyMatcher) InPeriod(c core.Cycle, d time.Time) bool {
	return int(d.Month()) == c.Month
}

func (YearlyMatcher) PaidBefore(c core.Cycle, d time.Time) bool {
	return int(d.Month()) == c.Month && c.Day < d.Day()
}

func (YearlyMatcher) FallsOn(c core.Cycle, d time.Time) bool {
	return int(d.Month()) == c.Month && d.Day() == c.Day
}

var dueMatchers = map[core.CycleKind]DueMatcher{
	core.Monthly: MonthlyMatcher{},
	core.Yearly:  YearlyMatcher{},
}

// GetDueMatcher returns the matcher for a cycle kind.
func GetDueMatcher(kind core.CycleKind) (DueMatcher, error) {
	m, ok := dueMatchers[kind]
	if !ok {
		return nil, fmt.Errorf("unknown cycle kind: %s", kind)
	}
	return m, nil
}

func matcherFor(c core.Cycle) DueMatcher {
	return dueMatchers[c.Kind()]
}
