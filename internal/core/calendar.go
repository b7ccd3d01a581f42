package core

import "time"

// Calendar supplies "now" and the local time zone to the billing functions.
// Weeks start on Monday.
type Calendar interface {
	Now() time.Time
	Location() *time.Location
}

// SystemCalendar reads the wall clock in a fixed location.
type SystemCalendar struct {
	Loc *time.Location
}

// NewSystemCalendar returns a calendar in loc, or time.Local when loc is nil.
func NewSystemCalendar(loc *time.Location) SystemCalendar {
	if loc == nil {
		loc = time.Local
	}
	return SystemCalendar{Loc: loc}
}

func (c SystemCalendar) Now() time.Time           { return time.Now().In(c.Location()) }
func (c SystemCalendar) Location() *time.Location { return orLocal(c.Loc) }

// FixedCalendar always returns the same instant. Used for forward projection
// and in tests.
type FixedCalendar struct {
	At time.Time
}

func (c FixedCalendar) Now() time.Time           { return c.At }
func (c FixedCalendar) Location() *time.Location { return orLocal(c.At.Location()) }

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

// StartOfDay returns midnight of t's date in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NextMidnight returns midnight of the day after t.
func NextMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	delta := (int(t.Weekday()) - int(time.Monday) + 7) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-delta, 0, 0, 0, 0, t.Location())
}

// MondayAt returns the Monday hour:minute on or after t. When strict is set
// an instant equal to t is skipped and the following Monday is returned.
func MondayAt(t time.Time, hour, minute int, strict bool) time.Time {
	monday := StartOfWeek(t)
	candidate := time.Date(monday.Year(), monday.Month(), monday.Day(), hour, minute, 0, 0, t.Location())
	if candidate.Before(t) || (strict && candidate.Equal(t)) {
		candidate = time.Date(monday.Year(), monday.Month(), monday.Day()+7, hour, minute, 0, 0, t.Location())
	}
	return candidate
}

// DateOf returns the calendar date of t at midnight in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t.In(orLocal(loc)))
}
