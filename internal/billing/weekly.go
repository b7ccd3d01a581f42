package billing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"paycycle/internal/core"
)

// DaysPerWeek is the length of a billing week.
const DaysPerWeek = 7

// Week is a Monday through Sunday billing week.
type Week struct {
	Start time.Time `json:"start"`
}

// WeekOf returns the billing week containing t.
func WeekOf(t time.Time) Week {
	return Week{Start: core.StartOfWeek(t)}
}

// Day returns midnight of the i-th day of the week, counting from zero.
func (w Week) Day(i int) time.Time {
	s := w.Start
	return time.Date(s.Year(), s.Month(), s.Day()+i, 0, 0, 0, 0, s.Location())
}

// End returns midnight of the week's Sunday.
func (w Week) End() time.Time {
	return w.Day(DaysPerWeek - 1)
}

// Days walks the seven real calendar dates of the week.
func (w Week) Days() []time.Time {
	days := make([]time.Time, DaysPerWeek)
	for i := range days {
		days[i] = w.Day(i)
	}
	return days
}

// Next returns the following week.
func (w Week) Next() Week {
	return Week{Start: w.Day(DaysPerWeek)}
}

// Contains reports whether t falls on one of the week's dates.
func (w Week) Contains(t time.Time) bool {
	t = t.In(w.Start.Location())
	return !t.Before(w.Start) && t.Before(w.Day(DaysPerWeek))
}

// Due is an entry falling on a specific date.
type Due struct {
	Date  time.Time  `json:"date"`
	Entry core.Entry `json:"entry"`
}

// DueInWeek lists the entries due during the seven days starting at
// weekStart, ordered by date. Each entry appears at most once.
func DueInWeek(entries []core.Entry, weekStart time.Time) []Due {
	week := Week{Start: core.StartOfDay(weekStart)}
	days := week.Days()

	var out []Due
	for _, e := range entries {
		m := matcherFor(e.Cycle)
		for _, day := range days {
			if m.FallsOn(e.Cycle, day) {
				out = append(out, Due{Date: day, Entry: e})
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// WeeklyAmount sums the entries due in the seven days starting at weekStart.
// Each candidate date is matched against its own month, so a week crossing a
// month or year boundary is handled.
func WeeklyAmount(entries []core.Entry, weekStart time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, d := range DueInWeek(entries, weekStart) {
		total = total.Add(d.Entry.Amount)
	}
	return total
}
