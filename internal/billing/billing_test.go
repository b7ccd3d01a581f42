package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"paycycle/internal/core"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(t *testing.T, code string, amount int64) core.Entry {
	t.Helper()
	c, err := core.ParseCycle(code)
	if err != nil {
		t.Fatalf("ParseCycle(%q): %v", code, err)
	}
	return core.NewEntry(core.EntryInput{
		Genre:  core.GenreOthers,
		Title:  "entry " + code,
		Cycle:  c,
		Amount: decimal.NewFromInt(amount),
	})
}

func assertAmount(t *testing.T, name string, got decimal.Decimal, want int64) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("%s = %s, want %d", name, got, want)
	}
}

func TestPeriodAggregation(t *testing.T) {
	entries := []core.Entry{
		entry(t, "0015", 1000),
		entry(t, "0320", 5000),
	}

	tests := []struct {
		name          string
		date          time.Time
		wantTotal     int64
		wantRemaining int64
	}{
		{"before both due dates", date(2024, time.March, 10), 6000, 6000},
		{"monthly already paid", date(2024, time.March, 16), 6000, 5000},
		{"due today is still remaining", date(2024, time.March, 15), 6000, 6000},
		{"everything paid", date(2024, time.March, 21), 6000, 0},
		{"yearly outside its month", date(2024, time.April, 10), 1000, 1000},
		{"first of month", date(2024, time.March, 1), 6000, 6000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAmount(t, "TotalForPeriod()", TotalForPeriod(entries, tt.date), tt.wantTotal)
			assertAmount(t, "RemainingForPeriod()", RemainingForPeriod(entries, tt.date), tt.wantRemaining)

			s := Summarize(entries, tt.date)
			assertAmount(t, "Summarize().Total", s.Total, tt.wantTotal)
			assertAmount(t, "Summarize().Paid()", s.Paid(), tt.wantTotal-tt.wantRemaining)
		})
	}
}

func TestMonthlyRemainingNeverExceedsTotal(t *testing.T) {
	entries := []core.Entry{
		entry(t, "0001", 100),
		entry(t, "0010", 200),
		entry(t, "0028", 300),
		entry(t, "0031", 400),
	}
	for day := 1; day <= 31; day++ {
		d := date(2024, time.January, day)
		total := TotalForPeriod(entries, d)
		remaining := RemainingForPeriod(entries, d)
		if remaining.GreaterThan(total) {
			t.Fatalf("day %d: remaining %s > total %s", day, remaining, total)
		}
		if day == 1 && !remaining.Equal(total) {
			t.Fatalf("day 1: remaining %s != total %s", remaining, total)
		}
	}
}

func TestTotalIgnoresYearlyEntriesOfOtherMonths(t *testing.T) {
	entries := []core.Entry{entry(t, "0005", 900)}
	d := date(2024, time.June, 3)
	before := TotalForPeriod(entries, d)

	entries = append(entries, entry(t, "0705", 12000), entry(t, "1201", 3000))
	after := TotalForPeriod(entries, d)
	if !before.Equal(after) {
		t.Errorf("TotalForPeriod() changed from %s to %s", before, after)
	}
}

func TestImpossibleDayCountsInTotalOnly(t *testing.T) {
	entries := []core.Entry{entry(t, "0230", 700)}
	d := date(2024, time.February, 29)

	assertAmount(t, "TotalForPeriod()", TotalForPeriod(entries, d), 700)
	assertAmount(t, "RemainingForPeriod()", RemainingForPeriod(entries, d), 700)
	assertAmount(t, "WeeklyAmount()", WeeklyAmount(entries, date(2024, time.February, 26)), 0)
}

func TestEmptyCollection(t *testing.T) {
	d := date(2024, time.March, 10)
	assertAmount(t, "TotalForPeriod()", TotalForPeriod(nil, d), 0)
	assertAmount(t, "RemainingForPeriod()", RemainingForPeriod(nil, d), 0)
	assertAmount(t, "WeeklyAmount()", WeeklyAmount(nil, d), 0)
	if got := DueInWeek(nil, d); len(got) != 0 {
		t.Errorf("DueInWeek() = %v, want empty", got)
	}
}

func TestWeeklyAmount(t *testing.T) {
	tests := []struct {
		name      string
		codes     map[string]int64
		weekStart time.Time
		want      int64
	}{
		{
			name:      "week crossing month boundary",
			codes:     map[string]int64{"0001": 1000},
			weekStart: date(2024, time.February, 26),
			want:      1000,
		},
		{
			name:      "monthly day outside the window",
			codes:     map[string]int64{"0010": 1000},
			weekStart: date(2024, time.February, 26),
			want:      0,
		},
		{
			name:      "yearly in window",
			codes:     map[string]int64{"0301": 5000, "0401": 9000},
			weekStart: date(2024, time.February, 26),
			want:      5000,
		},
		{
			name:      "week crossing year boundary",
			codes:     map[string]int64{"0101": 100, "0031": 20, "0002": 3, "1230": 4000, "0015": 50000},
			weekStart: date(2024, time.December, 30),
			want:      4123,
		},
		{
			name:      "day 31 skipped in a 30 day month",
			codes:     map[string]int64{"0031": 10},
			weekStart: date(2024, time.April, 29),
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []core.Entry
			for code, amount := range tt.codes {
				entries = append(entries, entry(t, code, amount))
			}
			assertAmount(t, "WeeklyAmount()", WeeklyAmount(entries, tt.weekStart), tt.want)
		})
	}
}

func TestDueInWeekOrderedByDate(t *testing.T) {
	entries := []core.Entry{
		entry(t, "0003", 30),
		entry(t, "0029", 10),
		entry(t, "0301", 20),
	}
	got := DueInWeek(entries, date(2024, time.February, 26))
	if len(got) != 3 {
		t.Fatalf("DueInWeek() returned %d items, want 3", len(got))
	}
	wantDays := []time.Time{
		date(2024, time.February, 29),
		date(2024, time.March, 1),
		date(2024, time.March, 3),
	}
	for i, d := range got {
		if !d.Date.Equal(wantDays[i]) {
			t.Errorf("DueInWeek()[%d].Date = %v, want %v", i, d.Date, wantDays[i])
		}
	}
}

func TestWeek(t *testing.T) {
	w := WeekOf(time.Date(2024, time.March, 7, 18, 30, 0, 0, time.UTC))
	if !w.Start.Equal(date(2024, time.March, 4)) {
		t.Errorf("WeekOf().Start = %v, want 2024-03-04", w.Start)
	}
	if !w.End().Equal(date(2024, time.March, 10)) {
		t.Errorf("End() = %v, want 2024-03-10", w.End())
	}
	if !w.Next().Start.Equal(date(2024, time.March, 11)) {
		t.Errorf("Next().Start = %v, want 2024-03-11", w.Next().Start)
	}
	if days := w.Days(); len(days) != DaysPerWeek || days[0].Weekday() != time.Monday || days[6].Weekday() != time.Sunday {
		t.Errorf("Days() = %v", days)
	}
	if !w.Contains(time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC)) {
		t.Error("Contains(Sunday night) = false, want true")
	}
	if w.Contains(date(2024, time.March, 11)) {
		t.Error("Contains(next Monday) = true, want false")
	}

	sunday := WeekOf(date(2024, time.March, 10))
	if !sunday.Start.Equal(date(2024, time.March, 4)) {
		t.Errorf("WeekOf(Sunday).Start = %v, want 2024-03-04", sunday.Start)
	}
}

func TestWidgetTimeline(t *testing.T) {
	entries := []core.Entry{entry(t, "0015", 1000), entry(t, "0320", 5000)}
	now := time.Date(2024, time.March, 15, 14, 0, 0, 0, time.UTC)

	got := WidgetTimeline(entries, now)
	if len(got) != 2 {
		t.Fatalf("WidgetTimeline() returned %d entries, want 2", len(got))
	}
	if !got[0].At.Equal(now) {
		t.Errorf("first entry at %v, want %v", got[0].At, now)
	}
	if want := date(2024, time.March, 16); !got[1].At.Equal(want) {
		t.Errorf("second entry at %v, want %v", got[1].At, want)
	}
	assertAmount(t, "now remaining", got[0].Summary.Remaining, 6000)
	assertAmount(t, "midnight remaining", got[1].Summary.Remaining, 5000)
}

func TestGetDueMatcher(t *testing.T) {
	if _, err := GetDueMatcher(core.Monthly); err != nil {
		t.Errorf("GetDueMatcher(monthly) error = %v", err)
	}
	if _, err := GetDueMatcher(core.Yearly); err != nil {
		t.Errorf("GetDueMatcher(yearly) error = %v", err)
	}
	if _, err := GetDueMatcher(core.CycleKind("weekly")); err == nil {
		t.Error("GetDueMatcher(weekly) expected error")
	}
}
