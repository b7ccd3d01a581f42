package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"paycycle/internal/billing"
	"paycycle/internal/core"
	ports "paycycle/internal/sheets"
)

func TestMirrorEntries(t *testing.T) {
	m := New()
	e := core.NewEntry(core.EntryInput{
		Genre:  core.GenreMembership,
		Title:  "Gym",
		Cycle:  core.MonthlyCycle(5),
		Amount: decimal.RequireFromString("39.9"),
	})

	if err := m.MirrorEntries(context.Background(), []core.Entry{e}); err != nil {
		t.Fatalf("MirrorEntries() error = %v", err)
	}
	rows := m.Rows()
	if len(rows) != 2 {
		t.Fatalf("Rows() = %d rows, want 2", len(rows))
	}
	if rows[0][0] != ports.EntryHeader[0] {
		t.Errorf("header = %v", rows[0])
	}
	want := []any{e.ID.String(), "Membership", "Gym", "'0005", "every month on day 05", 39.9}
	for i := range want {
		if rows[1][i] != want[i] {
			t.Errorf("row[1][%d] = %v, want %v", i, rows[1][i], want[i])
		}
	}

	if err := m.MirrorEntries(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if len(m.Rows()) != 1 || m.Writes() != 2 {
		t.Errorf("after clearing: rows = %d, writes = %d", len(m.Rows()), m.Writes())
	}
}

func TestMirrorSummary(t *testing.T) {
	m := New()
	s := billing.PeriodSummary{
		Date:      time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC),
		Total:     decimal.NewFromInt(6000),
		Remaining: decimal.NewFromInt(5000),
	}
	if err := m.MirrorSummary(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	got := m.Summary()
	if got[0][1] != "2024-03-16" || got[1][1] != 6000.0 || got[2][1] != 5000.0 {
		t.Errorf("Summary() = %v", got)
	}
}
