// Package sheets defines the outbound ports for spreadsheet mirrors of the
// entry collection.
package sheets

import (
	"context"

	"paycycle/internal/billing"
	"paycycle/internal/core"
)

// Ports for outbound adapters.
type (
	// EntryMirror replaces the mirrored entry table with entries.
	EntryMirror interface {
		MirrorEntries(ctx context.Context, entries []core.Entry) error
	}

	// SummaryMirror writes the current period snapshot.
	SummaryMirror interface {
		MirrorSummary(ctx context.Context, summary billing.PeriodSummary) error
	}

	// Mirror is a complete spreadsheet mirror.
	Mirror interface {
		EntryMirror
		SummaryMirror
	}
)

// EntryHeader is the header row of the mirrored entry table.
var EntryHeader = []any{"ID", "Genre", "Title", "Cycle", "Schedule", "Amount"}

// EntryRows renders entries as spreadsheet rows under EntryHeader.
func EntryRows(entries []core.Entry) [][]any {
	rows := make([][]any, 0, len(entries)+1)
	rows = append(rows, EntryHeader)
	for _, e := range entries {
		amount, _ := e.Amount.Float64()
		rows = append(rows, []any{
			e.ID.String(),
			e.Genre.Title(),
			e.Title,
			// leading apostrophe keeps the sheet from parsing "0005" as 5
			"'" + e.Cycle.String(),
			e.Cycle.Label(),
			amount,
		})
	}
	return rows
}

// SummaryRows renders a period snapshot as label/value rows.
func SummaryRows(s billing.PeriodSummary) [][]any {
	total, _ := s.Total.Float64()
	remaining, _ := s.Remaining.Float64()
	return [][]any{
		{"Date", s.Date.Format("2006-01-02")},
		{"Total", total},
		{"Remaining", remaining},
	}
}
