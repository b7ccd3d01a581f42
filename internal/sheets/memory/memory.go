// Package memory is an in-process spreadsheet mirror. It keeps the rows the
// Google mirror would write, for local runs and tests.
package memory

import (
	"context"
	"sync"

	"paycycle/internal/billing"
	"paycycle/internal/core"
	ports "paycycle/internal/sheets"
)

type Mirror struct {
	mu      sync.Mutex
	rows    [][]any
	summary [][]any
	writes  int
}

var _ ports.Mirror = (*Mirror)(nil)

func New() *Mirror {
	return &Mirror{}
}

func (m *Mirror) MirrorEntries(_ context.Context, entries []core.Entry) error {
	rows := ports.EntryRows(entries)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = rows
	m.writes++
	return nil
}

func (m *Mirror) MirrorSummary(_ context.Context, s billing.PeriodSummary) error {
	rows := ports.SummaryRows(s)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summary = rows
	return nil
}

// Rows returns the mirrored entry table, header first.
func (m *Mirror) Rows() [][]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]any(nil), m.rows...)
}

// Summary returns the mirrored period snapshot.
func (m *Mirror) Summary() [][]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]any(nil), m.summary...)
}

// Writes counts MirrorEntries calls.
func (m *Mirror) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
