package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Mode selects how reminders are installed.
type Mode string

const (
	// ModeOff clears every outstanding reminder and installs nothing.
	ModeOff Mode = "off"
	// ModeSingle keeps one standing reminder for the upcoming Monday.
	ModeSingle Mode = "single"
	// ModeYear bulk-installs the reminders for the next 52 Mondays.
	ModeYear Mode = "year"
)

// ParseMode parses a reminder mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeOff, ModeSingle, ModeYear:
		return m, nil
	default:
		return "", fmt.Errorf("unknown reminder mode %q (want off, single or year)", s)
	}
}

// Notification is a reminder with the text shown to the user.
type Notification struct {
	FireAt time.Time       `json:"fire_at"`
	Amount decimal.Decimal `json:"amount"`
	Title  string          `json:"title"`
	Body   string          `json:"body"`
}

// Sink delivers reminders. Replace removes everything previously installed
// and then installs notifications, so calling it twice with the same input
// leaves the same outstanding set.
type Sink interface {
	Replace(ctx context.Context, mode Mode, notifications []Notification) error
}

// MemorySink keeps the outstanding set in memory.
type MemorySink struct {
	mu       sync.RWMutex
	mode     Mode
	pending  []Notification
	replaced int
}

func NewMemorySink() *MemorySink {
	return &MemorySink{mode: ModeOff}
}

func (s *MemorySink) Replace(_ context.Context, mode Mode, notifications []Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.pending = append([]Notification(nil), notifications...)
	s.replaced++
	return nil
}

// Pending returns a copy of the outstanding notifications.
func (s *MemorySink) Pending() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notification(nil), s.pending...)
}

// Mode returns the mode of the last install.
func (s *MemorySink) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Replacements counts Replace calls.
func (s *MemorySink) Replacements() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.replaced
}
