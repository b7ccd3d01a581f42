// Package services wires the entry store to the billing engine and to the
// collaborators that react to changes: the reminder dispatcher and the
// spreadsheet mirror.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"paycycle/internal/billing"
	"paycycle/internal/core"
	"paycycle/internal/log"
	"paycycle/internal/notify"
	"paycycle/internal/sheets"
	"paycycle/internal/store"
)

// Deps are the collaborators of a BillingService. Dispatcher and Mirror are
// optional.
type Deps struct {
	Store      *store.Store
	Calendar   core.Calendar
	Planner    notify.Planner
	Dispatcher *notify.Dispatcher
	Mirror     sheets.Mirror
	Currency   core.Currency
	Logger     *log.Logger
}

// BillingService answers billing questions over the current collection and
// keeps reminders and mirrors in step with every change.
type BillingService struct {
	// propagateMu orders collaborator installs; each one reads the
	// collection while holding it, so the last install is always current.
	propagateMu sync.Mutex

	store      *store.Store
	calendar   core.Calendar
	planner    notify.Planner
	dispatcher *notify.Dispatcher
	mirror     sheets.Mirror
	currency   core.Currency
	logger     *log.Logger
}

func NewBillingService(d Deps) *BillingService {
	if d.Calendar == nil {
		d.Calendar = core.NewSystemCalendar(nil)
	}
	if d.Logger == nil {
		d.Logger = log.Discard()
	}
	if d.Planner == (notify.Planner{}) {
		d.Planner = notify.NewPlanner(d.Calendar.Location())
	}
	if d.Currency.Code == "" {
		d.Currency = core.NewCurrency("USD", "")
	}
	return &BillingService{
		store:      d.Store,
		calendar:   d.Calendar,
		planner:    d.Planner,
		dispatcher: d.Dispatcher,
		mirror:     d.Mirror,
		currency:   d.Currency,
		logger:     d.Logger.WithComponent(log.ComponentBilling),
	}
}

// Start subscribes to store changes. The returned function stops it.
func (s *BillingService) Start() (stop func()) {
	return s.store.Subscribe(func(ctx context.Context, ev store.Event) {
		if err := s.propagate(ctx); err != nil {
			// the mutation is already committed; collaborators catch up on
			// the next change or refresh
			s.logger.ErrorContext(ctx, "Failed to propagate entry change",
				"event", ev.Kind,
				log.FieldError, err)
		}
	})
}

// Refresh re-runs every collaborator against the current collection and a
// fresh "now". Used at startup and by the periodic scheduler.
func (s *BillingService) Refresh(ctx context.Context) error {
	return s.propagate(ctx)
}

func (s *BillingService) propagate(ctx context.Context) error {
	s.propagateMu.Lock()
	defer s.propagateMu.Unlock()

	entries := s.store.List()
	now := s.Now()
	g, gctx := errgroup.WithContext(ctx)

	if s.dispatcher != nil {
		g.Go(func() error {
			if _, err := s.dispatcher.Refresh(gctx, entries, now); err != nil {
				return fmt.Errorf("replan reminders: %w", err)
			}
			return nil
		})
	}
	if s.mirror != nil {
		g.Go(func() error {
			if err := s.mirror.MirrorEntries(gctx, entries); err != nil {
				return fmt.Errorf("mirror entries: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			if err := s.mirror.MirrorSummary(gctx, billing.Summarize(entries, now)); err != nil {
				return fmt.Errorf("mirror summary: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "Entry change propagated",
		log.FieldOperation, log.OpRefresh,
		log.FieldEntries, len(entries))
	return nil
}

// Now returns the current instant in the service's location.
func (s *BillingService) Now() time.Time {
	return s.calendar.Now().In(s.calendar.Location())
}

// Location returns the service's local time zone.
func (s *BillingService) Location() *time.Location {
	return s.calendar.Location()
}

// Currency returns the presentation currency.
func (s *BillingService) Currency() core.Currency {
	return s.currency
}

func (s *BillingService) Entries() []core.Entry { return s.store.List() }

func (s *BillingService) Entry(id uuid.UUID) (core.Entry, error) { return s.store.Get(id) }

func (s *BillingService) AddEntry(ctx context.Context, in core.EntryInput) (core.Entry, error) {
	return s.store.Add(ctx, in)
}

func (s *BillingService) UpdateEntry(ctx context.Context, id uuid.UUID, in core.EntryInput) (core.Entry, error) {
	return s.store.Update(ctx, id, in)
}

func (s *BillingService) RemoveEntry(ctx context.Context, id uuid.UUID) error {
	return s.store.Remove(ctx, id)
}

// ReplaceEntries swaps the whole collection.
func (s *BillingService) ReplaceEntries(ctx context.Context, entries []core.Entry) error {
	return s.store.Replace(ctx, entries)
}

// Summary returns total and remaining for the billing month of at.
func (s *BillingService) Summary(at time.Time) billing.PeriodSummary {
	return billing.Summarize(s.store.List(), at.In(s.Location()))
}

// WeekView describes the billing week containing a date.
type WeekView struct {
	Start  time.Time       `json:"start"`
	End    time.Time       `json:"end"`
	Amount decimal.Decimal `json:"amount"`
	Due    []billing.Due   `json:"due"`
}

// Week returns the billing week containing at with its due entries.
func (s *BillingService) Week(at time.Time) WeekView {
	entries := s.store.List()
	w := billing.WeekOf(at.In(s.Location()))
	return WeekView{
		Start:  w.Start,
		End:    w.End(),
		Amount: billing.WeeklyAmount(entries, w.Start),
		Due:    billing.DueInWeek(entries, w.Start),
	}
}

// Widget returns the widget timeline for now and the next midnight.
func (s *BillingService) Widget() []billing.TimelineEntry {
	return billing.WidgetTimeline(s.store.List(), s.Now())
}

// NextReminder returns the upcoming reminder, if that week bills anything.
func (s *BillingService) NextReminder(now time.Time) (notify.Notification, bool) {
	r, ok := s.planner.NextReminder(s.store.List(), now)
	if !ok {
		return notify.Notification{}, false
	}
	return notify.Compose(r, s.currency), true
}

// Schedule returns the full-year reminder schedule from now.
func (s *BillingService) Schedule(now time.Time) []notify.Notification {
	reminders := s.planner.YearSchedule(s.store.List(), now)
	out := make([]notify.Notification, len(reminders))
	for i, r := range reminders {
		out[i] = notify.Compose(r, s.currency)
	}
	return out
}
