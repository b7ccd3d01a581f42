package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"paycycle/internal/core"
	"paycycle/internal/notify"
	"paycycle/internal/sheets/memory"
	"paycycle/internal/store"
)

type fixture struct {
	svc    *BillingService
	sink   *notify.MemorySink
	mirror *memory.Mirror
}

func newFixture(t *testing.T, now time.Time, mode notify.Mode) fixture {
	t.Helper()
	st, err := store.Open(context.Background(), store.NewMemoryRepository(), nil)
	if err != nil {
		t.Fatal(err)
	}
	cal := core.FixedCalendar{At: now}
	cur := core.NewCurrency("USD", "")
	sink := notify.NewMemorySink()
	mirror := memory.New()
	svc := NewBillingService(Deps{
		Store:      st,
		Calendar:   cal,
		Dispatcher: notify.NewDispatcher(notify.NewPlanner(time.UTC), sink, mode, cur, nil),
		Mirror:     mirror,
		Currency:   cur,
	})
	t.Cleanup(svc.Start())
	return fixture{svc: svc, sink: sink, mirror: mirror}
}

func monthly(title string, day int, amount int64) core.EntryInput {
	return core.EntryInput{Genre: core.GenreOthers, Title: title, Cycle: core.MonthlyCycle(day), Amount: decimal.NewFromInt(amount)}
}

func TestMutationsReplanAndMirror(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.February, 24, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, now, notify.ModeSingle)

	e, err := f.svc.AddEntry(ctx, monthly("Phone", 1, 45))
	if err != nil {
		t.Fatalf("AddEntry() error = %v", err)
	}
	pending := f.sink.Pending()
	if len(pending) != 1 || !pending[0].Amount.Equal(decimal.NewFromInt(45)) {
		t.Fatalf("pending after add = %+v", pending)
	}
	if got := len(f.mirror.Rows()); got != 2 {
		t.Errorf("mirror rows after add = %d, want 2", got)
	}

	// moving the due day out of next week suppresses the reminder
	if _, err := f.svc.UpdateEntry(ctx, e.ID, monthly("Phone", 20, 45)); err != nil {
		t.Fatal(err)
	}
	if got := f.sink.Pending(); len(got) != 0 {
		t.Errorf("pending after update = %+v, want none", got)
	}

	if err := f.svc.RemoveEntry(ctx, e.ID); err != nil {
		t.Fatal(err)
	}
	if got := len(f.mirror.Rows()); got != 1 {
		t.Errorf("mirror rows after remove = %d, want header only", got)
	}
	if f.sink.Replacements() != 3 {
		t.Errorf("Replacements() = %d, want 3", f.sink.Replacements())
	}
}

func TestYearModeInstallsSchedule(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, now, notify.ModeYear)

	if _, err := f.svc.AddEntry(ctx, monthly("Rent", 15, 900)); err != nil {
		t.Fatal(err)
	}
	if got := len(f.sink.Pending()); got != 12 {
		t.Errorf("pending = %d, want 12", got)
	}
	if got := len(f.svc.Schedule(now)); got != 12 {
		t.Errorf("Schedule() = %d, want 12", got)
	}
}

func TestQueries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.March, 16, 8, 0, 0, 0, time.UTC)
	f := newFixture(t, now, notify.ModeOff)

	if _, err := f.svc.AddEntry(ctx, monthly("Cloud", 15, 1000)); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.AddEntry(ctx, core.EntryInput{Genre: core.GenreCulture, Title: "Festival", Cycle: core.YearlyCycle(3, 20), Amount: decimal.NewFromInt(5000)}); err != nil {
		t.Fatal(err)
	}

	s := f.svc.Summary(now)
	if !s.Total.Equal(decimal.NewFromInt(6000)) || !s.Remaining.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Summary() = %+v", s)
	}

	w := f.svc.Week(now)
	if !w.Start.Equal(time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)) || !w.Amount.Equal(decimal.NewFromInt(1000)) || len(w.Due) != 1 {
		t.Errorf("Week() = %+v", w)
	}

	n, ok := f.svc.NextReminder(now)
	if !ok || !n.FireAt.Equal(time.Date(2024, time.March, 18, 9, 0, 0, 0, time.UTC)) || n.Body != "$5,000 will be charged this week." {
		t.Errorf("NextReminder() = %+v, %v", n, ok)
	}

	timeline := f.svc.Widget()
	if len(timeline) != 2 || !timeline[1].At.Equal(time.Date(2024, time.March, 17, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Widget() = %+v", timeline)
	}

	if len(f.sink.Pending()) != 0 {
		t.Errorf("off mode installed %d reminders", len(f.sink.Pending()))
	}
}

type brokenMirror struct{ memory.Mirror }

func (*brokenMirror) MirrorEntries(context.Context, []core.Entry) error {
	return errors.New("quota exceeded")
}

func TestRefreshReportsCollaboratorErrors(t *testing.T) {
	st, _ := store.Open(context.Background(), store.NewMemoryRepository(), nil)
	svc := NewBillingService(Deps{
		Store:    st,
		Calendar: core.FixedCalendar{At: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		Mirror:   &brokenMirror{},
	})
	svc.Start()

	if err := svc.Refresh(context.Background()); err == nil {
		t.Error("Refresh() should report the mirror failure")
	}
	// a failing collaborator never rolls back the mutation
	if _, err := svc.AddEntry(context.Background(), monthly("x", 1, 1)); err != nil {
		t.Errorf("AddEntry() error = %v", err)
	}
	if len(svc.Entries()) != 1 {
		t.Errorf("Entries() = %d, want 1", len(svc.Entries()))
	}
}

func TestSummaryUsesServiceLocation(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	st, _ := store.Open(context.Background(), store.NewMemoryRepository(), nil)
	svc := NewBillingService(Deps{Store: st, Calendar: core.FixedCalendar{At: time.Date(2024, time.March, 31, 0, 0, 0, 0, seoul)}})

	// 16:00 UTC on March 31 is April 1 in Seoul
	s := svc.Summary(time.Date(2024, time.March, 31, 16, 0, 0, 0, time.UTC))
	if s.Date.Month() != time.April {
		t.Errorf("Summary().Date = %v, want April in KST", s.Date)
	}
}

// gatedSink blocks its first Replace until release is closed.
type gatedSink struct {
	*notify.MemorySink
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedSink) Replace(ctx context.Context, mode notify.Mode, ns []notify.Notification) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.MemorySink.Replace(ctx, mode, ns)
}

func TestRefreshDoesNotOverwriteNewerPlan(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.February, 24, 12, 0, 0, 0, time.UTC)
	sink := &gatedSink{MemorySink: notify.NewMemorySink(), entered: make(chan struct{}), release: make(chan struct{})}
	cur := core.NewCurrency("USD", "")
	st, _ := store.Open(ctx, store.NewMemoryRepository(), nil)
	svc := NewBillingService(Deps{
		Store:      st,
		Calendar:   core.FixedCalendar{At: now},
		Dispatcher: notify.NewDispatcher(notify.NewPlanner(time.UTC), sink, notify.ModeSingle, cur, nil),
		Currency:   cur,
	})
	t.Cleanup(svc.Start())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := svc.Refresh(ctx); err != nil {
			t.Errorf("Refresh() error = %v", err)
		}
	}()
	<-sink.entered

	// the add commits while the refresh of the empty collection is in flight
	go func() {
		defer wg.Done()
		if _, err := svc.AddEntry(ctx, monthly("Rent", 1, 1000)); err != nil {
			t.Errorf("AddEntry() error = %v", err)
		}
	}()
	deadline := time.Now().Add(2 * time.Second)
	for st.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	close(sink.release)
	wg.Wait()

	pending := sink.Pending()
	if len(pending) != 1 || !pending[0].Amount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("pending = %+v, want one reminder for 1000", pending)
	}
}
