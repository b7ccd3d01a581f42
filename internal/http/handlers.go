package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"paycycle/internal/billing"
	"paycycle/internal/core"
	"paycycle/internal/log"
	"paycycle/internal/notify"
	"paycycle/internal/store"
)

// entryDTO is an entry as returned by the API.
type entryDTO struct {
	core.Entry
	GenreTitle string `json:"genre_title"`
	CycleKind  string `json:"cycle_kind"`
	CycleLabel string `json:"cycle_label"`
	Display    string `json:"display_amount"`
}

func (s *Server) toDTO(e core.Entry) entryDTO {
	return entryDTO{
		Entry:      e,
		GenreTitle: e.Genre.Title(),
		CycleKind:  string(e.Cycle.Kind()),
		CycleLabel: e.Cycle.Label(),
		Display:    s.svc.Currency().Format(e.Amount),
	}
}

// summaryDTO adds display strings to a period summary.
type summaryDTO struct {
	billing.PeriodSummary
	Paid             decimal.Decimal `json:"paid"`
	DisplayTotal     string          `json:"display_total"`
	DisplayRemaining string          `json:"display_remaining"`
}

func (s *Server) toSummaryDTO(p billing.PeriodSummary) summaryDTO {
	cur := s.svc.Currency()
	return summaryDTO{
		PeriodSummary:    p,
		Paid:             p.Paid(),
		DisplayTotal:     cur.Format(p.Total),
		DisplayRemaining: cur.Format(p.Remaining),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(map[string]any{
		"status":   "ok",
		"entries":  len(s.svc.Entries()),
		"security": s.metrics.snapshot(),
	}).Write(w)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries := s.svc.Entries()
	out := make([]entryDTO, len(entries))
	for i, e := range entries {
		out[i] = s.toDTO(e)
	}
	NewJSONResponse().Data(out).Write(w)
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		BadRequestError("invalid entry id").Write(w)
		return
	}
	e, err := s.svc.Entry(id)
	if err != nil {
		s.writeStoreError(w, r, err, log.OpRead)
		return
	}
	NewJSONResponse().Data(s.toDTO(e)).Write(w)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readEntryInput(w, r)
	if !ok {
		return
	}
	e, err := s.svc.AddEntry(r.Context(), in)
	if err != nil {
		s.writeStoreError(w, r, err, log.OpCreate)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Entry created",
		log.NewFields().WithOperation(log.OpCreate).
			WithEntry(e.ID.String(), e.Title, e.Cycle.String(), e.Amount).ToSlice()...)
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/entries/"+e.ID.String()).
		Data(s.toDTO(e)).
		Write(w)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		BadRequestError("invalid entry id").Write(w)
		return
	}
	in, ok := s.readEntryInput(w, r)
	if !ok {
		return
	}
	e, err := s.svc.UpdateEntry(r.Context(), id, in)
	if err != nil {
		s.writeStoreError(w, r, err, log.OpUpdate)
		return
	}
	NewJSONResponse().Data(s.toDTO(e)).Write(w)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		BadRequestError("invalid entry id").Write(w)
		return
	}
	if err := s.svc.RemoveEntry(r.Context(), id); err != nil {
		s.writeStoreError(w, r, err, log.OpDelete)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) readEntryInput(w http.ResponseWriter, r *http.Request) (core.EntryInput, bool) {
	in, err := ParseEntryInput(NewRequestBodyParser(r))
	if err != nil {
		var fe *fieldError
		if errors.As(err, &fe) {
			FieldError(fe.Field, fe.Err.Error()).Write(w)
		} else {
			BadRequestError(err.Error()).Write(w)
		}
		return core.EntryInput{}, false
	}
	return in, true
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error, op string) {
	if errors.Is(err, store.ErrEntryNotFound) {
		NotFoundError("entry not found").Write(w)
		return
	}
	log.NewStructuredLogger(log.FromContext(r.Context())).LogError(r.Context(),
		"Entry operation failed", err, log.ComponentHTTP, op, nil)
	InternalServerError("entry operation failed").Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	at, err := dateParam(r, s.svc.Now())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	NewJSONResponse().Data(s.toSummaryDTO(s.svc.Summary(at))).Write(w)
}

type weekDTO struct {
	Start   time.Time       `json:"start"`
	End     time.Time       `json:"end"`
	Amount  decimal.Decimal `json:"amount"`
	Display string          `json:"display_amount"`
	Due     []dueDTO        `json:"due"`
}

type dueDTO struct {
	Date  string   `json:"date"`
	Entry entryDTO `json:"entry"`
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	at, err := dateParam(r, s.svc.Now())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	view := s.svc.Week(at)
	out := weekDTO{
		Start:   view.Start,
		End:     view.End,
		Amount:  view.Amount,
		Display: s.svc.Currency().Format(view.Amount),
		Due:     make([]dueDTO, len(view.Due)),
	}
	for i, d := range view.Due {
		out.Due[i] = dueDTO{Date: d.Date.Format(dateLayout), Entry: s.toDTO(d.Entry)}
	}
	NewJSONResponse().Data(out).Write(w)
}

type timelineDTO struct {
	At      time.Time  `json:"at"`
	Summary summaryDTO `json:"summary"`
}

func (s *Server) handleWidget(w http.ResponseWriter, r *http.Request) {
	timeline := s.svc.Widget()
	out := make([]timelineDTO, len(timeline))
	for i, t := range timeline {
		out[i] = timelineDTO{At: t.At, Summary: s.toSummaryDTO(t.Summary)}
	}
	NewJSONResponse().Data(out).Write(w)
}

func (s *Server) handleNextReminder(w http.ResponseWriter, r *http.Request) {
	n, ok := s.svc.NextReminder(s.svc.Now())
	if !ok {
		NewJSONResponse().Status(http.StatusNoContent).Write(w)
		return
	}
	NewJSONResponse().Data(n).Write(w)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	schedule := s.svc.Schedule(s.svc.Now())
	if schedule == nil {
		schedule = []notify.Notification{}
	}
	NewJSONResponse().Data(schedule).Write(w)
}
