package core

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxTitleLength = 200

type (
	// Entry is a single recurring payment.
	Entry struct {
		ID     uuid.UUID       `json:"id"`
		Genre  Genre           `json:"genre"`
		Title  string          `json:"title"`
		Cycle  Cycle           `json:"cycle"`
		Amount decimal.Decimal `json:"amount"`
	}

	// EntryInput carries the user editable fields of an entry.
	EntryInput struct {
		Genre  Genre
		Title  string
		Cycle  Cycle
		Amount decimal.Decimal
	}

	// Record is the persisted shape of an entry.
	Record struct {
		ID        string  `json:"id" yaml:"id"`
		GenreID   int     `json:"genreId" yaml:"genreId"`
		Title     string  `json:"title" yaml:"title"`
		CycleCode string  `json:"cycleCode" yaml:"cycleCode"`
		Price     float64 `json:"price" yaml:"price"`
	}
)

var (
	ErrInvalidCycle  = errors.New("invalid cycle")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidGenre  = errors.New("invalid genre")
	ErrEmptyTitle    = errors.New("empty title")
	ErrTitleTooLong  = errors.New("title too long (max 200 characters)")
	ErrInvalidID     = errors.New("invalid entry id")
	ErrDuplicateID   = errors.New("duplicate entry id")
)

// NewEntry assigns a fresh id to the input.
func NewEntry(in EntryInput) Entry {
	return in.WithID(uuid.New())
}

// WithID builds an entry with the given identity.
func (in EntryInput) WithID(id uuid.UUID) Entry {
	return Entry{
		ID:     id,
		Genre:  in.Genre,
		Title:  strings.TrimSpace(in.Title),
		Cycle:  in.Cycle,
		Amount: in.Amount,
	}
}

func (in EntryInput) Validate() error {
	if !in.Genre.IsValid() {
		return ErrInvalidGenre
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	if err := in.Cycle.Validate(); err != nil {
		return err
	}
	if in.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Input returns the editable fields of the entry.
func (e Entry) Input() EntryInput {
	return EntryInput{Genre: e.Genre, Title: e.Title, Cycle: e.Cycle, Amount: e.Amount}
}

func (e Entry) Validate() error {
	if e.ID == uuid.Nil {
		return ErrInvalidID
	}
	return e.Input().Validate()
}

// ToRecord converts the entry to its persisted shape.
func (e Entry) ToRecord() Record {
	price, _ := e.Amount.Float64()
	return Record{
		ID:        e.ID.String(),
		GenreID:   int(e.Genre),
		Title:     e.Title,
		CycleCode: e.Cycle.String(),
		Price:     price,
	}
}

// ToEntry decodes a persisted record. A malformed cycle code is an error;
// an unknown genre id falls back to GenreOthers.
func (r Record) ToEntry() (Entry, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return Entry{}, errors.Join(ErrInvalidID, err)
	}
	cycle, err := ParseCycle(r.CycleCode)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		ID:     id,
		Genre:  GenreFromID(r.GenreID),
		Title:  r.Title,
		Cycle:  cycle,
		Amount: decimal.NewFromFloat(r.Price),
	}, nil
}

// RecordsToEntries decodes a list of records, stopping at the first bad one.
func RecordsToEntries(records []Record) ([]Entry, error) {
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		e, err := r.ToEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// EntriesToRecords converts entries to their persisted shape.
func EntriesToRecords(entries []Entry) []Record {
	records := make([]Record, len(entries))
	for i, e := range entries {
		records[i] = e.ToRecord()
	}
	return records
}
