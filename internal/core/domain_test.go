package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestEntryInputValidate(t *testing.T) {
	good := EntryInput{
		Genre:  GenreTechnology,
		Title:  "Cloud storage",
		Cycle:  MonthlyCycle(15),
		Amount: decimal.NewFromInt(2900),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	free := good
	free.Amount = decimal.Zero
	if err := free.Validate(); err != nil {
		t.Fatalf("zero amount should be accepted, got %v", err)
	}

	tests := []struct {
		name string
		in   EntryInput
		want error
	}{
		{"unknown genre", EntryInput{Genre: Genre(9), Title: "a", Cycle: MonthlyCycle(1)}, ErrInvalidGenre},
		{"empty title", EntryInput{Genre: GenreCulture, Title: "  ", Cycle: MonthlyCycle(1)}, ErrEmptyTitle},
		{"long title", EntryInput{Genre: GenreCulture, Title: strings.Repeat("x", 201), Cycle: MonthlyCycle(1)}, ErrTitleTooLong},
		{"bad cycle", EntryInput{Genre: GenreCulture, Title: "a", Cycle: YearlyCycle(13, 1)}, ErrInvalidCycle},
		{"negative amount", EntryInput{Genre: GenreCulture, Title: "a", Cycle: MonthlyCycle(1), Amount: decimal.NewFromInt(-1)}, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.in.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewEntryTrimsTitleAndAssignsID(t *testing.T) {
	e := NewEntry(EntryInput{Genre: GenreCulture, Title: "  Video  ", Cycle: MonthlyCycle(1)})
	if e.ID == uuid.Nil {
		t.Fatal("expected a generated id")
	}
	if e.Title != "Video" {
		t.Errorf("Title = %q, want %q", e.Title, "Video")
	}
	if err := e.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestRecordConversion(t *testing.T) {
	e := NewEntry(EntryInput{
		Genre:  GenreMembership,
		Title:  "Gym",
		Cycle:  YearlyCycle(2, 1),
		Amount: decimal.RequireFromString("20000"),
	})
	r := e.ToRecord()
	if r.CycleCode != "0201" || r.GenreID != 3 || r.Price != 20000 || r.ID != e.ID.String() {
		t.Fatalf("ToRecord() = %+v", r)
	}

	back, err := r.ToEntry()
	if err != nil {
		t.Fatalf("ToEntry() error: %v", err)
	}
	if back.ID != e.ID || back.Cycle != e.Cycle || !back.Amount.Equal(e.Amount) || back.Genre != e.Genre {
		t.Errorf("ToEntry() = %+v, want %+v", back, e)
	}
}

func TestRecordToEntryErrors(t *testing.T) {
	id := uuid.NewString()

	if _, err := (Record{ID: id, CycleCode: "15"}).ToEntry(); !errors.Is(err, ErrInvalidCycle) {
		t.Errorf("short cycle code: got %v, want ErrInvalidCycle", err)
	}
	if _, err := (Record{ID: "nope", CycleCode: "0015"}).ToEntry(); !errors.Is(err, ErrInvalidID) {
		t.Errorf("bad id: got %v, want ErrInvalidID", err)
	}

	e, err := (Record{ID: id, GenreID: 42, Title: "x", CycleCode: "0015"}).ToEntry()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Genre != GenreOthers {
		t.Errorf("unknown genre id decoded to %v, want others", e.Genre)
	}
}

func TestRecordsToEntriesStopsOnBadRecord(t *testing.T) {
	records := []Record{
		{ID: uuid.NewString(), CycleCode: "0001"},
		{ID: uuid.NewString(), CycleCode: "x"},
	}
	if _, err := RecordsToEntries(records); err == nil {
		t.Fatal("expected error for malformed record")
	}
	entries, err := RecordsToEntries(nil)
	if err != nil || len(entries) != 0 {
		t.Fatalf("RecordsToEntries(nil) = %v, %v", entries, err)
	}
}

func TestParseGenre(t *testing.T) {
	tests := []struct {
		in   string
		want Genre
		ok   bool
	}{
		{"culture", GenreCulture, true},
		{"Membership", GenreMembership, true},
		{"2", GenreTransfer, true},
		{"hobby", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseGenre(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseGenre(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidGenre) {
			t.Errorf("ParseGenre(%q) error = %v, want ErrInvalidGenre", tt.in, err)
		}
	}
	if GenreTechnology.Title() != "Technology" {
		t.Errorf("Title() = %q", GenreTechnology.Title())
	}
}
