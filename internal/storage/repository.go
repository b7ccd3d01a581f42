// Package storage persists entries in SQLite with embedded migrations.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"paycycle/internal/core"
	"paycycle/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection serializes writers and keeps :memory: databases
	// on one handle.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func toRow(e core.Entry) EntryRow {
	return EntryRow{
		ID:        e.ID.String(),
		GenreID:   int64(e.Genre),
		Title:     e.Title,
		CycleCode: e.Cycle.String(),
		Amount:    e.Amount.String(),
	}
}

func fromRow(row EntryRow) (core.Entry, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return core.Entry{}, errors.Join(core.ErrInvalidID, err)
	}
	cycle, err := core.ParseCycle(row.CycleCode)
	if err != nil {
		return core.Entry{}, err
	}
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return core.Entry{}, errors.Join(core.ErrInvalidAmount, err)
	}
	return core.Entry{
		ID:     id,
		Genre:  core.GenreFromID(int(row.GenreID)),
		Title:  row.Title,
		Cycle:  cycle,
		Amount: amount,
	}, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]core.Entry, error) {
	rows, err := r.queries.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	entries := make([]core.Entry, 0, len(rows))
	for _, row := range rows {
		e, err := fromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode entry %s: %w", row.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Get returns a single entry.
func (r *SQLiteRepository) Get(ctx context.Context, id uuid.UUID) (core.Entry, error) {
	row, err := r.queries.GetEntry(ctx, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, store.ErrEntryNotFound
	}
	if err != nil {
		return core.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	return fromRow(row)
}

func (r *SQLiteRepository) Insert(ctx context.Context, e core.Entry) error {
	if err := r.queries.CreateEntry(ctx, toRow(e)); err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	slog.DebugContext(ctx, "Entry saved to SQLite",
		"id", e.ID,
		"title", e.Title,
		"cycle", e.Cycle.String())
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, e core.Entry) error {
	n, err := r.queries.UpdateEntry(ctx, toRow(e))
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if n == 0 {
		return store.ErrEntryNotFound
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.queries.DeleteEntry(ctx, id.String())
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n == 0 {
		return store.ErrEntryNotFound
	}
	return nil
}

// ReplaceAll swaps the table contents in one transaction.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, entries []core.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteAllEntries(ctx); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	for _, e := range entries {
		if err := q.CreateEntry(ctx, toRow(e)); err != nil {
			return fmt.Errorf("create entry %s: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

var (
	_ store.Repository = (*SQLiteRepository)(nil)
	_ store.Replacer   = (*SQLiteRepository)(nil)
)
