package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries runs the entry statements against a DBTX.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// EntryRow is one row of the entries table.
type EntryRow struct {
	ID        string
	GenreID   int64
	Title     string
	CycleCode string
	Amount    string
}

const listEntries = `
SELECT id, genre_id, title, cycle_code, amount
FROM entries
ORDER BY cycle_code, created_at
`

func (q *Queries) ListEntries(ctx context.Context) ([]EntryRow, error) {
	rows, err := q.db.QueryContext(ctx, listEntries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []EntryRow
	for rows.Next() {
		var i EntryRow
		if err := rows.Scan(&i.ID, &i.GenreID, &i.Title, &i.CycleCode, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return items, rows.Err()
}

const getEntry = `
SELECT id, genre_id, title, cycle_code, amount
FROM entries
WHERE id = ?
`

func (q *Queries) GetEntry(ctx context.Context, id string) (EntryRow, error) {
	var i EntryRow
	err := q.db.QueryRowContext(ctx, getEntry, id).Scan(&i.ID, &i.GenreID, &i.Title, &i.CycleCode, &i.Amount)
	return i, err
}

const createEntry = `
INSERT INTO entries (id, genre_id, title, cycle_code, amount)
VALUES (?, ?, ?, ?, ?)
`

func (q *Queries) CreateEntry(ctx context.Context, arg EntryRow) error {
	_, err := q.db.ExecContext(ctx, createEntry, arg.ID, arg.GenreID, arg.Title, arg.CycleCode, arg.Amount)
	return err
}

const updateEntry = `
UPDATE entries
SET genre_id = ?, title = ?, cycle_code = ?, amount = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

func (q *Queries) UpdateEntry(ctx context.Context, arg EntryRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateEntry, arg.GenreID, arg.Title, arg.CycleCode, arg.Amount, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteEntry = `
DELETE FROM entries WHERE id = ?
`

func (q *Queries) DeleteEntry(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteEntry, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteAllEntries = `
DELETE FROM entries
`

func (q *Queries) DeleteAllEntries(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllEntries)
	return err
}
