package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"paycycle/internal/core"
)

// FileRepository stores the collection as a JSON array of records
// {id, genreId, title, cycleCode, price}. A missing file is an empty
// collection.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Path returns the backing file.
func (r *FileRepository) Path() string { return r.path }

func (r *FileRepository) load() ([]core.Entry, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var records []core.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	entries, err := core.RecordsToEntries(records)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return entries, nil
}

func (r *FileRepository) save(entries []core.Entry) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	data, err := json.MarshalIndent(core.EntriesToRecords(entries), "", "  ")
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace %s: %w", r.path, err)
	}
	return nil
}

func (r *FileRepository) List(context.Context) ([]core.Entry, error) {
	return r.load()
}

func (r *FileRepository) Insert(_ context.Context, e core.Entry) error {
	entries, err := r.load()
	if err != nil {
		return err
	}
	return r.save(append(entries, e))
}

func (r *FileRepository) Update(_ context.Context, e core.Entry) error {
	entries, err := r.load()
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].ID == e.ID {
			entries[i] = e
			return r.save(entries)
		}
	}
	return ErrEntryNotFound
}

func (r *FileRepository) Delete(_ context.Context, id uuid.UUID) error {
	entries, err := r.load()
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].ID == id {
			return r.save(append(entries[:i], entries[i+1:]...))
		}
	}
	return ErrEntryNotFound
}

func (r *FileRepository) ReplaceAll(_ context.Context, entries []core.Entry) error {
	return r.save(entries)
}
