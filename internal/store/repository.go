package store

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"paycycle/internal/core"
)

// ErrEntryNotFound is returned when no entry has the requested id.
var ErrEntryNotFound = errors.New("entry not found")

// Repository persists entries. The store serializes every call, so
// implementations do not need their own locking against the store.
type Repository interface {
	List(ctx context.Context) ([]core.Entry, error)
	Insert(ctx context.Context, e core.Entry) error
	Update(ctx context.Context, e core.Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Replacer is implemented by repositories that can swap the whole
// collection in one step.
type Replacer interface {
	ReplaceAll(ctx context.Context, entries []core.Entry) error
}

// MemoryRepository keeps entries in process memory.
type MemoryRepository struct {
	mu      sync.Mutex
	entries map[uuid.UUID]core.Entry
}

func NewMemoryRepository(seed ...core.Entry) *MemoryRepository {
	r := &MemoryRepository{entries: make(map[uuid.UUID]core.Entry, len(seed))}
	for _, e := range seed {
		r.entries[e.ID] = e
	}
	return r
}

func (r *MemoryRepository) List(context.Context) ([]core.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out, nil
}

func (r *MemoryRepository) Insert(_ context.Context, e core.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.ID] = e
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, e core.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.ID]; !ok {
		return ErrEntryNotFound
	}
	r.entries[e.ID] = e
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return ErrEntryNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *MemoryRepository) ReplaceAll(_ context.Context, entries []core.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[uuid.UUID]core.Entry, len(entries))
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}
