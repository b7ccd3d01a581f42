// Package store owns the entry collection. Mutations are serialized with
// reads, written through to a Repository and broadcast to subscribers once
// they are applied.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"paycycle/internal/core"
	"paycycle/internal/log"
)

// EventKind names the mutation that produced an event.
type EventKind string

const (
	EventAdded    EventKind = "added"
	EventUpdated  EventKind = "updated"
	EventRemoved  EventKind = "removed"
	EventReplaced EventKind = "replaced"
)

// Event is delivered to subscribers after a mutation. Entries is the full
// collection as it stands after the mutation.
type Event struct {
	Kind    EventKind
	Entry   core.Entry
	Entries []core.Entry
}

// Listener receives change events. Listeners run one event at a time in
// mutation order, on the goroutine of the mutation, which returns only after
// every listener has. A listener may read the store and subscribe or
// unsubscribe, but must not mutate it.
type Listener func(ctx context.Context, ev Event)

type subscription struct {
	id int
	fn Listener
}

// Store is the single owner of the entry collection.
type Store struct {
	mu      sync.RWMutex
	entries []core.Entry
	repo    Repository

	notifyMu sync.Mutex

	listenersMu sync.Mutex
	listeners   []subscription
	nextID      int

	logger *log.Logger
}

// Open loads the collection from repo. A repository with no data yields an
// empty store.
func Open(ctx context.Context, repo Repository, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Discard()
	}
	entries, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	s := &Store{
		entries: sortEntries(entries),
		repo:    repo,
		logger:  logger.WithComponent(log.ComponentStore),
	}
	s.logger.InfoContext(ctx, "Entry store opened", log.FieldEntries, len(entries))
	return s, nil
}

func sortEntries(entries []core.Entry) []core.Entry {
	out := append([]core.Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Cycle.String() < out[j].Cycle.String()
	})
	return out
}

// Subscribe registers fn for change events and returns a function that
// removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// commit must be called with s.mu held for writing. It installs entries,
// releases s.mu and notifies subscribers in order.
func (s *Store) commit(ctx context.Context, kind EventKind, e core.Entry, entries []core.Entry) {
	s.entries = entries
	snapshot := append([]core.Entry(nil), entries...)

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.listenersMu.Lock()
	listeners := append([]subscription(nil), s.listeners...)
	s.listenersMu.Unlock()

	ev := Event{Kind: kind, Entry: e, Entries: snapshot}
	for _, sub := range listeners {
		sub.fn(ctx, ev)
	}
}

// List returns a copy of the collection ordered by cycle code.
func (s *Store) List() []core.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Entry(nil), s.entries...)
}

// Get returns the entry with the given id.
func (s *Store) Get(id uuid.UUID) (core.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Entry{}, ErrEntryNotFound
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Add validates in, stores it under a new id and returns the entry.
func (s *Store) Add(ctx context.Context, in core.EntryInput) (core.Entry, error) {
	if err := in.Validate(); err != nil {
		return core.Entry{}, err
	}
	e := core.NewEntry(in)

	s.mu.Lock()
	if err := s.repo.Insert(ctx, e); err != nil {
		s.mu.Unlock()
		return core.Entry{}, fmt.Errorf("insert entry: %w", err)
	}
	next := sortEntries(append(append([]core.Entry(nil), s.entries...), e))
	s.logger.InfoContext(ctx, "Entry added",
		log.NewFields().WithOperation(log.OpCreate).WithEntry(e.ID.String(), e.Title, e.Cycle.String(), e.Amount).ToSlice()...)
	s.commit(ctx, EventAdded, e, next)
	return e, nil
}

// Update replaces the fields of entry id, keeping its identity.
func (s *Store) Update(ctx context.Context, id uuid.UUID, in core.EntryInput) (core.Entry, error) {
	if err := in.Validate(); err != nil {
		return core.Entry{}, err
	}
	e := in.WithID(id)

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return core.Entry{}, ErrEntryNotFound
	}
	if err := s.repo.Update(ctx, e); err != nil {
		s.mu.Unlock()
		return core.Entry{}, fmt.Errorf("update entry: %w", err)
	}
	next := append([]core.Entry(nil), s.entries...)
	next[idx] = e
	s.logger.InfoContext(ctx, "Entry updated",
		log.NewFields().WithOperation(log.OpUpdate).WithEntry(e.ID.String(), e.Title, e.Cycle.String(), e.Amount).ToSlice()...)
	s.commit(ctx, EventUpdated, e, sortEntries(next))
	return e, nil
}

// Remove deletes entry id.
func (s *Store) Remove(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrEntryNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("delete entry: %w", err)
	}
	removed := s.entries[idx]
	next := make([]core.Entry, 0, len(s.entries)-1)
	next = append(next, s.entries[:idx]...)
	next = append(next, s.entries[idx+1:]...)
	s.logger.InfoContext(ctx, "Entry removed",
		log.FieldOperation, log.OpDelete,
		log.FieldEntryID, id.String())
	s.commit(ctx, EventRemoved, removed, next)
	return nil
}

// Replace swaps the whole collection, for imports. Every entry is validated
// and ids must be unique before anything is written.
func (s *Store) Replace(ctx context.Context, entries []core.Entry) error {
	seen := make(map[uuid.UUID]int, len(entries))
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("entry %d (%s): %w", i, e.Title, err)
		}
		if j, dup := seen[e.ID]; dup {
			return fmt.Errorf("entries %d and %d share id %s: %w", j, i, e.ID, core.ErrDuplicateID)
		}
		seen[e.ID] = i
	}

	s.mu.Lock()
	if err := s.replaceInRepo(ctx, entries); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("replace entries: %w", err)
	}
	s.logger.InfoContext(ctx, "Entries replaced", log.FieldEntries, len(entries))
	s.commit(ctx, EventReplaced, core.Entry{}, sortEntries(entries))
	return nil
}

func (s *Store) replaceInRepo(ctx context.Context, entries []core.Entry) error {
	if r, ok := s.repo.(Replacer); ok {
		return r.ReplaceAll(ctx, entries)
	}
	for _, e := range s.entries {
		if err := s.repo.Delete(ctx, e.ID); err != nil {
			return err
		}
	}
	for _, e := range entries {
		if err := s.repo.Insert(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) indexOf(id uuid.UUID) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
