// Package store holds the device-side state containers. Persisted stores
// write their whole state to a persist.Persister after every mutation and
// read it back once at startup.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ahmetcoskunkizilkaya/journey/internal/logging"
	"github.com/ahmetcoskunkizilkaya/journey/internal/persist"
)

var ErrCorruptSnapshot = errors.New("store: corrupt snapshot")

// Persisted is a keyed state container. State values are treated as
// immutable: reducers return a new value instead of editing the old one.
type Persisted[T any] struct {
	key       string
	persister persist.Persister
	log       *slog.Logger

	mu       sync.RWMutex
	state    T
	hydrated bool

	subMu  sync.Mutex
	subs   map[int]func(T)
	nextID int
}

func newPersisted[T any](key string, initial T, p persist.Persister, log *slog.Logger) *Persisted[T] {
	if p == nil {
		p = persist.NewMemoryPersister()
	}
	return &Persisted[T]{
		key:       key,
		persister: p,
		log:       logging.OrDefault(log).With("store", key),
		state:     initial,
		subs:      make(map[int]func(T)),
	}
}

func (s *Persisted[T]) Key() string { return s.key }

// Get returns the current in-memory state.
func (s *Persisted[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Persisted[T]) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Hydrate loads the snapshot once. Fields missing from the snapshot keep
// their defaults. On any failure the defaults stay in place, the store is
// still marked hydrated, and the error is returned.
func (s *Persisted[T]) Hydrate(ctx context.Context) error {
	data, err := s.persister.Load(ctx, s.key)

	s.mu.Lock()
	s.hydrated = true
	switch {
	case errors.Is(err, persist.ErrNotFound):
		s.mu.Unlock()
		s.log.Debug("no snapshot, using defaults")
		return nil
	case err != nil:
		s.mu.Unlock()
		s.log.Error("snapshot load failed", "error", err)
		return fmt.Errorf("hydrate %s: %w", s.key, err)
	}

	// decode over a copy of the defaults so a partial snapshot keeps them,
	// without sharing backing arrays with the previous state
	var next T
	if defaults, err := json.Marshal(s.state); err == nil {
		_ = json.Unmarshal(defaults, &next)
	}
	if err := json.Unmarshal(data, &next); err != nil {
		s.mu.Unlock()
		s.log.Error("snapshot decode failed", "error", err)
		return fmt.Errorf("hydrate %s: %w: %v", s.key, ErrCorruptSnapshot, err)
	}
	s.state = next
	s.mu.Unlock()

	s.log.Debug("store hydrated")
	s.notify(next)
	return nil
}

// Subscribe registers fn to receive every new state. The returned func
// removes the subscription.
func (s *Persisted[T]) Subscribe(fn func(T)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// mutate applies reduce and, when it reports a change, saves the full state.
// The in-memory change is kept even if the save fails; the save error is
// logged and returned.
func (s *Persisted[T]) mutate(ctx context.Context, reduce func(T) (T, bool)) error {
	s.mu.Lock()
	next, changed := reduce(s.state)
	if !changed {
		s.mu.Unlock()
		return nil
	}
	s.state = next
	saveErr := s.save(ctx, next)
	s.mu.Unlock()

	s.notify(next)
	return saveErr
}

func (s *Persisted[T]) save(ctx context.Context, state T) error {
	data, err := json.Marshal(state)
	if err != nil {
		s.log.Error("snapshot encode failed", "error", err)
		return fmt.Errorf("persist %s: %w", s.key, err)
	}
	if err := s.persister.Save(ctx, s.key, data); err != nil {
		s.log.Error("snapshot save failed", "key", s.key, "error", err)
		return fmt.Errorf("persist %s: %w", s.key, err)
	}
	return nil
}

func (s *Persisted[T]) notify(state T) {
	s.subMu.Lock()
	fns := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}
