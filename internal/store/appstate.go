package store

import "sync"

// AppStateStore holds process-lifetime flags. It is never persisted; a new
// process always starts with both flags cleared.
type AppStateStore struct {
	mu                        sync.RWMutex
	inCriticalFlow            bool
	hasBootstrappedNavigation bool

	subMu  sync.Mutex
	subs   map[int]func(bool)
	nextID int
}

func NewAppStateStore() *AppStateStore {
	return &AppStateStore{subs: make(map[int]func(bool))}
}

func (s *AppStateStore) InCriticalFlow() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inCriticalFlow
}

// SetCriticalFlow is called on entry to and exit from flows that must not be
// interrupted by automatic navigation, such as an interview session.
// Subscribers hear about actual changes only.
func (s *AppStateStore) SetCriticalFlow(v bool) {
	s.mu.Lock()
	changed := s.inCriticalFlow != v
	s.inCriticalFlow = v
	s.mu.Unlock()

	if changed {
		s.notify(v)
	}
}

func (s *AppStateStore) EnterCriticalFlow() { s.SetCriticalFlow(true) }

func (s *AppStateStore) ExitCriticalFlow() { s.SetCriticalFlow(false) }

// SubscribeCriticalFlow registers fn to receive every change of the
// critical-flow flag. The returned func removes the subscription.
func (s *AppStateStore) SubscribeCriticalFlow(fn func(inCriticalFlow bool)) func() {
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

func (s *AppStateStore) notify(v bool) {
	s.subMu.Lock()
	fns := make([]func(bool), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

func (s *AppStateStore) HasBootstrappedNavigation() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasBootstrappedNavigation
}

func (s *AppStateStore) SetBootstrappedNavigation(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasBootstrappedNavigation = v
}

func (s *AppStateStore) MarkBootstrapped() { s.SetBootstrappedNavigation(true) }
