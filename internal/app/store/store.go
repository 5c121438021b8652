package store

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Listener receives the full state after every effective change.
type Listener func(State)

// subscription pairs a listener with the handle used to remove it, so
// unsubscribing works for bound methods whose function values never
// compare equal.
type subscription struct {
	id string
	fn Listener
}

// Store owns the single mutable application state. It is constructed
// once per session and handed to each controller; there is no global
// instance.
type Store struct {
	api DataSource

	mu           sync.Mutex
	state        State
	lastNotified State
	subs         []subscription

	// nav is the navigation generation. Loads that finish after a newer
	// navigation began discard their result instead of committing stale
	// state.
	nav atomic.Uint64
}

// New creates a store with default state, backed by the given data
// source.
func New(api DataSource) *Store {
	s := &Store{api: api}
	s.state = State{View: ViewDashboard, Page: 1}
	s.lastNotified = s.state
	return s
}

// GetState returns a snapshot of the current state. Slices in the
// snapshot share backing arrays with the store and must not be
// mutated.
func (s *Store) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener invoked synchronously with the full
// state on every effective change, in registration order. The returned
// function removes the listener by handle.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// SetState merges the patch into the current state. The merge is
// skipped entirely when no set field differs from its current value;
// otherwise the old view and detail id are snapshotted into Previous
// and all listeners are notified.
func (s *Store) SetState(p Patch) {
	s.mu.Lock()
	if !p.changes(s.state) {
		s.mu.Unlock()
		return
	}
	s.applyLocked(p)
	s.mu.Unlock()

	s.Notify()
}

// applyLocked merges p and snapshots Previous. The read-merge-write
// sequence runs under the store lock so two concurrent updates cannot
// both build on the same stale base.
func (s *Store) applyLocked(p Patch) {
	old := s.state
	p.applyTo(&s.state)
	s.state.Previous = Previous{View: old.View, ID: old.DetailID}
}

// Notify invokes all listeners when the state changed since the last
// notification. The last-notified snapshot is updated before the
// listeners run, and the listeners run outside the lock, so they may
// call back into the store without recursing forever.
func (s *Store) Notify() {
	s.mu.Lock()
	if s.state.equal(s.lastNotified) {
		s.mu.Unlock()
		return
	}
	snap := s.state
	s.lastNotified = snap
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snap)
	}
}

// beginNav starts a new navigation generation.
func (s *Store) beginNav() uint64 {
	return s.nav.Add(1)
}

// navStale reports whether a newer navigation superseded gen.
func (s *Store) navStale(gen uint64) bool {
	return s.nav.Load() != gen
}
