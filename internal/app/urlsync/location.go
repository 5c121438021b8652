package urlsync

import (
	"sync"

	"github.com/google/uuid"
)

// Location is the address bar abstraction the sync controller works
// against. SetHash fires the change callbacks synchronously, on the
// caller's goroutine, matching hash-change event semantics.
type Location interface {
	Hash() string
	SetHash(hash string)
	OnChange(fn func(hash string)) (remove func())
}

type locSub struct {
	id string
	fn func(string)
}

// MemoryLocation is an in-process Location. It backs the REST hash
// endpoints and the tests.
type MemoryLocation struct {
	mu   sync.Mutex
	hash string
	subs []locSub
}

// NewMemoryLocation creates a location holding the given initial hash.
func NewMemoryLocation(hash string) *MemoryLocation {
	return &MemoryLocation{hash: hash}
}

// Hash returns the current hash.
func (l *MemoryLocation) Hash() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hash
}

// SetHash stores the hash and notifies subscribers. Setting the hash
// it already holds fires nothing.
func (l *MemoryLocation) SetHash(hash string) {
	l.mu.Lock()
	if l.hash == hash {
		l.mu.Unlock()
		return
	}
	l.hash = hash
	subs := make([]locSub, len(l.subs))
	copy(subs, l.subs)
	l.mu.Unlock()

	for _, sub := range subs {
		sub.fn(hash)
	}
}

// OnChange registers a change callback and returns its removal
// function.
func (l *MemoryLocation) OnChange(fn func(string)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := uuid.New().String()
	l.subs = append(l.subs, locSub{id: id, fn: fn})

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, sub := range l.subs {
			if sub.id == id {
				l.subs = append(l.subs[:i], l.subs[i+1:]...)
				return
			}
		}
	}
}
