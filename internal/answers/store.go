// Package answers holds the responses captured during a session.
package answers

import (
	"errors"
	"iter"
	"maps"
	"sort"
	"strings"
	"sync"
)

// ErrClosed is returned by Set after the owning session reached a
// terminal status.
var ErrClosed = errors.New("answer store is closed")

// Value is a captured response: free text, an option letter, a 1-5 rating
// or a transcript.
type Value string

// Unanswered is returned by Get for ids with no captured value.
const Unanswered Value = ""

// Answered reports whether v holds a non-blank response.
func (v Value) Answered() bool {
	return strings.TrimSpace(string(v)) != ""
}

// Reader is the read side graders consume.
type Reader interface {
	Get(id string) (Value, bool)
	Entries() iter.Seq2[string, Value]
	Len() int
}

// Store maps answer ids to values. Keys are unique and the last write wins.
type Store struct {
	mu     sync.RWMutex
	values map[string]Value
	closed bool
}

var _ Reader = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{values: make(map[string]Value)}
}

// Set records value under id, replacing any earlier value.
func (s *Store) Set(id string, value Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.values[id] = value
	return nil
}

// Get returns the value for id, or Unanswered and false.
func (s *Store) Get(id string) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[id]
	if !ok {
		return Unanswered, false
	}
	return v, true
}

// Len returns the number of captured ids.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Entries yields every (id, value) pair in id order. Each call starts a
// fresh pass over the values present at that moment.
func (s *Store) Entries() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		s.mu.RLock()
		ids := make([]string, 0, len(s.values))
		for id := range s.values {
			ids = append(ids, id)
		}
		snapshot := maps.Clone(s.values)
		s.mu.RUnlock()

		sort.Strings(ids)
		for _, id := range ids {
			if !yield(id, snapshot[id]) {
				return
			}
		}
	}
}

// Close rejects further writes. Reads keep working.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Closed reports whether Close was called.
func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Snapshot returns an independent read-only copy of the current values.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot(maps.Clone(s.values))
}

// Snapshot is an immutable copy of a store's values.
type Snapshot map[string]Value

var _ Reader = Snapshot(nil)

// Get returns the value for id, or Unanswered and false.
func (s Snapshot) Get(id string) (Value, bool) {
	v, ok := s[id]
	if !ok {
		return Unanswered, false
	}
	return v, true
}

// Len returns the number of captured ids.
func (s Snapshot) Len() int { return len(s) }

// Entries yields every (id, value) pair in id order.
func (s Snapshot) Entries() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		ids := make([]string, 0, len(s))
		for id := range s {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if !yield(id, s[id]) {
				return
			}
		}
	}
}
