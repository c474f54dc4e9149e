// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package video

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// Op names a store mutation.
type Op string

const (
	OpCreate  Op = "create"
	OpReplace Op = "replace"
	OpDelete  Op = "delete"
	OpClear   Op = "clear"
)

// Observer is notified after every successful mutation with the resulting
// collection size. Implementations must not call back into the Store.
type Observer interface {
	ObserveMutation(op Op, size int)
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used to stamp createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithObserver registers a mutation observer.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		s.observer = o
	}
}

// WithSeed preloads the two demo records the development server starts with.
func WithSeed() Option {
	return func(s *Store) {
		s.seed = true
	}
}

// Store is the in-memory video collection. Records keep insertion order and
// ids are assigned as max existing id + 1 (1 when empty). A single mutex
// guards every read-modify-write sequence so ids stay unique and not-found
// checks stay consistent under concurrent requests.
type Store struct {
	mu    sync.RWMutex
	order []int
	byID  map[int]*Video
	now   func() time.Time
	seed  bool

	observer Observer
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		byID: make(map[int]*Video),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seed {
		s.loadSeed()
	}
	return s
}

// List returns a copy of every record in insertion order.
func (s *Store) List() []Video {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Video, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].clone())
	}
	return out
}

// Get returns the record with the given id or ErrNotFound.
func (s *Store) Get(id int) (Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.byID[id]
	if !ok {
		return Video{}, fmt.Errorf("get video %d: %w", id, ErrNotFound)
	}
	return v.clone(), nil
}

// Exists reports whether a record with the given id is stored.
func (s *Store) Exists(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok
}

// Create appends a new record built from d. canBeDownloaded is false,
// minAgeRestriction is null and publicationDate is createdAt plus one day.
func (s *Store) Create(d Draft) Video {
	s.mu.Lock()
	created := s.createLocked(d, s.now())
	size := len(s.order)
	s.mu.Unlock()

	s.notify(OpCreate, size)
	return created
}

// Replace overwrites every updatable field of the record with f.
// id and createdAt are preserved.
func (s *Store) Replace(id int, f Fields) error {
	s.mu.Lock()
	v, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("replace video %d: %w", id, ErrNotFound)
	}
	v.apply(f)
	size := len(s.order)
	s.mu.Unlock()

	s.notify(OpReplace, size)
	return nil
}

// Delete removes the record with the given id or returns ErrNotFound.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	if _, ok := s.byID[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("delete video %d: %w", id, ErrNotFound)
	}
	delete(s.byID, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	size := len(s.order)
	s.mu.Unlock()

	s.notify(OpDelete, size)
	return nil
}

// Clear empties the collection. Calling it on an empty store is a no-op
// that still succeeds.
func (s *Store) Clear() {
	s.mu.Lock()
	s.order = nil
	s.byID = make(map[int]*Video)
	s.mu.Unlock()

	s.notify(OpClear, 0)
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *Store) createLocked(d Draft, now time.Time) Video {
	id := 1
	// ids only grow, so the last record always carries the maximum.
	if n := len(s.order); n > 0 {
		id = s.order[n-1] + 1
	}

	v := &Video{
		ID:                   id,
		Title:                d.Title,
		Author:               d.Author,
		CanBeDownloaded:      false,
		MinAgeRestriction:    nil,
		CreatedAt:            FormatTimestamp(now),
		PublicationDate:      FormatTimestamp(now.AddDate(0, 0, 1)),
		AvailableResolutions: slices.Clone(d.AvailableResolutions),
	}
	s.byID[id] = v
	s.order = append(s.order, id)
	return v.clone()
}

func (s *Store) notify(op Op, size int) {
	if s.observer != nil {
		s.observer.ObserveMutation(op, size)
	}
}

func (s *Store) loadSeed() {
	now := s.now()
	s.createLocked(Draft{
		Title:                "Awesome video",
		Author:               "Super cool artist",
		AvailableResolutions: []Resolution{P720, P1080},
	}, now)
	first := s.byID[s.order[len(s.order)-1]]
	first.CanBeDownloaded = true

	s.createLocked(Draft{
		Title:                "Super cool video",
		Author:               "Another random artist",
		AvailableResolutions: []Resolution{P720, P1080},
	}, now)
	second := s.byID[s.order[len(s.order)-1]]
	age := 16
	second.MinAgeRestriction = &age
}
