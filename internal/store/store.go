// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// package store keeps the ordered list of service records received from the
// feed and exposes snapshots, derived stats and change notifications.
package store // import "github.com/toeirei/signwatch/internal/store"

import (
	"sync"

	"github.com/toeirei/signwatch/internal/feed"
	"github.com/toeirei/signwatch/internal/model"
)

// Store is the service list. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	records   []model.ServiceRecord
	loaded    bool
	revision  uint64
	snapshots uint64
	onUpdate  func()
	changes   chan struct{}
}

// New returns an empty store.
func New() *Store {
	return &Store{changes: make(chan struct{}, 1)}
}

// SetOnUpdate sets a callback fired after every change.
func (s *Store) SetOnUpdate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = fn
}

// Changes returns a channel that receives a value after one or more changes.
// Bursts are coalesced; readers should take a fresh Snapshot on receive.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

// Apply folds a decoded feed message into the list. It reports whether the
// list changed.
func (s *Store) Apply(msg feed.Message) bool {
	switch msg.Kind {
	case feed.KindList:
		s.Replace(msg.Records)
		return true
	case feed.KindPush:
		if len(msg.Records) == 0 {
			return false
		}
		s.Prepend(msg.Records[0])
		return true
	default:
		return false
	}
}

// Replace swaps the whole list for a snapshot.
func (s *Store) Replace(records []model.ServiceRecord) {
	cp := make([]model.ServiceRecord, len(records))
	copy(cp, records)

	s.mu.Lock()
	s.records = cp
	s.loaded = true
	s.revision++
	s.snapshots++
	fn := s.onUpdate
	s.mu.Unlock()

	s.notify(fn)
}

// Prepend inserts a record at the head of the list.
func (s *Store) Prepend(record model.ServiceRecord) {
	s.mu.Lock()
	next := make([]model.ServiceRecord, 0, len(s.records)+1)
	next = append(next, record)
	next = append(next, s.records...)
	s.records = next
	s.revision++
	fn := s.onUpdate
	s.mu.Unlock()

	s.notify(fn)
}

func (s *Store) notify(fn func()) {
	select {
	case s.changes <- struct{}{}:
	default:
	}
	if fn != nil {
		fn()
	}
}

// Snapshot returns a copy of the current list, newest first.
func (s *Store) Snapshot() []model.ServiceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ServiceRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Stats derives aggregate counts from the current list.
func (s *Store) Stats() model.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.ComputeStats(s.records)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Loaded reports whether at least one snapshot has been received.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Revision increases on every change.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Generation counts Replace calls. A change in Generation between two reads
// means a new snapshot arrived rather than only pushes.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots
}
