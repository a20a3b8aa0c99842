// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"sync"
	"time"

	"github.com/toeirei/signwatch/internal/logging"
	"github.com/toeirei/signwatch/internal/model"
)

const recorderBuffer = 64

// Recorder writes connection state transitions to a Store from a single
// background goroutine so a slow database never blocks the connection
// manager. Events arriving while the buffer is full are dropped with a
// warning.
type Recorder struct {
	store Store
	ch    chan model.ConnEvent
	done  chan struct{}

	mu      sync.Mutex
	closed  bool
	last    model.Phase
	lastAtt int
	dropped int
}

// NewRecorder starts the writer goroutine.
func NewRecorder(s Store) *Recorder {
	r := &Recorder{
		store: s,
		ch:    make(chan model.ConnEvent, recorderBuffer),
		done:  make(chan struct{}),
		last:  -1,
	}
	go r.loop()
	return r
}

// Observe queues a row for st. Repeated snapshots with the same phase and
// attempt are collapsed. It never blocks.
func (r *Recorder) Observe(st model.ConnectionState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if st.Phase == r.last && st.Attempt == r.lastAtt {
		return
	}
	r.last, r.lastAtt = st.Phase, st.Attempt

	select {
	case r.ch <- model.EventFromState(st):
	default:
		r.dropped++
		logging.Warnf("journal: buffer full, dropped %s event", st.Phase)
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Close flushes queued events and stops the writer. It does not close the
// underlying Store.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.closed = true
	close(r.ch)
	r.mu.Unlock()
	<-r.done
	return nil
}

func (r *Recorder) loop() {
	defer close(r.done)
	for ev := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if _, err := r.store.Record(ctx, ev); err != nil {
			logging.Warnf("journal: %v", err)
		}
		cancel()
	}
}
