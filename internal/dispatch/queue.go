// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package dispatch

import "sync"

// EventQueue is an ordered, bounded, in-memory buffer of pending events.
// Insertion order equals intended send order; when the buffer is over
// capacity, eviction removes from the head -- except during Prepend, where
// the invariant flips deliberately (see Prepend) so that a retried batch
// always outlives newly-arrived events competing for the same slots.
//
// All operations are atomic with respect to each other and never expose an
// interior slice reference to the caller.
type EventQueue struct {
	mu            sync.Mutex
	items         []Event
	maxBufferSize int // <= 0 means unbounded
	logger        Logger
}

// NewEventQueue returns an EventQueue capped at maxBufferSize events (<=0
// for unbounded). A nil logger is replaced with a no-op logger.
func NewEventQueue(maxBufferSize int, logger Logger) *EventQueue {
	if logger == nil {
		logger = NopLogger{}
	}
	return &EventQueue{maxBufferSize: maxBufferSize, logger: logger}
}

// evictHeadLocked drops events from the head until the queue is within
// maxBufferSize, returning the number dropped. Caller must hold mu.
func (q *EventQueue) evictHeadLocked() int {
	if q.maxBufferSize <= 0 {
		return 0
	}
	dropped := 0
	for len(q.items) > q.maxBufferSize {
		q.items = q.items[1:]
		dropped++
	}
	return dropped
}

// Push appends event to the tail. If the post-push length exceeds
// maxBufferSize, the oldest events are evicted from the head until the
// queue is back within capacity; the total dropped count for this call is
// logged once at WARN.
func (q *EventQueue) Push(event Event) {
	q.mu.Lock()
	q.items = append(q.items, event)
	dropped := q.evictHeadLocked()
	q.mu.Unlock()

	if dropped > 0 {
		q.logger.Warn("event buffer overflow, dropped oldest events", map[string]any{"dropped": dropped})
	}
}

// TakeBatch removes and returns up to the first n events in order. It
// returns nil if the queue is empty or n <= 0.
func (q *EventQueue) TakeBatch(n int) []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n <= 0 || len(q.items) == 0 {
		return nil
	}
	if n > len(q.items) {
		n = len(q.items)
	}
	batch := make([]Event, n)
	copy(batch, q.items[:n])
	q.items = q.items[n:]
	return batch
}

// Prepend inserts events at the head, preserving their relative order --
// this is the requeue path for a batch that failed a retryable send.
//
// If the combined length would exceed maxBufferSize, eviction happens from
// the *tail* of the combined sequence rather than the head: retry events
// occupy indices [0, len(events)) and must survive as long as anything
// survives, so newly-arrived events already sitting in the queue are the
// ones sacrificed first. This deliberately inverts Push's head-eviction
// policy to preserve retry progress over fresh arrivals.
func (q *EventQueue) Prepend(events []Event) {
	if len(events) == 0 {
		return
	}

	q.mu.Lock()
	combined := make([]Event, 0, len(events)+len(q.items))
	combined = append(combined, events...)
	combined = append(combined, q.items...)

	dropped := 0
	if q.maxBufferSize > 0 && len(combined) > q.maxBufferSize {
		// combined[:maxBufferSize] keeps the head of the combined
		// sequence -- retry events first, then existing events -- so
		// this always trims from the tail regardless of whether the
		// retry batch alone already exceeds capacity.
		dropped = len(combined) - q.maxBufferSize
		combined = combined[:q.maxBufferSize]
	}
	q.items = combined
	q.mu.Unlock()

	if dropped > 0 {
		q.logger.Warn("event buffer overflow during requeue, dropped newest events", map[string]any{"dropped": dropped})
	}
}

// Len returns the current number of queued events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear empties the queue.
func (q *EventQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}

// Snapshot returns a copy of the queue contents in order, safe for the
// caller to retain.
func (q *EventQueue) Snapshot() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Event, len(q.items))
	copy(out, q.items)
	return out
}

// Replace discards the current contents and installs events as the new
// queue state, applying the same head-eviction policy as Push. It is used
// at init time to load previously-persisted events. It returns the number
// of events evicted to fit maxBufferSize.
func (q *EventQueue) Replace(events []Event) int {
	q.mu.Lock()
	q.items = append([]Event(nil), events...)
	dropped := q.evictHeadLocked()
	q.mu.Unlock()
	return dropped
}
