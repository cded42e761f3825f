// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package dispatch

import (
	"context"
	"errors"
)

// ErrMutexDisposed is returned by Acquire once a Mutex has been disposed
// (TryAcquire reports false instead); disposal is one-way and permanent.
var ErrMutexDisposed = errors.New("dispatch: mutex disposed")

// Mutex is a single-owner, non-reentrant exclusion primitive. It is the
// primitive the Dispatcher uses to serialize flushes, but it is exported
// and independently testable because its contract (block-until-free,
// try-without-blocking, irreversible dispose) is simple enough to verify
// in isolation of the rest of the engine.
//
// Ownership is not re-entrant: a goroutine that calls Acquire twice without
// an intervening Release will deadlock against itself, same as sync.Mutex.
// Release is undefined behavior if the caller does not hold the lock; this
// implementation treats a stray Release as a no-op rather than panicking,
// since a caller that already detected the misuse has no recovery path
// worth crashing over.
type Mutex struct {
	token    chan struct{}
	disposed chan struct{}
}

// NewMutex returns an unlocked Mutex.
func NewMutex() *Mutex {
	m := &Mutex{
		token:    make(chan struct{}, 1),
		disposed: make(chan struct{}),
	}
	m.token <- struct{}{}
	return m
}

// Acquire blocks the caller until ownership is granted, the context is
// canceled, or the Mutex is disposed.
func (m *Mutex) Acquire(ctx context.Context) error {
	select {
	case <-m.disposed:
		return ErrMutexDisposed
	default:
	}
	select {
	case <-m.token:
		return nil
	case <-m.disposed:
		return ErrMutexDisposed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire attempts to take ownership without blocking, returning whether
// it succeeded.
func (m *Mutex) TryAcquire() bool {
	select {
	case <-m.disposed:
		return false
	default:
	}
	select {
	case <-m.token:
		return true
	default:
		return false
	}
}

// Release relinquishes ownership. Calling Release without holding the lock
// is undefined behavior per the component contract; this implementation
// discards the stray release rather than panicking or blocking.
func (m *Mutex) Release() {
	select {
	case m.token <- struct{}{}:
	default:
	}
}

// Dispose releases ownership unconditionally and rejects all further
// Acquire/TryAcquire calls. Dispose is itself idempotent.
func (m *Mutex) Dispose() {
	select {
	case <-m.disposed:
	default:
		close(m.disposed)
	}
}
