// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeTransport records every batch sent and returns queued responses in
// order, repeating the last one once exhausted.
type fakeTransport struct {
	mu        sync.Mutex
	responses []*Response
	errs      []error
	calls     [][]Event
}

func (f *fakeTransport) Send(_ context.Context, batch []Event, _, _, _ string) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := make([]Event, len(batch))
	copy(cp, batch)
	f.calls = append(f.calls, cp)

	idx := len(f.calls) - 1
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	if len(f.responses) > 0 {
		return f.responses[len(f.responses)-1], nil
	}
	return &Response{Status: 200}, nil
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakePersistence struct {
	mu     sync.Mutex
	saved  []Event
	cleared bool
}

func (p *fakePersistence) Save(_ context.Context, events []Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saved = append([]Event(nil), events...)
	p.cleared = false
	return nil
}

func (p *fakePersistence) Load(_ context.Context) ([]Event, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.saved...), nil
}

func (p *fakePersistence) Clear(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saved = nil
	p.cleared = true
	return nil
}

func testConfig() Config {
	return Config{
		APIKey:        "key",
		Endpoint:      "https://collector.example.com/v1/events",
		MaxBatchSize:  2,
		MaxRetries:    2,
		FlushInterval: time.Hour, // effectively disable the timer for deterministic tests
	}
}

func newTestDispatcher(t *testing.T, transport Transport, persistence Persistence) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(testConfig(), transport, persistence, nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	return d
}

func TestNewDispatcher_RejectsMissingTransport(t *testing.T) {
	_, err := NewDispatcher(testConfig(), nil, &fakePersistence{}, nil, nil, nil, nil, nil)
	if !errors.Is(err, ErrMissingTransport) {
		t.Fatalf("expected ErrMissingTransport, got %v", err)
	}
}

func TestNewDispatcher_RejectsMissingPersistence(t *testing.T) {
	_, err := NewDispatcher(testConfig(), &fakeTransport{}, nil, nil, nil, nil, nil, nil)
	if !errors.Is(err, ErrMissingPersistence) {
		t.Fatalf("expected ErrMissingPersistence, got %v", err)
	}
}

func TestNewDispatcher_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Endpoint = "http://insecure.example.com"
	_, err := NewDispatcher(cfg, &fakeTransport{}, &fakePersistence{}, nil, nil, nil, nil, nil)
	if !errors.Is(err, ErrEndpointNotHTTPS) {
		t.Fatalf("expected ErrEndpointNotHTTPS, got %v", err)
	}
}

func TestDispatcher_EnqueueBeforeInitDoesNotFlush(t *testing.T) {
	transport := &fakeTransport{}
	d := newTestDispatcher(t, transport, &fakePersistence{})

	if err := d.Enqueue("viewed", nil, nil); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if d.State() != StateUninitialized {
		t.Fatalf("expected state to remain Uninitialized, got %s", d.State())
	}
}

func TestDispatcher_EnqueueRejectsEmptyName(t *testing.T) {
	d := newTestDispatcher(t, &fakeTransport{}, &fakePersistence{})
	if err := d.Enqueue("", nil, nil); !errors.Is(err, ErrEmptyEventName) {
		t.Fatalf("expected ErrEmptyEventName, got %v", err)
	}
}

func TestDispatcher_InitIsIdempotent(t *testing.T) {
	d := newTestDispatcher(t, &fakeTransport{}, &fakePersistence{})
	ctx := context.Background()

	if err := d.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := d.Init(ctx); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	if d.State() != StateRunning {
		t.Fatalf("expected Running, got %s", d.State())
	}
	d.Dispose()
}

func TestDispatcher_InitRestoresPersistedEvents(t *testing.T) {
	transport := &fakeTransport{}
	persistence := &fakePersistence{saved: []Event{namedEvent("restored")}}
	d := newTestDispatcher(t, transport, persistence)

	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer d.Dispose()

	if d.queue.Len() != 1 {
		t.Fatalf("expected restored event in queue, got len=%d", d.queue.Len())
	}
}

func TestDispatcher_FlushTriggeredAtMaxBatchSize(t *testing.T) {
	transport := &fakeTransport{}
	d := newTestDispatcher(t, transport, &fakePersistence{})
	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer d.Dispose()

	_ = d.Enqueue("a", nil, nil)
	_ = d.Enqueue("b", nil, nil) // reaches MaxBatchSize=2, triggers async flush

	waitFor(t, func() bool { return transport.callCount() >= 1 })
}

func TestDispatcher_SuccessClearsPersistence(t *testing.T) {
	transport := &fakeTransport{responses: []*Response{{Status: 200}}}
	persistence := &fakePersistence{}
	d := newTestDispatcher(t, transport, persistence)
	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer d.Dispose()

	_ = d.Enqueue("a", nil, nil)
	// Let Enqueue's asynchronous save land first so it cannot overwrite the
	// post-flush state.
	waitFor(t, func() bool {
		loaded, err := persistence.Load(context.Background())
		return err == nil && len(loaded) == 1
	})
	d.Flush(context.Background())

	persistence.mu.Lock()
	cleared := persistence.cleared
	persistence.mu.Unlock()
	if !cleared {
		t.Fatal("expected persistence to be cleared after a successful flush")
	}
}

func TestDispatcher_TerminalDropOn4xxDoesNotRetry(t *testing.T) {
	transport := &fakeTransport{responses: []*Response{{Status: 400}}}
	d := newTestDispatcher(t, transport, &fakePersistence{})
	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer d.Dispose()

	_ = d.Enqueue("a", nil, nil)
	d.Flush(context.Background())

	if d.queue.Len() != 0 {
		t.Fatalf("expected dropped batch not to be requeued, got len=%d", d.queue.Len())
	}
}

func TestDispatcher_RetryOn5xxRequeuesAndSchedulesBackoff(t *testing.T) {
	transport := &fakeTransport{responses: []*Response{{Status: 503}}}
	d := newTestDispatcher(t, transport, &fakePersistence{})
	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer d.Dispose()

	_ = d.Enqueue("a", nil, nil)
	d.Flush(context.Background())

	if d.queue.Len() != 1 {
		t.Fatalf("expected failed batch requeued, got len=%d", d.queue.Len())
	}
	if d.queue.Snapshot()[0].Attempts != 1 {
		t.Fatalf("expected Attempts=1 after first failed send, got %d", d.queue.Snapshot()[0].Attempts)
	}

	d.retryTimerMu.Lock()
	hasTimer := d.retryTimer != nil
	d.retryTimerMu.Unlock()
	if !hasTimer {
		t.Fatal("expected a retry timer to be scheduled")
	}
}

func TestDispatcher_NetworkErrorIsAlwaysRetryable(t *testing.T) {
	transport := &fakeTransport{errs: []error{errors.New("connection refused")}}
	d := newTestDispatcher(t, transport, &fakePersistence{})
	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer d.Dispose()

	_ = d.Enqueue("a", nil, nil)
	d.Flush(context.Background())

	if d.queue.Len() != 1 {
		t.Fatalf("expected event requeued after network error, got len=%d", d.queue.Len())
	}
}

func TestDispatcher_DropsEventAfterExhaustingMaxRetries(t *testing.T) {
	transport := &fakeTransport{responses: []*Response{{Status: 503}}}
	d := newTestDispatcher(t, transport, &fakePersistence{})
	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer d.Dispose()

	_ = d.Enqueue("a", nil, nil)

	// MaxRetries=2: event transmitted at most 3 times before being dropped.
	for i := 0; i < 3; i++ {
		d.Flush(context.Background())
	}

	if d.queue.Len() != 0 {
		t.Fatalf("expected event dropped after exhausting retries, got len=%d", d.queue.Len())
	}
}

func TestDispatcher_FlushNoopWhenNotRunning(t *testing.T) {
	d := newTestDispatcher(t, &fakeTransport{}, &fakePersistence{})
	// Never initialized: state is Uninitialized.
	d.Flush(context.Background())
	if d.queue.Len() != 0 {
		t.Fatalf("expected no-op flush to leave empty queue untouched, got %d", d.queue.Len())
	}
}

func TestDispatcher_InitWhileInitializingReturnsLifecycleError(t *testing.T) {
	d := newTestDispatcher(t, &fakeTransport{}, &fakePersistence{})
	d.stateMu.Lock()
	d.state = StateInitializing
	d.stateMu.Unlock()

	err := d.Init(context.Background())
	var lifecycleErr *LifecycleError
	if !errors.As(err, &lifecycleErr) {
		t.Fatalf("Init() while Initializing = %v, want *LifecycleError", err)
	}
	if lifecycleErr.State != StateInitializing {
		t.Fatalf("LifecycleError.State = %v, want %v", lifecycleErr.State, StateInitializing)
	}
}

func TestDispatcher_ConcurrentFlushesDoNotDuplicateSend(t *testing.T) {
	transport := &fakeTransport{}
	d := newTestDispatcher(t, transport, &fakePersistence{})
	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer d.Dispose()

	_ = d.Enqueue("a", nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Flush(context.Background())
		}()
	}
	wg.Wait()

	if transport.callCount() != 1 {
		t.Fatalf("expected exactly one Send call despite concurrent Flush calls, got %d", transport.callCount())
	}
}

func TestDispatcher_DisposeThenReinitResumesCleanly(t *testing.T) {
	transport := &fakeTransport{}
	persistence := &fakePersistence{}
	d := newTestDispatcher(t, transport, persistence)

	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	_ = d.Enqueue("a", nil, nil)
	waitFor(t, func() bool {
		loaded, err := persistence.Load(context.Background())
		return err == nil && len(loaded) == 1
	})
	d.Dispose()

	if d.State() != StateDisposed {
		t.Fatalf("expected Disposed, got %s", d.State())
	}
	if d.queue.Len() != 0 {
		t.Fatalf("expected in-memory queue cleared on Dispose, got %d", d.queue.Len())
	}

	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("re-Init() error = %v", err)
	}
	defer d.Dispose()
	if d.State() != StateRunning {
		t.Fatalf("expected Running after re-Init, got %s", d.State())
	}
	if got := d.queue.Len(); got != 1 {
		t.Fatalf("expected re-Init to restore 1 persisted event, got %d", got)
	}
	if d.queue.Snapshot()[0].Name != "a" {
		t.Fatalf("expected restored event name %q, got %q", "a", d.queue.Snapshot()[0].Name)
	}
}

func TestDispatcher_DisposeIsIdempotent(t *testing.T) {
	d := newTestDispatcher(t, &fakeTransport{}, &fakePersistence{})
	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	d.Dispose()
	d.Dispose() // must not block or panic
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}
