// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"
)

// Dispatcher owns the event queue, the flush state machine, and the
// transport/persistence side effects. It is the engine the Client facade
// drives; nothing about it is specific to any particular call site, so it
// is safe to construct and operate directly for callers that don't need
// the facade's pre-init buffering.
type Dispatcher struct {
	cfg         Config
	transport   Transport
	persistence Persistence
	logger      Logger
	metrics     Metrics

	metadata MetadataProvider
	session  SessionProvider
	platform PlatformProvider

	queue   *EventQueue
	flushMu *Mutex

	stateMu sync.Mutex
	state   State

	retryTimerMu sync.Mutex
	retryTimer   *time.Timer

	supervisor   *suture.Supervisor
	supervisorCh <-chan error
	timerStop    context.CancelFunc
}

// NewDispatcher validates cfg and the required capabilities and returns a
// Dispatcher in StateUninitialized. transport and persistence are
// mandatory; logger, metrics, and the three providers default to no-ops /
// nil-returning functions when omitted.
func NewDispatcher(
	cfg Config,
	transport Transport,
	persistence Persistence,
	logger Logger,
	metrics Metrics,
	metadata MetadataProvider,
	session SessionProvider,
	platform PlatformProvider,
) (*Dispatcher, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, &ConfigError{Err: ErrMissingTransport}
	}
	if persistence == nil {
		return nil, &ConfigError{Err: ErrMissingPersistence}
	}
	if logger == nil {
		logger = NopLogger{}
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if metadata == nil {
		metadata = func() map[string]any { return nil }
	}
	if session == nil {
		session = func() *string { return nil }
	}
	if platform == nil {
		platform = func() *Platform { return nil }
	}

	return &Dispatcher{
		cfg:         cfg,
		transport:   transport,
		persistence: persistence,
		logger:      logger,
		metrics:     metrics,
		metadata:    metadata,
		session:     session,
		platform:    platform,
		queue:       NewEventQueue(cfg.MaxBufferSize, logger),
		flushMu:     NewMutex(),
		state:       StateUninitialized,
	}, nil
}

// State returns the current lifecycle state.
func (d *Dispatcher) State() State {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()
	return d.state
}

// QueueDepth returns the number of events currently held in the queue.
// Safe to call from any state, including before Init.
func (d *Dispatcher) QueueDepth() int {
	return d.queue.Len()
}

// QueueSnapshot returns a copy of the events currently held in the queue,
// oldest first. It is a read-only diagnostic view: it neither removes nor
// mutates queue state, and the result is not kept in sync with subsequent
// queue activity.
func (d *Dispatcher) QueueSnapshot() []Event {
	return d.queue.Snapshot()
}

// Init transitions the Dispatcher from Uninitialized or Disposed into
// Running: it restores any previously-persisted queue contents, starts the
// supervised flush timer, and unblocks Enqueue/Flush. Calling Init while
// already Running or Flushing is a no-op that returns nil -- Init is
// idempotent by design so a Client facade can call it freely on every
// app-resume path without tracking whether it already ran. Calling Init
// while a prior call is still Initializing is a programmer error and
// returns a *LifecycleError instead.
func (d *Dispatcher) Init(ctx context.Context) error {
	d.stateMu.Lock()
	switch d.state {
	case StateRunning, StateFlushing:
		d.stateMu.Unlock()
		return nil
	case StateInitializing:
		state := d.state
		d.stateMu.Unlock()
		return &LifecycleError{State: state, Op: "init"}
	}
	d.state = StateInitializing
	d.stateMu.Unlock()

	if d.cfg.MaxBufferSize > 0 && d.cfg.MaxBufferSize < d.cfg.MaxBatchSize {
		d.logger.Warn("max buffer size is smaller than max batch size; flushes will never reach full batch size", map[string]any{
			"maxBufferSize": d.cfg.MaxBufferSize,
			"maxBatchSize":  d.cfg.MaxBatchSize,
		})
	}

	restored, err := d.persistence.Load(ctx)
	if err != nil {
		d.logger.Error("failed to load persisted events", map[string]any{"error": err.Error()})
	} else if len(restored) > 0 {
		dropped := d.queue.Replace(restored)
		if dropped > 0 {
			d.metrics.RecordBufferEviction(dropped)
		}
		d.logger.Info("restored persisted events", map[string]any{"count": len(restored), "dropped": dropped})
	}
	d.metrics.SetQueueDepth(d.queue.Len())

	timerCtx, cancel := context.WithCancel(context.Background())
	d.timerStop = cancel

	supervisor := suture.New("dispatch", suture.Spec{})
	supervisor.Add(&flushTimerService{dispatcher: d, interval: d.cfg.FlushInterval})
	d.supervisor = supervisor
	d.supervisorCh = supervisor.ServeBackground(timerCtx)

	d.stateMu.Lock()
	d.state = StateRunning
	d.stateMu.Unlock()
	return nil
}

// flushTimerService is a suture.Service that calls Flush on a fixed
// interval for as long as the Dispatcher is running. Panics inside Flush
// are isolated by suture and restart the timer rather than taking down the
// whole process.
type flushTimerService struct {
	dispatcher *Dispatcher
	interval   time.Duration
}

func (s *flushTimerService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.dispatcher.Flush(ctx)
		}
	}
}

// Enqueue builds an Event from the given name, payload, and per-call
// metadata overrides, snapshots ambient metadata/session/platform, and
// appends it to the queue. It never blocks on transport or persistence. If
// the queue now holds at least MaxBatchSize events, an asynchronous flush
// is triggered; Enqueue itself still returns immediately.
func (d *Dispatcher) Enqueue(name string, payload map[string]any, overrides map[string]any) error {
	if name == "" {
		return ErrEmptyEventName
	}

	merged := d.metadata()
	if len(overrides) > 0 {
		out := make(map[string]any, len(merged)+len(overrides))
		for k, v := range merged {
			out[k] = v
		}
		for k, v := range overrides {
			out[k] = v
		}
		merged = out
	}

	event := Event{
		Name:      name,
		Payload:   payload,
		IssuedAt:  time.Now().UnixMilli(),
		SessionID: d.session(),
		Metadata:  merged,
		Platform:  d.platform(),
	}

	d.queue.Push(event)
	d.metrics.RecordEnqueue()
	d.metrics.SetQueueDepth(d.queue.Len())

	snapshot := d.queue.Snapshot()
	go func() {
		if err := d.persistence.Save(context.Background(), snapshot); err != nil {
			d.logger.Warn("failed to persist queue after enqueue", map[string]any{"error": err.Error()})
		}
	}()

	if d.queue.Len() >= d.cfg.MaxBatchSize {
		go d.Flush(context.Background())
	}
	return nil
}

// Flush attempts to send one batch. If a flush is already in progress,
// Flush returns immediately without error -- the in-flight flush will pick
// up whatever is in the queue by the time it runs next, so a second
// concurrent attempt would only duplicate work.
func (d *Dispatcher) Flush(ctx context.Context) {
	if !d.flushMu.TryAcquire() {
		return
	}
	defer d.flushMu.Release()

	d.stateMu.Lock()
	if d.state != StateRunning {
		d.stateMu.Unlock()
		return
	}
	d.state = StateFlushing
	d.stateMu.Unlock()

	defer func() {
		d.stateMu.Lock()
		if d.state == StateFlushing {
			d.state = StateRunning
		}
		d.stateMu.Unlock()
	}()

	batch := d.queue.TakeBatch(d.cfg.MaxBatchSize)
	if len(batch) == 0 {
		return
	}
	d.metrics.SetQueueDepth(d.queue.Len())

	if err := d.persistence.Save(ctx, d.queue.Snapshot()); err != nil {
		d.logger.Warn("failed to persist queue before flush", map[string]any{"error": err.Error()})
	}

	for i := range batch {
		batch[i].Attempts++
	}

	resp, err := d.transport.Send(ctx, batch, d.cfg.Endpoint, d.cfg.APIKeyHeader, d.cfg.APIKey)
	switch {
	case err != nil:
		d.requeueForRetry(ctx, batch)
	case resp.Status >= 200 && resp.Status < 300:
		d.onSuccess(ctx, len(batch))
	case resp.Status >= 400 && resp.Status < 500:
		d.onTerminalDrop(ctx, batch)
	default:
		d.requeueForRetry(ctx, batch)
	}
}

// onSuccess records the sent batch and syncs persistence. The batch itself
// is already gone from the queue (TakeBatch removed it before the send).
// If nothing else is queued, persistence is cleared; otherwise the
// remaining events -- either because the queue held more than
// MaxBatchSize at flush time, or because Enqueue added more while the send
// was in flight -- are re-persisted.
func (d *Dispatcher) onSuccess(ctx context.Context, n int) {
	d.metrics.RecordBatchSent(n)
	if d.queue.Len() == 0 {
		if err := d.persistence.Clear(ctx); err != nil {
			d.logger.Warn("failed to clear persistence after successful flush", map[string]any{"error": err.Error()})
		}
		return
	}
	if err := d.persistence.Save(ctx, d.queue.Snapshot()); err != nil {
		d.logger.Warn("failed to persist queue after successful flush", map[string]any{"error": err.Error()})
	}
}

func (d *Dispatcher) onTerminalDrop(ctx context.Context, batch []Event) {
	d.metrics.RecordTerminalDrop(len(batch))
	d.logger.Warn("batch rejected by collector, dropping", map[string]any{"count": len(batch)})
	if err := d.persistence.Save(ctx, d.queue.Snapshot()); err != nil {
		d.logger.Warn("failed to persist queue after terminal drop", map[string]any{"error": err.Error()})
	}
}

// requeueForRetry re-homes the failed batch at the head of the queue,
// dropping any event that has already exhausted MaxRetries, and schedules
// a single follow-up flush after the appropriate backoff.
func (d *Dispatcher) requeueForRetry(ctx context.Context, batch []Event) {
	retryable := batch[:0:0]
	terminal := 0
	for _, e := range batch {
		if e.Attempts > d.cfg.MaxRetries {
			terminal++
			continue
		}
		retryable = append(retryable, e)
	}
	if terminal > 0 {
		d.metrics.RecordTerminalDrop(terminal)
		d.logger.Warn("event exceeded max retries, dropping", map[string]any{"count": terminal})
	}

	if len(retryable) > 0 {
		d.queue.Prepend(retryable)
	}
	d.metrics.SetQueueDepth(d.queue.Len())

	if err := d.persistence.Save(ctx, d.queue.Snapshot()); err != nil {
		d.logger.Warn("failed to persist queue after retryable failure", map[string]any{"error": err.Error()})
	}

	if len(retryable) == 0 {
		return
	}

	maxAttempts := 0
	for _, e := range retryable {
		if e.Attempts > maxAttempts {
			maxAttempts = e.Attempts
		}
	}
	d.scheduleRetry(maxAttempts - 1)
}

// scheduleRetry arranges a single flush attempt after backoffDelay(attempt).
// Only one retry timer is ever outstanding; a newer schedule replaces an
// older one rather than stacking.
func (d *Dispatcher) scheduleRetry(attempt int) {
	if attempt < 0 {
		attempt = 0
	}
	delay := backoffDelay(attempt)
	d.metrics.RecordRetryScheduled(delay)

	d.retryTimerMu.Lock()
	defer d.retryTimerMu.Unlock()
	if d.retryTimer != nil {
		d.retryTimer.Stop()
	}
	d.retryTimer = time.AfterFunc(delay, func() {
		d.Flush(context.Background())
	})
}

// Dispose transitions to Disposed: it stops the flush timer and any
// pending retry timer, waits for an in-flight flush to finish, and empties
// the in-memory queue. It deliberately does not clear persisted state --
// whatever was last saved remains available for the next Init to restore.
// A subsequent Init call fully reinitializes the Dispatcher.
func (d *Dispatcher) Dispose() {
	d.stateMu.Lock()
	if d.state == StateDisposed {
		d.stateMu.Unlock()
		return
	}
	d.state = StateDisposed
	d.stateMu.Unlock()

	if d.timerStop != nil {
		d.timerStop()
	}
	if d.supervisorCh != nil {
		<-d.supervisorCh
	}

	d.retryTimerMu.Lock()
	if d.retryTimer != nil {
		d.retryTimer.Stop()
		d.retryTimer = nil
	}
	d.retryTimerMu.Unlock()

	// Block until any in-flight flush releases, then immediately give
	// ownership back -- the Mutex itself stays usable for the next Init.
	_ = d.flushMu.Acquire(context.Background())
	d.flushMu.Release()

	d.queue.Clear()
}
