package orchestrator

import (
	"fmt"
	"sync"
	"sync/atomic"
)

const progressQueueSize = 64

// ProgressReporter hands progress events from the fan-out goroutines to a
// single consumer goroutine, so handle never runs concurrently with itself
// and a slow handle never stalls a specialist call. Events that arrive while
// the queue is full are dropped and counted.
type ProgressReporter struct {
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
	queue   chan ProgressEvent
	done    chan struct{}
}

// NewProgressReporter starts a consumer that calls handle for every queued
// event in arrival order.
func NewProgressReporter(handle func(ProgressEvent)) *ProgressReporter {
	r := &ProgressReporter{
		queue: make(chan ProgressEvent, progressQueueSize),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(r.done)
		for ev := range r.queue {
			handle(ev)
		}
	}()
	return r
}

// Emit queues ev without blocking. It is a no-op after Close.
func (r *ProgressReporter) Emit(ev ProgressEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- ev:
	default:
		r.dropped.Add(1)
	}
}

// Close stops accepting events, waits until every queued event has been
// handled and reports how many were dropped. Calling it again is safe.
func (r *ProgressReporter) Close() int64 {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()
	<-r.done
	return r.dropped.Load()
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Status {
	case ProgressPending:
		return fmt.Sprintf("  ○ %s (pending)", event.Agent)
	case ProgressWorking:
		return fmt.Sprintf("  ● %s...", event.Agent)
	case ProgressComplete:
		return fmt.Sprintf("  ✓ %s answered", event.Agent)
	case ProgressFailed:
		return fmt.Sprintf("  ✗ %s failed: %s", event.Agent, event.Message)
	default:
		return fmt.Sprintf("  ? %s (unknown status)", event.Agent)
	}
}
