package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// FanOut dispatches one query to many specialists in parallel and waits for
// every call to finish. A failing call never cancels its siblings.
type FanOut struct {
	caller     *Caller
	onProgress func(ProgressEvent)
	logger     *slog.Logger
}

// NewFanOut creates a FanOut that dispatches calls via caller.
// onProgress is called synchronously from each goroutine; it may be nil.
func NewFanOut(caller *Caller, onProgress func(ProgressEvent), logger *slog.Logger) *FanOut {
	if logger == nil {
		logger = slog.Default()
	}
	return &FanOut{
		caller:     caller,
		onProgress: onProgress,
		logger:     logger,
	}
}

// Run calls every endpoint concurrently with query. The returned slice has
// one entry per endpoint, in endpoint order, regardless of completion order
// or failures.
//
// The errgroup is created without a derived context so that one fault does
// not cancel the remaining calls; goroutines always return nil and Wait is
// used purely as a barrier.
func (f *FanOut) Run(ctx context.Context, query string, endpoints []Endpoint) []SpecialistResult {
	results := make([]SpecialistResult, len(endpoints))
	var g errgroup.Group

	for i, ep := range endpoints {
		f.emit(ProgressEvent{Agent: ep.Name, Status: ProgressPending})

		g.Go(func() error {
			f.emit(ProgressEvent{Agent: ep.Name, Status: ProgressWorking})

			start := time.Now()
			res := f.caller.Call(ctx, ep, query)
			elapsed := time.Since(start)
			results[i] = res
			observeCall(res, elapsed)

			if res.Failed() {
				f.logger.Warn("specialist call failed",
					"agent", ep.Name,
					"url", ep.URL,
					"elapsed", elapsed,
					"err", res.Err)
				f.emit(ProgressEvent{Agent: ep.Name, Status: ProgressFailed, Message: res.Err.Error()})
				return nil
			}

			f.logger.Debug("specialist answered",
				"agent", ep.Name,
				"found", res.Found,
				"elapsed", elapsed)
			f.emit(ProgressEvent{Agent: ep.Name, Status: ProgressComplete})
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// emit sends a progress event if a callback is registered.
func (f *FanOut) emit(ev ProgressEvent) {
	if f.onProgress != nil {
		f.onProgress(ev)
	}
}
