package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"github.com/dusk-indust/concierge/internal/a2a"
	"github.com/dusk-indust/concierge/internal/llm"
)

// Endpoint identifies one specialist agent.
type Endpoint struct {
	Name string // display name used in the merge prompt
	URL  string // base address; the JSON-RPC path is appended by the client
}

// SpecialistResult is the outcome of one call to one specialist. Exactly one
// of Answer and Err is meaningful: a fault sets Err, anything else sets
// Answer (possibly a2a.NoResponse with Found false).
type SpecialistResult struct {
	Agent  string
	Answer string
	Found  bool
	Err    error
}

// Failed reports whether the call faulted.
func (r SpecialistResult) Failed() bool {
	return r.Err != nil
}

// ProgressEvent is emitted while specialists are being called.
type ProgressEvent struct {
	Agent   string
	Status  ProgressStatus
	Message string
}

// ProgressStatus is the state of one specialist call.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
)

// Orchestrator answers a query by fanning it out to every configured
// specialist and merging their answers. It holds only immutable
// configuration and is safe for concurrent use.
type Orchestrator struct {
	endpoints []Endpoint
	fanout    *FanOut
	merger    *Merger
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*options)

type options struct {
	timeout    time.Duration
	onProgress func(ProgressEvent)
	logger     *slog.Logger
	mergeOpts  []MergerOption
}

// WithCallTimeout bounds each specialist call. Defaults to a2a.DefaultTimeout.
func WithCallTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithProgress registers a callback for per-specialist progress events.
func WithProgress(fn func(ProgressEvent)) Option {
	return func(o *options) {
		o.onProgress = fn
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMergerOptions forwards options to the Merger.
func WithMergerOptions(opts ...MergerOption) Option {
	return func(o *options) {
		o.mergeOpts = append(o.mergeOpts, opts...)
	}
}

// New creates an Orchestrator over endpoints. The slice is copied.
func New(client a2a.Client, completer llm.Completer, endpoints []Endpoint, opts ...Option) *Orchestrator {
	o := options{
		timeout: a2a.DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	eps := make([]Endpoint, len(endpoints))
	copy(eps, endpoints)

	caller := NewCaller(client, o.timeout)
	return &Orchestrator{
		endpoints: eps,
		fanout:    NewFanOut(caller, o.onProgress, o.logger),
		merger:    NewMerger(completer, o.mergeOpts...),
		logger:    o.logger,
	}
}

// Endpoints returns a copy of the configured specialists.
func (o *Orchestrator) Endpoints() []Endpoint {
	eps := make([]Endpoint, len(o.endpoints))
	copy(eps, o.endpoints)
	return eps
}

// Answer fans query out to every specialist, waits for all of them and
// merges the results. Specialist faults degrade the answer; a merge failure
// is returned as an error.
func (o *Orchestrator) Answer(ctx context.Context, query string) (string, error) {
	start := time.Now()
	results := o.fanout.Run(ctx, query, o.endpoints)

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	o.logger.Info("fan-out complete",
		"specialists", len(results),
		"failed", failed,
		"elapsed", time.Since(start))

	answer, err := o.merger.Merge(ctx, query, results)
	if err != nil {
		o.logger.Error("merge failed", "err", err)
		return "", err
	}
	return answer, nil
}
