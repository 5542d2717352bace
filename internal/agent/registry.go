package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/dusk-indust/concierge/internal/a2a"
	"github.com/dusk-indust/concierge/internal/doctors"
	"github.com/dusk-indust/concierge/internal/llm"
	"github.com/dusk-indust/concierge/internal/orchestrator"
)

// Deps holds what the agents need to be constructed. Only the fields used by
// the spawned roles must be set.
type Deps struct {
	Completer llm.Completer
	Runner    llm.ToolRunner
	Directory *doctors.Directory
	PolicyDoc []byte
	// ProviderTools, when set, replace the in-process directory lookup.
	ProviderTools []llm.Tool

	// Client reaches the specialists from the healthcare agent. Defaults to
	// an HTTP client limited by CallTimeout.
	Client a2a.Client
	// Endpoints are the specialists a healthcare agent spawned on its own
	// consults. SpawnAll ignores them and uses the agents it started.
	Endpoints   []orchestrator.Endpoint
	CallTimeout time.Duration
	Progress    func(orchestrator.ProgressEvent)

	Model  string
	Logger *slog.Logger
}

// Registry builds agents by role and manages the lifecycle of spawned agents.
type Registry struct {
	mu      sync.Mutex
	deps    Deps
	spawned []Agent
}

// NewRegistry creates a Registry over deps.
func NewRegistry(deps Deps) *Registry {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Client == nil {
		deps.Client = a2a.NewHTTPClient(a2a.WithTimeout(deps.CallTimeout))
	}
	return &Registry{deps: deps}
}

// New constructs an agent for role without starting it.
func (r *Registry) New(role Role, opts ...Option) (Agent, error) {
	return r.build(role, r.deps.Endpoints, opts...)
}

func (r *Registry) build(role Role, endpoints []orchestrator.Endpoint, extra ...Option) (Agent, error) {
	d := r.deps
	opts := append([]Option{WithLogger(d.Logger), WithModel(d.Model)}, extra...)

	switch role {
	case RolePolicy:
		if d.Completer == nil {
			return nil, errors.New("agent: policy agent needs a completer")
		}
		if len(d.PolicyDoc) == 0 {
			return nil, errors.New("agent: policy agent needs a policy document")
		}
		return NewPolicyAgent(d.Completer, d.PolicyDoc, opts...), nil
	case RoleProvider:
		if d.Runner == nil || (d.Directory == nil && len(d.ProviderTools) == 0) {
			return nil, errors.New("agent: provider agent needs a tool runner and a directory")
		}
		if len(d.ProviderTools) > 0 {
			opts = append(opts, WithTools(d.ProviderTools...))
		}
		return NewProviderAgent(d.Runner, d.Directory, opts...), nil
	case RoleResearch:
		if d.Completer == nil {
			return nil, errors.New("agent: research agent needs a completer")
		}
		return NewResearchAgent(d.Completer, opts...), nil
	case RoleHealthcare:
		if d.Completer == nil {
			return nil, errors.New("agent: healthcare agent needs a completer")
		}
		orchOpts := []orchestrator.Option{
			orchestrator.WithCallTimeout(d.CallTimeout),
			orchestrator.WithLogger(d.Logger),
			orchestrator.WithProgress(d.Progress),
		}
		if d.Model != "" {
			orchOpts = append(orchOpts, orchestrator.WithMergerOptions(orchestrator.WithModel(d.Model)))
		}
		orch := orchestrator.New(d.Client, d.Completer, endpoints, orchOpts...)
		return NewHealthcareAgent(orch, opts...), nil
	}
	return nil, fmt.Errorf("agent: unknown role %q", role)
}

// Spawn constructs an agent for role and starts it on addr.
func (r *Registry) Spawn(ctx context.Context, role Role, addr string) (Agent, error) {
	ag, err := r.build(role, r.deps.Endpoints, WithURL("http://"+addr))
	if err != nil {
		return nil, err
	}
	if err := ag.Start(ctx, addr); err != nil {
		return nil, fmt.Errorf("agent: start %s on %s: %w", role, addr, err)
	}

	r.mu.Lock()
	r.spawned = append(r.spawned, ag)
	r.mu.Unlock()
	return ag, nil
}

// SpawnAll starts every agent on host with sequential ports from basePort,
// in Roles order. The healthcare agent is wired to the specialists started
// before it. On failure every agent already started is stopped.
func (r *Registry) SpawnAll(ctx context.Context, host string, basePort int) ([]Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		agents    []Agent
		endpoints []orchestrator.Endpoint
	)
	stopStarted := func() {
		for j := len(agents) - 1; j >= 0; j-- {
			_ = agents[j].Stop(ctx)
		}
	}

	for i, role := range Roles {
		addr := net.JoinHostPort(host, strconv.Itoa(basePort+i))
		url := "http://" + addr

		ag, err := r.build(role, endpoints, WithURL(url))
		if err != nil {
			stopStarted()
			return nil, err
		}
		if err := ag.Start(ctx, addr); err != nil {
			stopStarted()
			return nil, fmt.Errorf("agent: start %s on %s: %w", role, addr, err)
		}

		agents = append(agents, ag)
		if role != RoleHealthcare {
			endpoints = append(endpoints, orchestrator.Endpoint{Name: ag.Card().Name, URL: url})
		}
	}

	r.spawned = append(r.spawned, agents...)
	return agents, nil
}

// StopAll gracefully stops all spawned agents in reverse order.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for i := len(r.spawned) - 1; i >= 0; i-- {
		if err := r.spawned[i].Stop(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.spawned = nil
	return firstErr
}
