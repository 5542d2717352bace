package main

import (
	"context"
	"errors"
	"slices"

	"github.com/dusk-indust/concierge/internal/agent"
	"github.com/dusk-indust/concierge/internal/doctors"
	"github.com/dusk-indust/concierge/internal/llm"
	"github.com/dusk-indust/concierge/internal/mcptools"
	"github.com/dusk-indust/concierge/internal/orchestrator"
)

// newCompleter builds the Anthropic client from config.
func newCompleter(e *env) (*llm.Anthropic, error) {
	if e.cfg.AnthropicAPIKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY is not set")
	}
	return llm.NewAnthropic(e.cfg.AnthropicAPIKey, e.cfg.AnthropicBaseURL, llm.WithLogger(e.logger)), nil
}

// buildDeps loads only what roles need. The provider agent reaches the
// directory through the doctor MCP server on an in-memory transport; the
// returned cleanup closes that session.
func buildDeps(ctx context.Context, e *env, roles []agent.Role) (agent.Deps, func(), error) {
	cleanup := func() {}

	completer, err := newCompleter(e)
	if err != nil {
		return agent.Deps{}, cleanup, err
	}

	deps := agent.Deps{
		Completer:   completer,
		Runner:      completer,
		Endpoints:   e.cfg.Endpoints(),
		CallTimeout: e.cfg.AgentTimeout,
		Model:       e.cfg.Model,
		Logger:      e.logger,
	}
	if e.cfg.Verbose {
		deps.Progress = printProgress(e)
	}

	if slices.Contains(roles, agent.RolePolicy) {
		pdf, err := agent.LoadPolicyDocument(e.cfg.PolicyDocPath)
		if err != nil {
			return agent.Deps{}, cleanup, err
		}
		deps.PolicyDoc = pdf
	}

	if slices.Contains(roles, agent.RoleProvider) {
		dir, err := doctors.Load(e.cfg.DoctorsPath)
		if err != nil {
			return agent.Deps{}, cleanup, err
		}
		session, err := mcptools.ConnectInMemory(ctx, mcptools.NewDoctorMCPServer(dir))
		if err != nil {
			return agent.Deps{}, cleanup, err
		}
		cleanup = func() { session.Close() }

		tools, err := mcptools.Tools(ctx, session)
		if err != nil {
			cleanup()
			return agent.Deps{}, func() {}, err
		}
		deps.Directory = dir
		deps.ProviderTools = tools
		e.logger.Info("doctor directory loaded", "path", e.cfg.DoctorsPath, "doctors", dir.Len())
	}

	return deps, cleanup, nil
}

// printProgress writes fan-out progress lines to stderr.
func printProgress(e *env) func(orchestrator.ProgressEvent) {
	return func(ev orchestrator.ProgressEvent) {
		e.logger.Debug(orchestrator.FormatProgress(ev))
	}
}
