package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/dusk-indust/concierge/internal/agent"
)

const shutdownTimeout = 5 * time.Second

func runServe(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	name := fs.String("agent", "", "agent to run: policy, provider, research or healthcare")
	addr := fs.String("addr", e.cfg.Addr(), "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	role, ok := agent.ParseRole(*name)
	if !ok {
		return fmt.Errorf("serve: unknown agent %q", *name)
	}

	deps, cleanup, err := buildDeps(ctx, e, []agent.Role{role})
	if err != nil {
		return err
	}
	defer cleanup()

	ag, err := agent.NewRegistry(deps).New(role, agent.WithURL("http://"+*addr))
	if err != nil {
		return err
	}
	if role == agent.RoleHealthcare {
		for _, ep := range deps.Endpoints {
			e.logger.Info("specialist configured", "agent", ep.Name, "url", ep.URL)
		}
	}
	return ag.ListenAndServe(ctx, *addr)
}

func runServeAll(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("serve-all", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	basePort := fs.Int("base-port", e.cfg.BasePort, "port of the first agent; the rest follow sequentially")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *basePort <= 0 {
		return errors.New("serve-all: base port must be positive")
	}

	deps, cleanup, err := buildDeps(ctx, e, agent.Roles)
	if err != nil {
		return err
	}
	defer cleanup()

	reg := agent.NewRegistry(deps)
	agents, err := reg.SpawnAll(ctx, e.cfg.Host, *basePort)
	if err != nil {
		return err
	}
	for _, ag := range agents {
		fmt.Fprintf(e.stdout, "%-16s %s\n", ag.Card().Name, ag.Card().URL)
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return reg.StopAll(stopCtx)
}
