package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/dusk-indust/concierge/internal/a2a"
	"github.com/dusk-indust/concierge/internal/orchestrator"
)

func runAsk(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		return errors.New("ask: question is required")
	}

	completer, err := newCompleter(e)
	if err != nil {
		return err
	}

	opts := []orchestrator.Option{
		orchestrator.WithCallTimeout(e.cfg.AgentTimeout),
		orchestrator.WithLogger(e.logger),
		orchestrator.WithMergerOptions(orchestrator.WithModel(e.cfg.Model)),
	}
	var progress *orchestrator.ProgressReporter
	if e.cfg.Verbose {
		progress = orchestrator.NewProgressReporter(func(ev orchestrator.ProgressEvent) {
			fmt.Fprintln(e.stderr, orchestrator.FormatProgress(ev))
		})
		opts = append(opts, orchestrator.WithProgress(progress.Emit))
	}

	orch := orchestrator.New(a2a.NewHTTPClient(a2a.WithTimeout(e.cfg.AgentTimeout)), completer, e.cfg.Endpoints(), opts...)
	answer, err := orch.Answer(ctx, question)
	// Flush progress lines before the answer is printed.
	if progress != nil {
		if n := progress.Close(); n > 0 {
			e.logger.Debug("progress events dropped", "count", n)
		}
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, answer)
	return nil
}

func runProbe(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("probe", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client := a2a.NewHTTPClient(a2a.WithTimeout(e.cfg.AgentTimeout))
	endpoints := e.cfg.Endpoints()

	failed := 0
	for _, ep := range endpoints {
		card, err := client.DiscoverAgent(ctx, ep.URL)
		if err != nil {
			failed++
			fmt.Fprintf(e.stdout, "  ✗ %-14s %s: %v\n", ep.Name, ep.URL, err)
			continue
		}
		fmt.Fprintf(e.stdout, "  ✓ %-14s %s (%s, %d skills)\n", ep.Name, ep.URL, card.Name, len(card.Skills))

		question := sampleQuestion(card)
		fmt.Fprintf(e.stdout, "    Q: %s\n", question)
		result, err := client.SendMessage(ctx, ep.URL, a2a.NewTextMessage(question))
		if err != nil {
			failed++
			fmt.Fprintf(e.stdout, "    ✗ %v\n", err)
			continue
		}
		answer, _ := a2a.Extract(result)
		fmt.Fprintf(e.stdout, "    A: %s\n", answer)
	}

	if failed > 0 {
		return fmt.Errorf("probe: %d of %d agents unreachable", failed, len(endpoints))
	}
	return nil
}

const fallbackSampleQuestion = "What can you help me with?"

// sampleQuestion returns the first example an agent advertises on its card.
func sampleQuestion(card *a2a.AgentCard) string {
	for _, skill := range card.Skills {
		if len(skill.Examples) > 0 {
			return skill.Examples[0]
		}
	}
	return fallbackSampleQuestion
}
