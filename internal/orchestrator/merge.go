package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/dusk-indust/concierge/internal/llm"
)

// Merge defaults.
const (
	// UnavailablePlaceholder stands in for a specialist that faulted.
	UnavailablePlaceholder = "(unavailable)"

	// MergeInstruction is the system prompt of the merge completion.
	MergeInstruction = "Summarize responses from sub-agents into a clear answer. Cite each agent by name."

	// DefaultMergeMaxTokens bounds the merged answer length.
	DefaultMergeMaxTokens = 512
)

// Merger combines labeled specialist answers into one narrative with a
// single completion call.
type Merger struct {
	completer llm.Completer
	model     string
	maxTokens int
}

// MergerOption configures a Merger.
type MergerOption func(*Merger)

// WithModel selects the completion model.
func WithModel(model string) MergerOption {
	return func(m *Merger) {
		m.model = model
	}
}

// WithMaxTokens bounds the merged answer length.
func WithMaxTokens(n int) MergerOption {
	return func(m *Merger) {
		m.maxTokens = n
	}
}

// NewMerger creates a Merger backed by completer.
func NewMerger(completer llm.Completer, opts ...MergerOption) *Merger {
	m := &Merger{
		completer: completer,
		model:     llm.DefaultModel,
		maxTokens: DefaultMergeMaxTokens,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Prompt renders the merge prompt: the question followed by one
// "<agent>: <answer>" block per result, in result order. Faulted results
// get UnavailablePlaceholder.
func (m *Merger) Prompt(query string, results []SpecialistResult) string {
	var sb strings.Builder
	sb.WriteString("User question: ")
	sb.WriteString(query)

	for _, r := range results {
		answer := r.Answer
		if r.Failed() {
			answer = UnavailablePlaceholder
		}
		fmt.Fprintf(&sb, "\n\n%s: %s", r.Agent, answer)
	}
	return sb.String()
}

// Merge invokes the completion capability exactly once and returns its
// output verbatim. There is no fallback when the call fails.
func (m *Merger) Merge(ctx context.Context, query string, results []SpecialistResult) (string, error) {
	answer, err := m.completer.Complete(ctx, llm.Request{
		Model:     m.model,
		System:    MergeInstruction,
		MaxTokens: m.maxTokens,
		Messages:  []llm.Message{llm.UserMessage(m.Prompt(query, results))},
	})
	observeMerge(err)
	if err != nil {
		return "", fmt.Errorf("merge: %w", err)
	}
	return answer, nil
}
