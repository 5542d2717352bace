package agent

import (
	"context"

	"github.com/dusk-indust/concierge/internal/a2a"
	"github.com/dusk-indust/concierge/internal/orchestrator"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsPath is where the healthcare agent exposes Prometheus metrics.
const MetricsPath = "/metrics"

// Answerer produces a merged answer for a query.
type Answerer interface {
	Answer(ctx context.Context, query string) (string, error)
}

var _ Answerer = (*orchestrator.Orchestrator)(nil)

// HealthcareAgent is the user-facing concierge. It fans each question out to
// the specialists and returns their merged answer.
type HealthcareAgent struct {
	*BaseAgent
	orch Answerer
}

// NewHealthcareAgent creates a HealthcareAgent over orch.
func NewHealthcareAgent(orch Answerer, opts ...Option) *HealthcareAgent {
	o := buildOptions(append([]Option{
		WithServerOptions(a2a.WithRoute("GET "+MetricsPath, promhttp.Handler())),
	}, opts...))

	ha := &HealthcareAgent{orch: orch}
	ha.BaseAgent = newBaseAgent(card(NameHealthcare,
		"Answers healthcare questions by consulting policy, provider and research specialists",
		a2a.AgentSkill{
			ID:          "healthcare-concierge",
			Name:        "Healthcare Concierge",
			Description: "Combine coverage, provider and condition information into one answer",
			Tags:        []string{"healthcare", "concierge", "orchestration"},
			Examples:    []string{"I'm in Austin, TX. How do I get mental health therapy and what does my insurance cover?"},
		},
	), ha.orch.Answer, o)
	return ha
}
