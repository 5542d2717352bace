package agent

import (
	"context"

	"github.com/dusk-indust/concierge/internal/a2a"
	"github.com/dusk-indust/concierge/internal/llm"
)

// ResearchSystemPrompt scopes the research agent to general health topics.
const ResearchSystemPrompt = "You are a healthcare research agent. Provide information about " +
	"health conditions, symptoms, treatments, and procedures. " +
	"Keep answers to 2-5 lines. If you don't know, say so."

// ResearchAgent answers questions about conditions, symptoms and treatments.
type ResearchAgent struct {
	*BaseAgent
	completer llm.Completer
	model     string
}

// NewResearchAgent creates a ResearchAgent backed by completer.
func NewResearchAgent(completer llm.Completer, opts ...Option) *ResearchAgent {
	o := buildOptions(opts)
	ra := &ResearchAgent{completer: completer, model: o.model}
	ra.BaseAgent = newBaseAgent(card(NameResearch,
		"Answers questions about health conditions, symptoms and treatments",
		a2a.AgentSkill{
			ID:          "health-research",
			Name:        "Health Research",
			Description: "Summarize conditions, symptoms, treatments and procedures",
			Tags:        []string{"research", "conditions", "treatments"},
			Examples:    []string{"What are common symptoms of anxiety disorder?"},
		},
	), ra.process, o)
	return ra
}

func (ra *ResearchAgent) process(ctx context.Context, query string) (string, error) {
	return ra.completer.Complete(ctx, llm.Request{
		Model:     ra.model,
		System:    ResearchSystemPrompt,
		MaxTokens: SpecialistMaxTokens,
		Messages:  []llm.Message{llm.UserMessage(query)},
	})
}
