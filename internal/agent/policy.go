package agent

import (
	"context"
	"fmt"
	"os"

	"github.com/dusk-indust/concierge/internal/a2a"
	"github.com/dusk-indust/concierge/internal/llm"
)

// PolicySystemPrompt restricts answers to the attached benefits document.
const PolicySystemPrompt = "You are an expert insurance agent. Answer coverage questions based solely on " +
	"the provided policy document. Answer concisely in 2-5 lines. " +
	"If the information is not in the document, say 'I don't know'."

// SpecialistMaxTokens bounds each specialist answer.
const SpecialistMaxTokens = 1024

// PolicyAgent answers insurance coverage questions from a policy PDF.
type PolicyAgent struct {
	*BaseAgent
	completer llm.Completer
	model     string
	doc       llm.Document
}

// LoadPolicyDocument reads the policy PDF once at startup.
func LoadPolicyDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("agent: read policy document: %w", err)
	}
	return data, nil
}

// NewPolicyAgent creates a PolicyAgent that attaches pdf to every request.
func NewPolicyAgent(completer llm.Completer, pdf []byte, opts ...Option) *PolicyAgent {
	o := buildOptions(opts)
	pa := &PolicyAgent{
		completer: completer,
		model:     o.model,
		doc:       llm.Document{MediaType: "application/pdf", Data: pdf},
	}
	pa.BaseAgent = newBaseAgent(card(NamePolicy,
		"Answers insurance policy coverage questions using the benefits document",
		a2a.AgentSkill{
			ID:          "policy-coverage",
			Name:        "Policy Coverage",
			Description: "Explain what the plan covers and what the member pays",
			Tags:        []string{"insurance", "coverage", "benefits"},
			Examples:    []string{"How much would I pay for mental health therapy?"},
		},
	), pa.process, o)
	return pa
}

func (pa *PolicyAgent) process(ctx context.Context, query string) (string, error) {
	doc := pa.doc
	return pa.completer.Complete(ctx, llm.Request{
		Model:     pa.model,
		System:    PolicySystemPrompt,
		MaxTokens: SpecialistMaxTokens,
		Messages: []llm.Message{{
			Role:     llm.RoleUser,
			Text:     query,
			Document: &doc,
		}},
	})
}
