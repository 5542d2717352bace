package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dusk-indust/concierge/internal/a2a"
	"github.com/dusk-indust/concierge/internal/doctors"
	"github.com/dusk-indust/concierge/internal/llm"
)

// ProviderSystemPrompt makes the model ground its answer on the tool output.
const ProviderSystemPrompt = "Find and list providers using the available tool(s). " +
	"Call the tool to retrieve providers and ground your response strictly on its output."

// ProviderAgent finds healthcare providers by location.
type ProviderAgent struct {
	*BaseAgent
	runner llm.ToolRunner
	tools  []llm.Tool
	model  string
}

// NewProviderAgent creates a ProviderAgent that searches dir. WithTools
// replaces the in-process lookup, for example with the same tool served
// over MCP.
func NewProviderAgent(runner llm.ToolRunner, dir *doctors.Directory, opts ...Option) *ProviderAgent {
	o := buildOptions(opts)
	tools := o.tools
	if len(tools) == 0 {
		tools = []llm.Tool{ListDoctors(dir)}
	}
	pa := &ProviderAgent{runner: runner, tools: tools, model: o.model}
	pa.BaseAgent = newBaseAgent(card(NameProvider,
		"Finds healthcare providers near the user's location",
		a2a.AgentSkill{
			ID:          "find-providers",
			Name:        "Find Providers",
			Description: "Search the provider directory by state and city",
			Tags:        []string{"providers", "doctors", "directory"},
			Examples:    []string{"Are there any Psychiatrists near me in Austin, TX?"},
		},
	), pa.process, o)
	return pa
}

func (pa *ProviderAgent) process(ctx context.Context, query string) (string, error) {
	return pa.runner.RunTools(ctx, llm.Request{
		Model:     pa.model,
		System:    ProviderSystemPrompt,
		MaxTokens: SpecialistMaxTokens,
		Messages:  []llm.Message{llm.UserMessage(query)},
	}, pa.tools)
}

// ListDoctors exposes a directory lookup as a model tool. The tool result is
// the JSON encoding of the matching records.
func ListDoctors(dir *doctors.Directory) llm.Tool {
	return llm.Tool{
		Name:        doctors.ToolName,
		Description: doctors.ToolDescription,
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"state": map[string]any{"type": "string", "description": "US state, for example TX"},
				"city":  map[string]any{"type": "string", "description": "city name, for example Austin"},
			},
		},
		Call: func(_ context.Context, input json.RawMessage) (string, error) {
			var q doctors.Query
			if len(input) > 0 {
				if err := json.Unmarshal(input, &q); err != nil {
					return "", fmt.Errorf("list_doctors: decode input: %w", err)
				}
			}
			out, err := json.Marshal(dir.Find(q))
			if err != nil {
				return "", fmt.Errorf("list_doctors: encode result: %w", err)
			}
			return string(out), nil
		},
	}
}
