package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dusk-indust/concierge/internal/llm"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ConnectInMemory serves server on an in-memory transport and returns a
// client session connected to it. Closing the session stops the server side.
func ConnectInMemory(ctx context.Context, server *mcp.Server) (*mcp.ClientSession, error) {
	st, ct := mcp.NewInMemoryTransports()

	if _, err := server.Connect(ctx, st, nil); err != nil {
		return nil, fmt.Errorf("mcptools: connect server: %w", err)
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "concierge-provider",
		Version: version,
	}, nil)
	session, err := client.Connect(ctx, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("mcptools: connect client: %w", err)
	}
	return session, nil
}

// Tools lists the session's tools as llm.Tools whose calls are forwarded
// over MCP. The text content of each result is handed back to the model.
func Tools(ctx context.Context, session *mcp.ClientSession) ([]llm.Tool, error) {
	res, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		return nil, fmt.Errorf("mcptools: list tools: %w", err)
	}

	tools := make([]llm.Tool, 0, len(res.Tools))
	for _, t := range res.Tools {
		name := t.Name
		tools = append(tools, llm.Tool{
			Name:        name,
			Description: t.Description,
			InputSchema: t.InputSchema,
			Call: func(ctx context.Context, input json.RawMessage) (string, error) {
				return callTool(ctx, session, name, input)
			},
		})
	}
	return tools, nil
}

func callTool(ctx context.Context, session *mcp.ClientSession, name string, input json.RawMessage) (string, error) {
	var args any = map[string]any{}
	if len(input) > 0 {
		args = input
	}

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return "", fmt.Errorf("mcptools: call %s: %w", name, err)
	}

	text := resultText(res)
	if res.IsError {
		return "", errors.New(text)
	}
	if text == "" && res.StructuredContent != nil {
		data, err := json.Marshal(res.StructuredContent)
		if err != nil {
			return "", fmt.Errorf("mcptools: encode %s result: %w", name, err)
		}
		text = string(data)
	}
	return text, nil
}

func resultText(res *mcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
