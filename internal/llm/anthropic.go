package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

// Compile-time interface checks.
var (
	_ Completer  = (*Anthropic)(nil)
	_ ToolRunner = (*Anthropic)(nil)
)

// DefaultMaxToolTurns bounds the number of model round trips in RunTools.
const DefaultMaxToolTurns = 8

// messagesAPI is the subset of *anthropic.Client used here.
type messagesAPI interface {
	CreateMessages(ctx context.Context, req anthropic.MessagesRequest) (anthropic.MessagesResponse, error)
}

// Anthropic implements Completer and ToolRunner on the Messages API.
type Anthropic struct {
	api          messagesAPI
	maxToolTurns int
	logger       *slog.Logger
}

// AnthropicOption configures an Anthropic client.
type AnthropicOption func(*Anthropic)

// WithMaxToolTurns overrides DefaultMaxToolTurns.
func WithMaxToolTurns(n int) AnthropicOption {
	return func(a *Anthropic) {
		a.maxToolTurns = n
	}
}

// WithLogger sets the logger used for tool-call tracing.
func WithLogger(l *slog.Logger) AnthropicOption {
	return func(a *Anthropic) {
		a.logger = l
	}
}

// NewAnthropic creates a client authenticated with apiKey. An empty baseURL
// keeps the library default.
func NewAnthropic(apiKey, baseURL string, opts ...AnthropicOption) *Anthropic {
	clientOpts := make([]anthropic.ClientOption, 0, 1)
	if baseURL != "" {
		clientOpts = append(clientOpts, anthropic.WithBaseURL(baseURL))
	}
	return newAnthropic(anthropic.NewClient(apiKey, clientOpts...), opts...)
}

func newAnthropic(api messagesAPI, opts ...AnthropicOption) *Anthropic {
	a := &Anthropic{
		api:          api,
		maxToolTurns: DefaultMaxToolTurns,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Complete sends req once and returns the first text block of the reply.
func (a *Anthropic) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := a.api.CreateMessages(ctx, toMessagesRequest(req))
	if err != nil {
		return "", fmt.Errorf("llm: create message: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// RunTools lets the model call tools until it stops with a text answer or
// the turn limit is reached. Tool failures are reported back to the model as
// error results rather than aborting the run.
func (a *Anthropic) RunTools(ctx context.Context, req Request, tools []Tool) (string, error) {
	byName := make(map[string]Tool, len(tools))
	defs := make([]anthropic.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		byName[t.Name] = t
		defs = append(defs, anthropic.ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}

	mreq := toMessagesRequest(req)
	mreq.Tools = defs

	for turn := 0; turn < a.maxToolTurns; turn++ {
		resp, err := a.api.CreateMessages(ctx, mreq)
		if err != nil {
			return "", fmt.Errorf("llm: create message (turn %d): %w", turn, err)
		}

		if resp.StopReason != anthropic.MessagesStopReasonToolUse {
			text := responseText(resp)
			if text == "" {
				return "", ErrEmptyCompletion
			}
			return text, nil
		}

		results := make([]anthropic.MessageContent, 0, len(resp.Content))
		for _, c := range resp.Content {
			if c.Type != anthropic.MessagesContentTypeToolUse || c.MessageContentToolUse == nil {
				continue
			}
			use := c.MessageContentToolUse
			results = append(results, a.callTool(ctx, byName, use.ID, use.Name, use.Input))
		}

		mreq.Messages = append(mreq.Messages,
			anthropic.Message{Role: anthropic.RoleAssistant, Content: resp.Content},
			anthropic.Message{Role: anthropic.RoleUser, Content: results},
		)
	}

	return "", fmt.Errorf("llm: no final answer after %d tool turns", a.maxToolTurns)
}

func (a *Anthropic) callTool(ctx context.Context, tools map[string]Tool, id, name string, input []byte) anthropic.MessageContent {
	tool, ok := tools[name]
	if !ok {
		return anthropic.NewToolResultMessageContent(id, fmt.Sprintf("unknown tool %q", name), true)
	}
	out, err := tool.Call(ctx, input)
	if err != nil {
		a.logger.Warn("tool call failed", "tool", name, "err", err)
		return anthropic.NewToolResultMessageContent(id, err.Error(), true)
	}
	a.logger.Debug("tool call", "tool", name, "input", string(input))
	return anthropic.NewToolResultMessageContent(id, out, false)
}

func toMessagesRequest(req Request) anthropic.MessagesRequest {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	out := anthropic.MessagesRequest{
		Model:     anthropic.Model(model),
		System:    req.System,
		MaxTokens: req.MaxTokens,
		Messages:  make([]anthropic.Message, 0, len(req.Messages)),
	}
	for _, m := range req.Messages {
		out.Messages = append(out.Messages, toMessage(m))
	}
	return out
}

func toMessage(m Message) anthropic.Message {
	role := anthropic.RoleUser
	if m.Role == RoleAssistant {
		role = anthropic.RoleAssistant
	}

	content := make([]anthropic.MessageContent, 0, 2)
	if m.Document != nil {
		src := anthropic.MessageContentSource{
			Type:      "base64",
			MediaType: m.Document.MediaType,
			Data:      base64.StdEncoding.EncodeToString(m.Document.Data),
		}
		content = append(content, anthropic.NewDocumentMessageContent(src, "", "", false))
	}
	content = append(content, anthropic.NewTextMessageContent(m.Text))
	return anthropic.Message{Role: role, Content: content}
}

// responseText joins the text blocks of resp.
func responseText(resp anthropic.MessagesResponse) string {
	var parts []string
	for _, c := range resp.Content {
		if c.Type == anthropic.MessagesContentTypeText && c.Text != nil && *c.Text != "" {
			parts = append(parts, *c.Text)
		}
	}
	return strings.Join(parts, "\n")
}
