package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dusk-indust/concierge/internal/a2a"
	"github.com/dusk-indust/concierge/internal/llm"
)

// Compile-time interface checks.
var (
	_ Agent       = (*BaseAgent)(nil)
	_ a2a.Handler = (*BaseAgent)(nil)
)

// ErrNoText is returned when an incoming message carries no text part.
var ErrNoText = errors.New("agent: message has no text")

// ProcessFunc is the function that agents implement to answer a query.
type ProcessFunc func(ctx context.Context, query string) (string, error)

// BaseAgent provides shared boilerplate for agents. It composes an A2A
// server with a ProcessFunc, implementing both the Agent and a2a.Handler
// interfaces. Concrete agents embed BaseAgent.
type BaseAgent struct {
	server  *a2a.Server
	card    a2a.AgentCard
	process ProcessFunc
	logger  *slog.Logger
}

// Option configures an agent.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	model      string
	url        string
	tools      []llm.Tool
	serverOpts []a2a.ServerOption
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithModel selects the completion model. Defaults to llm.DefaultModel.
func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

// WithURL sets the public base URL advertised on the agent card.
func WithURL(url string) Option {
	return func(o *options) {
		o.url = url
	}
}

// WithTools replaces the tools a tool-using agent offers the model.
func WithTools(tools ...llm.Tool) Option {
	return func(o *options) {
		o.tools = append(o.tools, tools...)
	}
}

// WithServerOptions forwards options to the underlying a2a.Server.
func WithServerOptions(opts ...a2a.ServerOption) Option {
	return func(o *options) {
		o.serverOpts = append(o.serverOpts, opts...)
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: slog.Default(),
		model:  llm.DefaultModel,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewBaseAgent creates a BaseAgent with the given card and process function.
func NewBaseAgent(card a2a.AgentCard, process ProcessFunc, opts ...Option) *BaseAgent {
	return newBaseAgent(card, process, buildOptions(opts))
}

func newBaseAgent(card a2a.AgentCard, process ProcessFunc, o options) *BaseAgent {
	if o.url != "" {
		card.URL = o.url
	}
	b := &BaseAgent{
		card:    card,
		process: process,
		logger:  o.logger.With("agent", card.Name),
	}
	b.server = a2a.NewServer(card, b, o.serverOpts...)
	return b
}

// Card returns the agent's A2A Agent Card.
func (b *BaseAgent) Card() a2a.AgentCard {
	return b.card
}

// Answer runs the process function directly, bypassing the wire.
func (b *BaseAgent) Answer(ctx context.Context, query string) (string, error) {
	return b.process(ctx, query)
}

// Handler returns the HTTP handler serving the agent card and JSON-RPC.
func (b *BaseAgent) Handler() http.Handler {
	return b.server.Handler()
}

// Start launches the agent's HTTP server on the given address.
func (b *BaseAgent) Start(ctx context.Context, addr string) error {
	if err := b.server.Start(ctx, addr); err != nil {
		return err
	}
	b.logger.Info("agent listening", "addr", addr)
	return nil
}

// ListenAndServe serves on addr until ctx is cancelled.
func (b *BaseAgent) ListenAndServe(ctx context.Context, addr string) error {
	b.logger.Info("agent listening", "addr", addr)
	return b.server.ListenAndServe(ctx, addr)
}

// Stop gracefully shuts down the agent.
func (b *BaseAgent) Stop(ctx context.Context) error {
	return b.server.Stop(ctx)
}

// --- a2a.Handler implementation ---

// HandleSendMessage answers the text of the incoming message and returns a
// completed task whose history is the user message followed by the reply.
func (b *BaseAgent) HandleSendMessage(ctx context.Context, req a2a.SendMessageRequest) (*a2a.Task, error) {
	query := messageText(req.Message)
	if query == "" {
		return nil, ErrNoText
	}

	taskID := a2a.NewID()
	contextID := req.Message.ContextID
	if contextID == "" {
		contextID = a2a.NewID()
	}

	start := time.Now()
	reply, err := b.process(ctx, query)
	if err != nil {
		b.logger.Error("process failed", "task", taskID, "elapsed", time.Since(start), "err", err)
		return nil, fmt.Errorf("%s: %w", b.card.Name, err)
	}
	b.logger.Debug("process complete", "task", taskID, "elapsed", time.Since(start))

	userMsg := req.Message
	userMsg.TaskID = taskID
	userMsg.ContextID = contextID
	if userMsg.MessageID == "" {
		userMsg.MessageID = a2a.NewID()
	}

	agentMsg := a2a.Message{
		MessageID: a2a.NewID(),
		ContextID: contextID,
		TaskID:    taskID,
		Kind:      "message",
		Role:      a2a.RoleAgent,
		Parts:     []a2a.Part{a2a.TextPart(reply)},
	}

	return &a2a.Task{
		ID:        taskID,
		ContextID: contextID,
		Kind:      "task",
		Status: a2a.TaskStatus{
			State:     a2a.TaskStateCompleted,
			Timestamp: time.Now(),
		},
		History: []a2a.Message{userMsg, agentMsg},
	}, nil
}

// messageText concatenates the text parts of a message.
func messageText(msg a2a.Message) string {
	var parts []string
	for _, p := range msg.Parts {
		if p.Kind == a2a.PartKindText && p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// card builds an agent card with the defaults shared by every agent.
func card(name, description string, skills ...a2a.AgentSkill) a2a.AgentCard {
	return a2a.AgentCard{
		Name:               name,
		Description:        description,
		Version:            "dev",
		ProtocolVersion:    "0.3.0",
		DefaultInputModes:  []string{"text/plain"},
		DefaultOutputModes: []string{"text/plain"},
		Skills:             skills,
	}
}
