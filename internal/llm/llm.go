// Package llm wraps the text-completion capability the agents depend on.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-haiku-4-5-20251001"

// ErrEmptyCompletion is returned when the model produced no text.
var ErrEmptyCompletion = errors.New("llm: completion has no text")

// Role identifies the author of a message in a completion request.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Request is a single completion call.
type Request struct {
	Model     string
	System    string
	MaxTokens int
	Messages  []Message
}

// Message is one turn of a completion request. Document, when set, is
// attached ahead of Text.
type Message struct {
	Role     Role
	Text     string
	Document *Document
}

// Document is a binary attachment such as a PDF.
type Document struct {
	MediaType string
	Data      []byte
}

// UserMessage builds a plain user turn.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// Completer sends a prompt and returns the generated text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Tool is a function the model may call while answering.
type Tool struct {
	Name        string
	Description string
	// InputSchema is a JSON Schema object describing the tool input.
	InputSchema any
	// Call executes the tool with the model's raw JSON input and returns
	// the content handed back to the model.
	Call func(ctx context.Context, input json.RawMessage) (string, error)
}

// ToolRunner completes a request, executing tool calls until the model
// produces a final text answer.
type ToolRunner interface {
	RunTools(ctx context.Context, req Request, tools []Tool) (string, error)
}
