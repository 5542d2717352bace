package a2a

import "context"

// Client is the interface for an A2A client that sends messages to agents.
type Client interface {
	// SendMessage delivers msg to the agent at baseURL via message/send and
	// returns the decoded result member.
	SendMessage(ctx context.Context, baseURL string, msg Message) (*SendMessageResult, error)

	// DiscoverAgent fetches the Agent Card from the well-known URI.
	DiscoverAgent(ctx context.Context, baseURL string) (*AgentCard, error)
}
