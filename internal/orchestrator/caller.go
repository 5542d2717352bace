package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/dusk-indust/concierge/internal/a2a"
)

// CallError is a fault from one specialist call.
type CallError struct {
	Agent string
	Err   error
}

// Error implements the error interface.
func (e *CallError) Error() string {
	return fmt.Sprintf("specialist %s: %v", e.Agent, e.Err)
}

// Unwrap returns the underlying transport or protocol error.
func (e *CallError) Unwrap() error {
	return e.Err
}

// Caller performs a single bounded request/response exchange with one
// specialist. It never retries.
type Caller struct {
	client  a2a.Client
	timeout time.Duration
}

// NewCaller creates a Caller. A non-positive timeout selects
// a2a.DefaultTimeout.
func NewCaller(client a2a.Client, timeout time.Duration) *Caller {
	if timeout <= 0 {
		timeout = a2a.DefaultTimeout
	}
	return &Caller{client: client, timeout: timeout}
}

// Call sends query to ep and extracts the answer. Transport and protocol
// failures come back as a fault; a reply without agent text is a successful
// result holding a2a.NoResponse.
func (c *Caller) Call(ctx context.Context, ep Endpoint, query string) SpecialistResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.SendMessage(ctx, ep.URL, a2a.NewTextMessage(query))
	if err != nil {
		return SpecialistResult{
			Agent: ep.Name,
			Err:   &CallError{Agent: ep.Name, Err: err},
		}
	}

	text, found := a2a.Extract(result)
	return SpecialistResult{
		Agent:  ep.Name,
		Answer: text,
		Found:  found,
	}
}
