package agent

import (
	"context"
	"net/http"

	"github.com/dusk-indust/concierge/internal/a2a"
)

// Agent is the interface that all concierge agents implement.
type Agent interface {
	// Card returns the agent's A2A Agent Card.
	Card() a2a.AgentCard

	// Answer runs the agent's logic on a plain-text query.
	Answer(ctx context.Context, query string) (string, error)

	// Handler returns the HTTP handler serving the agent's A2A surface.
	Handler() http.Handler

	// Start launches the agent's HTTP server on the given address.
	Start(ctx context.Context, addr string) error

	// ListenAndServe serves on addr until ctx is cancelled.
	ListenAndServe(ctx context.Context, addr string) error

	// Stop gracefully shuts down the agent.
	Stop(ctx context.Context) error
}

// Role identifies an agent type.
type Role string

const (
	RolePolicy     Role = "policy"
	RoleProvider   Role = "provider"
	RoleResearch   Role = "research"
	RoleHealthcare Role = "healthcare"
)

// Display names, used on agent cards and as merge labels.
const (
	NamePolicy     = "PolicyAgent"
	NameProvider   = "ProviderAgent"
	NameResearch   = "ResearchAgent"
	NameHealthcare = "HealthcareAgent"
)

// Roles lists every role in port-assignment order. Specialists come first
// so the healthcare agent starts last.
var Roles = []Role{RoleResearch, RolePolicy, RoleProvider, RoleHealthcare}

// ParseRole maps a role or display name to a Role.
func ParseRole(s string) (Role, bool) {
	switch s {
	case string(RolePolicy), NamePolicy:
		return RolePolicy, true
	case string(RoleProvider), NameProvider:
		return RoleProvider, true
	case string(RoleResearch), NameResearch:
		return RoleResearch, true
	case string(RoleHealthcare), NameHealthcare:
		return RoleHealthcare, true
	}
	return "", false
}
