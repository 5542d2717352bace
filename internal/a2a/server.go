package a2a

import (
	"context"
	"net/http"
)

// Handler processes incoming A2A requests for a specialist agent.
type Handler interface {
	// HandleSendMessage processes an incoming message and returns a task.
	HandleSendMessage(ctx context.Context, req SendMessageRequest) (*Task, error)
}

// Server is the HTTP server that exposes an A2A agent.
type Server struct {
	card    AgentCard
	handler Handler
	routes  map[string]http.Handler
	http    *http.Server
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRoute mounts an extra handler on the server's mux, for example a
// metrics endpoint.
func WithRoute(pattern string, h http.Handler) ServerOption {
	return func(s *Server) {
		s.routes[pattern] = h
	}
}

// NewServer creates an A2A server for the given agent.
func NewServer(card AgentCard, handler Handler, opts ...ServerOption) *Server {
	s := &Server{
		card:    card,
		handler: handler,
		routes:  make(map[string]http.Handler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Card returns the agent card served by s.
func (s *Server) Card() AgentCard {
	return s.card
}
