package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)

// DefaultTimeout bounds a single request/response exchange with an agent.
const DefaultTimeout = 60 * time.Second

// ErrEmptyResult is returned when a JSON-RPC reply carries neither a result
// nor an error member.
var ErrEmptyResult = errors.New("a2a: response has no result")

// HTTPClient implements the Client interface using HTTP/JSON-RPC.
type HTTPClient struct {
	http  *http.Client
	newID func() string
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets the HTTP client timeout. Non-positive values keep
// DefaultTimeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

// WithIDGenerator overrides how JSON-RPC correlation ids are produced.
func WithIDGenerator(fn func() string) ClientOption {
	return func(c *HTTPClient) {
		c.newID = fn
	}
}

// NewHTTPClient creates a new A2A HTTP client.
func NewHTTPClient(opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		http: &http.Client{
			Timeout: DefaultTimeout,
		},
		newID: NewID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout reports the per-request limit of the underlying HTTP client.
func (c *HTTPClient) Timeout() time.Duration {
	return c.http.Timeout
}

// SendMessage sends msg to the agent at baseURL via the message/send
// JSON-RPC method.
func (c *HTTPClient) SendMessage(ctx context.Context, baseURL string, msg Message) (*SendMessageResult, error) {
	var result SendMessageResult
	if err := c.call(ctx, baseURL, MethodSendMessage, SendMessageRequest{Message: msg}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DiscoverAgent fetches the Agent Card from the well-known URI.
func (c *HTTPClient) DiscoverAgent(ctx context.Context, baseURL string) (*AgentCard, error) {
	url := strings.TrimRight(baseURL, "/") + AgentCardPath

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("a2a: create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("a2a: discover agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("a2a: discover agent: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var card AgentCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("a2a: decode agent card: %w", err)
	}
	return &card, nil
}

// call performs a JSON-RPC 2.0 call over HTTP POST to baseURL + JSONRPCPath.
func (c *HTTPClient) call(ctx context.Context, baseURL, method string, params any, result any) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("a2a: marshal params: %w", err)
	}

	rpcReq := JSONRPCRequest{
		JSONRPC: JSONRPCVersion,
		ID:      c.newID(),
		Method:  method,
		Params:  paramsJSON,
	}

	body, err := json.Marshal(rpcReq)
	if err != nil {
		return fmt.Errorf("a2a: marshal request: %w", err)
	}

	url := strings.TrimRight(baseURL, "/") + JSONRPCPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("a2a: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("a2a: %s: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("a2a: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var rpcResp JSONRPCResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return fmt.Errorf("a2a: decode response: %w", err)
	}

	if rpcResp.Error != nil {
		return &RPCError{
			Method:  method,
			Code:    rpcResp.Error.Code,
			Message: rpcResp.Error.Message,
			Data:    rpcResp.Error.Data,
		}
	}

	raw := bytes.TrimSpace(rpcResp.Result)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return fmt.Errorf("%w (method %s)", ErrEmptyResult, method)
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("a2a: decode result: %w", err)
	}
	return nil
}

// StatusError is returned when an agent answers with a non-2xx HTTP status.
type StatusError struct {
	Method     string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("a2a: %s: HTTP %d: %s", e.Method, e.StatusCode, e.Body)
}

// RPCError represents a JSON-RPC error returned by a remote agent.
type RPCError struct {
	Method  string
	Code    int
	Message string
	Data    json.RawMessage
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("a2a: %s: rpc error %d: %s (data: %s)", e.Method, e.Code, e.Message, string(e.Data))
	}
	return fmt.Sprintf("a2a: %s: rpc error %d: %s", e.Method, e.Code, e.Message)
}
