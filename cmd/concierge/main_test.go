package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dusk-indust/concierge/internal/a2a"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedBuffer is a bytes.Buffer safe for the logger and the progress
// printer to write to at once.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// runCLI runs the CLI with an empty config directory and returns its output.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr lockedBuffer
	full := append([]string{"-config-dir", t.TempDir()}, args...)
	err := run(context.Background(), full, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

// clearEnv unsets every variable config reads so the host cannot leak in.
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"HOST", "PORT", "POLICY_AGENT_URL", "PROVIDER_AGENT_URL", "RESEARCH_AGENT_URL",
		"ANTHROPIC_API_KEY", "ANTHROPIC_BASE_URL", "CONCIERGE_MODEL",
		"DOCTORS_PATH", "POLICY_DOC_PATH", "AGENT_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

// specialist serves a fixed answer over A2A, or an HTTP 500 when answer is empty.
// Its card advertises one example question, "sample for <name>".
func specialist(t *testing.T, name, answer string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+a2a.AgentCardPath, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(a2a.AgentCard{Name: name, Skills: []a2a.AgentSkill{
			{ID: "s", Examples: []string{"sample for " + name}},
		}})
	})
	mux.HandleFunc("POST "+a2a.JSONRPCPath, func(w http.ResponseWriter, r *http.Request) {
		if answer == "" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		var req a2a.JSONRPCRequest
		json.NewDecoder(r.Body).Decode(&req)
		result, _ := json.Marshal(a2a.SendMessageResult{History: []a2a.Message{
			{Role: a2a.RoleAgent, Parts: []a2a.Part{a2a.TextPart(answer)}},
		}})
		json.NewEncoder(w).Encode(a2a.JSONRPCResponse{JSONRPC: a2a.JSONRPCVersion, ID: req.ID, Result: result})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

// fakeAnthropic serves the Messages API, echoing the user prompt back.
func fakeAnthropic(t *testing.T, calls *atomic.Int32, prompt *atomic.Value) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		var req struct {
			System   any `json:"system"`
			Messages []struct {
				Content []struct {
					Type string `json:"type"`
					Text string `json:"text"`
				} `json:"content"`
			} `json:"messages"`
		}
		if err := json.Unmarshal(body, &req); err == nil && len(req.Messages) > 0 {
			for _, c := range req.Messages[0].Content {
				if c.Type == "text" {
					prompt.Store(c.Text)
				}
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-haiku-4-5-20251001",
			"content":[{"type":"text","text":"Here is your merged answer."}],
			"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":5}}`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestRun_Version(t *testing.T) {
	stdout, _, err := runCLI(t, "-version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", stdout)
}

func TestRun_MissingCommand(t *testing.T) {
	clearEnv(t)
	_, stderr, err := runCLI(t)
	require.Error(t, err)
	assert.Contains(t, stderr, "usage: concierge")
}

func TestRun_UnknownCommand(t *testing.T) {
	clearEnv(t)
	_, _, err := runCLI(t, "launch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "launch")
}

func TestRun_ServeUnknownAgent(t *testing.T) {
	clearEnv(t)
	_, _, err := runCLI(t, "serve", "-agent", "planner")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown agent")
}

func TestRun_AskRequiresKey(t *testing.T) {
	clearEnv(t)
	_, _, err := runCLI(t, "ask", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestRun_AskRequiresQuestion(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	_, _, err := runCLI(t, "ask")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "question is required")
}

func TestRun_AskMergesPartialResults(t *testing.T) {
	clearEnv(t)
	policy := specialist(t, "PolicyAgent", "")
	provider := specialist(t, "ProviderAgent", "3 psychiatrists found in Austin")

	var calls atomic.Int32
	var prompt atomic.Value
	llmServer := fakeAnthropic(t, &calls, &prompt)

	t.Setenv("POLICY_AGENT_URL", policy.URL)
	t.Setenv("PROVIDER_AGENT_URL", provider.URL)
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_BASE_URL", llmServer.URL+"/v1")

	stdout, _, err := runCLI(t, "ask", "I'm in Austin, TX.", "How do I get therapy?")
	require.NoError(t, err)
	assert.Equal(t, "Here is your merged answer.\n", stdout)

	assert.Equal(t, int32(1), calls.Load(), "merge is a single completion")
	got, _ := prompt.Load().(string)
	assert.True(t, strings.HasPrefix(got, "User question: I'm in Austin, TX. How do I get therapy?"))
	assert.Contains(t, got, "PolicyAgent: (unavailable)")
	assert.Contains(t, got, "ProviderAgent: 3 psychiatrists found in Austin")
}

func TestRun_AskVerbosePrintsProgress(t *testing.T) {
	clearEnv(t)
	var calls atomic.Int32
	var prompt atomic.Value
	llmServer := fakeAnthropic(t, &calls, &prompt)

	t.Setenv("POLICY_AGENT_URL", specialist(t, "PolicyAgent", "").URL)
	t.Setenv("PROVIDER_AGENT_URL", specialist(t, "ProviderAgent", "3 psychiatrists found in Austin").URL)
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_BASE_URL", llmServer.URL+"/v1")

	stdout, stderr, err := runCLI(t, "-verbose", "ask", "How do I get therapy?")
	require.NoError(t, err)
	assert.Equal(t, "Here is your merged answer.\n", stdout)
	assert.Contains(t, stderr, "○ PolicyAgent (pending)")
	assert.Contains(t, stderr, "✗ PolicyAgent failed: ")
	assert.Contains(t, stderr, "○ ProviderAgent (pending)")
	assert.Contains(t, stderr, "✓ ProviderAgent answered")
}

func TestRun_ProbeAllReachable(t *testing.T) {
	clearEnv(t)
	t.Setenv("POLICY_AGENT_URL", specialist(t, "PolicyAgent", "x").URL)
	t.Setenv("PROVIDER_AGENT_URL", specialist(t, "ProviderAgent", "y").URL)

	stdout, _, err := runCLI(t, "probe")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ PolicyAgent")
	assert.Contains(t, stdout, "✓ ProviderAgent")
	assert.Contains(t, stdout, "Q: sample for PolicyAgent\n    A: x\n")
	assert.Contains(t, stdout, "Q: sample for ProviderAgent\n    A: y\n")
}

func TestRun_FailedSampleQuestionCountsAsUnreachable(t *testing.T) {
	clearEnv(t)
	t.Setenv("POLICY_AGENT_URL", specialist(t, "PolicyAgent", "").URL)
	t.Setenv("PROVIDER_AGENT_URL", specialist(t, "ProviderAgent", "y").URL)

	stdout, _, err := runCLI(t, "probe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, stdout, "✓ PolicyAgent")
	assert.Contains(t, stdout, "Q: sample for PolicyAgent\n    ✗ ")
	assert.Contains(t, stdout, "A: y")
}

func TestSampleQuestion(t *testing.T) {
	card := &a2a.AgentCard{Skills: []a2a.AgentSkill{
		{ID: "empty"},
		{ID: "lookup", Examples: []string{"Are there any Psychiatrists near me in Austin, TX?", "other"}},
	}}
	assert.Equal(t, "Are there any Psychiatrists near me in Austin, TX?", sampleQuestion(card))
	assert.Equal(t, fallbackSampleQuestion, sampleQuestion(&a2a.AgentCard{}))
}

func TestRun_ProbeReportsUnreachable(t *testing.T) {
	clearEnv(t)
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	t.Setenv("POLICY_AGENT_URL", specialist(t, "PolicyAgent", "x").URL)
	t.Setenv("PROVIDER_AGENT_URL", downURL)

	stdout, _, err := runCLI(t, "probe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, stdout, "✗ ProviderAgent")
}
