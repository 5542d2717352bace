package orchestrator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dusk-indust/concierge/internal/a2a"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonrpcAgent serves a fixed result member on the JSON-RPC path.
func jsonrpcAgent(t *testing.T, result string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, a2a.JSONRPCPath, r.URL.Path)
		var req a2a.JSONRPCRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(a2a.JSONRPCResponse{
			JSONRPC: a2a.JSONRPCVersion,
			ID:      req.ID,
			Result:  json.RawMessage(result),
		})
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestCaller_HistoryAnswer(t *testing.T) {
	ts := jsonrpcAgent(t, `{"history":[
		{"role":"user","parts":[{"kind":"text","text":"Are there psychiatrists in Austin?"}]},
		{"role":"agent","parts":[{"kind":"text","text":"checking the directory"}]},
		{"role":"agent","parts":[{"kind":"text","text":"3 psychiatrists found in Austin"}]}
	]}`)

	caller := NewCaller(a2a.NewHTTPClient(), time.Second)
	res := caller.Call(context.Background(), Endpoint{Name: "ProviderAgent", URL: ts.URL}, "Are there psychiatrists in Austin?")

	assert.NoError(t, res.Err)
	assert.True(t, res.Found)
	assert.Equal(t, "ProviderAgent", res.Agent)
	assert.Equal(t, "3 psychiatrists found in Austin", res.Answer)
}

func TestCaller_ArtifactAnswer(t *testing.T) {
	ts := jsonrpcAgent(t, `{"artifacts":[{"artifactId":"a","parts":[{"kind":"text","text":"$30 copay"}]}]}`)

	res := NewCaller(a2a.NewHTTPClient(), time.Second).Call(context.Background(), Endpoint{Name: "PolicyAgent", URL: ts.URL}, "q")
	assert.NoError(t, res.Err)
	assert.Equal(t, "$30 copay", res.Answer)
}

func TestCaller_NoTextIsNotAFault(t *testing.T) {
	ts := jsonrpcAgent(t, `{"history":[],"artifacts":[]}`)

	res := NewCaller(a2a.NewHTTPClient(), time.Second).Call(context.Background(), Endpoint{Name: "PolicyAgent", URL: ts.URL}, "q")
	assert.NoError(t, res.Err)
	assert.False(t, res.Failed())
	assert.False(t, res.Found)
	assert.Equal(t, a2a.NoResponse, res.Answer)
}

func TestCaller_HTTPErrorIsFault(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	res := NewCaller(a2a.NewHTTPClient(), time.Second).Call(context.Background(), Endpoint{Name: "PolicyAgent", URL: ts.URL}, "q")
	require.True(t, res.Failed())
	assert.Empty(t, res.Answer)

	var callErr *CallError
	require.ErrorAs(t, res.Err, &callErr)
	assert.Equal(t, "PolicyAgent", callErr.Agent)

	var statusErr *a2a.StatusError
	require.ErrorAs(t, res.Err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Contains(t, res.Err.Error(), "specialist PolicyAgent")
}

func TestCaller_MalformedBodyIsFault(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not json"))
	}))
	defer ts.Close()

	res := NewCaller(a2a.NewHTTPClient(), time.Second).Call(context.Background(), Endpoint{Name: "ProviderAgent", URL: ts.URL}, "q")
	require.True(t, res.Failed())
	assert.Contains(t, res.Err.Error(), "decode response")
}

func TestCaller_ConnectionRefusedIsFault(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	res := NewCaller(a2a.NewHTTPClient(), time.Second).Call(context.Background(), Endpoint{Name: "PolicyAgent", URL: url}, "q")
	require.True(t, res.Failed())
}

func TestCaller_TimeoutIsFault(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	start := time.Now()
	res := NewCaller(a2a.NewHTTPClient(), 50*time.Millisecond).Call(context.Background(), Endpoint{Name: "PolicyAgent", URL: ts.URL}, "q")
	require.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewCaller_DefaultTimeout(t *testing.T) {
	c := NewCaller(a2a.NewHTTPClient(), 0)
	assert.Equal(t, a2a.DefaultTimeout, c.timeout)
	assert.Equal(t, 60*time.Second, c.timeout)
}
