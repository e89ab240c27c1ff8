package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/stix-qa/pkg/config"
	"github.com/soundprediction/stix-qa/pkg/executor"
	"github.com/soundprediction/stix-qa/pkg/llm"
	"github.com/soundprediction/stix-qa/pkg/mcp"
	"github.com/soundprediction/stix-qa/pkg/pipeline"
	"github.com/soundprediction/stix-qa/pkg/prompts"
	"github.com/soundprediction/stix-qa/pkg/server/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLLM answers generation prompts with query and everything else with answer.
type fakeLLM struct {
	library prompts.Library
	query   string
	answer  string
	err     error

	mu    sync.Mutex
	calls int
	keys  []string
}

func (f *fakeLLM) Complete(_ context.Context, req llm.CompletionRequest) (*llm.Response, error) {
	f.mu.Lock()
	f.calls++
	f.keys = append(f.keys, req.APIKey)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if req.System == f.library.GenerateQuery() {
		return &llm.Response{Content: f.query}, nil
	}
	return &llm.Response{Content: f.answer}, nil
}
func (f *fakeLLM) Provider() string { return "Claude" }
func (f *fakeLLM) Model() string    { return "test-model" }
func (f *fakeLLM) Close() error     { return nil }

type harness struct {
	ts     *httptest.Server
	llm    *fakeLLM
	tool   *toolRecorder
	server *Server
}

type toolRecorder struct {
	mu    sync.Mutex
	text  string
	isErr bool
	err   error
	names []string
	args  []map[string]interface{}
}

func (r *toolRecorder) CallTool(_ context.Context, name string, args map[string]interface{}) (*mcp.ToolResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
	r.args = append(r.args, args)
	if r.err != nil {
		return nil, r.err
	}
	return &mcp.ToolResult{Text: r.text, IsError: r.isErr}, nil
}

func newHarness(t *testing.T, fake *fakeLLM, tool *toolRecorder) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lib := prompts.NewLibrary(prompts.Options{IncludeGrammar: false})
	fake.library = lib

	cfg := &config.Config{Server: config.ServerConfig{Mode: gin.TestMode}}
	h := &harness{llm: fake, tool: tool}

	var router http.Handler
	h.ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(h.ts.Close)
	endpoint := h.ts.URL + "/mcp"

	srv := New(cfg, Dependencies{
		Proxy: mcp.NewProxy(tool, nil),
		Orchestrator: func() *pipeline.Orchestrator {
			return pipeline.NewOrchestrator(
				pipeline.NewQueryGenerator(fake, lib, nil),
				executor.NewClient(nil, nil),
				pipeline.NewAnswerFormatter(fake, lib, nil),
				nil,
				pipeline.OrchestratorOptions{DefaultEndpoint: endpoint},
			)
		},
		AllowedEndpoints: []string{endpoint},
		Readiness: map[string]handlers.ReadinessFunc{
			"mcp": func(context.Context) error { return nil },
		},
	}, nil)
	srv.Setup()

	h.server = srv
	router = srv.Handler()
	return h
}

func (h *harness) ask(t *testing.T, body string, headers map[string]string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, h.ts.URL+"/api/ask", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestAsk_EndToEnd(t *testing.T) {
	fake := &fakeLLM{
		query:  `match $ta isa threat-actor, has name $name; fetch { "name": $name };`,
		answer: "One threat actor is recorded: APT29.",
	}
	tool := &toolRecorder{text: `[{"name":"APT29"}]`}
	h := newHarness(t, fake, tool)

	resp, body := h.ask(t, `{"question":"List all threat actors","api_key":"sk-test"}`, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))
	assert.NotEmpty(t, resp.Header.Get(handlers.HeaderSessionID))
	assert.Equal(t, string(pipeline.PhaseDisplaying), body["state"])
	assert.Equal(t, "One threat actor is recorded: APT29.", body["answer"])
	assert.Equal(t, fake.query, body["query"])
	assert.Equal(t, resp.Header.Get(handlers.HeaderSessionID), body["session_id"])

	require.Len(t, tool.names, 1)
	assert.Equal(t, "query", tool.names[0])
	assert.Equal(t, map[string]interface{}{"query": fake.query}, tool.args[0])
	assert.Equal(t, []string{"sk-test", "sk-test"}, fake.keys)
}

func TestAsk_CredentialFromHeader(t *testing.T) {
	fake := &fakeLLM{query: pipeline.CannotQuery}
	h := newHarness(t, fake, &toolRecorder{})

	resp, body := h.ask(t, `{"question":"What's for lunch?"}`, map[string]string{handlers.HeaderAPIKey: "hdr-key"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(pipeline.PhaseCannotAnswer), body["state"])
	assert.Equal(t, pipeline.CannotAnswerMessage, body["answer"])
	assert.Equal(t, pipeline.NoQueryPlaceholder, body["query"])
	assert.Equal(t, []string{"hdr-key"}, fake.keys)
}

func TestAsk_Validation(t *testing.T) {
	fake := &fakeLLM{}
	h := newHarness(t, fake, &toolRecorder{})

	resp, body := h.ask(t, `{"question":"   ","api_key":"k"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, pipeline.MissingQuestionMessage, body["error"])

	resp, body = h.ask(t, `{"question":"List malware"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, true, body["credential_required"])

	assert.Zero(t, fake.calls)
}

func TestAsk_RemoteFailures(t *testing.T) {
	t.Run("llm unauthorized", func(t *testing.T) {
		fake := &fakeLLM{err: &llm.RemoteServiceError{Provider: "Claude", StatusCode: 401, Message: "invalid x-api-key"}}
		h := newHarness(t, fake, &toolRecorder{})

		resp, body := h.ask(t, `{"question":"q","api_key":"bad"}`, nil)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, string(pipeline.PhaseErrorDisplayed), body["state"])
		assert.Equal(t, "Claude API error: invalid x-api-key", body["error"])
	})

	t.Run("tool syntax error", func(t *testing.T) {
		fake := &fakeLLM{query: "match $x isa;", answer: "never"}
		h := newHarness(t, fake, &toolRecorder{text: "syntax error", isErr: true})

		resp, body := h.ask(t, `{"question":"q","api_key":"k"}`, nil)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "MCP query error: syntax error", body["error"])
		assert.Equal(t, 1, fake.calls, "formatter must not run")
	})

	t.Run("upstream down", func(t *testing.T) {
		fake := &fakeLLM{query: "match $x;"}
		h := newHarness(t, fake, &toolRecorder{err: errors.New("connection refused")})

		resp, body := h.ask(t, `{"question":"q","api_key":"k"}`, nil)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "MCP error: Internal Server Error", body["error"])
	})
}

func TestAsk_InvalidEndpoint(t *testing.T) {
	h := newHarness(t, &fakeLLM{}, &toolRecorder{})

	resp, body := h.ask(t, `{"question":"q","api_key":"k","endpoint":"file:///etc/passwd"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_request", body["error"])
}

func TestAsk_ForeignEndpointRejected(t *testing.T) {
	fake := &fakeLLM{query: "match $x;", answer: "should not be produced"}
	h := newHarness(t, fake, &toolRecorder{text: `[]`})

	var hits int
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":[{"internal_secret":"s3cr3t"}]}`))
	}))
	defer foreign.Close()

	resp, body := h.ask(t, `{"question":"q","api_key":"k","endpoint":"`+foreign.URL+`/admin"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "endpoint_not_allowed", body["error"])
	assert.Zero(t, hits)
	assert.Zero(t, fake.calls)
}

func TestAsk_ConfiguredEndpointAccepted(t *testing.T) {
	fake := &fakeLLM{query: "match $x;", answer: "Nothing notable."}
	tool := &toolRecorder{text: `[{"name":"APT28"}]`}
	h := newHarness(t, fake, tool)

	resp, body := h.ask(t, `{"question":"q","api_key":"k","endpoint":"`+h.ts.URL+`/mcp"}`, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(pipeline.PhaseDisplaying), body["state"])
	assert.Len(t, tool.names, 1)
}

func TestAsk_CredentialFlagClearsWithinSession(t *testing.T) {
	fake := &fakeLLM{query: "match $x;", answer: "APT29 is listed."}
	h := newHarness(t, fake, &toolRecorder{text: `[{"name":"APT29"}]`})
	session := map[string]string{handlers.HeaderSessionID: "s1"}

	resp, body := h.ask(t, `{"question":"List threat actors"}`, session)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, true, body["credential_required"])

	resp, body = h.ask(t, `{"question":"List threat actors","api_key":"k"}`, session)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(pipeline.PhaseDisplaying), body["state"])
	assert.Nil(t, body["credential_required"])
}

func TestAsk_SessionReuse(t *testing.T) {
	fake := &fakeLLM{query: pipeline.CannotQuery}
	h := newHarness(t, fake, &toolRecorder{})

	resp, _ := h.ask(t, `{"question":"q","api_key":"k"}`, map[string]string{handlers.HeaderSessionID: "fixed-session"})
	assert.Equal(t, "fixed-session", resp.Header.Get(handlers.HeaderSessionID))
}

func TestProxyEndpoint(t *testing.T) {
	tool := &toolRecorder{text: `[{"name":"Emotet"}]`}
	h := newHarness(t, &fakeLLM{}, tool)

	post := func(body string) (*http.Response, map[string]interface{}) {
		resp, err := http.Post(h.ts.URL+"/mcp", "application/json", bytes.NewBufferString(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		var out map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return resp, out
	}

	resp, body := post(`{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"query","arguments":{"query":"match $m isa malware;"}}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(9), body["id"])
	assert.Equal(t, []interface{}{map[string]interface{}{"name": "Emotet"}}, body["result"])

	resp, body = post(`{oops`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, float64(-32700), body["error"].(map[string]interface{})["code"])
}

func TestHealthAndIndex(t *testing.T) {
	h := newHarness(t, &fakeLLM{}, &toolRecorder{})

	resp, err := http.Get(h.ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(h.ts.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(h.ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "/api/ask")
}

func TestReadinessFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := New(&config.Config{}, Dependencies{
		Proxy: mcp.NewProxy(&toolRecorder{}, nil),
		Orchestrator: func() *pipeline.Orchestrator {
			return nil
		},
		Readiness: map[string]handlers.ReadinessFunc{
			"mcp": func(context.Context) error { return errors.New("circuit breaker is open") },
		},
	}, nil)
	srv.Setup()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "circuit breaker is open")
}
