package pipeline

import (
	"context"
	"sync"

	"github.com/soundprediction/stix-qa/pkg/llm"
	"github.com/soundprediction/stix-qa/pkg/prompts"
	"github.com/soundprediction/stix-qa/pkg/types"
)

// scriptedClient answers completions from a queue and records every request.
type scriptedClient struct {
	mu        sync.Mutex
	responses []scriptedResponse
	requests  []llm.CompletionRequest
}

type scriptedResponse struct {
	content string
	err     error
}

func newScriptedClient(responses ...scriptedResponse) *scriptedClient {
	return &scriptedClient{responses: responses}
}

func (c *scriptedClient) Complete(_ context.Context, req llm.CompletionRequest) (*llm.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests = append(c.requests, req)
	if len(c.responses) == 0 {
		panic("scriptedClient: unexpected completion request")
	}
	next := c.responses[0]
	c.responses = c.responses[1:]
	if next.err != nil {
		return nil, next.err
	}
	return &llm.Response{Content: next.content}, nil
}

func (c *scriptedClient) Provider() string { return "Claude" }
func (c *scriptedClient) Model() string    { return "claude-sonnet-4-20250514" }
func (c *scriptedClient) Close() error     { return nil }

func (c *scriptedClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

// stubExecutor returns a fixed result and counts calls.
type stubExecutor struct {
	mu        sync.Mutex
	result    types.QueryResult
	err       error
	queries   []string
	endpoints []string
	block     chan struct{}
}

func (e *stubExecutor) ExecuteQuery(_ context.Context, query, endpoint string) (types.QueryResult, error) {
	if e.block != nil {
		<-e.block
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queries = append(e.queries, query)
	e.endpoints = append(e.endpoints, endpoint)
	return e.result, e.err
}

func (e *stubExecutor) calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queries)
}

// recordingView keeps every rendered snapshot.
type recordingView struct {
	mu     sync.Mutex
	states []ViewState
}

func (v *recordingView) Render(s ViewState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.states = append(v.states, s)
}

func (v *recordingView) phases() []Phase {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Phase, 0, len(v.states))
	for _, s := range v.states {
		out = append(out, s.Phase)
	}
	return out
}

func (v *recordingView) last() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.states[len(v.states)-1]
}

func testLibrary() prompts.Library {
	return prompts.NewLibrary(prompts.Options{IncludeGrammar: false})
}
