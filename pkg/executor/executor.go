// Package executor submits generated TypeQL to the JSON-RPC query proxy and
// unwraps the records it returns.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/soundprediction/stix-qa/pkg/jsonrpc"
	"github.com/soundprediction/stix-qa/pkg/types"
)

// QueryTool is the name of the database tool exposed by the proxy.
const QueryTool = "query"

// Executor runs a generated query against a proxy endpoint.
type Executor interface {
	ExecuteQuery(ctx context.Context, query, endpoint string) (types.QueryResult, error)
}

// Client implements Executor over HTTP.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger

	mu     sync.Mutex
	lastID int64
	now    func() time.Time
}

// NewClient creates an executor client. A nil httpClient uses a client with no
// timeout; a nil logger uses slog.Default().
func NewClient(httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// nextID returns the current Unix time in milliseconds, bumped past the previous id when needed.
func (c *Client) nextID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.now().UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return id
}

// rpcEnvelope keeps the error member raw so it can be echoed when it has no message.
type rpcEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// ExecuteQuery wraps query in a tools/call request, posts it to endpoint and
// returns the normalised result. The caller must not pass the CANNOT_QUERY sentinel.
func (c *Client) ExecuteQuery(ctx context.Context, query, endpoint string) (types.QueryResult, error) {
	req, err := jsonrpc.NewToolCall(c.nextID(), QueryTool, map[string]interface{}{"query": query})
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if requestID := types.ContextString(ctx, types.ContextKeyRequestID); requestID != "" {
		httpReq.Header.Set("X-Request-ID", requestID)
	}

	c.logger.DebugContext(ctx, "Executing query", "endpoint", endpoint, "rpc_id", string(req.ID))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &TransportError{StatusCode: resp.StatusCode}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var envelope rpcEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode MCP response: %w", err)
	}

	if rpcErr := decodeRPCError(envelope.Error); rpcErr != nil {
		return nil, rpcErr
	}

	result, err := Normalize(envelope.Result)
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "Query executed", "records", len(result))
	return result, nil
}

// decodeRPCError returns nil when raw carries no error.
func decodeRPCError(raw json.RawMessage) *RpcError {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "false", "0", `""`:
		return nil
	}

	var e struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(trimmed, &e) == nil && e.Message != "" {
		return &RpcError{Code: e.Code, Message: e.Message}
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return &RpcError{Code: e.Code, Message: string(trimmed)}
	}
	return &RpcError{Code: e.Code, Message: compact.String()}
}
