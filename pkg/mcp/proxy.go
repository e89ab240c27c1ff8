package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/kaptinlin/jsonrepair"
	"github.com/soundprediction/stix-qa/pkg/jsonrpc"
)

// DefaultTool is used when a request names no tool.
const DefaultTool = "query"

// Proxy turns JSON-RPC tools/call requests into MCP tool calls.
type Proxy struct {
	caller ToolCaller
	logger *slog.Logger
}

// NewProxy creates a proxy over caller.
func NewProxy(caller ToolCaller, logger *slog.Logger) *Proxy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Proxy{caller: caller, logger: logger}
}

// DecodeRequest parses a JSON-RPC request body. The returned response is
// non-nil when the body must be rejected with HTTP 400.
func DecodeRequest(body []byte) (*jsonrpc.Request, *jsonrpc.Response) {
	var req jsonrpc.Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, jsonrpc.NewError(nil, jsonrpc.CodeParseError, "Parse error: "+err.Error())
	}
	return &req, nil
}

// Handle runs one request and returns the response with the HTTP status to send.
func (p *Proxy) Handle(ctx context.Context, req *jsonrpc.Request) (*jsonrpc.Response, int) {
	params, err := req.ToolCall(DefaultTool)
	if err != nil {
		return jsonrpc.NewError(req.ID, jsonrpc.CodeServerError, err.Error()), http.StatusInternalServerError
	}

	p.logger.DebugContext(ctx, "Proxying tool call", "tool", params.Name, "rpc_id", string(req.ID))

	result, err := p.caller.CallTool(ctx, params.Name, params.Arguments)
	if err != nil {
		p.logger.ErrorContext(ctx, "Tool call failed", "tool", params.Name, "error", err)
		return jsonrpc.NewError(req.ID, jsonrpc.CodeServerError, err.Error()), http.StatusInternalServerError
	}

	if result.IsError {
		message := result.Text
		if message == "" {
			message = fmt.Sprintf("tool %q returned an error", params.Name)
		}
		p.logger.WarnContext(ctx, "Tool reported an error", "tool", params.Name, "message", truncate(message, 200))
		return jsonrpc.NewError(req.ID, jsonrpc.CodeServerError, message), http.StatusOK
	}

	p.logger.DebugContext(ctx, "Tool call succeeded", "tool", params.Name, "result", truncate(result.Text, 200))

	return &jsonrpc.Response{
		JSONRPC: jsonrpc.Version,
		ID:      req.ID,
		Result:  resultJSON(result.Text),
	}, http.StatusOK
}

// resultJSON returns text as structured JSON when it is, or can be repaired
// into, an array or object. Anything else is sent as a JSON string.
func resultJSON(text string) json.RawMessage {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		if json.Valid([]byte(trimmed)) {
			return json.RawMessage(trimmed)
		}
		if repaired, err := jsonrepair.JSONRepair(trimmed); err == nil {
			r := bytes.TrimSpace([]byte(repaired))
			if json.Valid(r) && (bytes.HasPrefix(r, []byte("[")) || bytes.HasPrefix(r, []byte("{"))) {
				return json.RawMessage(r)
			}
		}
	}

	quoted, _ := json.Marshal(text)
	return quoted
}

// truncate keeps at most n bytes of s without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
