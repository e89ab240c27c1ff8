// Package jsonrpc holds the JSON-RPC 2.0 envelopes exchanged between the
// query executor and the MCP proxy.
package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// Version is the only protocol version accepted.
const Version = "2.0"

// MethodToolsCall is the MCP method used to invoke a server tool.
const MethodToolsCall = "tools/call"

// Standard and server error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeServerError    = -32000
)

// Request is a JSON-RPC request envelope. ID is kept raw so any id type round-trips unchanged.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// ToolCallParams are the params of a tools/call request.
type ToolCallParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// Response is a JSON-RPC response envelope. Exactly one of Result and Error is set by well-behaved servers.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is the error member of a response.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// NewToolCall builds a tools/call request for tool with the given arguments.
func NewToolCall(id int64, tool string, arguments map[string]interface{}) (*Request, error) {
	params, err := json.Marshal(ToolCallParams{Name: tool, Arguments: arguments})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool call params: %w", err)
	}
	return &Request{
		JSONRPC: Version,
		ID:      json.RawMessage(fmt.Sprintf("%d", id)),
		Method:  MethodToolsCall,
		Params:  params,
	}, nil
}

// ToolCall decodes the request params as tools/call params. A missing name
// defaults to defaultTool and missing arguments to an empty map.
func (r *Request) ToolCall(defaultTool string) (ToolCallParams, error) {
	var params ToolCallParams
	if len(r.Params) > 0 && string(r.Params) != "null" {
		if err := json.Unmarshal(r.Params, &params); err != nil {
			return ToolCallParams{}, fmt.Errorf("invalid tools/call params: %w", err)
		}
	}
	if params.Name == "" {
		params.Name = defaultTool
	}
	if params.Arguments == nil {
		params.Arguments = map[string]interface{}{}
	}
	return params, nil
}

// NewResult builds a success response for id.
func NewResult(id json.RawMessage, result interface{}) (*Response, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &Response{JSONRPC: Version, ID: id, Result: raw}, nil
}

// NewError builds an error response for id.
func NewError(id json.RawMessage, code int, message string) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      id,
		Error:   &Error{Code: code, Message: message},
	}
}
