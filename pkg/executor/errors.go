package executor

import (
	"fmt"
	"net/http"
)

// TransportError is a non-success HTTP status from the JSON-RPC proxy.
type TransportError struct {
	StatusCode int
}

func (e *TransportError) Error() string {
	text := http.StatusText(e.StatusCode)
	if text == "" {
		text = fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return "MCP error: " + text
}

// RpcError is a JSON-RPC error envelope returned by the proxy, whatever the HTTP status.
// Message is the envelope's message, or the serialized error object when it had none.
type RpcError struct {
	Code    int
	Message string
}

func (e *RpcError) Error() string {
	return "MCP query error: " + e.Message
}
