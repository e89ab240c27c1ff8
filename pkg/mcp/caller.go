// Package mcp proxies JSON-RPC tool calls from the browser and the query
// executor to the TypeDB MCP server.
package mcp

import "context"

// ToolResult is the part of an MCP tool result the proxy forwards.
type ToolResult struct {
	// Text is the first text content item, or "" when there is none.
	Text string
	// IsError reports that the tool itself failed (for example a TypeQL syntax error).
	IsError bool
}

// ToolCaller invokes a named tool on an MCP server.
type ToolCaller interface {
	CallTool(ctx context.Context, name string, arguments map[string]interface{}) (*ToolResult, error)
}

// ToolCallerFunc adapts a function to ToolCaller.
type ToolCallerFunc func(ctx context.Context, name string, arguments map[string]interface{}) (*ToolResult, error)

// CallTool implements ToolCaller.
func (f ToolCallerFunc) CallTool(ctx context.Context, name string, arguments map[string]interface{}) (*ToolResult, error) {
	return f(ctx, name, arguments)
}
