package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

// RemoteToolCaller calls tools on a streamable-HTTP MCP server, opening a
// fresh session for every call.
type RemoteToolCaller struct {
	url        string
	timeout    time.Duration
	clientName string
	version    string
	logger     *slog.Logger
}

// NewRemoteToolCaller creates a caller for the MCP server at url. A zero timeout
// leaves the transport without a client-side deadline.
func NewRemoteToolCaller(url string, timeout time.Duration, version string, logger *slog.Logger) *RemoteToolCaller {
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteToolCaller{
		url:        url,
		timeout:    timeout,
		clientName: "stix-qa",
		version:    version,
		logger:     logger,
	}
}

// CallTool implements ToolCaller.
func (r *RemoteToolCaller) CallTool(ctx context.Context, name string, arguments map[string]interface{}) (*ToolResult, error) {
	var opts []transport.StreamableHTTPCOption
	if r.timeout > 0 {
		opts = append(opts, transport.WithHTTPTimeout(r.timeout))
	}

	c, err := client.NewStreamableHttpClient(r.url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			r.logger.DebugContext(ctx, "Failed to close MCP client", "error", cerr)
		}
	}()

	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start MCP client: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    r.clientName,
		Version: r.version,
	}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		return nil, fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	callReq := mcp.CallToolRequest{}
	callReq.Params.Name = name
	callReq.Params.Arguments = arguments

	result, err := c.CallTool(ctx, callReq)
	if err != nil {
		return nil, fmt.Errorf("tool %q failed: %w", name, err)
	}

	out := &ToolResult{IsError: result.IsError}
	for _, content := range result.Content {
		if text, ok := mcp.AsTextContent(content); ok {
			out.Text = text.Text
			break
		}
	}
	return out, nil
}
