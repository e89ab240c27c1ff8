package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/stix-qa/pkg/jsonrpc"
	"github.com/soundprediction/stix-qa/pkg/mcp"
)

// maxRPCBody bounds a JSON-RPC request body.
const maxRPCBody = 1 << 20

// ProxyHandler exposes the MCP proxy as a JSON-RPC endpoint.
type ProxyHandler struct {
	proxy *mcp.Proxy
}

// NewProxyHandler creates a new proxy handler
func NewProxyHandler(proxy *mcp.Proxy) *ProxyHandler {
	return &ProxyHandler{proxy: proxy}
}

// Call handles POST /mcp
func (h *ProxyHandler) Call(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRPCBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, jsonrpc.NewError(nil, jsonrpc.CodeParseError, "Parse error: "+err.Error()))
		return
	}

	req, errResp := mcp.DecodeRequest(body)
	if errResp != nil {
		c.JSON(http.StatusBadRequest, errResp)
		return
	}

	resp, status := h.proxy.Handle(c.Request.Context(), req)
	c.JSON(status, resp)
}
