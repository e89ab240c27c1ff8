package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/soundprediction/stix-qa/pkg/jsonrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) *jsonrpc.Request {
	t.Helper()
	req, errResp := DecodeRequest([]byte(body))
	require.Nil(t, errResp)
	return req
}

func marshal(t *testing.T, resp *jsonrpc.Response) string {
	t.Helper()
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	return string(data)
}

func TestProxy_ForwardsToolCall(t *testing.T) {
	var gotName string
	var gotArgs map[string]interface{}
	proxy := NewProxy(ToolCallerFunc(func(_ context.Context, name string, args map[string]interface{}) (*ToolResult, error) {
		gotName, gotArgs = name, args
		return &ToolResult{Text: `[{"name":"APT29"}]`}, nil
	}), nil)

	req := decode(t, `{"jsonrpc":"2.0","id":17,"method":"tools/call","params":{"name":"query","arguments":{"query":"match $x;"}}}`)
	resp, status := proxy.Handle(context.Background(), req)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "query", gotName)
	assert.Equal(t, map[string]interface{}{"query": "match $x;"}, gotArgs)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":17,"result":[{"name":"APT29"}]}`, marshal(t, resp))
}

func TestProxy_Defaults(t *testing.T) {
	var gotName string
	var gotArgs map[string]interface{}
	proxy := NewProxy(ToolCallerFunc(func(_ context.Context, name string, args map[string]interface{}) (*ToolResult, error) {
		gotName, gotArgs = name, args
		return &ToolResult{Text: "ok"}, nil
	}), nil)

	resp, status := proxy.Handle(context.Background(), decode(t, `{"jsonrpc":"2.0","id":"a"}`))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, DefaultTool, gotName)
	assert.Equal(t, map[string]interface{}{}, gotArgs)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":"a","result":"ok"}`, marshal(t, resp))
}

func TestProxy_UpstreamFailure(t *testing.T) {
	proxy := NewProxy(ToolCallerFunc(func(context.Context, string, map[string]interface{}) (*ToolResult, error) {
		return nil, errors.New("connection refused")
	}), nil)

	resp, status := proxy.Handle(context.Background(), decode(t, `{"jsonrpc":"2.0","id":3,"params":{"arguments":{"query":"q"}}}`))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":3,"error":{"code":-32000,"message":"connection refused"}}`, marshal(t, resp))
}

func TestProxy_ToolError(t *testing.T) {
	proxy := NewProxy(ToolCallerFunc(func(context.Context, string, map[string]interface{}) (*ToolResult, error) {
		return &ToolResult{Text: "syntax error", IsError: true}, nil
	}), nil)

	resp, status := proxy.Handle(context.Background(), decode(t, `{"jsonrpc":"2.0","id":4,"params":{"arguments":{"query":"bad"}}}`))

	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "syntax error", resp.Error.Message)
	assert.Equal(t, jsonrpc.CodeServerError, resp.Error.Code)
}

func TestProxy_InvalidParams(t *testing.T) {
	proxy := NewProxy(ToolCallerFunc(func(context.Context, string, map[string]interface{}) (*ToolResult, error) {
		t.Fatal("tool must not be called")
		return nil, nil
	}), nil)

	_, status := proxy.Handle(context.Background(), decode(t, `{"jsonrpc":"2.0","id":5,"params":"nope"}`))
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestDecodeRequest_ParseError(t *testing.T) {
	req, errResp := DecodeRequest([]byte(`{not json`))
	assert.Nil(t, req)
	require.NotNil(t, errResp)
	assert.Equal(t, jsonrpc.CodeParseError, errResp.Error.Code)
}

func TestResultJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"valid array", `[{"name":"APT29"}]`, `[{"name":"APT29"}]`},
		{"valid object", ` {"count": 2} `, `{"count": 2}`},
		{"plain text", `Query returned 0 rows`, `"Query returned 0 rows"`},
		{"empty", ``, `""`},
		{"trailing comma repaired", `[{"name":"APT29"},]`, `[{"name":"APT29"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, string(resultJSON(tt.text)))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcde...", truncate("abcdefgh", 5))

	// "é" is two bytes; a cut at byte 3 would land inside the second one.
	got := truncate("éééé", 3)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "é...", got)

	long := strings.Repeat("Сэндворм ", 40)
	got = truncate(long, 200)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 203)
}
