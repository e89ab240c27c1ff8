package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerToolCaller_OpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	upstream := ToolCallerFunc(func(context.Context, string, map[string]interface{}) (*ToolResult, error) {
		calls++
		return nil, errors.New("connection refused")
	})

	b := NewBreakerToolCaller(upstream, BreakerSettings{MaxFailures: 2, OpenTimeout: time.Minute}, nil)

	for i := 0; i < 2; i++ {
		_, err := b.CallTool(context.Background(), "query", nil)
		assert.EqualError(t, err, "connection refused")
	}
	assert.Equal(t, "open", b.State())

	_, err := b.CallTool(context.Background(), "query", nil)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, calls, "open breaker must not reach upstream")
}

func TestBreakerToolCaller_ToolErrorsKeepBreakerClosed(t *testing.T) {
	upstream := ToolCallerFunc(func(context.Context, string, map[string]interface{}) (*ToolResult, error) {
		return &ToolResult{Text: "syntax error", IsError: true}, nil
	})

	b := NewBreakerToolCaller(upstream, BreakerSettings{MaxFailures: 1, OpenTimeout: time.Minute}, nil)

	for i := 0; i < 3; i++ {
		result, err := b.CallTool(context.Background(), "query", nil)
		require.NoError(t, err)
		assert.True(t, result.IsError)
	}
	assert.Equal(t, "closed", b.State())
}

func TestBreakerToolCaller_HalfOpenRecovery(t *testing.T) {
	fail := true
	upstream := ToolCallerFunc(func(context.Context, string, map[string]interface{}) (*ToolResult, error) {
		if fail {
			return nil, errors.New("down")
		}
		return &ToolResult{Text: "[]"}, nil
	})

	b := NewBreakerToolCaller(upstream, BreakerSettings{MaxFailures: 1, OpenTimeout: 20 * time.Millisecond}, nil)

	_, err := b.CallTool(context.Background(), "query", nil)
	require.Error(t, err)
	assert.Equal(t, "open", b.State())

	time.Sleep(40 * time.Millisecond)
	fail = false

	result, err := b.CallTool(context.Background(), "query", nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", result.Text)
	assert.Equal(t, "closed", b.State())
}
