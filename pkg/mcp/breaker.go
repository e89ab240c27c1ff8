package mcp

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerSettings configures BreakerToolCaller.
type BreakerSettings struct {
	// MaxFailures is the number of consecutive upstream failures that opens the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before letting a probe through.
	OpenTimeout time.Duration
}

// BreakerToolCaller fails fast while the upstream MCP server keeps failing.
// Tool-level errors (IsError results) count as successful calls: the server answered.
type BreakerToolCaller struct {
	next ToolCaller
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerToolCaller wraps next with a circuit breaker.
func NewBreakerToolCaller(next ToolCaller, settings BreakerSettings, logger *slog.Logger) *BreakerToolCaller {
	if logger == nil {
		logger = slog.Default()
	}
	maxFailures := settings.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "mcp-upstream",
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			// A cancelled caller says nothing about upstream health.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerToolCaller{next: next, cb: cb}
}

// CallTool implements ToolCaller.
func (b *BreakerToolCaller) CallTool(ctx context.Context, name string, arguments map[string]interface{}) (*ToolResult, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.CallTool(ctx, name, arguments)
	})
	if err != nil {
		return nil, err
	}
	return out.(*ToolResult), nil
}

// State returns the breaker state name (closed, half-open or open).
func (b *BreakerToolCaller) State() string {
	return b.cb.State().String()
}
