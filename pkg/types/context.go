package types

import "context"

type ContextKey string

const (
	ContextKeyRequestID     ContextKey = "request_id"
	ContextKeySessionID     ContextKey = "session_id"
	ContextKeyRequestSource ContextKey = "request_source"
)

// ContextString returns the string stored under key, or "" if absent.
func ContextString(ctx context.Context, key ContextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
