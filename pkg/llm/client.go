package llm

import (
	"context"

	"github.com/soundprediction/stix-qa/pkg/types"
)

// Client defines the interface for language model operations.
type Client interface {
	// Complete sends one completion request and returns the first text segment of the reply.
	Complete(ctx context.Context, req CompletionRequest) (*Response, error)

	// Provider returns the display name used in error messages.
	Provider() string

	// Model returns the model identifier requests are sent to.
	Model() string

	// Close cleans up any resources.
	Close() error
}

// CompletionRequest carries a single completion call. The credential travels
// with the request because it is supplied per submission, never from config.
type CompletionRequest struct {
	APIKey    string
	System    string
	Messages  []Message
	MaxTokens int // zero uses the client default
}

// Message represents a chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Role represents the role of a message sender.
type Role string

const (
	// RoleUser represents a user message.
	RoleUser Role = "user"
	// RoleAssistant represents an assistant message.
	RoleAssistant Role = "assistant"
)

// Response represents a completion response.
type Response struct {
	Content      string            `json:"content"`
	Model        string            `json:"model,omitempty"`
	TokensUsed   *types.TokenUsage `json:"tokens_used,omitempty"`
	FinishReason string            `json:"finish_reason,omitempty"`
}

// NewMessage creates a new message with the specified role and content.
func NewMessage(role Role, content string) Message {
	return Message{
		Role:    role,
		Content: content,
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

func usage(prompt, completion int) *types.TokenUsage {
	return &types.TokenUsage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}
