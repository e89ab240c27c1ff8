package llm

import (
	"fmt"
	"time"
)

// Default configuration values
const (
	DefaultMaxTokens        = 1024
	DefaultAnthropicModel   = "claude-sonnet-4-20250514"
	DefaultAnthropicURL     = "https://api.anthropic.com"
	DefaultAnthropicVersion = "2023-06-01"
	DefaultOpenAIModel      = "gpt-4o"
)

// Provider identifiers accepted by NewClient.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// LLMConfig holds configuration for LLM clients
type LLMConfig struct {
	// Model is the specific LLM model to use for generating responses
	Model string `json:"model,omitempty"`

	// BaseURL is the base URL of the LLM API service
	BaseURL string `json:"base_url,omitempty"`

	// APIVersion is sent as the anthropic-version header
	APIVersion string `json:"api_version,omitempty"`

	// MaxTokens is the maximum number of tokens to generate
	MaxTokens int `json:"max_tokens,omitempty"`

	// Timeout bounds each HTTP call; zero means no client-side timeout
	Timeout time.Duration `json:"timeout,omitempty"`
}

// NewLLMConfig creates a new LLMConfig with default values
func NewLLMConfig() *LLMConfig {
	return &LLMConfig{
		Model:      DefaultAnthropicModel,
		BaseURL:    DefaultAnthropicURL,
		APIVersion: DefaultAnthropicVersion,
		MaxTokens:  DefaultMaxTokens,
	}
}

// WithModel sets the model
func (c *LLMConfig) WithModel(model string) *LLMConfig {
	c.Model = model
	return c
}

// WithBaseURL sets the base URL
func (c *LLMConfig) WithBaseURL(baseURL string) *LLMConfig {
	c.BaseURL = baseURL
	return c
}

// WithAPIVersion sets the API version header value
func (c *LLMConfig) WithAPIVersion(version string) *LLMConfig {
	c.APIVersion = version
	return c
}

// WithMaxTokens sets the max tokens
func (c *LLMConfig) WithMaxTokens(maxTokens int) *LLMConfig {
	c.MaxTokens = maxTokens
	return c
}

// WithTimeout sets the HTTP timeout
func (c *LLMConfig) WithTimeout(timeout time.Duration) *LLMConfig {
	c.Timeout = timeout
	return c
}

// NewClient builds the client for provider.
func NewClient(provider string, cfg *LLMConfig) (Client, error) {
	if cfg == nil {
		cfg = NewLLMConfig()
	}
	switch provider {
	case ProviderAnthropic, "":
		return NewAnthropicClient(cfg), nil
	case ProviderOpenAI:
		return NewOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", provider)
	}
}
