package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// AnthropicClient implements the Client interface for the Anthropic messages API.
type AnthropicClient struct {
	config     *LLMConfig
	httpClient *http.Client
}

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(config *LLMConfig) *AnthropicClient {
	if config.BaseURL == "" {
		config.BaseURL = DefaultAnthropicURL
	}
	if config.Model == "" {
		config.Model = DefaultAnthropicModel
	}
	if config.APIVersion == "" {
		config.APIVersion = DefaultAnthropicVersion
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultMaxTokens
	}

	return &AnthropicClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// anthropicRequest represents the request body of POST /v1/messages.
type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

// anthropicMessage represents a message in Anthropic format.
type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse represents a successful response from the messages API.
type anthropicResponse struct {
	ID         string                  `json:"id"`
	Model      string                  `json:"model"`
	Content    []anthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
	Usage      anthropicUsage          `json:"usage"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// anthropicErrorEnvelope represents an error response.
type anthropicErrorEnvelope struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Provider implements Client.
func (a *AnthropicClient) Provider() string {
	return "Claude"
}

// Model implements Client.
func (a *AnthropicClient) Model() string {
	return a.config.Model
}

// Complete implements the Client interface for Anthropic.
func (a *AnthropicClient) Complete(ctx context.Context, req CompletionRequest) (*Response, error) {
	if req.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}

	messages := make([]anthropicMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, anthropicMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = a.config.MaxTokens
	}

	reqBody, err := json.Marshal(anthropicRequest{
		Model:     a.config.Model,
		MaxTokens: maxTokens,
		System:    req.System,
		Messages:  messages,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimRight(a.config.BaseURL, "/") + "/v1/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", req.APIKey)
	httpReq.Header.Set("anthropic-version", a.config.APIVersion)
	httpReq.Header.Set("anthropic-dangerous-direct-browser-access", "true")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := http.StatusText(resp.StatusCode)
		var envelope anthropicErrorEnvelope
		if json.Unmarshal(body, &envelope) == nil && envelope.Error != nil && envelope.Error.Message != "" {
			message = envelope.Error.Message
		}
		return nil, &RemoteServiceError{
			Provider:   a.Provider(),
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}

	var anthropicResp anthropicResponse
	if err := json.Unmarshal(body, &anthropicResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	response := &Response{
		Model:        anthropicResp.Model,
		FinishReason: anthropicResp.StopReason,
		TokensUsed:   usage(anthropicResp.Usage.InputTokens, anthropicResp.Usage.OutputTokens),
	}
	for _, block := range anthropicResp.Content {
		if block.Type == "text" {
			response.Content = block.Text
			break
		}
	}
	if response.Model == "" {
		response.Model = a.config.Model
	}

	return response, nil
}

// Close cleans up resources (no-op for the HTTP client).
func (a *AnthropicClient) Close() error {
	return nil
}
