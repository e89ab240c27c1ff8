package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient implements the Client interface for OpenAI-compatible chat completion APIs.
// A go-openai client is built per call because the credential arrives with each request.
type OpenAIClient struct {
	config     *LLMConfig
	httpClient *http.Client
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(config *LLMConfig) *OpenAIClient {
	// Anthropic defaults leak in when only llm.provider was switched.
	if config.Model == "" || strings.HasPrefix(config.Model, "claude") {
		config.Model = DefaultOpenAIModel
	}
	if config.BaseURL == DefaultAnthropicURL {
		config.BaseURL = ""
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultMaxTokens
	}

	return &OpenAIClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Provider implements Client.
func (c *OpenAIClient) Provider() string {
	return "OpenAI"
}

// Model implements Client.
func (c *OpenAIClient) Model() string {
	return c.config.Model
}

// Complete sends a chat completion request to OpenAI.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (*Response, error) {
	if req.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}

	clientConfig := openai.DefaultConfig(req.APIKey)
	if c.config.BaseURL != "" {
		clientConfig.BaseURL = withAPIPath(c.config.BaseURL)
	}
	clientConfig.HTTPClient = c.httpClient
	client := openai.NewClientWithConfig(clientConfig)

	resp, err := client.CreateChatCompletion(ctx, c.buildChatRequest(req))
	if err != nil {
		return nil, c.mapError(err)
	}

	response := &Response{
		Model:      resp.Model,
		TokensUsed: usage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
	}
	if response.Model == "" {
		response.Model = c.config.Model
	}
	if len(resp.Choices) > 0 {
		choice := resp.Choices[0]
		response.Content = choice.Message.Content
		response.FinishReason = string(choice.FinishReason)
	}

	return response, nil
}

// Close cleans up resources (no-op for OpenAI client).
func (c *OpenAIClient) Close() error {
	return nil
}

func (c *OpenAIClient) buildChatRequest(req CompletionRequest) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.config.MaxTokens
	}

	return openai.ChatCompletionRequest{
		Model:     c.config.Model,
		Messages:  messages,
		MaxTokens: maxTokens,
	}
}

// mapError turns go-openai failures into RemoteServiceError when the server answered.
func (c *OpenAIClient) mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = http.StatusText(apiErr.HTTPStatusCode)
		}
		return &RemoteServiceError{
			Provider:   c.Provider(),
			StatusCode: apiErr.HTTPStatusCode,
			Message:    message,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &RemoteServiceError{
			Provider:   c.Provider(),
			StatusCode: reqErr.HTTPStatusCode,
			Message:    http.StatusText(reqErr.HTTPStatusCode),
		}
	}

	return fmt.Errorf("openai chat completion failed: %w", err)
}

// withAPIPath appends /v1 to bare host URLs, leaving URLs that already name an API path alone.
func withAPIPath(baseURL string) string {
	trimmed := strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(trimmed, "/v1") || strings.Contains(trimmed, "/v1/") || strings.HasSuffix(trimmed, "/openai") {
		return trimmed
	}
	return trimmed + "/v1"
}
