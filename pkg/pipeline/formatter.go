package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/soundprediction/stix-qa/pkg/llm"
	"github.com/soundprediction/stix-qa/pkg/prompts"
	"github.com/soundprediction/stix-qa/pkg/types"
)

// Formatter turns query results into an answer.
type Formatter interface {
	FormatAnswer(ctx context.Context, question string, results types.QueryResult, credential string) (string, error)
}

// AnswerFormatter summarises records through the completion endpoint.
type AnswerFormatter struct {
	client  llm.Client
	library prompts.Library
	logger  *slog.Logger
}

// NewAnswerFormatter creates a formatter.
func NewAnswerFormatter(client llm.Client, library prompts.Library, logger *slog.Logger) *AnswerFormatter {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerFormatter{
		client:  client,
		library: library,
		logger:  logger,
	}
}

// FormatAnswer returns NoDataMessage for empty results without any remote call.
// Otherwise it returns the trimmed completion, or FallbackAnswer when the completion has no text.
func (f *AnswerFormatter) FormatAnswer(ctx context.Context, question string, results types.QueryResult, credential string) (string, error) {
	if results.IsEmpty() {
		return NoDataMessage, nil
	}

	userTurn, err := prompts.AnswerUserTurn(question, results)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Complete(ctx, llm.CompletionRequest{
		APIKey:   credential,
		System:   f.library.FormatAnswer(),
		Messages: []llm.Message{llm.NewUserMessage(userTurn)},
	})
	if err != nil {
		return "", err
	}

	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		f.logger.WarnContext(ctx, "Completion returned no text, using fallback answer")
		return FallbackAnswer, nil
	}
	return answer, nil
}
