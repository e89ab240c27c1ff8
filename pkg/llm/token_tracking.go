package llm

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/soundprediction/stix-qa/pkg/cost"
	"github.com/soundprediction/stix-qa/pkg/types"
)

// UsageTracker appends completion token usage to a DuckDB table.
type UsageTracker struct {
	db         *sql.DB
	calculator *cost.CostCalculator
}

// NewUsageTracker creates the token_usage table if needed.
func NewUsageTracker(db *sql.DB) (*UsageTracker, error) {
	t := &UsageTracker{
		db:         db,
		calculator: cost.NewCostCalculator(),
	}
	if err := t.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize token_usage schema: %w", err)
	}
	return t, nil
}

func (t *UsageTracker) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS token_usage (
		id VARCHAR,
		timestamp TIMESTAMP,
		request_id VARCHAR,
		session_id VARCHAR,
		request_source VARCHAR,
		provider VARCHAR,
		model VARCHAR,
		prompt_tokens INTEGER,
		completion_tokens INTEGER,
		total_tokens INTEGER,
		estimated_cost_usd DOUBLE
	);
	`
	_, err := t.db.Exec(query)
	return err
}

// AddUsage records one completion's usage, tagged with the correlation ids in ctx.
func (t *UsageTracker) AddUsage(ctx context.Context, usage *types.TokenUsage, provider, model string) error {
	if usage == nil {
		return nil
	}

	query := `
	INSERT INTO token_usage (
		id, timestamp, request_id, session_id, request_source,
		provider, model, prompt_tokens, completion_tokens, total_tokens, estimated_cost_usd
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err := t.db.ExecContext(ctx, query,
		uuid.New().String(),
		time.Now().UTC(),
		types.ContextString(ctx, types.ContextKeyRequestID),
		types.ContextString(ctx, types.ContextKeySessionID),
		types.ContextString(ctx, types.ContextKeyRequestSource),
		provider,
		model,
		usage.PromptTokens,
		usage.CompletionTokens,
		usage.TotalTokens,
		t.calculator.CalculateCost(model, usage.PromptTokens, usage.CompletionTokens),
	)
	return err
}

// TokenTrackingClient wraps a Client to track usage
type TokenTrackingClient struct {
	client  Client
	tracker *UsageTracker
	logger  *slog.Logger
}

// NewTokenTrackingClient creates a wrapper client
func NewTokenTrackingClient(client Client, tracker *UsageTracker, logger *slog.Logger) *TokenTrackingClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenTrackingClient{
		client:  client,
		tracker: tracker,
		logger:  logger,
	}
}

// Complete implements Client
func (c *TokenTrackingClient) Complete(ctx context.Context, req CompletionRequest) (*Response, error) {
	resp, err := c.client.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.TokensUsed != nil {
		model := resp.Model
		if model == "" {
			model = c.client.Model()
		}
		// Tracking failures never fail the completion itself.
		if err := c.tracker.AddUsage(ctx, resp.TokensUsed, c.client.Provider(), model); err != nil {
			c.logger.WarnContext(ctx, "Failed to save token usage", "error", err)
		}
	}

	return resp, nil
}

// Provider implements Client
func (c *TokenTrackingClient) Provider() string {
	return c.client.Provider()
}

// Model implements Client
func (c *TokenTrackingClient) Model() string {
	return c.client.Model()
}

// Close implements Client
func (c *TokenTrackingClient) Close() error {
	return c.client.Close()
}
