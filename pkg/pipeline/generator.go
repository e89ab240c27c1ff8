package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/soundprediction/stix-qa/pkg/cache"
	"github.com/soundprediction/stix-qa/pkg/llm"
	"github.com/soundprediction/stix-qa/pkg/prompts"
)

// CannotQuery is the generator's "no valid query exists" sentinel.
const CannotQuery = prompts.CannotQuery

// Generator turns a question into TypeQL or CannotQuery.
type Generator interface {
	GenerateQuery(ctx context.Context, question, credential string) (string, error)
}

// QueryGenerator asks the completion endpoint for one TypeQL statement.
type QueryGenerator struct {
	client  llm.Client
	library prompts.Library
	cache   cache.Cache
	ttl     time.Duration
	logger  *slog.Logger
}

// cachedQuery is the value stored per question in the query cache.
type cachedQuery struct {
	Query       string    `json:"query"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewQueryGenerator creates a generator. The system prompt is taken from library once per call
// and never rebuilt.
func NewQueryGenerator(client llm.Client, library prompts.Library, logger *slog.Logger) *QueryGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryGenerator{
		client:  client,
		library: library,
		logger:  logger,
	}
}

// WithCache enables the generated-query cache. Entries expire after ttl; zero keeps them forever.
func (g *QueryGenerator) WithCache(c cache.Cache, ttl time.Duration) *QueryGenerator {
	g.cache = c
	g.ttl = ttl
	return g
}

// GenerateQuery returns the trimmed first text segment of the completion, which
// may be CannotQuery. One attempt is made; failures are returned as-is.
func (g *QueryGenerator) GenerateQuery(ctx context.Context, question, credential string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", &ValidationError{Message: MissingQuestionMessage}
	}
	if credential == "" {
		return "", missingCredential(g.client.Provider())
	}

	key := g.cacheKey(question)
	if g.cache != nil {
		var cached cachedQuery
		if err := cache.GetJSON(g.cache, key, &cached); err == nil && cached.Query != "" {
			g.logger.DebugContext(ctx, "Generated query served from cache", "generated_at", cached.GeneratedAt)
			return cached.Query, nil
		} else if err != nil && !errors.Is(err, cache.ErrKeyNotFound) {
			g.logger.WarnContext(ctx, "Query cache lookup failed", "error", err)
		}
	}

	g.logger.DebugContext(ctx, "Generating query", "question", question)

	resp, err := g.client.Complete(ctx, llm.CompletionRequest{
		APIKey:   credential,
		System:   g.library.GenerateQuery(),
		Messages: []llm.Message{llm.NewUserMessage(question)},
	})
	if err != nil {
		return "", err
	}

	query := strings.TrimSpace(resp.Content)
	if query == "" {
		return "", &llm.EmptyResponseError{Provider: g.client.Provider()}
	}

	g.logger.InfoContext(ctx, "Query generated", "query", query)

	if g.cache != nil {
		entry := cachedQuery{Query: query, Model: g.client.Model(), GeneratedAt: time.Now().UTC()}
		if err := cache.SetJSON(g.cache, key, entry, g.ttl); err != nil {
			g.logger.WarnContext(ctx, "Query cache store failed", "error", err)
		}
	}

	return query, nil
}

func (g *QueryGenerator) cacheKey(question string) string {
	sum := sha256.Sum256([]byte(g.client.Model() + "|" + question))
	return "query:" + hex.EncodeToString(sum[:])
}
