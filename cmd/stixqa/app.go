package stixqa

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/soundprediction/stix-qa/pkg/cache"
	"github.com/soundprediction/stix-qa/pkg/config"
	"github.com/soundprediction/stix-qa/pkg/executor"
	"github.com/soundprediction/stix-qa/pkg/llm"
	"github.com/soundprediction/stix-qa/pkg/logger"
	"github.com/soundprediction/stix-qa/pkg/pipeline"
	"github.com/soundprediction/stix-qa/pkg/prompts"
	"github.com/soundprediction/stix-qa/pkg/telemetry"
)

// app holds the long-lived components shared by serve and ask.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	client   llm.Client
	library  prompts.Library
	executor *executor.Client

	cache     cache.Cache
	db        *sql.DB
	errorSink *telemetry.DuckDBHandler
}

func newApp(cfg *config.Config) (*app, error) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	handler, err := logger.NewHandler(os.Stderr, level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	if cfg.Telemetry.DuckDBPath != "" {
		a.db, err = sql.Open("duckdb", cfg.Telemetry.DuckDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open telemetry database: %w", err)
		}
		a.errorSink, err = telemetry.NewDuckDBHandler(handler, a.db)
		if err != nil {
			a.close()
			return nil, err
		}
		handler = a.errorSink
	}

	a.logger = slog.New(handler)
	slog.SetDefault(a.logger)

	client, err := llm.NewClient(cfg.LLM.Provider, &llm.LLMConfig{
		Model:      cfg.LLM.Model,
		BaseURL:    cfg.LLM.BaseURL,
		APIVersion: cfg.LLM.APIVersion,
		MaxTokens:  cfg.LLM.MaxTokens,
		Timeout:    cfg.LLM.Timeout,
	})
	if err != nil {
		a.close()
		return nil, err
	}
	if a.db != nil {
		tracker, err := llm.NewUsageTracker(a.db)
		if err != nil {
			a.close()
			return nil, err
		}
		client = llm.NewTokenTrackingClient(client, tracker, a.logger)
	}
	a.client = client

	if cfg.Cache.Enabled {
		a.cache, err = cache.NewBadgerCache(cfg.Cache.Path)
		if err != nil {
			a.close()
			return nil, err
		}
	}

	a.library = prompts.NewLibrary(prompts.Options{IncludeGrammar: cfg.Prompts.IncludeGrammar})
	a.executor = executor.NewClient(nil, a.logger)

	a.logger.Debug("Application initialized",
		"provider", cfg.LLM.Provider,
		"model", client.Model(),
		"cache", cfg.Cache.Enabled,
		"telemetry", a.db != nil,
	)
	return a, nil
}

func (a *app) newOrchestrator(view pipeline.View) *pipeline.Orchestrator {
	generator := pipeline.NewQueryGenerator(a.client, a.library, a.logger)
	if a.cache != nil {
		generator = generator.WithCache(a.cache, a.cfg.Cache.TTL)
	}

	return pipeline.NewOrchestrator(
		generator,
		a.executor,
		pipeline.NewAnswerFormatter(a.client, a.library, a.logger),
		view,
		pipeline.OrchestratorOptions{
			DefaultEndpoint: a.cfg.Executor.Endpoint,
			ProviderName:    a.client.Provider(),
			Logger:          a.logger,
		},
	)
}

func (a *app) close() error {
	var errs []error
	if a.client != nil {
		errs = append(errs, a.client.Close())
	}
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.errorSink != nil {
		errs = append(errs, a.errorSink.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
