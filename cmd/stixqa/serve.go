package stixqa

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/soundprediction/stix-qa/pkg/config"
	"github.com/soundprediction/stix-qa/pkg/mcp"
	"github.com/soundprediction/stix-qa/pkg/pipeline"
	"github.com/soundprediction/stix-qa/pkg/server"
	"github.com/soundprediction/stix-qa/pkg/server/handlers"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assistant HTTP server",
	Long: `Start the HTTP server. It provides:
- the browser UI at /
- the JSON-RPC proxy to the TypeDB MCP server at POST /mcp
- the question pipeline at POST /api/ask
- health checks at /health and /ready`,
	RunE: runServe,
}

var (
	serveHost string
	servePort int
	serveMode string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Server host")
	serveCmd.Flags().IntVar(&servePort, "port", 3000, "Server port")
	serveCmd.Flags().StringVar(&serveMode, "mode", "release", "Server mode (debug, release, test)")
	serveCmd.Flags().String("mcp-url", "", "TypeDB MCP server URL")
	serveCmd.Flags().String("executor-endpoint", "", "JSON-RPC proxy URL used by the server-side pipeline")
	serveCmd.Flags().Duration("session-idle", 30*time.Minute, "Drop per-session state after this much inactivity")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(func(cfg *config.Config) { overrideServeFlags(cmd, cfg) })
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	breaker := mcp.NewBreakerToolCaller(
		mcp.NewRemoteToolCaller(cfg.MCP.UpstreamURL, 0, version, a.logger),
		mcp.BreakerSettings{
			MaxFailures: cfg.MCP.Breaker.MaxFailures,
			OpenTimeout: cfg.MCP.Breaker.OpenTimeout,
		},
		a.logger,
	)

	sessionIdle, _ := cmd.Flags().GetDuration("session-idle")

	srv := server.New(cfg, server.Dependencies{
		Proxy: mcp.NewProxy(breaker, a.logger),
		Orchestrator: func() *pipeline.Orchestrator {
			return a.newOrchestrator(nil)
		},
		SessionIdleTTL:   sessionIdle,
		AllowedEndpoints: cfg.Executor.Endpoints(),
		Readiness: map[string]handlers.ReadinessFunc{
			"mcp_upstream": func(context.Context) error {
				if breaker.State() == "open" {
					return errors.New("circuit breaker is open")
				}
				return nil
			},
		},
	}, a.logger)
	srv.Setup()

	a.logger.Info("Proxying MCP tool calls", "upstream", cfg.MCP.UpstreamURL)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- srv.Start()
	}()

	select {
	case err := <-serverErrChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
		a.logger.Info("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		a.logger.Info("Server stopped gracefully")
		return nil
	}
}

func overrideServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serveMode
	}
	if cmd.Flags().Changed("mcp-url") {
		cfg.MCP.UpstreamURL, _ = cmd.Flags().GetString("mcp-url")
	}
	if cmd.Flags().Changed("executor-endpoint") {
		cfg.Executor.Endpoint, _ = cmd.Flags().GetString("executor-endpoint")
	}
}
