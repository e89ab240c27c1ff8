// Package server serves the assistant UI, the JSON-RPC proxy and the
// server-side question pipeline over HTTP.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/soundprediction/stix-qa/pkg/config"
	"github.com/soundprediction/stix-qa/pkg/mcp"
	"github.com/soundprediction/stix-qa/pkg/server/handlers"
	"github.com/soundprediction/stix-qa/pkg/types"
)

//go:embed web/index.html
var webFS embed.FS

// HeaderRequestID carries the per-request correlation id.
const HeaderRequestID = "X-Request-ID"

// Dependencies are the collaborators the routes delegate to.
type Dependencies struct {
	Proxy        *mcp.Proxy
	Orchestrator handlers.OrchestratorFactory
	// SessionIdleTTL drops idle per-session orchestrators; zero keeps them.
	SessionIdleTTL time.Duration
	// AllowedEndpoints are the query endpoints /api/ask clients may select.
	AllowedEndpoints []string
	// Readiness checks reported by GET /ready, keyed by name.
	Readiness map[string]handlers.ReadinessFunc
}

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	deps       Dependencies
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a new server instance
func New(cfg *config.Config, deps Dependencies, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestContext())
	router.Use(requestLogger(logger))

	return &Server{
		config: cfg,
		deps:   deps,
		router: router,
		logger: logger,
	}
}

// Setup registers the routes
func (s *Server) Setup() {
	healthHandler := handlers.NewHealthHandler("stix-qa", s.deps.Readiness)
	proxyHandler := handlers.NewProxyHandler(s.deps.Proxy)
	askHandler := handlers.NewAskHandler(
		handlers.NewSessionStore(s.deps.Orchestrator, s.deps.SessionIdleTTL),
		s.deps.AllowedEndpoints,
	)

	s.router.GET("/", s.index)
	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/ready", healthHandler.ReadinessCheck)
	s.router.POST("/mcp", proxyHandler.Call)

	api := s.router.Group("/api")
	{
		api.POST("/ask", askHandler.Ask)
	}
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.config.Server.Address(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Starting server", "address", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) index(c *gin.Context) {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		c.String(http.StatusInternalServerError, "ui unavailable")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// requestContext assigns a request id and stores it in the request context.
func requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(HeaderRequestID, requestID)

		ctx := context.WithValue(c.Request.Context(), types.ContextKeyRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.Log(c.Request.Context(), level, "HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
