package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ashita-ai/kiroku/internal/ratelimit"
	"github.com/ashita-ai/kiroku/internal/report"
	"github.com/ashita-ai/kiroku/internal/runsource"
	"github.com/ashita-ai/kiroku/internal/telemetry"
)

// Server is the Kiroku HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     *slog.Logger
}

// Handler returns the root HTTP handler for use in tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServerConfig holds all dependencies and configuration for creating a Server.
// Optional fields (nil-safe): Source, Limiter, MCPServer, Metrics.
type ServerConfig struct {
	Logger   *slog.Logger
	Branding report.Branding

	// Optional dependencies (nil = disabled).
	Source     runsource.Source // Enables the /v1/runs/{run_id} routes.
	SourceName string           // Reported by /health.
	Limiter    ratelimit.Limiter
	MCPServer  *mcpserver.MCPServer
	Metrics    *telemetry.RenderMetrics

	// HTTP server settings.
	Port                int
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	Version             string
	MaxRequestBodyBytes int64
}

// New creates a new HTTP server with all routes configured.
func New(cfg ServerConfig) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	h := NewHandlers(HandlersDeps{
		Source:              cfg.Source,
		SourceName:          cfg.SourceName,
		Branding:            cfg.Branding,
		Metrics:             cfg.Metrics,
		Logger:              cfg.Logger,
		Version:             cfg.Version,
		MaxRequestBodyBytes: cfg.MaxRequestBodyBytes,
	})

	var limiter ratelimit.Limiter = ratelimit.NoopLimiter{}
	if cfg.Limiter != nil {
		limiter = cfg.Limiter
	}
	reqIDFunc := func(r *http.Request) string {
		return RequestIDFromContext(r.Context())
	}
	limited := ratelimit.Middleware(limiter, ratelimit.IPKeyFunc, reqIDFunc, cfg.Logger)

	mux := http.NewServeMux()

	// Stateless rendering of a posted run (rate limited by IP).
	mux.Handle("POST /v1/normalize", limited(http.HandlerFunc(h.HandleNormalize)))
	mux.Handle("POST /v1/recommendations", limited(http.HandlerFunc(h.HandleRecommendations)))
	mux.Handle("POST /v1/reports", limited(http.HandlerFunc(h.HandleReport)))
	mux.Handle("POST /v1/reports/export", limited(http.HandlerFunc(h.HandleExport)))

	// Stored runs.
	if cfg.Source != nil {
		mux.Handle("GET /v1/runs/{run_id}/report", limited(http.HandlerFunc(h.HandleRunReport)))
		mux.Handle("GET /v1/runs/{run_id}/export", limited(http.HandlerFunc(h.HandleRunExport)))
	}

	// MCP StreamableHTTP transport.
	if cfg.MCPServer != nil {
		mux.Handle("/mcp", limited(mcpserver.NewStreamableHTTPServer(cfg.MCPServer)))
	}

	// Health (no rate limit).
	mux.HandleFunc("GET /health", h.HandleHealth)

	// Middleware chain (outermost executes first):
	// request ID → security headers → tracing → logging → recovery → handler.
	var handler http.Handler = mux
	handler = recoveryMiddleware(cfg.Logger, handler)
	handler = loggingMiddleware(cfg.Logger, handler)
	handler = tracingMiddleware(handler)
	handler = securityHeadersMiddleware(handler)
	handler = requestIDMiddleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
		},
		handler: handler,
		logger:  cfg.Logger,
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
