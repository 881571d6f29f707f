package kiroku

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashita-ai/kiroku/internal/config"
	"github.com/ashita-ai/kiroku/internal/mcp"
	"github.com/ashita-ai/kiroku/internal/ratelimit"
	"github.com/ashita-ai/kiroku/internal/report"
	"github.com/ashita-ai/kiroku/internal/runsource"
	"github.com/ashita-ai/kiroku/internal/server"
	"github.com/ashita-ai/kiroku/internal/telemetry"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// App is the Kiroku server lifecycle. Construct with NewApp(), run with Run().
type App struct {
	cfg          config.Config
	srv          *server.Server
	source       runsource.Handle
	limiter      ratelimit.Limiter
	otelShutdown telemetry.Shutdown
	logger       *slog.Logger
	version      string
}

// NewApp loads configuration, opens the run source, and wires the HTTP and
// MCP surfaces. It does NOT accept connections; call Run.
func NewApp(ctx context.Context, opts ...AppOption) (*App, error) {
	o := appOptions{}
	for _, fn := range opts {
		fn(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	version := o.version
	if version == "" {
		version = "dev"
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.port != 0 {
		cfg.Port = o.port
	}

	branding, err := config.LoadBranding(cfg.BrandingFile)
	if err != nil {
		return nil, err
	}
	if o.branding != nil {
		branding = toReportBranding(*o.branding)
	}

	logger.Info("kiroku starting", "version", version, "port", cfg.Port)

	otelShutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, version, cfg.OTELInsecure)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	metrics, err := telemetry.NewRenderMetrics(telemetry.Meter("kiroku/report"))
	if err != nil {
		_ = otelShutdown(context.Background())
		return nil, err
	}

	var source runsource.Handle
	if o.source != nil {
		source = runsource.Handle{Source: sourceAdapter{s: o.source}, Name: "custom"}
	} else {
		source, err = runsource.Open(ctx, runsource.OpenConfig{
			DatabaseURL: cfg.DatabaseURL,
			SQLitePath:  cfg.SQLitePath,
		})
		if err != nil {
			_ = otelShutdown(context.Background())
			return nil, err
		}
	}
	if source.Source != nil {
		logger.Info("run source: enabled", "source", source.Name)
	} else {
		logger.Info("run source: disabled (no DATABASE_URL or KIROKU_SQLITE_PATH)")
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimitEnabled {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		logger.Info("rate limiting: memory (in-process token bucket)",
			"rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
	} else {
		limiter = ratelimit.NoopLimiter{}
		logger.Info("rate limiting: disabled")
	}

	mcpSrv := mcp.New(source.Source, branding, logger, version)

	srv := server.New(server.ServerConfig{
		Logger:              logger,
		Branding:            branding,
		Source:              source.Source,
		SourceName:          source.Name,
		Limiter:             limiter,
		MCPServer:           mcpSrv.MCPServer(),
		Metrics:             metrics,
		Port:                cfg.Port,
		ReadTimeout:         cfg.ReadTimeout,
		WriteTimeout:        cfg.WriteTimeout,
		Version:             version,
		MaxRequestBodyBytes: cfg.MaxRequestBodyBytes,
	})

	return &App{
		cfg:          cfg,
		srv:          srv,
		source:       source,
		limiter:      limiter,
		otelShutdown: otelShutdown,
		logger:       logger,
		version:      version,
	}, nil
}

// Handler returns the root HTTP handler, for tests and for mounting the
// App inside another server.
func (a *App) Handler() http.Handler {
	return a.srv.Handler()
}

// Run serves HTTP until ctx is cancelled or the listener fails, then shuts
// down.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := a.srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		_ = a.Shutdown(context.Background())
		return err
	}

	return a.Shutdown(context.Background())
}

// Shutdown stops the HTTP server and releases the run source and telemetry.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("kiroku shutting down")

	httpCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	var firstErr error
	if err := a.srv.Shutdown(httpCtx); err != nil {
		a.logger.Error("http shutdown error", "error", err)
		firstErr = err
	}

	_ = a.limiter.Close()
	if err := a.source.Close(); err != nil {
		a.logger.Error("run source close error", "error", err)
	}
	_ = a.otelShutdown(context.Background())

	a.logger.Info("kiroku stopped")
	return firstErr
}

// DefaultBranding returns the built-in branding.
func DefaultBranding() Branding {
	return fromReportBranding(report.DefaultBranding())
}

func fromReportBranding(b report.Branding) Branding {
	out := Branding{ProductName: b.ProductName, CTA: CTA(b.CTA)}
	for _, l := range b.Links {
		out.Links = append(out.Links, Link(l))
	}
	return out
}
