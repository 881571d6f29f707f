package kiroku

import (
	"log/slog"
	"time"
)

// Option configures Render.
type Option func(*renderOptions)

type renderOptions struct {
	mode     Mode
	branding *Branding
	clock    func() time.Time
}

// WithMode selects a static (default) or editable report.
func WithMode(m Mode) Option {
	return func(o *renderOptions) { o.mode = m }
}

// WithBranding replaces the built-in call-to-action and links. Unset fields
// keep their defaults.
func WithBranding(b Branding) Option {
	return func(o *renderOptions) { o.branding = &b }
}

// WithClock sets the time source for the report's generation timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *renderOptions) { o.clock = now }
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	port     int
	logger   *slog.Logger
	version  string
	source   RunSource
	branding *Branding
}

// WithPort overrides the TCP port from config (KIROKU_PORT env var).
func WithPort(port int) AppOption {
	return func(o *appOptions) { o.port = port }
}

// WithLogger sets the structured logger for the App.
// If not set, the default slog logger is used.
func WithLogger(logger *slog.Logger) AppOption {
	return func(o *appOptions) { o.logger = logger }
}

// WithVersion sets the version string reported in the health endpoint and logs.
func WithVersion(version string) AppOption {
	return func(o *appOptions) { o.version = version }
}

// WithRunSource replaces the configured SQLite or Postgres run source.
func WithRunSource(s RunSource) AppOption {
	return func(o *appOptions) { o.source = s }
}

// WithAppBranding replaces the branding file from config (KIROKU_BRANDING_FILE).
func WithAppBranding(b Branding) AppOption {
	return func(o *appOptions) { o.branding = &b }
}
