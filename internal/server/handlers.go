package server

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/ashita-ai/kiroku/internal/model"
	"github.com/ashita-ai/kiroku/internal/normalize"
	"github.com/ashita-ai/kiroku/internal/ranking"
	"github.com/ashita-ai/kiroku/internal/report"
	"github.com/ashita-ai/kiroku/internal/runsource"
	"github.com/ashita-ai/kiroku/internal/telemetry"
)

// defaultMaxRequestBodyBytes applies when HandlersDeps leaves the limit unset.
const defaultMaxRequestBodyBytes = 4 << 20

// Handlers holds HTTP handler dependencies.
type Handlers struct {
	source              runsource.Source
	sourceName          string
	branding            report.Branding
	metrics             *telemetry.RenderMetrics
	logger              *slog.Logger
	startedAt           time.Time
	version             string
	maxRequestBodyBytes int64
}

// HandlersDeps holds all dependencies for constructing Handlers.
// Optional (nil-safe): Source, Metrics.
type HandlersDeps struct {
	Source              runsource.Source
	SourceName          string
	Branding            report.Branding
	Metrics             *telemetry.RenderMetrics
	Logger              *slog.Logger
	Version             string
	MaxRequestBodyBytes int64
}

// NewHandlers creates a new Handlers with all dependencies.
func NewHandlers(d HandlersDeps) *Handlers {
	if d.MaxRequestBodyBytes <= 0 {
		d.MaxRequestBodyBytes = defaultMaxRequestBodyBytes
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Handlers{
		source:              d.Source,
		sourceName:          d.SourceName,
		branding:            d.Branding,
		metrics:             d.Metrics,
		logger:              d.Logger,
		startedAt:           time.Now(),
		version:             d.Version,
		maxRequestBodyBytes: d.MaxRequestBodyBytes,
	}
}

// HandleHealth handles GET /health. A configured run source that can be
// pinged is checked.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	httpStatus := http.StatusOK

	if p, ok := h.source.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(r.Context()); err != nil {
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
			h.logger.Warn("health: run source unreachable", "source", h.sourceName, "error", err)
		}
	}

	writeJSON(w, r, httpStatus, model.HealthResponse{
		Status:  status,
		Version: h.version,
		Source:  h.sourceName,
		Uptime:  int64(time.Since(h.startedAt).Seconds()),
	})
}

// HandleNormalize handles POST /v1/normalize.
func (h *Handlers) HandleNormalize(w http.ResponseWriter, r *http.Request) {
	run, ok := h.readRun(w, r)
	if !ok {
		return
	}
	view := normalize.Normalize(run.ResponseValue())
	writeJSON(w, r, http.StatusOK, model.NormalizeResponse{
		RunID:         run.ID,
		HasStructured: view.HasStructured(),
		Structured:    view.Structured,
		Text:          view.Text,
	})
}

// HandleRecommendations handles POST /v1/recommendations.
func (h *Handlers) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	run, ok := h.readRun(w, r)
	if !ok {
		return
	}
	in := report.NewInput(run)
	writeJSON(w, r, http.StatusOK, model.RecommendationsResponse{
		RunID:           run.ID,
		Recommendations: in.Recommendations,
		Summary:         ranking.Summarize(in.Recommendations),
		Forms:           in.Forms,
	})
}

// HandleReport handles POST /v1/reports?mode=static|editable[&download=1].
func (h *Handlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.readMode(w, r)
	if !ok {
		return
	}
	run, ok := h.readRun(w, r)
	if !ok {
		return
	}
	h.serveReport(w, r, run, mode)
}

// HandleExport handles POST /v1/reports/export.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	run, ok := h.readRun(w, r)
	if !ok {
		return
	}
	h.serveExport(w, r, run)
}

// HandleRunReport handles GET /v1/runs/{run_id}/report.
func (h *Handlers) HandleRunReport(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.readMode(w, r)
	if !ok {
		return
	}
	run, ok := h.fetchRun(w, r)
	if !ok {
		return
	}
	h.serveReport(w, r, run, mode)
}

// HandleRunExport handles GET /v1/runs/{run_id}/export.
func (h *Handlers) HandleRunExport(w http.ResponseWriter, r *http.Request) {
	run, ok := h.fetchRun(w, r)
	if !ok {
		return
	}
	h.serveExport(w, r, run)
}

func (h *Handlers) serveReport(w http.ResponseWriter, r *http.Request, run model.RunRecord, mode report.Mode) {
	start := time.Now()
	in := report.NewInput(run)
	in.Mode = mode
	in.Branding = h.branding
	doc := report.Build(in)

	if r.URL.Query().Get("download") == "1" {
		setAttachment(w, report.FileName(run.ID, "html"))
	}
	templ.Handler(doc.Component(),
		templ.WithContentType("text/html; charset=utf-8"),
		templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				h.logger.Error("report render failed", "run_id", run.ID, "error", err)
				w.Header().Del("Content-Disposition")
				writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "render failed")
			})
		}),
	).ServeHTTP(w, r)

	elapsed := time.Since(start)
	h.metrics.Record(r.Context(), string(mode), elapsed)
	h.logger.Info("report rendered",
		"run_id", run.ID,
		"agent", run.Agent,
		"mode", string(mode),
		"sections", len(doc.Sections),
		"duration_ms", elapsed.Milliseconds(),
		"request_id", RequestIDFromContext(r.Context()),
	)
}

func (h *Handlers) serveExport(w http.ResponseWriter, r *http.Request, run model.RunRecord) {
	data, err := report.Export(run)
	if err != nil {
		h.logger.Error("export failed", "run_id", run.ID, "error", err)
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	setAttachment(w, report.FileName(run.ID, "json"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handlers) readMode(w http.ResponseWriter, r *http.Request) (report.Mode, bool) {
	mode, ok := report.ParseMode(r.URL.Query().Get("mode"))
	if !ok {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "mode must be static or editable")
	}
	return mode, ok
}

// readRun decodes and validates a RunRecord request body.
func (h *Handlers) readRun(w http.ResponseWriter, r *http.Request) (model.RunRecord, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestBodyBytes)

	var run model.RunRecord
	if err := decodeJSON(r, &run); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, http.StatusRequestEntityTooLarge, model.ErrCodeInvalidInput, "request body too large")
			return model.RunRecord{}, false
		}
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid request body: "+err.Error())
		return model.RunRecord{}, false
	}
	if err := model.ValidateRunRecord(run); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return model.RunRecord{}, false
	}
	return run, true
}

// fetchRun loads the run named by the run_id path value from the source.
func (h *Handlers) fetchRun(w http.ResponseWriter, r *http.Request) (model.RunRecord, bool) {
	id := r.PathValue("run_id")
	if id == "" || len(id) > model.MaxRunIDLen {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid run_id")
		return model.RunRecord{}, false
	}
	run, err := h.source.Get(r.Context(), id)
	if errors.Is(err, runsource.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "run not found")
		return model.RunRecord{}, false
	}
	if err != nil {
		h.logger.Error("fetch run failed", "run_id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to fetch run")
		return model.RunRecord{}, false
	}
	return run, true
}

func setAttachment(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}
