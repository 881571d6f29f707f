package mcp

import (
	"context"
	"fmt"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/ashita-ai/kiroku/internal/normalize"
	"github.com/ashita-ai/kiroku/internal/ranking"
	"github.com/ashita-ai/kiroku/internal/report"
)

const runArgDescription = `The agent run, as a JSON object (or a string holding one) with fields
id, agent, status, request, response, costCents, meta {tookMs, traceId}.
The response may be an object, a list, or text containing a fenced JSON block.`

func (s *Server) registerTools() {
	runArgs := []mcplib.ToolOption{
		mcplib.WithObject("run", mcplib.Description(runArgDescription)),
		mcplib.WithString("run_id",
			mcplib.Description("Id of a stored run. Used only when run is omitted and the server has a run source."),
		),
	}
	readOnly := []mcplib.ToolOption{
		mcplib.WithReadOnlyHintAnnotation(true),
		mcplib.WithIdempotentHintAnnotation(true),
		mcplib.WithOpenWorldHintAnnotation(false),
	}
	opts := func(desc string, extra ...mcplib.ToolOption) []mcplib.ToolOption {
		o := []mcplib.ToolOption{mcplib.WithDescription(desc)}
		o = append(o, readOnly...)
		o = append(o, runArgs...)
		return append(o, extra...)
	}

	// kiroku_normalize: structured view of a raw response.
	s.mcpServer.AddTool(
		mcplib.NewTool("kiroku_normalize", opts(`Normalize a run's raw response into a structured object and a readable text.

WHEN TO USE: When you need the fields an agent produced but the response is
wrapped (output_text), fenced in markdown, or nested under outputs/result/metadata.

WHAT YOU GET BACK:
- has_structured: whether any JSON object was found
- structured: the merged object, with the recommendation payload lifted to the top
- text: a readable rendering of the response`)...),
		s.handleNormalize,
	)

	// kiroku_rank: recommendation view-model.
	s.mcpServer.AddTool(
		mcplib.NewTool("kiroku_rank", opts(`Rank a run's recommendations and compare scores with the previous run.

WHAT YOU GET BACK:
- summary: count, critical count (score >= 0.80), adopted count, mean score
- recommendations: priority, title, score, critical, delta against the memory
  snapshot when one exists, and execution hints
- forms: campaign / pitch / journey form snapshots found in the response or request`)...),
		s.handleRank,
	)

	// kiroku_render_report: HTML report.
	s.mcpServer.AddTool(
		mcplib.NewTool("kiroku_render_report", opts(`Render a run as a self-contained HTML report.

Static mode is for sharing; editable mode makes every section editable in the
browser and adds a save button. The second content block is the HTML document.`,
			mcplib.WithString("mode",
				mcplib.Description("Report mode"),
				mcplib.Enum(string(report.ModeStatic), string(report.ModeEditable)),
				mcplib.DefaultString(string(report.ModeStatic)),
			),
		)...),
		s.handleRenderReport,
	)

	// kiroku_export_run: raw JSON download.
	s.mcpServer.AddTool(
		mcplib.NewTool("kiroku_export_run", opts(`Export a run as indented JSON, exactly as stored.`)...),
		s.handleExportRun,
	)
}

func (s *Server) handleNormalize(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	run, err := s.resolveRun(ctx, request)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	view := normalize.Normalize(run.ResponseValue())
	return jsonResult(map[string]any{
		"run_id":         run.ID,
		"has_structured": view.HasStructured(),
		"structured":     view.Structured,
		"text":           view.Text,
	}), nil
}

func (s *Server) handleRank(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	run, err := s.resolveRun(ctx, request)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	in := report.NewInput(run)
	return jsonResult(map[string]any{
		"run_id":          run.ID,
		"summary":         ranking.Summarize(in.Recommendations),
		"recommendations": compactRecommendations(in.Recommendations),
		"forms":           in.Forms,
	}), nil
}

func (s *Server) handleRenderReport(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	mode, ok := report.ParseMode(request.GetString("mode", ""))
	if !ok {
		return errorResult("mode must be static or editable"), nil
	}
	run, err := s.resolveRun(ctx, request)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	start := time.Now()
	in := report.NewInput(run)
	in.Mode = mode
	in.Branding = s.branding
	doc := report.Build(in)
	html := doc.HTML()

	sections := make([]string, 0, len(doc.Sections))
	for _, sec := range doc.Sections {
		sections = append(sections, sec.ID)
	}
	s.logger.Info("mcp: report rendered",
		"run_id", run.ID,
		"agent", run.Agent,
		"mode", string(mode),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	meta := jsonResult(map[string]any{
		"run_id":    run.ID,
		"mode":      mode,
		"theme":     doc.Theme.Name,
		"file_name": report.FileName(run.ID, "html"),
		"sections":  sections,
		"bytes":     len(html),
	})
	meta.Content = append(meta.Content, mcplib.TextContent{Type: "text", Text: html})
	return meta, nil
}

func (s *Server) handleExportRun(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	run, err := s.resolveRun(ctx, request)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	data, err := report.Export(run)
	if err != nil {
		return errorResult(fmt.Sprintf("export failed: %v", err)), nil
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: string(data)},
		},
	}, nil
}
