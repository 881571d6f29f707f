package mcp

import (
	"context"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/ashita-ai/kiroku/internal/report"
)

const (
	runURIPrefix      = "kiroku://runs/"
	reportURISuffix   = "/report"
	runTemplate       = runURIPrefix + "{id}"
	runReportTemplate = runURIPrefix + "{id}" + reportURISuffix
	htmlMIMEType      = "text/html"
	jsonMIMEType      = "application/json"
)

func (s *Server) registerResources() {
	// kiroku://runs/{id}: a stored run, exported as JSON.
	s.mcpServer.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			runTemplate,
			"Run",
			mcplib.WithTemplateDescription("A stored agent run as indented JSON"),
			mcplib.WithTemplateMIMEType(jsonMIMEType),
		),
		s.handleRunResource,
	)

	// kiroku://runs/{id}/report: a stored run rendered as a static report.
	s.mcpServer.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			runReportTemplate,
			"Run Report",
			mcplib.WithTemplateDescription("A stored agent run rendered as a static HTML report"),
			mcplib.WithTemplateMIMEType(htmlMIMEType),
		),
		s.handleRunReportResource,
	)
}

func (s *Server) handleRunResource(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	id, ok := runIDFromURI(request.Params.URI, "")
	if !ok {
		return nil, fmt.Errorf("mcp: invalid run uri %q", request.Params.URI)
	}
	run, err := s.source.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mcp: read run %s: %w", id, err)
	}
	data, err := report.Export(run)
	if err != nil {
		return nil, fmt.Errorf("mcp: export run %s: %w", id, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: jsonMIMEType,
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleRunReportResource(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	id, ok := runIDFromURI(request.Params.URI, reportURISuffix)
	if !ok {
		return nil, fmt.Errorf("mcp: invalid report uri %q", request.Params.URI)
	}
	run, err := s.source.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mcp: read run %s: %w", id, err)
	}
	in := report.NewInput(run)
	in.Branding = s.branding
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: htmlMIMEType,
			Text:     report.Build(in).HTML(),
		},
	}, nil
}

// runIDFromURI extracts {id} from kiroku://runs/{id}<suffix>.
func runIDFromURI(uri, suffix string) (string, bool) {
	rest, ok := strings.CutPrefix(uri, runURIPrefix)
	if !ok {
		return "", false
	}
	if suffix != "" {
		if rest, ok = strings.CutSuffix(rest, suffix); !ok {
			return "", false
		}
	}
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
