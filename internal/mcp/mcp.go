// Package mcp implements the Model Context Protocol server for Kiroku.
//
// The MCP server exposes the engine's normalize, rank, render, and export
// operations as tools, so an agent can turn its own run output into a
// report without a round trip through the HTTP API. When a run source is
// configured, stored runs are also readable as resources.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ashita-ai/kiroku/internal/model"
	"github.com/ashita-ai/kiroku/internal/report"
	"github.com/ashita-ai/kiroku/internal/runsource"
)

// Server wraps the MCP server with the report engine.
type Server struct {
	mcpServer *mcpserver.MCPServer
	source    runsource.Source
	branding  report.Branding
	logger    *slog.Logger
}

// New creates and configures a new MCP server. source may be nil, in which
// case tools only accept inline runs and no resources are registered.
func New(source runsource.Source, branding report.Branding, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		source:   source,
		branding: branding,
		logger:   logger,
	}

	s.mcpServer = mcpserver.NewMCPServer(
		"kiroku",
		version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
		mcpserver.WithPromptCapabilities(false),
	)

	s.registerTools()
	s.registerPrompts()
	if source != nil {
		s.registerResources()
	}

	return s
}

// MCPServer returns the underlying mcp-go server for transport setup.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// resolveRun returns the run a tool call refers to: an inline "run" argument
// (object or JSON string) wins over "run_id". Inline runs without an id get
// a generated one so reports always carry an identifier.
func (s *Server) resolveRun(ctx context.Context, request mcplib.CallToolRequest) (model.RunRecord, error) {
	args := request.GetArguments()
	if raw, ok := args["run"]; ok && raw != nil {
		run, err := decodeRun(raw)
		if err != nil {
			return model.RunRecord{}, err
		}
		if run.ID == "" {
			run.ID = uuid.New().String()
		}
		if err := model.ValidateRunRecord(run); err != nil {
			return model.RunRecord{}, fmt.Errorf("invalid run: %w", err)
		}
		return run, nil
	}

	id := request.GetString("run_id", "")
	if id == "" {
		return model.RunRecord{}, errors.New("either run or run_id is required")
	}
	if s.source == nil {
		return model.RunRecord{}, errors.New("run_id requires a configured run source; pass the run inline instead")
	}
	run, err := s.source.Get(ctx, id)
	if errors.Is(err, runsource.ErrNotFound) {
		return model.RunRecord{}, fmt.Errorf("run %q not found", id)
	}
	if err != nil {
		return model.RunRecord{}, fmt.Errorf("fetch run %q: %w", id, err)
	}
	return run, nil
}

func decodeRun(raw any) (model.RunRecord, error) {
	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			return model.RunRecord{}, fmt.Errorf("invalid run: %w", err)
		}
	}
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, fmt.Errorf("invalid run: %w", err)
	}
	return run, nil
}

func jsonResult(v any) *mcplib.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("encode result: %v", err))
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: string(data)},
		},
	}
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
