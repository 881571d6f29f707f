package main

import (
	"errors"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/ashita-ai/kiroku/internal/config"
	"github.com/ashita-ai/kiroku/internal/mcp"
	"github.com/ashita-ai/kiroku/internal/runsource"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := textLogger()
		branding, err := config.LoadBranding(cfg.BrandingFile)
		if err != nil {
			return err
		}

		var source runsource.Source
		h, err := openSource(cmd.Context())
		switch {
		case errors.Is(err, errNoSource):
			logger.Info("run source: disabled (no --file, DATABASE_URL or KIROKU_SQLITE_PATH)")
		case err != nil:
			return err
		default:
			defer func() { _ = h.Close() }()
			source = h.Source
			logger.Info("run source: enabled", "source", h.Name)
		}

		srv := mcp.New(source, branding, logger, version)
		return mcpserver.ServeStdio(srv.MCPServer())
	},
}
