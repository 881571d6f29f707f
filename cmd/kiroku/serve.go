package main

import (
	"github.com/spf13/cobra"

	"github.com/ashita-ai/kiroku"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and the MCP endpoint",
	Long: `Serve the report API on KIROKU_PORT (default 8080).

Stored runs are served from DATABASE_URL or KIROKU_SQLITE_PATH when set;
the MCP streamable HTTP endpoint is mounted at /mcp.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := jsonLogger()

		opts := []kiroku.AppOption{
			kiroku.WithLogger(logger),
			kiroku.WithVersion(version),
		}
		if servePort != 0 {
			opts = append(opts, kiroku.WithPort(servePort))
		}
		app, err := kiroku.NewApp(cmd.Context(), opts...)
		if err != nil {
			return err
		}
		return app.Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default KIROKU_PORT)")
}
