// Command kiroku renders agent run records into reports, serves the HTTP and
// MCP surfaces, and previews recommendations in the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	"github.com/ashita-ai/kiroku/internal/config"
	"github.com/ashita-ai/kiroku/internal/model"
	"github.com/ashita-ai/kiroku/internal/runsource"
)

// version is set at build time via -ldflags.
var version = "dev"

// stdioPath selects stdin for --file and stdout for --output.
const stdioPath = "-"

var (
	// Global flags
	runsFile string
	logLevel string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "kiroku",
	Short: "Turn agent run records into ranked recommendations and HTML reports",
	Long: `kiroku reads agent run records from a JSON file, SQLite, or Postgres and
renders them as self-contained HTML reports.

Runs are read from --file when given (use - for stdin), otherwise from
DATABASE_URL or KIROKU_SQLITE_PATH.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		if logLevel != "" {
			if _, err := config.ParseLevel(logLevel); err != nil {
				return err
			}
			c.LogLevel = logLevel
		}
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&runsFile, "file", "f", "", "JSON file with one run or an array of runs (- for stdin)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default KIROKU_LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd, renderCmd, exportCmd, normalizeCmd, listCmd, watchCmd, mcpCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("fatal error", "error", err)
		cancel()
		os.Exit(1)
	}
}

// jsonLogger is used by the long-running commands.
func jsonLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	return logger
}

// textLogger writes to stderr so one-shot commands keep stdout for output.
func textLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	return logger
}

var errNoSource = errors.New("no run source: pass --file or set DATABASE_URL or KIROKU_SQLITE_PATH")

// openSource resolves the run source from --file or the environment.
func openSource(ctx context.Context) (runsource.Handle, error) {
	if runsFile == stdioPath {
		return runsource.Handle{}, errors.New("--file - is only supported by one-shot commands")
	}
	oc := runsource.OpenConfig{DatabaseURL: cfg.DatabaseURL, SQLitePath: cfg.SQLitePath}
	if runsFile != "" {
		oc = runsource.OpenConfig{File: runsFile}
	}
	h, err := runsource.Open(ctx, oc)
	if err != nil {
		return runsource.Handle{}, err
	}
	if h.Source == nil {
		return runsource.Handle{}, errNoSource
	}
	return h, nil
}

// loadRun fetches one run. With --file, an empty id selects the first run
// in the file.
func loadRun(ctx context.Context, in io.Reader, id string) (model.RunRecord, error) {
	if runsFile == stdioPath {
		data, err := io.ReadAll(in)
		if err != nil {
			return model.RunRecord{}, fmt.Errorf("read stdin: %w", err)
		}
		runs, err := runsource.DecodeRuns(data)
		if err != nil {
			return model.RunRecord{}, err
		}
		for _, r := range runs {
			if id == "" || r.ID == id {
				return r, nil
			}
		}
		return model.RunRecord{}, fmt.Errorf("run %q on stdin: %w", id, runsource.ErrNotFound)
	}

	if id == "" && runsFile == "" {
		return model.RunRecord{}, errors.New("a run id is required without --file")
	}
	h, err := openSource(ctx)
	if err != nil {
		return model.RunRecord{}, err
	}
	defer func() { _ = h.Close() }()
	return h.Source.Get(ctx, id)
}

// runIDArg returns the optional positional run id.
func runIDArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// writeOutput writes data to path, or to w when path is "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == stdioPath {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // reports are meant to be shared
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
