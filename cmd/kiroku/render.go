package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ashita-ai/kiroku/internal/config"
	"github.com/ashita-ai/kiroku/internal/model"
	"github.com/ashita-ai/kiroku/internal/normalize"
	"github.com/ashita-ai/kiroku/internal/report"
)

var (
	renderMode   string
	renderOutput string
	exportOutput string
)

var renderCmd = &cobra.Command{
	Use:   "render [run-id]",
	Short: "Render a run as a self-contained HTML report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := textLogger()
		mode, ok := report.ParseMode(renderMode)
		if !ok {
			return fmt.Errorf("--mode must be static or editable, got %q", renderMode)
		}
		branding, err := config.LoadBranding(cfg.BrandingFile)
		if err != nil {
			return err
		}
		run, err := loadRun(cmd.Context(), cmd.InOrStdin(), runIDArg(args))
		if err != nil {
			return err
		}

		start := time.Now()
		doc := buildReport(run, mode, branding)
		out := renderOutput
		if out == "" {
			out = report.FileName(run.ID, "html")
		}
		if err := writeOutput(cmd.OutOrStdout(), out, []byte(doc.HTML())); err != nil {
			return err
		}
		logger.Info("report rendered",
			"run_id", run.ID,
			"agent", run.Agent,
			"mode", string(mode),
			"sections", len(doc.Sections),
			"duration_ms", time.Since(start).Milliseconds(),
			"output", out,
		)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [run-id]",
	Short: "Export a run as indented JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		textLogger()
		run, err := loadRun(cmd.Context(), cmd.InOrStdin(), runIDArg(args))
		if err != nil {
			return err
		}
		data, err := report.Export(run)
		if err != nil {
			return err
		}
		out := exportOutput
		if out == "" {
			out = stdioPath
		}
		return writeOutput(cmd.OutOrStdout(), out, data)
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize [run-id]",
	Short: "Print the structured reading of a run's response",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		textLogger()
		run, err := loadRun(cmd.Context(), cmd.InOrStdin(), runIDArg(args))
		if err != nil {
			return err
		}
		view := normalize.Normalize(run.ResponseValue())
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(model.NormalizeResponse{
			RunID:         run.ID,
			HasStructured: view.HasStructured(),
			Structured:    view.Structured,
			Text:          view.Text,
		})
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderMode, "mode", "m", string(report.ModeStatic), "static or editable")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file, - for stdout (default report-<run-id>.html)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}

// buildReport assembles the report of a run with the given mode and branding.
func buildReport(run model.RunRecord, mode report.Mode, branding report.Branding) report.Document {
	in := report.NewInput(run)
	in.Mode = mode
	in.Branding = branding
	return report.Build(in)
}
