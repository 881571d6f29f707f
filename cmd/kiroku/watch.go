package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ashita-ai/kiroku/internal/config"
	"github.com/ashita-ai/kiroku/internal/model"
	"github.com/ashita-ai/kiroku/internal/report"
	"github.com/ashita-ai/kiroku/internal/runsource"
)

var (
	watchMode     string
	watchOutput   string
	watchInterval time.Duration
	watchSettled  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [run-id]",
	Short: "Re-render a run's report whenever the run changes",
	Long: `Poll a run and rewrite its HTML report each time it changes.

With --file the file is also watched, so edits re-render immediately.
With --until-settled the command exits once the run reaches a terminal
status.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := jsonLogger()
		mode, ok := report.ParseMode(watchMode)
		if !ok {
			return fmt.Errorf("--mode must be static or editable, got %q", watchMode)
		}
		branding, err := config.LoadBranding(cfg.BrandingFile)
		if err != nil {
			return err
		}
		id := runIDArg(args)
		if id == "" && runsFile == "" {
			return errors.New("a run id is required without --file")
		}

		h, err := openSource(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = h.Close() }()

		interval := watchInterval
		if interval <= 0 {
			interval = cfg.PollInterval
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		g, gctx := errgroup.WithContext(ctx)

		trigger := make(chan struct{}, 1)
		if runsFile != "" {
			fw, err := runsource.NewFileWatcher(runsFile)
			if err != nil {
				return err
			}
			g.Go(func() error { return fw.Run(gctx, trigger) })
		}

		poller := runsource.NewPoller(runsource.PollerConfig{
			Source:   h.Source,
			RunID:    id,
			Interval: interval,
			Trigger:  trigger,
			OnReady: func(run model.RunRecord) {
				out := watchOutput
				if out == "" {
					out = report.FileName(run.ID, "html")
				}
				start := time.Now()
				doc := buildReport(run, mode, branding)
				if err := writeOutput(cmd.OutOrStdout(), out, []byte(doc.HTML())); err != nil {
					logger.Error("report write failed", "run_id", run.ID, "error", err)
					return
				}
				logger.Info("report rendered",
					"run_id", run.ID,
					"status", string(run.Status),
					"mode", string(mode),
					"duration_ms", time.Since(start).Milliseconds(),
					"output", out,
				)
			},
			StopWhenSettled: watchSettled,
			Logger:          logger,
		})
		g.Go(func() error {
			defer cancel()
			return poller.Run(gctx)
		})

		logger.Info("watching run", "run_id", id, "source", h.Name, "interval", interval.String())
		return g.Wait()
	},
}

func init() {
	watchCmd.Flags().StringVarP(&watchMode, "mode", "m", string(report.ModeStatic), "static or editable")
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "output file (default report-<run-id>.html)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "poll interval (default KIROKU_POLL_INTERVAL)")
	watchCmd.Flags().BoolVar(&watchSettled, "until-settled", false, "exit once the run reaches a terminal status")
}
