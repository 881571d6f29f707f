package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ashita-ai/kiroku/internal/normalize"
	"github.com/ashita-ai/kiroku/internal/ranking"
	"github.com/ashita-ai/kiroku/internal/report"
	"github.com/ashita-ai/kiroku/internal/terminal"
)

var (
	listWidth    int
	listBriefing bool
)

var listCmd = &cobra.Command{
	Use:   "list [run-id]",
	Short: "Show a run's ranked recommendations in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		textLogger()
		run, err := loadRun(cmd.Context(), cmd.InOrStdin(), runIDArg(args))
		if err != nil {
			return err
		}

		view := normalize.Normalize(run.ResponseValue())
		recs := ranking.Build(view.Structured)
		w := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(w, terminal.RenderHeader(run, ranking.Summarize(recs)))
		_, _ = fmt.Fprintln(w, terminal.RenderList(recs))

		if !listBriefing {
			return nil
		}
		out, err := terminal.RenderBriefing(report.BriefingOf(view.Structured), listWidth)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(w, out)
		return nil
	},
}

func init() {
	listCmd.Flags().IntVarP(&listWidth, "width", "w", 80, "word wrap width of the briefing preview")
	listCmd.Flags().BoolVarP(&listBriefing, "briefing", "b", false, "also render the briefing markdown")
}
