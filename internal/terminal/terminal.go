// Package terminal renders the recommendation view-model and briefing
// previews for a terminal.
package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ashita-ai/kiroku/internal/model"
	"github.com/ashita-ai/kiroku/internal/ranking"
)

var (
	accent    = lipgloss.Color("#1c7ed6")
	critical  = lipgloss.Color("#e03131")
	positive  = lipgloss.Color("#2f9e44")
	muted     = lipgloss.Color("#868e96")
	headStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	cellStyle = lipgloss.NewStyle().Padding(0, 1)
	title     = lipgloss.NewStyle().Bold(true).Foreground(accent)
)

var columns = []string{"#", "Recommendation", "Score", "Δ", "Class", "Task", "API", "Tokens", "Adopted"}

// Column indexes styled per row.
const (
	colScore = 2
	colDelta = 3
	colClass = 4
)

// RenderHeader renders a one-line run description.
func RenderHeader(run model.RunRecord, sum model.RecommendationSummary) string {
	status := string(run.Status)
	if status == "" {
		status = ranking.Placeholder
	}
	return fmt.Sprintf("%s  %s · %s · %d recommendations, %d critical",
		title.Render(run.Agent), run.ID, status, sum.Count, sum.Critical)
}

// RenderList renders a ranked list as a table. It uses the same row
// formatting as the HTML report.
func RenderList(recs []model.Recommendation) string {
	if len(recs) == 0 {
		return lipgloss.NewStyle().Foreground(muted).Render("No recommendations.")
	}
	rows := ranking.Rows(recs)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(muted)).
		Headers(columns...)
	for _, r := range rows {
		adopted := "no"
		if r.Adopted {
			adopted = "yes"
		}
		t.Row(r.Priority, r.Title, r.Score, r.Delta, ranking.CriticalLabel(r.Critical), r.TaskType, r.API, r.Tokens, adopted)
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headStyle
		}
		if row < 0 || row >= len(rows) {
			return cellStyle
		}
		r := rows[row]
		switch {
		case col == colClass && r.Critical, col == colScore && r.Critical:
			return cellStyle.Foreground(critical).Bold(true)
		case col == colDelta && r.DeltaClass == ranking.DeltaUp:
			return cellStyle.Foreground(positive)
		case col == colDelta && r.DeltaClass == ranking.DeltaDown:
			return cellStyle.Foreground(critical)
		case col == colDelta && r.DeltaClass == "":
			return cellStyle.Foreground(muted)
		}
		return cellStyle
	})
	return t.Render()
}

// RenderBriefing renders briefing markdown for a terminal without color,
// wrapped at width columns.
func RenderBriefing(markdown string, width int) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("terminal: create renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("terminal: render briefing: %w", err)
	}
	return out, nil
}
