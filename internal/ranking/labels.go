package ranking

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/ashita-ai/kiroku/internal/model"
)

// Placeholder is shown wherever an optional value is absent.
const Placeholder = "—"

// Delta style classes.
const (
	DeltaUp   = "delta-up"
	DeltaDown = "delta-down"
	DeltaFlat = "delta-flat"
)

// Row is the display form of one recommendation. The terminal list and the
// report table both render these, never the raw view-model.
type Row struct {
	Priority   string
	Title      string
	Score      string
	Delta      string
	DeltaClass string
	Critical   bool
	Adopted    bool
	TaskType   string
	API        string
	Tokens     string
	Rationale  string
	NextStep   string
}

// Rows formats a ranked list for display.
func Rows(recs []model.Recommendation) []Row {
	rows := make([]Row, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, Row{
			Priority:   strconv.Itoa(r.Priority),
			Title:      r.Title,
			Score:      ScoreLabel(r.Score),
			Delta:      DeltaLabel(r.Delta),
			DeltaClass: DeltaClassOf(r.Delta),
			Critical:   r.Critical,
			Adopted:    r.Adopted,
			TaskType:   orPlaceholder(r.Hint.TaskType),
			API:        orPlaceholder(r.Hint.SuggestedAPI),
			Tokens:     TokensLabel(r.Hint.EstimatedTokens),
			Rationale:  r.Rationale,
			NextStep:   r.NextStep,
		})
	}
	return rows
}

// ScoreLabel formats a score with two decimals.
func ScoreLabel(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}

// DeltaLabel formats a signed delta, or the placeholder when absent.
func DeltaLabel(delta *float64) string {
	if delta == nil {
		return Placeholder
	}
	return fmt.Sprintf("%+.2f", *delta)
}

// DeltaClassOf returns the style class for a delta. Deltas that round to
// zero at two decimals are flat. An absent delta has no class.
func DeltaClassOf(delta *float64) string {
	switch {
	case delta == nil:
		return ""
	case *delta >= 0.005:
		return DeltaUp
	case *delta <= -0.005:
		return DeltaDown
	default:
		return DeltaFlat
	}
}

// TokensLabel formats a token estimate with thousands separators.
func TokensLabel(tokens *int64) string {
	if tokens == nil {
		return Placeholder
	}
	return humanize.Comma(*tokens)
}

// CriticalLabel names the classification of a row.
func CriticalLabel(critical bool) string {
	if critical {
		return "critical"
	}
	return "normal"
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
