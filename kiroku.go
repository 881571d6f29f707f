// Package kiroku turns raw agent run records into ranked recommendations
// and self-contained HTML reports.
//
// The pure entry points need no setup:
//
//	view := kiroku.Normalize(run.Response)
//	recs := kiroku.Rank(view)
//	rep := kiroku.Render(run, kiroku.WithMode(kiroku.ModeEditable))
//
// App wraps the same engine in the HTTP and MCP server.
//
// The import graph enforces a strict no-cycle rule: kiroku (root) imports
// internal/*, but internal/* never imports kiroku (root). Public types are
// standalone structs; conversion helpers live here because this is the only
// package that sees both sides of the boundary.
package kiroku

import (
	"context"
	"time"

	"github.com/ashita-ai/kiroku/internal/jsonv"
	"github.com/ashita-ai/kiroku/internal/model"
	"github.com/ashita-ai/kiroku/internal/normalize"
	"github.com/ashita-ai/kiroku/internal/ranking"
	"github.com/ashita-ai/kiroku/internal/report"
)

// Normalize reads a raw response payload. It never fails: payloads that are
// not JSON are treated as text.
func Normalize(raw []byte) NormalizedView {
	v := normalize.Normalize(model.RunRecord{Response: raw}.ResponseValue())
	return NormalizedView{
		Structured: []byte(jsonv.Compact(jsonv.FromObject(v.Structured))),
		Text:       v.Text,
	}
}

// Rank builds the recommendation list of a normalized view.
func Rank(view NormalizedView) []Recommendation {
	var structured jsonv.Object
	if v, err := jsonv.Parse(view.Structured); err == nil {
		structured, _ = v.AsObject()
	}
	return toPublicRecommendations(ranking.Build(structured))
}

// Render builds the HTML report for a run.
func Render(run Run, opts ...Option) Report {
	o := renderOptions{mode: ModeStatic, clock: time.Now}
	for _, fn := range opts {
		fn(&o)
	}

	in := report.NewInput(toModelRun(run))
	in.Mode = report.ModeStatic
	if m, ok := report.ParseMode(string(o.mode)); ok {
		in.Mode = m
	}
	in.Now = o.clock()
	if o.branding != nil {
		in.Branding = toReportBranding(*o.branding)
	}
	doc := report.Build(in)

	sections := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		sections = append(sections, s.ID)
	}
	return Report{
		HTML:     doc.HTML(),
		FileName: report.FileName(run.ID, "html"),
		Title:    doc.Title,
		Theme:    doc.Theme.Name,
		Mode:     Mode(doc.Mode),
		Sections: sections,
	}
}

// Export returns the run as indented JSON for a raw download.
func Export(run Run) ([]byte, error) {
	return report.Export(toModelRun(run))
}

// sourceAdapter exposes a public RunSource to the internal packages.
type sourceAdapter struct {
	s RunSource
}

func (a sourceAdapter) Get(ctx context.Context, id string) (model.RunRecord, error) {
	r, err := a.s.Get(ctx, id)
	if err != nil {
		return model.RunRecord{}, err
	}
	return toModelRun(r), nil
}

func toModelRun(r Run) model.RunRecord {
	out := model.RunRecord{
		ID:        r.ID,
		Agent:     r.Agent,
		Status:    model.RunStatus(r.Status),
		Request:   r.Request,
		Response:  r.Response,
		CostCents: r.CostCents,
	}
	if r.Meta != nil {
		out.Meta = &model.RunMeta{TookMs: r.Meta.TookMs, TraceID: r.Meta.TraceID}
	}
	return out
}

func toPublicRecommendations(recs []model.Recommendation) []Recommendation {
	out := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		out = append(out, Recommendation{
			Key:           r.Key,
			Title:         r.Title,
			Priority:      r.Priority,
			Score:         r.Score,
			PreviousScore: r.PreviousScore,
			Delta:         r.Delta,
			Critical:      r.Critical,
			Rationale:     r.Rationale,
			NextStep:      r.NextStep,
			Hint: ExecutionHint{
				TaskType:        r.Hint.TaskType,
				SuggestedAPI:    r.Hint.SuggestedAPI,
				EstimatedTokens: r.Hint.EstimatedTokens,
			},
			Adopted: r.Adopted,
		})
	}
	return out
}

func toReportBranding(b Branding) report.Branding {
	out := report.Branding{
		ProductName: b.ProductName,
		CTA:         report.CTA(b.CTA),
	}
	for _, l := range b.Links {
		out.Links = append(out.Links, report.Link(l))
	}
	return out
}
