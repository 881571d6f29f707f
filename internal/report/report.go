// Package report assembles the presentational report for a run.
//
// Build is a pure function of its Input apart from the timestamp the caller
// supplies. Each section is a typed record rendered by one serializer, and
// every piece of caller-supplied text is escaped by the same routine before
// it reaches markup. Sections without data are left out; building a
// document cannot fail.
package report

import (
	"slices"
	"time"

	"github.com/a-h/templ"

	"github.com/ashita-ai/kiroku/internal/briefing"
	"github.com/ashita-ai/kiroku/internal/forms"
	"github.com/ashita-ai/kiroku/internal/jsonv"
	"github.com/ashita-ai/kiroku/internal/model"
	"github.com/ashita-ai/kiroku/internal/normalize"
	"github.com/ashita-ai/kiroku/internal/ranking"
)

// Mode selects the document variant.
type Mode string

const (
	ModeStatic   Mode = "static"
	ModeEditable Mode = "editable"
)

// ParseMode maps a user-supplied mode name to a Mode. ok is false for
// unknown names.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeStatic, "":
		return ModeStatic, true
	case ModeEditable:
		return ModeEditable, true
	}
	return "", false
}

// Section ids, also used as anchor ids in the document.
const (
	SectionMetrics         = "metrics"
	SectionSummary         = "summary"
	SectionRecommendations = "recommendations"
	SectionTimeline        = "timeline"
	SectionInsights        = "insights"
	SectionResponse        = "response"
	SectionCTA             = "cta"
	SectionLinks           = "links"
	SectionAudit           = "audit"
)

// Section is one titled block of a report.
type Section struct {
	ID      string
	Heading string
	Body    templ.Component
}

// Input is everything a report is built from.
type Input struct {
	Run             model.RunRecord
	View            normalize.View
	Recommendations []model.Recommendation
	Forms           model.FormSet
	Mode            Mode
	Branding        Branding
	Now             time.Time
}

// Document is an assembled report.
type Document struct {
	Theme       Theme
	Mode        Mode
	Title       string
	RunID       string
	Agent       string
	Status      string
	Sections    []Section
	Branding    Branding
	GeneratedAt time.Time
}

// NewInput derives an Input from a run: the response is normalized, ranked,
// and searched for form snapshots.
func NewInput(run model.RunRecord) Input {
	view := normalize.Normalize(run.ResponseValue())
	return Input{
		Run:             run,
		View:            view,
		Recommendations: ranking.Build(view.Structured),
		Forms:           forms.ResolveAll(view.Structured, run.RequestValue()),
		Mode:            ModeStatic,
		Branding:        DefaultBranding(),
	}
}

// Build assembles the document.
func Build(in Input) Document {
	if in.Mode == "" {
		in.Mode = ModeStatic
	}
	structured := in.View.Structured
	fallback := !in.View.HasStructured()
	if fallback {
		structured = Fallback(in.Run.RequestValue(), in.View.Text)
	}

	if in.Now.IsZero() {
		in.Now = time.Now()
	}
	theme := ThemeFor(in.Run.Agent)
	sections := briefing.Parse(BriefingOf(structured))
	summary := ranking.Summarize(in.Recommendations)

	d := Document{
		Theme:       theme,
		Mode:        in.Mode,
		Title:       theme.Title,
		RunID:       in.Run.ID,
		Agent:       in.Run.Agent,
		Status:      string(in.Run.Status),
		Branding:    in.Branding.withDefaults(),
		GeneratedAt: in.Now,
	}

	add := func(s Section, ok bool) {
		if ok {
			d.Sections = append(d.Sections, s)
		}
	}
	add(metricsSection(in.Run, structured, summary), true)
	add(summarySection(sections, in.Forms))
	add(recommendationsSection(in.Recommendations))
	add(timelineSection(sections))
	add(insightsSection(sections), true)
	if fallback {
		add(responseSection(in.View.Text))
	}
	add(ctaSection(d.Branding), true)
	audit := auditSection(in.Run, structured, summary)
	anchors := append(slices.Clone(d.Sections), audit)
	add(linksSection(anchors, d.Branding), true)
	add(audit, true)
	return d
}

// Find returns the section with the given id.
func (d Document) Find(id string) (Section, bool) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// BriefingFields are the accepted names of the briefing markdown, in lookup
// order.
var BriefingFields = []string{"briefing_markdown", "briefing", "markdown"}

// BriefingOf returns the briefing markdown carried by a structured output.
func BriefingOf(structured jsonv.Object) string {
	for _, name := range BriefingFields {
		if s, ok := structured.Lookup(name).AsString(); ok && s != "" {
			return s
		}
	}
	return ""
}
