package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/ashita-ai/kiroku/internal/briefing"
	"github.com/ashita-ai/kiroku/internal/jsonv"
	"github.com/ashita-ai/kiroku/internal/model"
	"github.com/ashita-ai/kiroku/internal/ranking"
)

func metricsSection(run model.RunRecord, structured jsonv.Object, sum model.RecommendationSummary) Section {
	usage := UsageOf(structured)
	diag := DiagnosticsOf(structured)
	mem := MemoryOf(structured)
	took, tookOK := run.TookMs()

	mean := ranking.Placeholder
	if sum.Count > 0 {
		mean = ranking.ScoreLabel(sum.MeanScore)
	}
	metrics := []fact{
		{"Status", textLabel(string(run.Status))},
		{"Duration", durationLabel(took, tookOK)},
		{"Cost", costLabel(run.CostCents)},
		{"Tokens", countLabel(usage.Total)},
		{"Recommendations", fmt.Sprintf("%d (%d critical)", sum.Count, sum.Critical)},
		{"Mean score", mean},
		{"Exploration", pctLabel(diag.Pct)},
		{"Vector matches", countLabel(mem.VectorMatches)},
	}
	cards := make([]templ.Component, 0, len(metrics))
	for _, m := range metrics {
		cards = append(cards, el("div", class("metric"),
			el("span", class("metric-label"), text(m.Label)),
			el("span", class("metric-value"), text(m.Value)),
		))
	}
	return Section{ID: SectionMetrics, Heading: "At a glance", Body: el("div", class("metrics"), cards...)}
}

func summarySection(sections []briefing.Section, fs model.FormSet) (Section, bool) {
	if s, ok := briefing.Find(sections, briefing.SummaryKeywords...); ok {
		c := briefing.Split(s.Lines)
		if len(c.Paragraphs) > 0 || len(c.Bullets) > 0 {
			return Section{ID: SectionSummary, Heading: "Summary", Body: prose(c)}, true
		}
	}
	if ff := formFacts(fs); len(ff) > 0 {
		return Section{ID: SectionSummary, Heading: "Summary", Body: facts("form-summary", ff)}, true
	}
	return Section{}, false
}

func prose(c briefing.Content) templ.Component {
	parts := make([]templ.Component, 0, len(c.Paragraphs)+1)
	for _, p := range c.Paragraphs {
		parts = append(parts, el("p", nil, text(p)))
	}
	if len(c.Bullets) > 0 {
		parts = append(parts, list("bullets", c.Bullets))
	}
	return templ.Join(parts...)
}

// formFacts lists the recovered form fields, campaign first.
func formFacts(fs model.FormSet) []fact {
	var out []fact
	add := func(label, value string) {
		if value != "" {
			out = append(out, fact{label, value})
		}
	}
	addList := func(label string, values []string) {
		add(label, strings.Join(values, ", "))
	}

	c := fs.Campaign
	add("Brand", c.Brand)
	add("Product", c.Product)
	add("Objective", c.Objective)
	add("Audience", c.Audience)
	add("Budget", c.Budget)
	add("Period", c.Period)
	add("Tone", c.Tone)
	addList("Channels", c.Channels)
	addList("KPIs", c.KPIs)
	add("Notes", c.Notes)

	p := fs.Pitch
	add("Company", p.Company)
	add("Sector", p.Sector)
	add("Problem", p.Problem)
	add("Solution", p.Solution)
	add("Market", p.Market)
	add("Business model", p.BusinessModel)
	add("Traction", p.Traction)
	add("Ask", p.Ask)
	addList("Team", p.Team)
	addList("Competitors", p.Competitors)

	j := fs.Journey
	add("Persona", j.Persona)
	if c.Product == "" {
		add("Product", j.Product)
	}
	add("Segment", j.Segment)
	add("Channel", j.Channel)
	add("Goal", j.Goal)
	addList("Stages", j.Stages)
	addList("Touchpoints", j.Touchpoints)
	addList("Pain points", j.PainPoints)
	return out
}

var recommendationColumns = []string{"#", "Recommendation", "Score", "Δ", "Class", "Task", "API", "Tokens", "Adopted"}

func recommendationsSection(recs []model.Recommendation) (Section, bool) {
	if len(recs) == 0 {
		return Section{}, false
	}
	head := make([]templ.Component, 0, len(recommendationColumns))
	for _, col := range recommendationColumns {
		head = append(head, el("th", nil, text(col)))
	}
	rows := make([]templ.Component, 0, len(recs))
	for _, r := range ranking.Rows(recs) {
		title := []templ.Component{el("strong", nil, text(r.Title))}
		if r.Rationale != "" {
			title = append(title, el("div", class("note"), text(r.Rationale)))
		}
		if r.NextStep != "" {
			title = append(title, el("div", class("next-step"), text("Next: "+r.NextStep)))
		}
		rowClass := "normal"
		if r.Critical {
			rowClass = "critical"
		}
		adopted := "no"
		if r.Adopted {
			adopted = "yes"
		}
		delta := el("span", nil, text(r.Delta))
		if r.DeltaClass != "" {
			delta = el("span", class(r.DeltaClass), text(r.Delta))
		}
		rows = append(rows, el("tr", class(rowClass),
			el("td", nil, text(r.Priority)),
			el("td", nil, title...),
			el("td", nil, text(r.Score)),
			el("td", nil, delta),
			el("td", nil, text(ranking.CriticalLabel(r.Critical))),
			el("td", nil, text(r.TaskType)),
			el("td", nil, text(r.API)),
			el("td", nil, text(r.Tokens)),
			el("td", nil, text(adopted)),
		))
	}
	table := el("table", class("recommendations"),
		el("thead", nil, el("tr", nil, head...)),
		el("tbody", nil, rows...),
	)
	return Section{ID: SectionRecommendations, Heading: "Recommendations", Body: table}, true
}

func timelineSection(sections []briefing.Section) (Section, bool) {
	s, ok := briefing.Find(sections, briefing.TimelineKeywords...)
	if !ok {
		return Section{}, false
	}
	tl := briefing.Timeline(s.Lines)
	if len(tl) == 0 {
		return Section{}, false
	}
	rows := make([]templ.Component, 0, len(tl))
	for _, r := range tl {
		rows = append(rows, el("tr", nil,
			el("td", nil, text(r.Period)),
			el("td", nil, text(r.Activity)),
			el("td", nil, text(r.Description)),
		))
	}
	table := el("table", class("timeline"),
		el("thead", nil, el("tr", nil,
			el("th", nil, text("Period")),
			el("th", nil, text("Activity")),
			el("th", nil, text("Description")),
		)),
		el("tbody", nil, rows...),
	)
	return Section{ID: SectionTimeline, Heading: "Timeline", Body: table}, true
}

// genericInsights are shown when the briefing carries no insights.
var genericInsights = []string{
	"Act on the critical recommendations (score 0.80 or higher) before the rest.",
	"Re-run the agent after adopting recommendations to see how the scores move.",
}

func insightsSection(sections []briefing.Section) Section {
	items := genericInsights
	if s, ok := briefing.Find(sections, briefing.InsightKeywords...); ok {
		c := briefing.Split(s.Lines)
		switch {
		case len(c.Bullets) > 0:
			items = c.Bullets
		case len(c.Paragraphs) > 0:
			items = c.Paragraphs
		}
	}
	return Section{ID: SectionInsights, Heading: "Insights", Body: list("insights", items)}
}

func responseSection(response string) (Section, bool) {
	if strings.TrimSpace(response) == "" {
		return Section{}, false
	}
	return Section{ID: SectionResponse, Heading: "Agent response", Body: el("pre", class("response"), text(response))}, true
}

func ctaSection(b Branding) Section {
	parts := []templ.Component{el("p", nil, text(b.CTA.Body))}
	if b.CTA.Label != "" && b.CTA.URL != "" {
		parts = append(parts, el("a", templ.Attributes{
			"class": "cta-button",
			"href":  string(templ.URL(b.CTA.URL)),
		}, text(b.CTA.Label)))
	}
	return Section{ID: SectionCTA, Heading: b.CTA.Title, Body: el("div", class("cta"), parts...)}
}

// linksSection lists in-document anchors to the given sections followed by
// the branding links.
func linksSection(present []Section, b Branding) Section {
	items := make([]templ.Component, 0, len(present)+len(b.Links))
	for _, s := range present {
		items = append(items, el("li", nil,
			el("a", templ.Attributes{"href": "#" + s.ID}, text(s.Heading))))
	}
	for _, l := range b.Links {
		if l.URL == "" {
			continue
		}
		label := l.Label
		if label == "" {
			label = l.URL
		}
		items = append(items, el("li", nil,
			el("a", templ.Attributes{"href": string(templ.URL(l.URL)), "rel": "noopener"}, text(label))))
	}
	return Section{ID: SectionLinks, Heading: "Links", Body: el("ul", class("links"), items...)}
}

func auditSection(run model.RunRecord, structured jsonv.Object, sum model.RecommendationSummary) Section {
	usage := UsageOf(structured)
	mem := MemoryOf(structured)

	state := ranking.Placeholder
	if n, ok := AgentStateKeys(structured); ok {
		state = strconv.Itoa(n) + " keys"
	}
	trail := []fact{
		{"Run ID", textLabel(run.ID)},
		{"Agent", textLabel(run.Agent)},
		{"Trace ID", textLabel(run.TraceID())},
		{"Model", textLabel(usage.Model)},
		{"Tokens", fmt.Sprintf("prompt %s · completion %s · total %s",
			countLabel(usage.Prompt), countLabel(usage.Completion), countLabel(usage.Total))},
		{"Memory", fmt.Sprintf("short-term %s · long-term %s · vectors %s",
			countLabel(mem.ShortTerm), countLabel(mem.LongTerm), countLabel(mem.VectorMatches))},
		{"Cursor", textLabel(mem.Cursor)},
		{"Agent state", state},
		{"Adopted", fmt.Sprintf("%d of %d", sum.Adopted, sum.Count)},
	}
	return Section{ID: SectionAudit, Heading: "Audit trail", Body: facts("audit", trail)}
}
