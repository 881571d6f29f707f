package report_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kiroku/internal/model"
	"github.com/ashita-ai/kiroku/internal/report"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func run(agent, response, request string) model.RunRecord {
	r := model.RunRecord{
		ID:        "run-42",
		Agent:     agent,
		Status:    model.RunStatusSuccess,
		CostCents: ptr(int64(1234)),
		Meta:      &model.RunMeta{TookMs: ptr(int64(1500)), TraceID: ptr("trace-9")},
	}
	if response != "" {
		r.Response = json.RawMessage(response)
	}
	if request != "" {
		r.Request = json.RawMessage(request)
	}
	return r
}

func build(t *testing.T, r model.RunRecord, mode report.Mode) report.Document {
	t.Helper()
	in := report.NewInput(r)
	in.Mode = mode
	in.Now = fixedNow
	return report.Build(in)
}

func sectionIDs(d report.Document) []string {
	ids := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		ids = append(ids, s.ID)
	}
	return ids
}

const fullResponse = `{
	"recomendacoes": [
		{"key":"a","score":0.9,"tatica":"Do X","racional":"High intent","execucao":{"tipo_tarefa":"copy","api_sugerida":"openai","tokens_estimados":1200}},
		{"key":"b","score":0.4,"tatica":"Do Y","adotada":true}
	],
	"memory": {"short_term": 2, "long_term": 5, "vector_matches": [1,2,3], "cursor": "c-7",
		"recommendation_state": {"a": {"score": 0.5}}},
	"diagnostico": {"explored": 3, "total": 4},
	"usage": {"prompt_tokens": 1000, "completion_tokens": 234, "model": "gpt-x"},
	"agent_state": {"step": 3, "seen": []},
	"briefing_markdown": "## Timeline\n| W1 | Setup | Configure |\n| W2 | Run | Execute |\n\n## Insights\n- Email wins\n- Social lags"
}`

func TestBuild_NoFormsOmitsSummaryOnly(t *testing.T) {
	d := build(t, run("campaign-planner", fullResponse, `{"prompt":"plan my launch"}`), report.ModeStatic)

	assert.Equal(t, []string{
		report.SectionMetrics,
		report.SectionRecommendations,
		report.SectionTimeline,
		report.SectionInsights,
		report.SectionCTA,
		report.SectionLinks,
		report.SectionAudit,
	}, sectionIDs(d))

	html := d.HTML()
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.NotContains(t, html, `id="summary"`)
	assert.Contains(t, html, `id="recommendations"`)
	assert.Contains(t, html, `id="timeline"`)
	assert.True(t, strings.HasSuffix(html, "</html>"))
}

func TestBuild_SummaryFromBriefing(t *testing.T) {
	resp := `{"recomendacoes":[],"briefing":"## Resumo\nLaunch in Q3.\n- Email first"}`
	d := build(t, run("pitch", resp, `{"form":{"company":"Acme"}}`), report.ModeStatic)

	_, ok := d.Find(report.SectionSummary)
	require.True(t, ok)
	html := d.HTML()
	assert.Contains(t, html, "<p>Launch in Q3.</p>")
	assert.Contains(t, html, "<li>Email first</li>")
	assert.NotContains(t, html, "Acme", "markdown summary takes precedence over the form")
}

func TestBuild_SummaryFromForm(t *testing.T) {
	d := build(t, run("campaign", `{"recomendacoes":[]}`, `{"form":{"brand":"Acme","channels":["email","social"]}}`), report.ModeStatic)

	_, ok := d.Find(report.SectionSummary)
	require.True(t, ok)
	html := d.HTML()
	assert.Contains(t, html, "<dt>Brand</dt><dd>Acme</dd>")
	assert.Contains(t, html, "<dt>Channels</dt><dd>email, social</dd>")
}

func TestBuild_RecommendationTable(t *testing.T) {
	html := build(t, run("campaign", fullResponse, ""), report.ModeStatic).HTML()

	assert.Contains(t, html, `<tr class="critical">`)
	assert.Contains(t, html, `<span class="delta-up">+0.40</span>`)
	assert.Contains(t, html, "<strong>Do X</strong>")
	assert.Contains(t, html, `<div class="note">High intent</div>`)
	assert.Contains(t, html, "<td>1,200</td>")
	assert.Contains(t, html, "<td>—</td>", "absent hints render as placeholders")
}

func TestBuild_MetricsAndAudit(t *testing.T) {
	html := build(t, run("campaign", fullResponse, ""), report.ModeStatic).HTML()

	for _, want := range []string{
		">$12.34<",
		">1.5s<",
		">1,234<",
		">2 (1 critical)<",
		">0.65<",
		">75%<",
		"<dd>trace-9</dd>",
		"<dd>gpt-x</dd>",
		"<dd>prompt 1,000 · completion 234 · total 1,234</dd>",
		"<dd>short-term 2 · long-term 5 · vectors 3</dd>",
		"<dd>c-7</dd>",
		"<dd>2 keys</dd>",
		"<dd>1 of 2</dd>",
	} {
		assert.Contains(t, html, want)
	}
}

func TestBuild_UnknownStatusShownVerbatim(t *testing.T) {
	r := run("x", `{"a":1}`, "")
	r.Status = "awaiting-approval"
	html := build(t, r, report.ModeStatic).HTML()
	assert.Contains(t, html, `<span class="status status-other">awaiting-approval</span>`)
}

func TestBuild_GenericInsights(t *testing.T) {
	d := build(t, run("x", `{"recomendacoes":[]}`, ""), report.ModeStatic)
	html := d.HTML()
	assert.Contains(t, html, "Act on the critical recommendations")
	assert.Contains(t, html, "Re-run the agent")
}

func TestBuild_FallbackForProse(t *testing.T) {
	d := build(t, run("journey", `"The agent could not finish: <b>quota</b> & limits."`, `{"form":{"persona":"Ops lead"}}`), report.ModeStatic)

	assert.Equal(t, []string{
		report.SectionMetrics,
		report.SectionSummary,
		report.SectionInsights,
		report.SectionResponse,
		report.SectionCTA,
		report.SectionLinks,
		report.SectionAudit,
	}, sectionIDs(d))
	html := d.HTML()
	assert.Contains(t, html, "<dd>Ops lead</dd>")
	assert.Contains(t, html, `<pre class="response">The agent could not finish: &lt;b&gt;quota&lt;/b&gt; &amp; limits.</pre>`)
}

func TestBuild_EmptyRun(t *testing.T) {
	d := build(t, model.RunRecord{ID: "r"}, report.ModeStatic)
	assert.Equal(t, []string{
		report.SectionMetrics,
		report.SectionInsights,
		report.SectionCTA,
		report.SectionLinks,
		report.SectionAudit,
	}, sectionIDs(d))
	assert.NotEmpty(t, d.HTML())
}

func TestBuild_EscapesCallerText(t *testing.T) {
	resp := `{"recomendacoes":[{"key":"k","tatica":"<script>alert(1)</script>Fish & Chips","racional":"<img src=x onerror=alert(2)>ok"}],
		"briefing":"## Insights\n- <iframe src=evil></iframe>safe"}`
	r := run("<b>agent</b>", resp, "")
	r.ID = `"><script>alert(3)</script>`

	for _, mode := range []report.Mode{report.ModeStatic, report.ModeEditable} {
		html := build(t, r, mode).HTML()
		assert.NotContains(t, html, "<script>alert")
		assert.NotContains(t, html, "<img")
		assert.NotContains(t, html, "<iframe")
		assert.NotContains(t, html, "<b>agent")
		assert.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt;Fish &amp; Chips")
		assert.Contains(t, html, "&lt;img src=x onerror=alert(2)&gt;ok")
		assert.Contains(t, html, "<li>&lt;iframe src=evil&gt;&lt;/iframe&gt;safe</li>")
		assert.Contains(t, html, "&lt;b&gt;agent&lt;/b&gt;")
		assert.Contains(t, html, "&#34;&gt;&lt;script&gt;alert(3)&lt;/script&gt;")
	}
}

func TestBuild_KeepsLiteralAngleBrackets(t *testing.T) {
	resp := `{"recomendacoes":[{"key":"k","tatica":"Return Array<string> from <b>api</b> & co"}]}`
	html := build(t, run("campaign", resp, ""), report.ModeStatic).HTML()

	assert.Contains(t, html, "<strong>Return Array&lt;string&gt; from &lt;b&gt;api&lt;/b&gt; &amp; co</strong>")
}

func TestBuild_EditableOnlyChangesWrappers(t *testing.T) {
	r := run("pitch", fullResponse, "")
	static := build(t, r, report.ModeStatic)
	editable := build(t, r, report.ModeEditable)

	require.Equal(t, sectionIDs(static), sectionIDs(editable))
	for i := range static.Sections {
		assert.Equal(t, static.Sections[i].Heading, editable.Sections[i].Heading)
	}

	staticHTML := static.HTML()
	editableHTML := editable.HTML()
	assert.NotContains(t, staticHTML, "contenteditable")
	assert.NotContains(t, staticHTML, "<script")
	assert.NotContains(t, staticHTML, `data-editable="true"`)
	assert.Equal(t, len(editable.Sections), strings.Count(editableHTML, `contenteditable="true" data-editable="true"`))
	assert.Contains(t, editableHTML, "<script data-save>")
	assert.Contains(t, editableHTML, `id="save-report"`)
}

func TestBuild_DeterministicApartFromTimestamp(t *testing.T) {
	r := run("campaign", fullResponse, "")
	first := build(t, r, report.ModeStatic).HTML()
	second := build(t, r, report.ModeStatic).HTML()
	assert.Equal(t, first, second)
	assert.Contains(t, first, "Generated by Kiroku on 2026-03-14T09:26:53Z")

	in := report.NewInput(r)
	in.Now = fixedNow.Add(time.Hour)
	later := report.Build(in).HTML()
	assert.Equal(t, strings.Replace(first, "09:26:53Z", "10:26:53Z", 1), later)
}

func TestBuild_Branding(t *testing.T) {
	in := report.NewInput(run("campaign", `{"recomendacoes":[]}`, ""))
	in.Now = fixedNow
	in.Branding = report.Branding{
		ProductName: "Acme Insights",
		CTA:         report.CTA{Title: "Book a review", Label: "Book now", URL: "https://acme.test/book"},
		Links: []report.Link{
			{Label: "Docs", URL: "https://acme.test/docs"},
			{Label: "Bad", URL: "javascript:alert(1)"},
		},
	}
	html := report.Build(in).HTML()

	assert.Contains(t, html, "<h2>Book a review</h2>")
	assert.Contains(t, html, `<a class="cta-button" href="https://acme.test/book">Book now</a>`)
	assert.Contains(t, html, `href="https://acme.test/docs"`)
	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, `<a href="#audit">Audit trail</a>`)
	assert.Contains(t, html, "Generated by Acme Insights")
}

func TestThemeFor(t *testing.T) {
	tests := []struct {
		agent string
		want  string
	}{
		{"campaign-planner", "campaign"},
		{"  PITCH  ", "pitch"},
		{"customer-journey", "journey"},
		{"spring-marketing-v2", "campaign"},
		{"investor-pitch-bot", "pitch"},
		{"journey-mapper", "journey"},
		{"summarizer", "default"},
		{"", "default"},
	}
	for _, tt := range tests {
		t.Run(tt.agent, func(t *testing.T) {
			assert.Equal(t, tt.want, report.ThemeFor(tt.agent).Name)
		})
	}
}

func TestParseMode(t *testing.T) {
	m, ok := report.ParseMode("")
	assert.True(t, ok)
	assert.Equal(t, report.ModeStatic, m)
	m, ok = report.ParseMode("editable")
	assert.True(t, ok)
	assert.Equal(t, report.ModeEditable, m)
	_, ok = report.ParseMode("paginated")
	assert.False(t, ok)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "report-run_1_x.html", report.FileName("run/1 x", "html"))
	assert.Equal(t, "report.json", report.FileName("", "json"))
}
