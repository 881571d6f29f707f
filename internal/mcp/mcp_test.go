package mcp

import (
	"context"
	"encoding/json"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kiroku/internal/model"
	"github.com/ashita-ai/kiroku/internal/report"
	"github.com/ashita-ai/kiroku/internal/runsource"
	"github.com/ashita-ai/kiroku/internal/testutil"
)

type memSource map[string]model.RunRecord

func (m memSource) Get(_ context.Context, id string) (model.RunRecord, error) {
	r, ok := m[id]
	if !ok {
		return model.RunRecord{}, runsource.ErrNotFound
	}
	return r, nil
}

var storedRun = model.RunRecord{
	ID:       "run-1",
	Agent:    "pitch",
	Status:   model.RunStatusSuccess,
	Request:  json.RawMessage(`{"params":{"form":{"company":"Acme","team":["Ana","Bo"]}}}`),
	Response: json.RawMessage(`{
		"result": {"recommendations": [
			{"key":"deck","score":0.85,"title":"Tighten the deck","rationale":"Too long"},
			{"key":"ask","score":0.6,"title":"Clarify the ask","adopted":true}
		]},
		"memory": {"recommendation_state": {"deck": {"score": 0.7}}}
	}`),
}

func newTestServer(src runsource.Source) *Server {
	return New(src, report.DefaultBranding(), testutil.TestLogger(), "test")
}

func call(name string, args map[string]any) mcplib.CallToolRequest {
	return mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{Name: name, Arguments: args},
	}
}

// parseToolText extracts the text of the content block at index i.
func parseToolText(t *testing.T, result *mcplib.CallToolResult, i int) string {
	t.Helper()
	require.Greater(t, len(result.Content), i)
	tc, ok := result.Content[i].(mcplib.TextContent)
	require.True(t, ok, "expected TextContent")
	return tc.Text
}

func decodeResult(t *testing.T, result *mcplib.CallToolResult) map[string]any {
	t.Helper()
	require.False(t, result.IsError, parseToolText(t, result, 0))
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(parseToolText(t, result, 0)), &m))
	return m
}

func TestHandleNormalize_Inline(t *testing.T) {
	s := newTestServer(nil)
	result, err := s.handleNormalize(context.Background(), call("kiroku_normalize", map[string]any{
		"run": map[string]any{
			"agent":    "campaign",
			"response": "Here you go:\n```json\n{\"recomendacoes\": [{\"key\": \"a\"}]}\n```",
		},
	}))
	require.NoError(t, err)

	m := decodeResult(t, result)
	assert.NotEmpty(t, m["run_id"], "inline runs get a generated id")
	assert.Equal(t, true, m["has_structured"])
	assert.Contains(t, m["structured"], "recomendacoes")
}

func TestHandleNormalize_RunAsString(t *testing.T) {
	s := newTestServer(nil)
	result, err := s.handleNormalize(context.Background(), call("kiroku_normalize", map[string]any{
		"run": `{"id":"r9","response":"plain prose"}`,
	}))
	require.NoError(t, err)

	m := decodeResult(t, result)
	assert.Equal(t, "r9", m["run_id"])
	assert.Equal(t, false, m["has_structured"])
	assert.Equal(t, "plain prose", m["text"])
}

func TestHandleRank_StoredRun(t *testing.T) {
	s := newTestServer(memSource{"run-1": storedRun})
	result, err := s.handleRank(context.Background(), call("kiroku_rank", map[string]any{"run_id": "run-1"}))
	require.NoError(t, err)

	m := decodeResult(t, result)
	summary := m["summary"].(map[string]any)
	assert.EqualValues(t, 2, summary["count"])
	assert.EqualValues(t, 1, summary["critical"])

	recs := m["recommendations"].([]any)
	require.Len(t, recs, 2)
	first := recs[0].(map[string]any)
	assert.Equal(t, "Tighten the deck", first["title"])
	assert.Equal(t, true, first["critical"])
	assert.InDelta(t, 0.15, first["delta"], 1e-9)
	assert.Equal(t, "Too long", first["rationale"])
	assert.NotContains(t, recs[1], "delta")

	forms := m["forms"].(map[string]any)
	pitch := forms["pitch"].(map[string]any)
	assert.Equal(t, "Acme", pitch["company"])
}

func TestHandleRenderReport(t *testing.T) {
	s := newTestServer(memSource{"run-1": storedRun})
	result, err := s.handleRenderReport(context.Background(), call("kiroku_render_report", map[string]any{
		"run_id": "run-1",
		"mode":   "editable",
	}))
	require.NoError(t, err)

	m := decodeResult(t, result)
	assert.Equal(t, "pitch", m["theme"])
	assert.Equal(t, "report-run-1.html", m["file_name"])
	assert.Contains(t, m["sections"], report.SectionRecommendations)

	html := parseToolText(t, result, 1)
	assert.Contains(t, html, "Tighten the deck")
	assert.Contains(t, html, `contenteditable="true"`)
}

func TestHandleRenderReport_BadMode(t *testing.T) {
	s := newTestServer(nil)
	result, err := s.handleRenderReport(context.Background(), call("kiroku_render_report", map[string]any{
		"run":  map[string]any{"id": "x"},
		"mode": "pdf",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, parseToolText(t, result, 0), "mode must be")
}

func TestHandleExportRun(t *testing.T) {
	s := newTestServer(memSource{"run-1": storedRun})
	result, err := s.handleExportRun(context.Background(), call("kiroku_export_run", map[string]any{"run_id": "run-1"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var got model.RunRecord
	require.NoError(t, json.Unmarshal([]byte(parseToolText(t, result, 0)), &got))
	assert.Equal(t, "run-1", got.ID)
}

func TestResolveRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  runsource.Source
		args map[string]any
		want string
	}{
		{"nothing", nil, map[string]any{}, "either run or run_id is required"},
		{"no source", nil, map[string]any{"run_id": "run-1"}, "requires a configured run source"},
		{"missing", memSource{}, map[string]any{"run_id": "nope"}, `run "nope" not found`},
		{"bad json", nil, map[string]any{"run": "{"}, "invalid run"},
		{"invalid", nil, map[string]any{"run": map[string]any{"id": "a", "costCents": -1}}, "costCents must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(tt.src)
			result, err := s.handleRank(context.Background(), call("kiroku_rank", tt.args))
			require.NoError(t, err, "tool failures are results, not protocol errors")
			assert.True(t, result.IsError)
			assert.Contains(t, parseToolText(t, result, 0), tt.want)
		})
	}
}

func TestRunResources(t *testing.T) {
	s := newTestServer(memSource{"run-1": storedRun})
	ctx := context.Background()

	read := func(uri string) mcplib.ReadResourceRequest {
		return mcplib.ReadResourceRequest{Params: mcplib.ReadResourceParams{URI: uri}}
	}

	contents, err := s.handleRunResource(ctx, read("kiroku://runs/run-1"))
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text := contents[0].(mcplib.TextResourceContents)
	assert.Equal(t, jsonMIMEType, text.MIMEType)
	assert.Contains(t, text.Text, `"id": "run-1"`)

	contents, err = s.handleRunReportResource(ctx, read("kiroku://runs/run-1/report"))
	require.NoError(t, err)
	text = contents[0].(mcplib.TextResourceContents)
	assert.Equal(t, htmlMIMEType, text.MIMEType)
	assert.Contains(t, text.Text, "Tighten the deck")

	_, err = s.handleRunResource(ctx, read("kiroku://runs/missing"))
	assert.ErrorIs(t, err, runsource.ErrNotFound)
}

func TestRunIDFromURI(t *testing.T) {
	tests := []struct {
		uri, suffix, want string
		ok                bool
	}{
		{"kiroku://runs/abc", "", "abc", true},
		{"kiroku://runs/abc/report", reportURISuffix, "abc", true},
		{"kiroku://runs/abc/report", "", "", false},
		{"kiroku://runs/", "", "", false},
		{"other://runs/abc", "", "", false},
		{"kiroku://runs/abc", reportURISuffix, "", false},
	}
	for _, tt := range tests {
		got, ok := runIDFromURI(tt.uri, tt.suffix)
		assert.Equal(t, tt.ok, ok, tt.uri)
		assert.Equal(t, tt.want, got, tt.uri)
	}
}

func TestReviewRunPrompt(t *testing.T) {
	s := newTestServer(nil)
	req := mcplib.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"run_id": "run-1"}

	result, err := s.handleReviewRunPrompt(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)
	text := result.Messages[0].Content.(mcplib.TextContent).Text
	assert.Contains(t, text, `kiroku_rank with run_id="run-1"`)
	assert.Contains(t, text, "kiroku_render_report")

	req.Params.Arguments = map[string]string{}
	_, err = s.handleReviewRunPrompt(context.Background(), req)
	assert.Error(t, err)
}

func TestCompactRecommendation(t *testing.T) {
	long := make([]rune, 300)
	for i := range long {
		long[i] = 'é'
	}
	tokens := int64(900)
	m := compactRecommendation(model.Recommendation{
		Priority:  1,
		Title:     "T",
		Rationale: string(long),
		Hint:      model.ExecutionHint{TaskType: "copy", EstimatedTokens: &tokens},
	})
	assert.Len(t, []rune(m["rationale"].(string)), maxCompactText+3)
	assert.Equal(t, "copy", m["task_type"])
	assert.Equal(t, int64(900), m["estimated_tokens"])
	assert.NotContains(t, m, "key")
	assert.NotContains(t, m, "next_step")
	assert.NotContains(t, m, "suggested_api")
}
