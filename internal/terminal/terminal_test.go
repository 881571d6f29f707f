package terminal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kiroku/internal/jsonv"
	"github.com/ashita-ai/kiroku/internal/model"
	"github.com/ashita-ai/kiroku/internal/normalize"
	"github.com/ashita-ai/kiroku/internal/ranking"
	"github.com/ashita-ai/kiroku/internal/terminal"
)

func ranked(t *testing.T, s string) []model.Recommendation {
	t.Helper()
	v, err := jsonv.ParseString(s)
	require.NoError(t, err)
	return ranking.Build(normalize.Normalize(v).Structured)
}

func TestRenderList(t *testing.T) {
	recs := ranked(t, `{
		"recomendacoes":[
			{"key":"a","score":0.9,"tatica":"Do X","execucao":{"tipo_tarefa":"copy","tokens_estimados":2500}},
			{"key":"b","score":0.3}
		],
		"memory":{"recommendation_state":{"a":{"score":0.5}}}
	}`)
	out := terminal.RenderList(recs)

	for _, want := range []string{"Recommendation", "Do X", "0.90", "+0.40", "critical", "copy", "2,500", "b", "0.30", "normal", ranking.Placeholder} {
		assert.Contains(t, out, want)
	}
}

func TestRenderList_Empty(t *testing.T) {
	assert.Contains(t, terminal.RenderList(nil), "No recommendations.")
}

func TestRenderHeader(t *testing.T) {
	out := terminal.RenderHeader(
		model.RunRecord{ID: "r1", Agent: "pitch", Status: model.RunStatusSuccess},
		model.RecommendationSummary{Count: 3, Critical: 1},
	)
	assert.Contains(t, out, "pitch")
	assert.Contains(t, out, "r1 · success · 3 recommendations, 1 critical")
}

func TestRenderBriefing(t *testing.T) {
	out, err := terminal.RenderBriefing("## Timeline\n\nLaunch in **Q3**.", 60)
	require.NoError(t, err)
	assert.Contains(t, out, "Timeline")
	assert.Contains(t, out, "Q3")

	out, err = terminal.RenderBriefing("  ", 60)
	require.NoError(t, err)
	assert.Empty(t, out)
}
