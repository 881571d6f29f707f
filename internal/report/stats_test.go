package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kiroku/internal/jsonv"
	"github.com/ashita-ai/kiroku/internal/report"
)

func obj(t *testing.T, s string) jsonv.Object {
	t.Helper()
	v, err := jsonv.ParseString(s)
	require.NoError(t, err)
	o, ok := v.AsObject()
	require.True(t, ok)
	return o
}

func TestUsageOf(t *testing.T) {
	u := report.UsageOf(obj(t, `{"usage":{"prompt_tokens":10,"completion_tokens":5,"model":"m"}}`))
	require.NotNil(t, u.Total)
	assert.Equal(t, int64(15), *u.Total, "total falls back to prompt+completion")
	assert.Equal(t, "m", u.Model)

	u = report.UsageOf(obj(t, `{"usage":{"prompt_tokens":10,"total_tokens":"many"}}`))
	assert.Nil(t, u.Total)
	assert.Nil(t, u.Completion)

	u = report.UsageOf(obj(t, `{"model":"top-level"}`))
	assert.Equal(t, "top-level", u.Model)
}

func TestUsageOf_HugeCountsAreAbsent(t *testing.T) {
	u := report.UsageOf(obj(t, `{"usage":{"prompt_tokens":1e300,"completion_tokens":5,"total_tokens":1e400}}`))
	assert.Nil(t, u.Prompt)
	assert.Nil(t, u.Total)
	require.NotNil(t, u.Completion)
	assert.Equal(t, int64(5), *u.Completion)

	u = report.UsageOf(obj(t, `{"usage":{"prompt_tokens":9e18,"completion_tokens":9e18}}`))
	require.NotNil(t, u.Prompt)
	assert.Nil(t, u.Total, "an overflowing sum is not shown")
}

func TestMemoryOf(t *testing.T) {
	m := report.MemoryOf(obj(t, `{"memory":{"short_term":1,"long_term":-2,"vector_matches":4,"cursor":17}}`))
	require.NotNil(t, m.ShortTerm)
	assert.Equal(t, int64(1), *m.ShortTerm)
	assert.Nil(t, m.LongTerm, "negative counts are not shown")
	require.NotNil(t, m.VectorMatches)
	assert.Equal(t, int64(4), *m.VectorMatches)
	assert.Equal(t, "17", m.Cursor)

	m = report.MemoryOf(obj(t, `{"memory":{"vector_matches":[{},{}]}}`))
	require.NotNil(t, m.VectorMatches)
	assert.Equal(t, int64(2), *m.VectorMatches)
}

func TestDiagnosticsOf(t *testing.T) {
	d := report.DiagnosticsOf(obj(t, `{"diagnostics":{"exploration_pct":42.5}}`))
	require.NotNil(t, d.Pct)
	assert.Equal(t, 42.5, *d.Pct)

	d = report.DiagnosticsOf(obj(t, `{"diagnostico":{"explored":1,"total":0}}`))
	assert.Nil(t, d.Pct, "no percentage from a zero total")
}

func TestAgentStateKeys(t *testing.T) {
	n, ok := report.AgentStateKeys(obj(t, `{"agent_state":{"a":1,"b":2}}`))
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	_, ok = report.AgentStateKeys(obj(t, `{"agent_state":"opaque"}`))
	assert.False(t, ok)
}
