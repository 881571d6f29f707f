package model_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kiroku/internal/jsonv"
	"github.com/ashita-ai/kiroku/internal/model"
)

// ptr is a convenience helper for pointer literals in test cases.
func ptr[T any](v T) *T { return &v }

// ---- ValidateRunRecord ---------------------------------------------------

func TestValidateRunRecord_HappyPath(t *testing.T) {
	r := model.RunRecord{
		ID:        "run-1",
		Agent:     "campaign-planner",
		Status:    model.RunStatusSuccess,
		CostCents: ptr(int64(42)),
		Meta:      &model.RunMeta{TookMs: ptr(int64(1200)), TraceID: ptr("abc")},
	}
	assert.NoError(t, model.ValidateRunRecord(r))
}

func TestValidateRunRecord_UnknownStatusAccepted(t *testing.T) {
	r := model.RunRecord{ID: "run-1", Status: "queued-for-review"}
	assert.NoError(t, model.ValidateRunRecord(r))
	assert.False(t, r.Status.Valid())
}

func TestValidateRunRecord_Errors(t *testing.T) {
	tests := []struct {
		name string
		run  model.RunRecord
		want string
	}{
		{"missing id", model.RunRecord{}, "id is required"},
		{"id too long", model.RunRecord{ID: strings.Repeat("x", model.MaxRunIDLen+1)}, "id exceeds"},
		{"agent too long", model.RunRecord{ID: "r", Agent: strings.Repeat("a", model.MaxAgentLen+1)}, "agent exceeds"},
		{"negative cost", model.RunRecord{ID: "r", CostCents: ptr(int64(-1))}, "costCents"},
		{"negative took", model.RunRecord{ID: "r", Meta: &model.RunMeta{TookMs: ptr(int64(-5))}}, "tookMs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := model.ValidateRunRecord(tt.run)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateRunRecord_IDAtExactMax(t *testing.T) {
	r := model.RunRecord{ID: strings.Repeat("x", model.MaxRunIDLen)}
	assert.NoError(t, model.ValidateRunRecord(r), "at the limit should pass")
}

// ---- RunRecord -----------------------------------------------------------

func TestRunRecord_DecodeWireShape(t *testing.T) {
	body := `{"id":"r1","agent":"pitch","status":"running","request":{"form":{"company":"Acme"}},` +
		`"response":"plain text","costCents":7,"meta":{"tookMs":12,"traceId":"t-1"}}`

	var r model.RunRecord
	require.NoError(t, json.Unmarshal([]byte(body), &r))

	assert.Equal(t, "r1", r.ID)
	assert.Equal(t, model.RunStatusRunning, r.Status)
	assert.Equal(t, "t-1", r.TraceID())
	took, ok := r.TookMs()
	assert.True(t, ok)
	assert.Equal(t, int64(12), took)

	company, ok := r.RequestValue().Path("form", "company").AsString()
	assert.True(t, ok)
	assert.Equal(t, "Acme", company)

	text, ok := r.ResponseValue().AsString()
	assert.True(t, ok)
	assert.Equal(t, "plain text", text)
}

func TestRunRecord_MissingPayloads(t *testing.T) {
	r := model.RunRecord{ID: "r"}
	assert.Equal(t, jsonv.KindUndefined, r.RequestValue().Kind())
	assert.Equal(t, jsonv.KindUndefined, r.ResponseValue().Kind())
	assert.Equal(t, "", r.TraceID())
	_, ok := r.TookMs()
	assert.False(t, ok)
}

func TestRunRecord_NonJSONPayloadKeptAsString(t *testing.T) {
	r := model.RunRecord{ID: "r", Response: json.RawMessage("not json {")}
	s, ok := r.ResponseValue().AsString()
	require.True(t, ok)
	assert.Equal(t, "not json {", s)
}

func TestRunStatus_Terminal(t *testing.T) {
	assert.False(t, model.RunStatusPending.Terminal())
	assert.False(t, model.RunStatusRunning.Terminal())
	assert.True(t, model.RunStatusSuccess.Terminal())
	assert.True(t, model.RunStatusError.Terminal())
	assert.True(t, model.RunStatusBlocked.Terminal())
}

// ---- Forms ---------------------------------------------------------------

func TestFormIsZero(t *testing.T) {
	assert.True(t, model.CampaignForm{}.IsZero())
	assert.False(t, model.CampaignForm{KPIs: []string{"ctr"}}.IsZero())
	assert.True(t, model.PitchForm{}.IsZero())
	assert.False(t, model.PitchForm{Ask: "$1M"}.IsZero())
	assert.True(t, model.JourneyForm{}.IsZero())
	assert.False(t, model.JourneyForm{PainPoints: []string{"slow"}}.IsZero())
}
