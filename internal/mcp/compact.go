package mcp

import (
	"github.com/ashita-ai/kiroku/internal/model"
)

const maxCompactText = 200

// compactRecommendation returns the fields an agent acts on. Empty optional
// fields are dropped and long prose is truncated.
func compactRecommendation(r model.Recommendation) map[string]any {
	m := map[string]any{
		"priority": r.Priority,
		"title":    r.Title,
		"score":    r.Score,
		"critical": r.Critical,
		"adopted":  r.Adopted,
	}
	if r.Key != "" {
		m["key"] = r.Key
	}
	if r.Delta != nil {
		m["delta"] = *r.Delta
	}
	if r.Rationale != "" {
		m["rationale"] = truncate(r.Rationale, maxCompactText)
	}
	if r.NextStep != "" {
		m["next_step"] = truncate(r.NextStep, maxCompactText)
	}
	if r.Hint.TaskType != "" {
		m["task_type"] = r.Hint.TaskType
	}
	if r.Hint.SuggestedAPI != "" {
		m["suggested_api"] = r.Hint.SuggestedAPI
	}
	if r.Hint.EstimatedTokens != nil {
		m["estimated_tokens"] = *r.Hint.EstimatedTokens
	}
	return m
}

func compactRecommendations(recs []model.Recommendation) []map[string]any {
	out := make([]map[string]any, 0, len(recs))
	for _, r := range recs {
		out = append(out, compactRecommendation(r))
	}
	return out
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
