// Package ranking builds the scored, delta-annotated recommendation
// view-model shared by every list and table that displays recommendations.
package ranking

import (
	"fmt"
	"math"

	"github.com/ashita-ai/kiroku/internal/jsonv"
	"github.com/ashita-ai/kiroku/internal/model"
	"github.com/ashita-ai/kiroku/internal/normalize"
)

// Build ranks the recommendations carried by a structured output, diffing
// scores against the prior snapshot in its memory block.
func Build(structured jsonv.Object) []model.Recommendation {
	items, _ := normalize.Recommendations(structured)
	return Rank(items, PriorFrom(structured))
}

// Rank turns raw recommendation entries into view-model rows, in source
// order. prior may be nil, in which case no delta is computed.
func Rank(items []jsonv.Value, prior Prior) []model.Recommendation {
	out := make([]model.Recommendation, 0, len(items))
	for i, item := range items {
		out = append(out, entry(i, item, prior))
	}
	return out
}

func entry(index int, item jsonv.Value, prior Prior) model.Recommendation {
	if s, ok := item.AsString(); ok {
		// Bare strings are tactic names.
		o := jsonv.NewObject()
		o.Set("tatica", jsonv.String(s))
		item = jsonv.FromObject(o)
	}

	rec := model.Recommendation{
		Key:       first(item, "key"),
		Priority:  index + 1,
		Rationale: first(item, "racional", "rationale"),
		NextStep:  first(item, "proximo_passo", "next_step"),
		Hint:      hint(item),
	}
	if p, ok := number(item, "prioridade", "priority"); ok {
		if r, ok := RoundInt(p); ok && r >= math.MinInt && r <= math.MaxInt {
			rec.Priority = int(r)
		}
	}
	if s, ok := number(item, "score"); ok {
		rec.Score = s
	}
	rec.Critical = rec.Score >= model.CriticalScore

	rec.Title = first(item, "tatica", "tactic", "title")
	if rec.Title == "" {
		rec.Title = rec.Key
	}
	if rec.Title == "" {
		rec.Title = fmt.Sprintf("Recommendation %d", index+1)
	}

	if b, ok := boolean(item, "adotada", "adopted"); ok {
		rec.Adopted = b
	}

	if rec.Key != "" {
		if prev, ok := prior[rec.Key]; ok {
			delta := rec.Score - prev
			rec.PreviousScore = &prev
			rec.Delta = &delta
		}
	}
	return rec
}

func hint(item jsonv.Value) model.ExecutionHint {
	src := item
	for _, name := range []string{"execucao", "execution"} {
		if sub := item.Get(name); sub.Kind() == jsonv.KindObject {
			src = sub
			break
		}
	}
	h := model.ExecutionHint{
		TaskType:     first(src, "task_type", "tipo_tarefa"),
		SuggestedAPI: first(src, "api_sugerida", "suggested_api", "provider"),
	}
	if n, ok := number(src, "tokens_estimados", "estimated_tokens"); ok && n >= 0 {
		if tokens, ok := RoundInt(n); ok {
			h.EstimatedTokens = &tokens
		}
	}
	return h
}

// RoundInt rounds n to the nearest integer. It reports false when the result
// does not fit an int64.
func RoundInt(n float64) (int64, bool) {
	r := math.Round(n)
	if math.IsNaN(r) || r < math.MinInt64 || r >= math.MaxInt64 {
		return 0, false
	}
	return int64(r), true
}

// first returns the first non-empty string member among names.
func first(v jsonv.Value, names ...string) string {
	for _, name := range names {
		if s, ok := v.Get(name).AsString(); ok && s != "" {
			return s
		}
	}
	return ""
}

// number returns the first finite numeric member among names. Strings that
// look like numbers are not accepted.
func number(v jsonv.Value, names ...string) (float64, bool) {
	for _, name := range names {
		if n, ok := v.Get(name).AsNumber(); ok && !math.IsNaN(n) && !math.IsInf(n, 0) {
			return n, true
		}
	}
	return 0, false
}

func boolean(v jsonv.Value, names ...string) (bool, bool) {
	for _, name := range names {
		if b, ok := v.Get(name).AsBool(); ok {
			return b, true
		}
	}
	return false, false
}

// Summarize aggregates a ranked list.
func Summarize(recs []model.Recommendation) model.RecommendationSummary {
	s := model.RecommendationSummary{Count: len(recs)}
	if len(recs) == 0 {
		return s
	}
	var total float64
	for _, r := range recs {
		total += r.Score
		if r.Critical {
			s.Critical++
		}
		if r.Adopted {
			s.Adopted++
		}
	}
	s.MeanScore = total / float64(len(recs))
	return s
}
