package model

// CriticalScore is the score at or above which a recommendation is critical.
const CriticalScore = 0.8

// Recommendation is one ranked entry of the recommendation view-model.
// Score is always finite. Delta is set only when the prior memory snapshot
// held an entry with the same key.
type Recommendation struct {
	Key           string        `json:"key"`
	Title         string        `json:"title"`
	Priority      int           `json:"priority"`
	Score         float64       `json:"score"`
	PreviousScore *float64      `json:"previous_score,omitempty"`
	Delta         *float64      `json:"delta,omitempty"`
	Critical      bool          `json:"critical"`
	Rationale     string        `json:"rationale,omitempty"`
	NextStep      string        `json:"next_step,omitempty"`
	Hint          ExecutionHint `json:"execution_hint"`
	Adopted       bool          `json:"adopted"`
}

// ExecutionHint describes how a recommendation would be carried out.
// Each field is independently optional.
type ExecutionHint struct {
	TaskType        string `json:"task_type,omitempty"`
	SuggestedAPI    string `json:"suggested_api,omitempty"`
	EstimatedTokens *int64 `json:"estimated_tokens,omitempty"`
}
