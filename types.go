package kiroku

import "encoding/json"

// Status is the lifecycle state of an agent run. Values outside the listed
// constants are carried through and displayed verbatim.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusBlocked Status = "blocked"
)

// Run is one execution of an agent. Request and Response are opaque JSON;
// a response that is not valid JSON is treated as text.
// No internal package imports, safe to use from outside the module.
type Run struct {
	ID        string          `json:"id"`
	Agent     string          `json:"agent"`
	Status    Status          `json:"status"`
	Request   json.RawMessage `json:"request,omitempty"`
	Response  json.RawMessage `json:"response,omitempty"`
	CostCents *int64          `json:"costCents,omitempty"`
	Meta      *RunMeta        `json:"meta,omitempty"`
}

// RunMeta carries timing metadata for a run.
type RunMeta struct {
	TookMs  *int64  `json:"tookMs,omitempty"`
	TraceID *string `json:"traceId,omitempty"`
}

// NormalizedView is the structured reading of a raw response.
type NormalizedView struct {
	// Structured is a JSON object; "{}" when the response held none.
	Structured json.RawMessage `json:"structured"`
	// Text is a human-readable rendering of the response.
	Text string `json:"text"`
}

// HasStructured reports whether any fields were recovered.
func (v NormalizedView) HasStructured() bool {
	return len(v.Structured) > 0 && string(v.Structured) != "{}"
}

// Recommendation is one ranked entry of a run's recommendation list.
type Recommendation struct {
	Key           string        `json:"key,omitempty"`
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

// ExecutionHint suggests how a recommendation could be carried out.
type ExecutionHint struct {
	TaskType        string `json:"task_type,omitempty"`
	SuggestedAPI    string `json:"suggested_api,omitempty"`
	EstimatedTokens *int64 `json:"estimated_tokens,omitempty"`
}

// Mode selects a static or an in-browser editable report.
type Mode string

const (
	ModeStatic   Mode = "static"
	ModeEditable Mode = "editable"
)

// Branding customizes the call-to-action and links blocks of a report.
type Branding struct {
	ProductName string `json:"product_name" yaml:"product_name"`
	CTA         CTA    `json:"cta" yaml:"cta"`
	Links       []Link `json:"links" yaml:"links"`
}

// CTA is the call-to-action block.
type CTA struct {
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// Link is one entry of the links block.
type Link struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// Report is a rendered, self-contained HTML document.
type Report struct {
	HTML     string
	FileName string
	Title    string
	Theme    string
	Mode     Mode
	// Sections lists the ids of the rendered sections in document order.
	Sections []string
}
