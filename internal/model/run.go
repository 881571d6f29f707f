// Package model defines the core domain types for kiroku.
//
// A RunRecord is handed to the engine by whatever acquired it (HTTP client,
// event poller, database row). Request and response payloads stay opaque
// raw JSON until the normalizer looks at them.
package model

import (
	"encoding/json"

	"github.com/ashita-ai/kiroku/internal/jsonv"
)

// RunStatus represents the lifecycle state of an agent run.
type RunStatus string

const (
	RunStatusPending RunStatus = "pending"
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusError   RunStatus = "error"
	RunStatusBlocked RunStatus = "blocked"
)

// Valid reports whether s is one of the known statuses. Unknown statuses are
// carried through and displayed verbatim; they are not rejected.
func (s RunStatus) Valid() bool {
	switch s {
	case RunStatusPending, RunStatusRunning, RunStatusSuccess, RunStatusError, RunStatusBlocked:
		return true
	}
	return false
}

// Terminal reports whether no further events are expected for the run.
func (s RunStatus) Terminal() bool {
	return s == RunStatusSuccess || s == RunStatusError || s == RunStatusBlocked
}

// RunRecord is one execution of an agent.
type RunRecord struct {
	ID        string          `json:"id"`
	Agent     string          `json:"agent"`
	Status    RunStatus       `json:"status"`
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

// TraceID returns the run's trace id, or "".
func (r RunRecord) TraceID() string {
	if r.Meta == nil || r.Meta.TraceID == nil {
		return ""
	}
	return *r.Meta.TraceID
}

// TookMs returns the run duration in milliseconds and whether it is known.
func (r RunRecord) TookMs() (int64, bool) {
	if r.Meta == nil || r.Meta.TookMs == nil {
		return 0, false
	}
	return *r.Meta.TookMs, true
}

// RequestValue decodes the opaque request payload. Anything that is not
// JSON is kept as a string; an empty payload is undefined.
func (r RunRecord) RequestValue() jsonv.Value {
	return rawValue(r.Request)
}

// ResponseValue decodes the opaque response payload the same way.
func (r RunRecord) ResponseValue() jsonv.Value {
	return rawValue(r.Response)
}

func rawValue(raw json.RawMessage) jsonv.Value {
	if len(raw) == 0 {
		return jsonv.Value{}
	}
	v, err := jsonv.Parse(raw)
	if err != nil {
		return jsonv.String(string(raw))
	}
	return v
}
