package model

import (
	"fmt"
	"time"

	"github.com/ashita-ai/kiroku/internal/jsonv"
)

// Field length limits for RunRecord identity fields. Payloads are bounded by
// the server's request body limit instead.
const (
	MaxRunIDLen  = 200
	MaxAgentLen  = 200
	MaxStatusLen = 64
)

// ValidateRunRecord checks the identity fields a surface needs before it can
// hand a run to the engine. Status is length-checked only: unknown statuses
// are displayed verbatim.
func ValidateRunRecord(r RunRecord) error {
	if r.ID == "" {
		return fmt.Errorf("id is required")
	}
	if len(r.ID) > MaxRunIDLen {
		return fmt.Errorf("id exceeds maximum length of %d characters", MaxRunIDLen)
	}
	if len(r.Agent) > MaxAgentLen {
		return fmt.Errorf("agent exceeds maximum length of %d characters", MaxAgentLen)
	}
	if len(r.Status) > MaxStatusLen {
		return fmt.Errorf("status exceeds maximum length of %d characters", MaxStatusLen)
	}
	if r.CostCents != nil && *r.CostCents < 0 {
		return fmt.Errorf("costCents must not be negative")
	}
	if r.Meta != nil && r.Meta.TookMs != nil && *r.Meta.TookMs < 0 {
		return fmt.Errorf("meta.tookMs must not be negative")
	}
	return nil
}

// APIResponse is the standard response envelope for all HTTP API responses.
type APIResponse struct {
	Data any          `json:"data,omitempty"`
	Meta ResponseMeta `json:"meta"`
}

// APIError is the standard error response envelope.
type APIError struct {
	Error ErrorDetail  `json:"error"`
	Meta  ResponseMeta `json:"meta"`
}

// ResponseMeta contains request metadata included in every response.
type ResponseMeta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorDetail describes an API error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorCode constants for standard API error codes.
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternalError = "INTERNAL_ERROR"
	ErrCodeRateLimited   = "RATE_LIMITED"
)

// RecommendationSummary aggregates a ranked list for the metric strip.
type RecommendationSummary struct {
	Count     int     `json:"count"`
	Critical  int     `json:"critical"`
	Adopted   int     `json:"adopted"`
	MeanScore float64 `json:"mean_score"`
}

// RecommendationsResponse is the response for POST /v1/recommendations.
type RecommendationsResponse struct {
	RunID           string                `json:"run_id"`
	Recommendations []Recommendation      `json:"recommendations"`
	Summary         RecommendationSummary `json:"summary"`
	Forms           FormSet               `json:"forms"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Source  string `json:"source,omitempty"`
	Uptime  int64  `json:"uptime_seconds"`
}

// NormalizeResponse is the response for POST /v1/normalize.
type NormalizeResponse struct {
	RunID         string       `json:"run_id"`
	HasStructured bool         `json:"has_structured"`
	Structured    jsonv.Object `json:"structured"`
	Text          string       `json:"text"`
}
