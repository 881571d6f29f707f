// Package runsource acquires run records for the engine: from JSON files,
// SQLite, or Postgres, with a poller that keeps a view fresh.
//
// Acquisition is the caller's concern. The engine itself never performs
// I/O; this package is what the CLI and server use to hand it runs.
package runsource

import (
	"context"
	"errors"

	"github.com/ashita-ai/kiroku/internal/model"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("runsource: not found")

// Source fetches a run by id.
type Source interface {
	Get(ctx context.Context, id string) (model.RunRecord, error)
}

// Store is a Source that can also persist runs.
type Store interface {
	Source
	Put(ctx context.Context, run model.RunRecord) error
	Close() error
}

// agentRunsSchema is shared by the SQL stores. Payloads are kept as text so
// responses that are not JSON survive a round trip.
const agentRunsSchema = `CREATE TABLE IF NOT EXISTS agent_runs (
	id          TEXT PRIMARY KEY,
	agent       TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT '',
	request     TEXT,
	response    TEXT,
	cost_cents  BIGINT,
	took_ms     BIGINT,
	trace_id    TEXT
)`

// nullableText returns nil for an empty payload.
func nullableText(raw []byte) *string {
	if len(raw) == 0 {
		return nil
	}
	s := string(raw)
	return &s
}

// assemble builds a RunRecord from scanned columns.
func assemble(id, agent, status string, request, response, traceID *string, cost, took *int64) model.RunRecord {
	run := model.RunRecord{
		ID:        id,
		Agent:     agent,
		Status:    model.RunStatus(status),
		CostCents: cost,
	}
	if request != nil {
		run.Request = []byte(*request)
	}
	if response != nil {
		run.Response = []byte(*response)
	}
	if took != nil || traceID != nil {
		run.Meta = &model.RunMeta{TookMs: took, TraceID: traceID}
	}
	return run
}
