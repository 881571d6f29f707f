package runsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/ashita-ai/kiroku/internal/model"
)

// SQLite is a Store backed by an agent_runs table in a SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the
// schema exists. Use ":memory:" for a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("runsource: open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases from splitting per
	// connection and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, agentRunsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("runsource: create sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Get returns the run with the given id.
func (s *SQLite) Get(ctx context.Context, id string) (model.RunRecord, error) {
	var (
		agent, status              string
		request, response, traceID sql.NullString
		cost, took                 sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT agent, status, request, response, cost_cents, took_ms, trace_id
		 FROM agent_runs WHERE id = ?`, id,
	).Scan(&agent, &status, &request, &response, &cost, &took, &traceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RunRecord{}, fmt.Errorf("runsource: run %q: %w", id, ErrNotFound)
		}
		return model.RunRecord{}, fmt.Errorf("runsource: get run: %w", err)
	}
	return assemble(id, agent, status, nullString(request), nullString(response), nullString(traceID),
		nullInt(cost), nullInt(took)), nil
}

// Put inserts or replaces a run.
func (s *SQLite) Put(ctx context.Context, run model.RunRecord) error {
	var took *int64
	var traceID *string
	if run.Meta != nil {
		took, traceID = run.Meta.TookMs, run.Meta.TraceID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO agent_runs (id, agent, status, request, response, cost_cents, took_ms, trace_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			agent = excluded.agent,
			status = excluded.status,
			request = excluded.request,
			response = excluded.response,
			cost_cents = excluded.cost_cents,
			took_ms = excluded.took_ms,
			trace_id = excluded.trace_id`,
		run.ID, run.Agent, string(run.Status), nullableText(run.Request), nullableText(run.Response),
		run.CostCents, took, traceID,
	)
	if err != nil {
		return fmt.Errorf("runsource: put run: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullInt(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	return &ni.Int64
}
