package runsource

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashita-ai/kiroku/internal/model"
)

// Postgres is a Store backed by an agent_runs table in PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn, verifies connectivity, and ensures the
// schema exists.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("runsource: parse postgres DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("runsource: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("runsource: ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, agentRunsSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("runsource: create postgres schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Get returns the run with the given id.
func (p *Postgres) Get(ctx context.Context, id string) (model.RunRecord, error) {
	var (
		agent, status              string
		request, response, traceID *string
		cost, took                 *int64
	)
	err := p.pool.QueryRow(ctx,
		`SELECT agent, status, request, response, cost_cents, took_ms, trace_id
		 FROM agent_runs WHERE id = $1`, id,
	).Scan(&agent, &status, &request, &response, &cost, &took, &traceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RunRecord{}, fmt.Errorf("runsource: run %q: %w", id, ErrNotFound)
		}
		return model.RunRecord{}, fmt.Errorf("runsource: get run: %w", err)
	}
	return assemble(id, agent, status, request, response, traceID, cost, took), nil
}

// Put inserts or replaces a run.
func (p *Postgres) Put(ctx context.Context, run model.RunRecord) error {
	var took *int64
	var traceID *string
	if run.Meta != nil {
		took, traceID = run.Meta.TookMs, run.Meta.TraceID
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO agent_runs (id, agent, status, request, response, cost_cents, took_ms, trace_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
			agent = EXCLUDED.agent,
			status = EXCLUDED.status,
			request = EXCLUDED.request,
			response = EXCLUDED.response,
			cost_cents = EXCLUDED.cost_cents,
			took_ms = EXCLUDED.took_ms,
			trace_id = EXCLUDED.trace_id`,
		run.ID, run.Agent, string(run.Status), nullableText(run.Request), nullableText(run.Response),
		run.CostCents, took, traceID,
	)
	if err != nil {
		return fmt.Errorf("runsource: put run: %w", err)
	}
	return nil
}

// Ping checks connectivity to the database.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
