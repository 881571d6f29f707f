package runsource

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/ashita-ai/kiroku/internal/model"
	"github.com/ashita-ai/kiroku/internal/viewstate"
)

// PollerConfig configures a Poller.
type PollerConfig struct {
	Source   Source
	RunID    string
	Interval time.Duration
	// Trigger forces an immediate fetch when it receives. Optional.
	Trigger <-chan struct{}
	// OnReady is called with each fetched run that differs from the last
	// one handed out.
	OnReady func(model.RunRecord)
	// StopWhenSettled ends Run once a terminal run has been loaded.
	StopWhenSettled bool
	Logger          *slog.Logger
}

// Poller fetches a run on a ticker and drives a viewstate machine with the
// results. A failed fetch keeps the last loaded run; the next tick is the
// only retry.
type Poller struct {
	cfg PollerConfig

	mu    sync.Mutex
	state viewstate.State
}

// NewPoller returns a Poller. Interval defaults to five seconds.
func NewPoller(cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Poller{cfg: cfg}
}

// State returns the current view state.
func (p *Poller) State() viewstate.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Run polls until ctx is done, or until the run settles when configured to.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	trigger := p.cfg.Trigger
	p.poll(ctx)
	for {
		if p.cfg.StopWhenSettled && p.State().Settled() {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.poll(ctx)
		case _, ok := <-trigger:
			if !ok {
				trigger = nil
				continue
			}
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	p.mu.Lock()
	p.state = viewstate.Begin(p.state)
	seq := p.state.Seq
	p.mu.Unlock()

	run, err := p.cfg.Source.Get(ctx, p.cfg.RunID)

	p.mu.Lock()
	if err != nil {
		p.state = viewstate.Fail(p.state, seq, err)
		p.mu.Unlock()
		if ctx.Err() == nil {
			p.cfg.Logger.Warn("runsource: fetch failed", "run_id", p.cfg.RunID, "error", err)
		}
		return
	}
	prev := p.state.Run
	p.state = viewstate.Succeed(p.state, seq, run)
	changed := p.state.Phase == viewstate.Ready && (prev == nil || !reflect.DeepEqual(*prev, run))
	p.mu.Unlock()

	if changed {
		p.cfg.Logger.Debug("runsource: run updated", "run_id", run.ID, "status", run.Status)
		if p.cfg.OnReady != nil {
			p.cfg.OnReady(run)
		}
	}
}
