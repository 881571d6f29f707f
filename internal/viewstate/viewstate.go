// Package viewstate models progressive loading of a run as a finite state
// machine with pure transitions.
//
//	Idle ──Begin──▶ Loading ──Succeed──▶ Ready
//	                   │
//	                   └──Fail──▶ Error
//
// Ready and Error return to Loading on the next Begin.
//
// Every fetch is tagged with the sequence number Begin hands out; results
// carrying an older sequence are stale and leave the state unchanged.
package viewstate

import "github.com/ashita-ai/kiroku/internal/model"

// Phase is the current loading phase.
type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Error
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// State is an immutable snapshot. Run is the last successfully loaded run;
// it survives failed fetches so the view can keep showing it.
type State struct {
	Phase Phase
	Seq   uint64
	Run   *model.RunRecord
	Err   error
}

// Begin starts a fetch and returns the new state with its sequence number.
func Begin(s State) State {
	s.Phase = Loading
	s.Seq++
	s.Err = nil
	return s
}

// Succeed records a fetched run. Results for any fetch other than the
// latest one are ignored.
func Succeed(s State, seq uint64, run model.RunRecord) State {
	if s.Phase != Loading || seq != s.Seq {
		return s
	}
	s.Phase = Ready
	s.Run = &run
	s.Err = nil
	return s
}

// Fail records a failed fetch, keeping the last loaded run.
func Fail(s State, seq uint64, err error) State {
	if s.Phase != Loading || seq != s.Seq {
		return s
	}
	s.Phase = Error
	s.Err = err
	return s
}

// Reset returns to Idle and forgets the loaded run. Pending fetches become
// stale.
func Reset(s State) State {
	return State{Seq: s.Seq + 1}
}

// Settled reports whether the loaded run is terminal, so polling can stop.
func (s State) Settled() bool {
	return s.Phase == Ready && s.Run != nil && s.Run.Status.Terminal()
}
