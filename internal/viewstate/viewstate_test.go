package viewstate_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kiroku/internal/model"
	"github.com/ashita-ai/kiroku/internal/viewstate"
)

func TestLifecycle(t *testing.T) {
	var s viewstate.State
	assert.Equal(t, viewstate.Idle, s.Phase)

	s = viewstate.Begin(s)
	assert.Equal(t, viewstate.Loading, s.Phase)

	s = viewstate.Succeed(s, s.Seq, model.RunRecord{ID: "r1", Status: model.RunStatusRunning})
	assert.Equal(t, viewstate.Ready, s.Phase)
	require.NotNil(t, s.Run)
	assert.Equal(t, "r1", s.Run.ID)
	assert.False(t, s.Settled())

	s = viewstate.Begin(s)
	s = viewstate.Fail(s, s.Seq, errors.New("boom"))
	assert.Equal(t, viewstate.Error, s.Phase)
	assert.EqualError(t, s.Err, "boom")
	require.NotNil(t, s.Run, "last loaded run is kept on failure")
	assert.Equal(t, "r1", s.Run.ID)

	s = viewstate.Begin(s)
	assert.NoError(t, s.Err)
	s = viewstate.Succeed(s, s.Seq, model.RunRecord{ID: "r1", Status: model.RunStatusSuccess})
	assert.True(t, s.Settled())
}

func TestStaleResultsIgnored(t *testing.T) {
	s := viewstate.Begin(viewstate.State{})
	stale := s.Seq
	s = viewstate.Begin(s)

	after := viewstate.Succeed(s, stale, model.RunRecord{ID: "old"})
	assert.Equal(t, s, after)

	after = viewstate.Fail(s, stale, errors.New("late"))
	assert.Equal(t, s, after)

	s = viewstate.Succeed(s, s.Seq, model.RunRecord{ID: "new"})
	assert.Equal(t, "new", s.Run.ID)
}

func TestResultWithoutFetchIgnored(t *testing.T) {
	s := viewstate.State{}
	assert.Equal(t, s, viewstate.Succeed(s, 0, model.RunRecord{ID: "x"}))

	ready := viewstate.Succeed(viewstate.Begin(s), 1, model.RunRecord{ID: "x"})
	assert.Equal(t, ready, viewstate.Succeed(ready, 1, model.RunRecord{ID: "dup"}))
}

func TestReset(t *testing.T) {
	s := viewstate.Begin(viewstate.State{})
	pending := s.Seq
	s = viewstate.Reset(s)
	assert.Equal(t, viewstate.Idle, s.Phase)
	assert.Nil(t, s.Run)
	assert.Equal(t, s, viewstate.Succeed(s, pending, model.RunRecord{ID: "x"}))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", viewstate.Idle.String())
	assert.Equal(t, "loading", viewstate.Loading.String())
	assert.Equal(t, "ready", viewstate.Ready.String())
	assert.Equal(t, "error", viewstate.Error.String())
}
