package runsource_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kiroku/internal/runsource"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileSource_Array(t *testing.T) {
	path := writeFile(t, t.TempDir(), "runs.json", `[
		{"id":"a","agent":"pitch","status":"success","response":"done"},
		{"id":"b","agent":"journey","status":"error"}
	]`)
	src := runsource.NewFileSource(path)
	ctx := context.Background()

	run, err := src.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "journey", run.Agent)

	run, err = src.Get(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "a", run.ID)
	assert.Equal(t, `"done"`, string(run.Response))

	_, err = src.Get(ctx, "c")
	assert.True(t, errors.Is(err, runsource.ErrNotFound))
}

func TestFileSource_SingleRecordReread(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "run.json", `{"id":"a","status":"running"}`)
	src := runsource.NewFileSource(path)

	run, err := src.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "running", string(run.Status))

	writeFile(t, dir, "run.json", `{"id":"a","status":"success"}`)
	run, err = src.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "success", string(run.Status))
}

func TestFileSource_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := runsource.NewFileSource(filepath.Join(dir, "absent.json")).Get(context.Background(), "")
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.json", `{"id":`)
	_, err = runsource.NewFileSource(bad).Get(context.Background(), "")
	assert.ErrorContains(t, err, "decode run")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	h, err := runsource.Open(ctx, runsource.OpenConfig{})
	require.NoError(t, err)
	assert.Nil(t, h.Source)
	assert.NoError(t, h.Close())

	h, err = runsource.Open(ctx, runsource.OpenConfig{File: "runs.json"})
	require.NoError(t, err)
	assert.Equal(t, runsource.KindFile, h.Name)
	assert.IsType(t, &runsource.FileSource{}, h.Source)

	h, err = runsource.Open(ctx, runsource.OpenConfig{SQLitePath: ":memory:", File: "ignored.json"})
	require.NoError(t, err)
	assert.Equal(t, runsource.KindSQLite, h.Name)
	assert.NoError(t, h.Close())
}
