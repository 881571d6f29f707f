package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runJSON = `[
	{"id":"run-1","agent":"campaign","status":"success",
	 "response":{"recomendacoes":[{"key":"a","score":0.9,"tatica":"Do X"}],"briefing":"## Insights\n- Email wins"}},
	{"id":"run-2","agent":"pitch","status":"running"}
]`

func writeRuns(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.json")
	require.NoError(t, os.WriteFile(path, []byte(runJSON), 0o600))
	return path
}

// execute runs the CLI with fresh flag state.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("KIROKU_SQLITE_PATH", "")
	t.Setenv("KIROKU_BRANDING_FILE", "")

	runsFile, logLevel = "", ""
	renderMode, renderOutput, exportOutput = "static", "", ""
	listWidth, listBriefing = 80, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRender_Stdout(t *testing.T) {
	out, err := execute(t, "", "render", "-f", writeRuns(t), "-o", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "Do X")
}

func TestRender_FileByID(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.html")
	_, err := execute(t, "", "render", "run-2", "-f", writeRuns(t), "--mode", "editable", "-o", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Pitch Review")
}

func TestRender_Errors(t *testing.T) {
	_, err := execute(t, "", "render", "-f", writeRuns(t), "--mode", "fancy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--mode must be static or editable")

	_, err = execute(t, "", "render")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a run id is required")

	_, err = execute(t, "", "render", "run-9", "-f", writeRuns(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestNormalize_Stdin(t *testing.T) {
	out, err := execute(t, runJSON, "normalize", "run-1", "-f", "-")
	require.NoError(t, err)

	var got struct {
		RunID         string         `json:"run_id"`
		HasStructured bool           `json:"has_structured"`
		Structured    map[string]any `json:"structured"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.True(t, got.HasStructured)
	assert.Contains(t, got.Structured, "recomendacoes")
}

func TestExport(t *testing.T) {
	out, err := execute(t, "", "export", "run-2", "-f", writeRuns(t))
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "run-2"`)
}

func TestList(t *testing.T) {
	out, err := execute(t, "", "list", "-f", writeRuns(t), "--briefing")
	require.NoError(t, err)
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "Do X")
	assert.Contains(t, out, "Email wins")
}

func TestOpenSource_StdinRejected(t *testing.T) {
	runsFile = stdioPath
	t.Cleanup(func() { runsFile = "" })

	_, err := openSource(context.Background())
	require.Error(t, err)
}
