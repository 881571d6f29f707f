package runsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ashita-ai/kiroku/internal/model"
)

// FileSource reads runs from a JSON file holding either one RunRecord or
// an array of them. The file is re-read on every Get so edits are picked up.
type FileSource struct {
	Path string
}

// NewFileSource returns a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Get returns the run with the given id. An empty id selects the first run
// in the file.
func (f *FileSource) Get(ctx context.Context, id string) (model.RunRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.RunRecord{}, err
	}
	runs, err := ReadRuns(f.Path)
	if err != nil {
		return model.RunRecord{}, err
	}
	for _, r := range runs {
		if id == "" || r.ID == id {
			return r, nil
		}
	}
	return model.RunRecord{}, fmt.Errorf("runsource: run %q in %s: %w", id, f.Path, ErrNotFound)
}

// ReadRuns decodes every run in a JSON file.
func ReadRuns(path string) ([]model.RunRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("runsource: read %s: %w", path, err)
	}
	return DecodeRuns(data)
}

// DecodeRuns decodes one RunRecord or an array of them.
func DecodeRuns(data []byte) ([]model.RunRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var runs []model.RunRecord
		if err := json.Unmarshal(trimmed, &runs); err != nil {
			return nil, fmt.Errorf("runsource: decode runs: %w", err)
		}
		return runs, nil
	}
	var run model.RunRecord
	if err := json.Unmarshal(trimmed, &run); err != nil {
		return nil, fmt.Errorf("runsource: decode run: %w", err)
	}
	return []model.RunRecord{run}, nil
}
