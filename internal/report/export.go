package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ashita-ai/kiroku/internal/model"
)

// Export returns the run as indented JSON for a raw download. Payloads that
// are not valid JSON are exported as JSON strings.
func Export(run model.RunRecord) ([]byte, error) {
	run.Request = exportable(run.Request)
	run.Response = exportable(run.Response)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run); err != nil {
		return nil, fmt.Errorf("report: export: %w", err)
	}
	return buf.Bytes(), nil
}

func exportable(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || json.Valid(raw) {
		return raw
	}
	quoted, err := json.Marshal(string(raw))
	if err != nil {
		return nil
	}
	return quoted
}
