package kiroku

import (
	"context"

	"github.com/ashita-ai/kiroku/internal/runsource"
)

// ErrRunNotFound is returned by a RunSource for an unknown id.
var ErrRunNotFound = runsource.ErrNotFound

// RunSource fetches stored runs for the /v1/runs routes and MCP resources.
// Implementations return ErrRunNotFound (or an error wrapping it) for
// unknown ids and must be safe for concurrent use.
type RunSource interface {
	Get(ctx context.Context, id string) (Run, error)
}
