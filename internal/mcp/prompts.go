package mcp

import (
	"context"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	// review-run: walks the agent through ranking and reporting one run.
	s.mcpServer.AddPrompt(
		mcplib.NewPrompt("review-run",
			mcplib.WithPromptDescription("Review a run's recommendations and produce a shareable report"),
			mcplib.WithArgument("run_id",
				mcplib.ArgumentDescription("Id of a stored run to review"),
				mcplib.RequiredArgument(),
			),
		),
		s.handleReviewRunPrompt,
	)
}

func (s *Server) handleReviewRunPrompt(_ context.Context, request mcplib.GetPromptRequest) (*mcplib.GetPromptResult, error) {
	runID := request.Params.Arguments["run_id"]
	if runID == "" {
		return nil, fmt.Errorf("run_id argument is required")
	}

	return &mcplib.GetPromptResult{
		Description: fmt.Sprintf("Review run %s", runID),
		Messages: []mcplib.PromptMessage{
			mcplib.NewPromptMessage(mcplib.RoleUser, mcplib.NewTextContent(fmt.Sprintf(`Review agent run %[1]s and prepare a report for the team.

1. CALL kiroku_rank with run_id="%[1]s".
   - Start with recommendations where critical is true (score 0.80 or higher).
   - A positive delta means the score rose since the previous run; call out
     large drops explicitly.
   - Note which recommendations are already adopted.

2. SUMMARIZE in a few sentences: what to do first, and why.

3. CALL kiroku_render_report with run_id="%[1]s" and mode="editable" if the
   team will annotate the report, or mode="static" to share it as is.`, runID))),
		},
	}, nil
}
