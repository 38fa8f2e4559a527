package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/askdb/askdb/internal/store"
)

// formatAnswer renders query results as natural language. Empty results
// short-circuit to a fixed message without a completion call, so the model
// cannot hallucinate content over no data.
func (a *Agent) formatAnswer(ctx context.Context, question string, proposal Proposal, rows []store.Row) (string, error) {
	if len(rows) == 0 {
		return noDataAnswer, nil
	}
	if len(rows) > a.cfg.AnswerRowLimit {
		rows = rows[:a.cfg.AnswerRowLimit]
	}
	serialized, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize result rows: %w", err)
	}
	return a.complete(ctx, "format", buildAnswerPrompt(question, proposal.Intent, string(serialized)))
}
