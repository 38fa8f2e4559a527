package agent

import (
	"context"
	"log/slog"
	"strings"
)

// decide asks the completion service whether the question needs the
// database. The match is deliberately lenient: any YES in the normalized
// response routes to the database path. A service failure routes to the
// direct-answer path rather than failing the turn.
func (a *Agent) decide(ctx context.Context, question string) bool {
	prompt := buildDecisionPrompt(question, a.memory.Recent(a.cfg.MemoryContextTurns))
	response, err := a.complete(ctx, "decide", prompt)
	if err != nil {
		a.turnLogger(ctx).Warn("decision step failed, answering directly", slog.Any("error", err))
		return false
	}
	needsDB := strings.Contains(strings.ToUpper(response), "YES")
	a.turnLogger(ctx).Debug("decision step",
		slog.String("response", strings.TrimSpace(response)),
		slog.Bool("needs_db", needsDB),
	)
	return needsDB
}
