package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/askdb/askdb/internal/observability"
)

// finishTurn runs the Answer node: pick the outcome answer when the
// database path produced one, otherwise answer directly from conversation
// context. Either way the turn is appended to memory exactly once.
func (a *Agent) finishTurn(ctx context.Context, turn *TurnState) {
	logger := a.turnLogger(ctx)

	path := "direct"
	if turn.Outcome != nil && strings.TrimSpace(turn.Outcome.Answer) != "" {
		turn.Answer = turn.Outcome.Answer
		path = "db"
	} else {
		prompt := buildDirectPrompt(turn.Question, a.memory.Recent(a.cfg.DirectContextTurns))
		response, err := a.complete(ctx, "answer", prompt)
		if err != nil {
			logger.Warn("direct answer failed", slog.Any("error", err))
			response = serviceErrorAnswer
		}
		turn.Answer = response
	}

	a.memory.Append(Turn{Question: turn.Question, Answer: turn.Answer})
	observability.SetMemoryTurns(a.memory.Len())
	observability.ObserveTurn(path)
	logger.Info("turn completed",
		slog.String("path", path),
		slog.Int("memory_turns", a.memory.Len()),
	)
}
