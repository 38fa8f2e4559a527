package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/askdb/askdb/internal/observability"
)

// ErrUnsafeQuery tags outcomes whose synthesized SQL was rejected by the
// safety validator before execution.
var ErrUnsafeQuery = errors.New("synthesized query rejected by safety validator")

// queryDatabase runs the QueryDB node: schema introspection, SQL synthesis,
// the mandatory safety gate, execution and answer formatting. Every failure
// is caught here and converted into an error-tagged outcome; the turn
// always continues to the Answer node.
func (a *Agent) queryDatabase(ctx context.Context, question string) Outcome {
	logger := a.turnLogger(ctx)

	schemaText, err := a.store.Schema(ctx)
	if err != nil {
		logger.Error("schema introspection failed", slog.Any("error", err))
		observability.IncrementTurnFailure("schema")
		return errorOutcome("", err)
	}

	proposal := a.synthesize(ctx, question, schemaText)
	logger.Info("synthesized query",
		slog.String("sql", proposal.SQLQuery),
		slog.String("intent", proposal.Intent),
	)

	if !a.validator.IsSafe(proposal.SQLQuery) {
		logger.Warn("unsafe query rejected", slog.String("sql", proposal.SQLQuery))
		observability.IncrementUnsafeQuery()
		return Outcome{
			Intent:   proposal.Intent,
			SQLQuery: proposal.SQLQuery,
			Answer:   unsafeQueryAnswer,
			Err:      ErrUnsafeQuery,
		}
	}

	start := time.Now()
	result, err := a.store.Query(ctx, proposal.SQLQuery)
	observability.ObserveStoreQuery(time.Since(start))
	if err != nil {
		logger.Error("query execution failed",
			slog.String("sql", proposal.SQLQuery),
			slog.Any("error", err),
		)
		observability.IncrementTurnFailure("execute")
		return errorOutcome(proposal.SQLQuery, err)
	}

	answer, err := a.formatAnswer(ctx, question, proposal, result.Rows)
	if err != nil {
		logger.Warn("answer formatting failed", slog.Any("error", err))
		return Outcome{
			Intent:   proposal.Intent,
			SQLQuery: proposal.SQLQuery,
			Data:     result.Rows,
			Answer:   serviceErrorAnswer,
			Err:      err,
		}
	}

	return Outcome{
		Intent:   proposal.Intent,
		SQLQuery: proposal.SQLQuery,
		Data:     result.Rows,
		Answer:   answer,
	}
}

func errorOutcome(sqlQuery string, err error) Outcome {
	return Outcome{
		Intent:   "error",
		SQLQuery: sqlQuery,
		Answer:   fmt.Sprintf("I encountered an error while querying the database: %v", err),
		Err:      err,
	}
}
