package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/askdb/askdb/internal/observability"
)

// Completion output is free text that should contain a JSON object; the
// greedy first-to-last brace span is the best-effort extraction contract.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// DefaultProposal is the fixed, known-safe fallback used whenever the
// synthesizer cannot produce a usable proposal. Callers always receive a
// well-formed proposal with non-empty SQL.
func DefaultProposal(table string) Proposal {
	return Proposal{
		SQLQuery:    fmt.Sprintf("SELECT * FROM %s LIMIT 10", table),
		Intent:      "general_query",
		Description: "Default query",
	}
}

// synthesize turns the question plus schema, sample rows and recent memory
// into a query proposal. It never fails: malformed output, decode errors
// and service failures all collapse to the default proposal.
func (a *Agent) synthesize(ctx context.Context, question, schemaText string) Proposal {
	logger := a.turnLogger(ctx)

	sampleData, err := a.store.SampleRows(ctx, a.cfg.SampleRows)
	if err != nil {
		logger.Warn("sample rows unavailable for synthesis prompt", slog.Any("error", err))
		sampleData = ""
	}

	prompt := buildSynthesisPrompt(question, a.memory.Recent(a.cfg.MemoryContextTurns), schemaText, sampleData)
	response, err := a.complete(ctx, "synthesize", prompt)
	if err != nil {
		logger.Warn("synthesis failed, using default proposal", slog.Any("error", err))
		observability.IncrementDefaultProposal()
		return DefaultProposal(a.cfg.DefaultTable)
	}

	proposal, ok := parseProposal(response)
	if !ok {
		logger.Warn("synthesis output unparseable, using default proposal",
			slog.String("response", strings.TrimSpace(response)))
		observability.IncrementDefaultProposal()
		return DefaultProposal(a.cfg.DefaultTable)
	}
	return proposal
}

func parseProposal(text string) (Proposal, bool) {
	match := jsonObjectPattern.FindString(text)
	if match == "" {
		return Proposal{}, false
	}
	var proposal Proposal
	if err := json.Unmarshal([]byte(match), &proposal); err != nil {
		return Proposal{}, false
	}
	proposal.SQLQuery = strings.TrimSpace(proposal.SQLQuery)
	if proposal.SQLQuery == "" {
		return Proposal{}, false
	}
	return proposal, true
}
