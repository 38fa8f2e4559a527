// Package agent implements the turn-processing pipeline: a per-turn state
// machine that decides whether a question needs the database, synthesizes
// and validates SQL, executes it, and renders the result as natural
// language, threading a bounded-relevance conversation memory through every
// prompt.
package agent

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/askdb/askdb/internal/completion"
	"github.com/askdb/askdb/internal/observability"
	"github.com/askdb/askdb/internal/safety"
	"github.com/askdb/askdb/internal/store"
)

const (
	defaultMemoryContextTurns = 3
	defaultDirectContextTurns = 2
	defaultSampleRows         = 3
	defaultAnswerRowLimit     = 10
	defaultTableName          = "signups"

	describeSampleRows = 5
)

const (
	noDataAnswer       = "I couldn't find any data matching your question."
	unsafeQueryAnswer  = "That question led me to a query I'm not allowed to run. Could you rephrase it?"
	serviceErrorAnswer = "I'm having trouble reaching the language service right now. Please try again in a moment."
)

type Config struct {
	MemoryContextTurns int
	DirectContextTurns int
	SampleRows         int
	AnswerRowLimit     int
	DefaultTable       string
}

// Agent owns the only mutable cross-turn state (Memory) and sequences the
// state machine. Turns are strictly sequential; RunTurn must not be called
// concurrently.
type Agent struct {
	store     store.Store
	client    completion.Client
	validator *safety.Validator
	logger    *slog.Logger
	memory    *Memory
	cfg       Config
}

func New(st store.Store, client completion.Client, validator *safety.Validator, logger *slog.Logger, cfg Config) *Agent {
	if cfg.MemoryContextTurns <= 0 {
		cfg.MemoryContextTurns = defaultMemoryContextTurns
	}
	if cfg.DirectContextTurns <= 0 {
		cfg.DirectContextTurns = defaultDirectContextTurns
	}
	if cfg.SampleRows <= 0 {
		cfg.SampleRows = defaultSampleRows
	}
	if cfg.AnswerRowLimit <= 0 {
		cfg.AnswerRowLimit = defaultAnswerRowLimit
	}
	if cfg.DefaultTable == "" {
		cfg.DefaultTable = defaultTableName
	}
	if validator == nil {
		validator = safety.NewValidator([]string{cfg.DefaultTable})
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Agent{
		store:     st,
		client:    client,
		validator: validator,
		logger:    logger,
		memory:    NewMemory(),
		cfg:       cfg,
	}
}

type turnIDKey struct{}

func contextWithTurnID(ctx context.Context, turnID string) context.Context {
	return context.WithValue(ctx, turnIDKey{}, turnID)
}

func turnIDFromContext(ctx context.Context) string {
	turnID, _ := ctx.Value(turnIDKey{}).(string)
	return turnID
}

// RunTurn resolves one question through the full state machine and returns
// the answer. It always returns an answer and always appends exactly one
// turn to memory, regardless of internal failures.
func (a *Agent) RunTurn(ctx context.Context, question string) string {
	ctx = contextWithTurnID(ctx, uuid.NewString())
	turn := &TurnState{Question: question}
	for state := StateDecide; state != StateDone; {
		state = a.Step(ctx, state, turn)
	}
	return turn.Answer
}

// Step advances the state machine by one transition. Exposed so tests can
// drive arbitrary states without running a full turn.
func (a *Agent) Step(ctx context.Context, state State, turn *TurnState) State {
	switch state {
	case StateDecide:
		turn.NeedsDB = a.decide(ctx, turn.Question)
		turn.Decided = true
		if turn.NeedsDB {
			return StateQueryDB
		}
		return StateAnswer
	case StateQueryDB:
		outcome := a.queryDatabase(ctx, turn.Question)
		turn.Outcome = &outcome
		return StateAnswer
	case StateAnswer:
		a.finishTurn(ctx, turn)
		return StateDone
	default:
		return StateDone
	}
}

func (a *Agent) ResetMemory() {
	a.memory.Reset()
	observability.SetMemoryTurns(0)
}

func (a *Agent) MemoryTurns() int {
	return a.memory.Len()
}

// DescribeStore renders the schema and a few sample rows for the
// interactive `schema` command.
func (a *Agent) DescribeStore(ctx context.Context) (string, error) {
	schemaText, err := a.store.Schema(ctx)
	if err != nil {
		return "", fmt.Errorf("read schema: %w", err)
	}
	sample, err := a.store.SampleRows(ctx, describeSampleRows)
	if err != nil {
		return "", fmt.Errorf("read sample rows: %w", err)
	}
	return schemaText + "\n" + sample, nil
}

func (a *Agent) turnLogger(ctx context.Context) *slog.Logger {
	if turnID := turnIDFromContext(ctx); turnID != "" {
		return a.logger.With(slog.String("turn_id", turnID))
	}
	return a.logger
}

// complete wraps the completion client with latency metrics and stage
// labeling. Every pipeline stage that talks to the service goes through it.
func (a *Agent) complete(ctx context.Context, stage, prompt string) (string, error) {
	start := time.Now()
	response, err := a.client.Complete(ctx, prompt)
	observability.ObserveCompletion(stage, time.Since(start))
	if err != nil {
		observability.IncrementTurnFailure(stage)
		return "", fmt.Errorf("%s completion: %w", stage, err)
	}
	return response, nil
}
