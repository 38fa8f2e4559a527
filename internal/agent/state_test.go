package agent

import (
	"context"
	"testing"

	"github.com/askdb/askdb/internal/store"
)

func TestStepDecideRoutesToQueryDB(t *testing.T) {
	a := newTestAgent(&fakeStore{}, &fakeClient{responses: []string{"YES"}})
	turn := &TurnState{Question: "How many users signed up?"}

	next := a.Step(context.Background(), StateDecide, turn)
	if next != StateQueryDB {
		t.Fatalf("next state = %v, want %v", next, StateQueryDB)
	}
	if !turn.Decided || !turn.NeedsDB {
		t.Fatalf("turn = %+v, want decided with needs_db", turn)
	}
}

func TestStepDecideRoutesToAnswer(t *testing.T) {
	a := newTestAgent(&fakeStore{}, &fakeClient{responses: []string{"NO"}})
	turn := &TurnState{Question: "Hello"}

	next := a.Step(context.Background(), StateDecide, turn)
	if next != StateAnswer {
		t.Fatalf("next state = %v, want %v", next, StateAnswer)
	}
	if turn.NeedsDB {
		t.Fatal("NeedsDB = true, want false")
	}
}

func TestStepQueryDBProducesOutcome(t *testing.T) {
	st := &fakeStore{result: store.Result{Columns: []string{"total"}, Rows: []store.Row{{"total": int64(6)}}}}
	a := newTestAgent(st, &fakeClient{responses: []string{countProposalJSON, "six signups"}})
	turn := &TurnState{Question: "How many users signed up?"}

	next := a.Step(context.Background(), StateQueryDB, turn)
	if next != StateAnswer {
		t.Fatalf("next state = %v, want %v", next, StateAnswer)
	}
	if turn.Outcome == nil || turn.Outcome.Answer != "six signups" {
		t.Fatalf("outcome = %+v", turn.Outcome)
	}
	if turn.Outcome.Intent != "count_users" {
		t.Fatalf("outcome intent = %q", turn.Outcome.Intent)
	}
}

func TestStepAnswerUsesOutcomeVerbatim(t *testing.T) {
	a := newTestAgent(&fakeStore{}, &fakeClient{})
	turn := &TurnState{
		Question: "How many users signed up?",
		Outcome:  &Outcome{Answer: "There are 6 signups."},
	}

	next := a.Step(context.Background(), StateAnswer, turn)
	if next != StateDone {
		t.Fatalf("next state = %v, want %v", next, StateDone)
	}
	if turn.Answer != "There are 6 signups." {
		t.Fatalf("answer = %q", turn.Answer)
	}
	if a.MemoryTurns() != 1 {
		t.Fatalf("memory turns = %d, want 1", a.MemoryTurns())
	}
}

func TestStepDoneIsTerminal(t *testing.T) {
	a := newTestAgent(&fakeStore{}, &fakeClient{})
	if next := a.Step(context.Background(), StateDone, &TurnState{}); next != StateDone {
		t.Fatalf("next state = %v, want %v", next, StateDone)
	}
}

func TestStateStrings(t *testing.T) {
	tests := map[State]string{
		StateDecide:  "decide",
		StateQueryDB: "query_db",
		StateAnswer:  "answer",
		StateDone:    "done",
		State(99):    "unknown",
	}
	for state, want := range tests {
		if state.String() != want {
			t.Fatalf("State(%d).String() = %q, want %q", state, state.String(), want)
		}
	}
}
