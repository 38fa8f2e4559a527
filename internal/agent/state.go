package agent

// State identifies a node in the per-turn state machine:
// Decide -> {QueryDB -> Answer | Answer} -> Done.
type State int

const (
	StateDecide State = iota
	StateQueryDB
	StateAnswer
	StateDone
)

func (s State) String() string {
	switch s {
	case StateDecide:
		return "decide"
	case StateQueryDB:
		return "query_db"
	case StateAnswer:
		return "answer"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// TurnState is the mutable working record for one in-flight turn. It is
// created fresh per turn and discarded once the answer has been appended
// to memory.
type TurnState struct {
	Question string
	Decided  bool
	NeedsDB  bool
	Outcome  *Outcome
	Answer   string
}
