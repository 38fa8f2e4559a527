package agent

// Turn is one completed question/answer exchange. Immutable once appended.
type Turn struct {
	Question string
	Answer   string
}

// Memory holds the session's turn history in insertion order, oldest first.
// It grows for the lifetime of the session; only the most recent few turns
// are ever read for prompt context. Nothing is persisted across restarts.
type Memory struct {
	turns []Turn
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Append(turn Turn) {
	m.turns = append(m.turns, turn)
}

func (m *Memory) Reset() {
	m.turns = nil
}

func (m *Memory) Len() int {
	return len(m.turns)
}

// Recent returns a copy of the last count turns, oldest first.
func (m *Memory) Recent(count int) []Turn {
	if count <= 0 || len(m.turns) == 0 {
		return nil
	}
	if count > len(m.turns) {
		count = len(m.turns)
	}
	recent := make([]Turn, count)
	copy(recent, m.turns[len(m.turns)-count:])
	return recent
}
