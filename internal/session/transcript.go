package session

// bounded ordered conversation history. When appending would exceed the cap,
// the oldest turn is evicted first; the retained turns always keep their
// original relative order.
type Transcript struct {
	capacity int
	turns    []Turn
}

func NewTranscript(capacity int) *Transcript {
	if capacity <= 0 {
		capacity = DefaultTranscriptCap
	}

	return &Transcript{
		capacity: capacity,
		turns:    make([]Turn, 0, capacity),
	}
}

// appends a turn, evicting the oldest turns if the cap would be exceeded
func (t *Transcript) Append(turn Turn) {
	if len(t.turns) >= t.capacity {
		overflow := len(t.turns) - t.capacity + 1
		t.turns = append(t.turns[:0], t.turns[overflow:]...)
	}

	t.turns = append(t.turns, turn)
}

func (t *Transcript) Len() int {
	return len(t.turns)
}

func (t *Transcript) Cap() int {
	return t.capacity
}

// returns a copy of the turns in append order
func (t *Transcript) Turns() []Turn {
	snapshot := make([]Turn, len(t.turns))
	copy(snapshot, t.turns)

	return snapshot
}
