package turns

import (
	"fmt"

	"github.com/google/uuid"
)

// Participant is one entry in the turn rotation.
// Names are not unique; ID tells two entries with the same name apart.
type Participant struct {
	ID    uuid.UUID
	Name  string
	Turns int // remaining turns, <= 0 means the participant never runs out
}

// NewParticipant creates a Participant with a fresh ID.
func NewParticipant(name string, turns int) Participant {
	return Participant{
		ID:    uuid.New(),
		Name:  name,
		Turns: turns,
	}
}

// Infinite reports whether p has an unlimited number of turns.
// A participant returned from its last dispatch also has zero Turns, so this
// only holds for participants that are still in the line.
func (p Participant) Infinite() bool {
	return p.Turns <= 0
}

func (p Participant) String() string {
	return fmt.Sprintf("%s (Turns:%d)", p.Name, p.Turns)
}
