package turns_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/i5heu/GoTurnQueue/pkg/turns"
)

func TestNewParticipant(t *testing.T) {
	t.Run("finite", func(t *testing.T) {
		p := turns.NewParticipant("Sue", 3)

		assert.Equal(t, "Sue", p.Name)
		assert.Equal(t, 3, p.Turns)
		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.False(t, p.Infinite())
		assert.Equal(t, "Sue (Turns:3)", p.String())
	})

	t.Run("zero and negative are infinite", func(t *testing.T) {
		assert.True(t, turns.NewParticipant("Tim", 0).Infinite())
		assert.True(t, turns.NewParticipant("Tim", -3).Infinite())
	})

	t.Run("ids differ for equal names", func(t *testing.T) {
		a := turns.NewParticipant("Bob", 1)
		b := turns.NewParticipant("Bob", 1)
		assert.NotEqual(t, a.ID, b.ID)
	})
}
