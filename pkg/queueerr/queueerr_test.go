package queueerr_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/i5heu/GoTurnQueue/pkg/queueerr"
)

func TestEmptyQueueError(t *testing.T) {
	t.Run("message is kept verbatim", func(t *testing.T) {
		err := queueerr.New("The queue is empty.")
		assert.EqualError(t, err, "The queue is empty.")
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		sentinel := queueerr.New("No one in the queue.")
		wrapped := errors.Wrap(sentinel, "dispatch")

		assert.True(t, queueerr.Is(wrapped))
		assert.True(t, errors.Is(wrapped, sentinel))
		assert.Equal(t, sentinel, errors.Cause(wrapped))
	})

	t.Run("other errors do not match", func(t *testing.T) {
		assert.False(t, queueerr.Is(errors.New("boom")))
		assert.False(t, queueerr.Is(nil))
	})

	t.Run("sentinels are distinct", func(t *testing.T) {
		a := queueerr.New("same")
		b := queueerr.New("same")
		assert.False(t, errors.Is(a, b))
	})
}
