package fifo_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i5heu/GoTurnQueue/pkg/fifo"
	"github.com/i5heu/GoTurnQueue/pkg/queueerr"
)

func TestBasicFIFO(t *testing.T) {
	q := fifo.New[int](4)

	const N = 1000
	for i := 0; i < N; i++ {
		q.Enqueue(i)
	}
	require.Equal(t, N, q.Len())

	for i := 0; i < N; i++ {
		v, err := q.Dequeue()
		require.NoError(t, err)
		require.Equal(t, i, v, "dequeue %d out of order", i)
	}
	assert.True(t, q.IsEmpty())
}

func TestEmptyQueue(t *testing.T) {
	q := fifo.New[string](8)

	_, err := q.Dequeue()
	require.Error(t, err)
	assert.ErrorIs(t, err, fifo.ErrEmpty)
	assert.True(t, queueerr.Is(err))
	assert.EqualError(t, err, "Cannot dequeue from an empty queue.")
	assert.Equal(t, 0, q.Len())

	q.Enqueue("a")
	_, err = q.Dequeue()
	require.NoError(t, err)

	// Repeated failures must not corrupt the counters.
	for i := 0; i < 10; i++ {
		_, err = q.Dequeue()
		assert.True(t, errors.Is(err, fifo.ErrEmpty))
	}
	assert.Equal(t, 0, q.Len())

	q.Enqueue("b")
	v, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "b", v)
}

func TestZeroValueQueue(t *testing.T) {
	var q fifo.Queue[int]
	assert.True(t, q.IsEmpty())

	_, err := q.Dequeue()
	assert.ErrorIs(t, err, fifo.ErrEmpty)

	q.Enqueue(7)
	q.Enqueue(8)
	v, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 1, q.Len())
}

func TestInterleavedOrder(t *testing.T) {
	q := fifo.New[int](2)
	rng := rand.New(rand.NewSource(42))

	next, expect := 0, 0
	for step := 0; step < 10000; step++ {
		if rng.Intn(3) > 0 || q.IsEmpty() {
			q.Enqueue(next)
			next++
			continue
		}
		v, err := q.Dequeue()
		require.NoError(t, err)
		require.Equal(t, expect, v)
		expect++
	}
	assert.Equal(t, next-expect, q.Len())

	for !q.IsEmpty() {
		v, err := q.Dequeue()
		require.NoError(t, err)
		require.Equal(t, expect, v)
		expect++
	}
	assert.Equal(t, next, expect)
}

func TestWrapAroundGrow(t *testing.T) {
	q := fifo.New[int](4)

	// Move head into the middle of the buffer before forcing a grow.
	for i := 0; i < 3; i++ {
		q.Enqueue(i)
	}
	for i := 0; i < 2; i++ {
		_, err := q.Dequeue()
		require.NoError(t, err)
	}
	for i := 3; i < 20; i++ {
		q.Enqueue(i)
	}

	assert.Equal(t, 18, q.Len())
	for i := 2; i < 20; i++ {
		v, err := q.Dequeue()
		require.NoError(t, err)
		require.Equal(t, i, v)
	}
}

func TestReinsertGoesToTail(t *testing.T) {
	q := fifo.New[string](4)
	q.Enqueue("Bob")
	q.Enqueue("Tim")
	q.Enqueue("Sue")

	head, err := q.Dequeue()
	require.NoError(t, err)
	q.Enqueue(head)

	assert.Equal(t, []string{"Tim", "Sue", "Bob"}, q.Items())
}

func TestDuplicatesAreKept(t *testing.T) {
	q := fifo.New[string](4)
	q.Enqueue("Bob")
	q.Enqueue("Bob")
	assert.Equal(t, 2, q.Len())
}

func TestString(t *testing.T) {
	q := fifo.New[string](4)
	assert.Equal(t, "[]", q.String())

	q.Enqueue("a")
	q.Enqueue("b")
	q.Enqueue("c")
	assert.Equal(t, "[a, b, c]", q.String())

	// Rendering must not consume anything.
	assert.Equal(t, 3, q.Len())
}

func BenchmarkEnqueueDequeue(b *testing.B) {
	q := fifo.New[int](1024)
	for i := 0; i < b.N; i++ {
		q.Enqueue(i)
		if _, err := q.Dequeue(); err != nil {
			b.Fatal(err)
		}
	}
}
