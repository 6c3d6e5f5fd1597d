package fifo

import (
	"fmt"
	"strings"

	"github.com/i5heu/GoTurnQueue/pkg/queueerr"
)

// ErrEmpty is returned by Dequeue on a queue without elements.
var ErrEmpty = queueerr.New("Cannot dequeue from an empty queue.")

// Queue is an unbounded first-in-first-out queue backed by a ring buffer.
// It is not safe for concurrent use.
type Queue[T any] struct {
	buffer []T
	mask   uint64
	head   uint64 // position of the oldest element
	tail   uint64 // position the next element is written to
}

// New creates a new Queue with room for capacity elements before it grows.
// The capacity is rounded up to a power of 2.
func New[T any](capacity uint64) *Queue[T] {
	capacity = roundPow2(capacity)
	return &Queue[T]{
		buffer: make([]T, capacity),
		mask:   capacity - 1,
	}
}

func roundPow2(capacity uint64) uint64 {
	if capacity < 2 {
		return 2
	}
	if capacity&(capacity-1) != 0 {
		capPow := uint64(1)
		for capPow < capacity {
			capPow <<= 1
		}
		capacity = capPow
	}
	return capacity
}

// Enqueue appends val at the tail. It never fails; a full buffer is doubled.
func (q *Queue[T]) Enqueue(val T) {
	if q.buffer == nil {
		*q = *New[T](0)
	}
	if q.tail-q.head == uint64(len(q.buffer)) {
		q.grow()
	}
	q.buffer[q.tail&q.mask] = val
	q.tail++
}

// Dequeue removes and returns the element at the head.
// On an empty queue it returns ErrEmpty and leaves the queue untouched.
func (q *Queue[T]) Dequeue() (T, error) {
	var zero T
	if q.head == q.tail {
		return zero, ErrEmpty
	}
	cell := &q.buffer[q.head&q.mask]
	ret := *cell
	// Release the reference so the GC can reclaim it.
	*cell = zero
	q.head++
	return ret, nil
}

// Len returns how many elements are currently queued.
func (q *Queue[T]) Len() int {
	return int(q.tail - q.head)
}

// IsEmpty reports whether Len is zero.
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

// Items returns a copy of the queued elements from head to tail.
func (q *Queue[T]) Items() []T {
	items := make([]T, 0, q.Len())
	for pos := q.head; pos != q.tail; pos++ {
		items = append(items, q.buffer[pos&q.mask])
	}
	return items
}

// String renders the queue as "[a, b, c]". Meant for debugging only.
func (q *Queue[T]) String() string {
	parts := make([]string, 0, q.Len())
	for _, item := range q.Items() {
		parts = append(parts, fmt.Sprint(item))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// grow doubles the buffer and unrolls the live elements to the front.
func (q *Queue[T]) grow() {
	capacity := uint64(len(q.buffer)) << 1
	buffer := make([]T, capacity)
	n := q.tail - q.head
	for i := uint64(0); i < n; i++ {
		buffer[i] = q.buffer[(q.head+i)&q.mask]
	}
	q.buffer = buffer
	q.mask = capacity - 1
	q.head = 0
	q.tail = n
}
