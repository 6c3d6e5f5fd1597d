package priority

import (
	"fmt"
	"strings"

	"github.com/i5heu/GoTurnQueue/pkg/queueerr"
)

// ErrEmpty is returned by Dequeue on a queue without entries.
var ErrEmpty = queueerr.New("The queue is empty.")

// Entry is a value together with the priority it was enqueued with.
type Entry struct {
	Value    string
	Priority int
}

func (e Entry) String() string {
	return fmt.Sprintf("%s (Pri:%d)", e.Value, e.Priority)
}

// Queue keeps entries in insertion order and picks the highest priority one
// on every Dequeue. Enqueue is O(1), Dequeue is O(n).
type Queue struct {
	entries []Entry
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{
		entries: make([]Entry, 0),
	}
}

// Enqueue appends value at the back, regardless of its priority.
func (q *Queue) Enqueue(value string, priority int) {
	q.entries = append(q.entries, Entry{Value: value, Priority: priority})
}

// Dequeue removes and returns the value with the highest priority.
// Among equal priorities the entry enqueued first wins.
func (q *Queue) Dequeue() (string, error) {
	if len(q.entries) == 0 {
		return "", ErrEmpty
	}

	highest := 0
	for i := 1; i < len(q.entries); i++ {
		// Strictly greater only, so the earliest of equal priorities is kept.
		if q.entries[i].Priority > q.entries[highest].Priority {
			highest = i
		}
	}

	value := q.entries[highest].Value
	q.entries = append(q.entries[:highest], q.entries[highest+1:]...)
	return value, nil
}

// Len returns the number of queued entries.
func (q *Queue) Len() int {
	return len(q.entries)
}

// IsEmpty reports whether Len is zero.
func (q *Queue) IsEmpty() bool {
	return len(q.entries) == 0
}

// Entries returns a copy of the queued entries in insertion order.
func (q *Queue) Entries() []Entry {
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

// String renders the queue as "[Apple (Pri:5), Banana (Pri:1)]".
func (q *Queue) String() string {
	parts := make([]string, len(q.entries))
	for i, e := range q.entries {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
