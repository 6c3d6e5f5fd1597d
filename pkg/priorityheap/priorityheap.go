// Package priorityheap is a heap backed variant of package priority.
//
// Entries are ordered by priority first and by an insertion sequence number
// second, which gives the same earliest-wins tie-break as the linear scan in
// package priority while keeping Enqueue and Dequeue at O(log n).
package priorityheap

import (
	"container/heap"
	"sort"
	"strings"

	"github.com/i5heu/GoTurnQueue/pkg/priority"
)

// ErrEmpty is the same sentinel package priority returns, so callers can
// match either queue with one errors.Is check.
var ErrEmpty = priority.ErrEmpty

type item struct {
	entry priority.Entry
	seq   uint64
}

type entryHeap []*item

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].entry.Priority != h[j].entry.Priority {
		return h[i].entry.Priority > h[j].entry.Priority
	}
	return h[i].seq < h[j].seq
}
func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *entryHeap) Push(x any) {
	*h = append(*h, x.(*item))
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// Queue is a max-priority queue with FIFO ordering among equal priorities.
type Queue struct {
	items   entryHeap
	nextSeq uint64
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{}
}

// Enqueue adds value with the given priority.
func (q *Queue) Enqueue(value string, prio int) {
	heap.Push(&q.items, &item{
		entry: priority.Entry{Value: value, Priority: prio},
		seq:   q.nextSeq,
	})
	q.nextSeq++
}

// Dequeue removes and returns the value with the highest priority.
func (q *Queue) Dequeue() (string, error) {
	if len(q.items) == 0 {
		return "", ErrEmpty
	}
	it := heap.Pop(&q.items).(*item)
	return it.entry.Value, nil
}

// Len returns the number of queued entries.
func (q *Queue) Len() int { return len(q.items) }

// IsEmpty reports whether Len is zero.
func (q *Queue) IsEmpty() bool { return len(q.items) == 0 }

// Entries returns the queued entries in insertion order.
func (q *Queue) Entries() []priority.Entry {
	sorted := make([]*item, len(q.items))
	copy(sorted, q.items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].seq < sorted[j].seq })

	out := make([]priority.Entry, len(sorted))
	for i, it := range sorted {
		out[i] = it.entry
	}
	return out
}

// String renders the queue in insertion order, like priority.Queue does.
func (q *Queue) String() string {
	entries := q.Entries()
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
