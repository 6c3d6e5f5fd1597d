package testbench

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/i5heu/GoTurnQueue/internal/queue"
)

// Config describes the shape of one benchmark run.
type Config struct {
	// RosterSize is how many entries are loaded before the container is drained.
	RosterSize int
	// MaxTurns is the turn budget each scheduler participant gets; <= 0 is unlimited.
	MaxTurns int
	// PriorityLevels is how many distinct priorities the priority workloads cycle through.
	PriorityLevels int
}

// Workload puts a container behind a uniform load/dispatch surface so every
// implementation can be timed by the same loop.
type Workload interface {
	// Load inserts the i-th generated entry.
	Load(i int)
	// Next removes one entry the way the container defines it.
	Next() error
	// Len returns how many entries are waiting.
	Len() int
}

type fifoWorkload[T any, Q queue.QueueValidationInterface[T]] struct {
	q   Q
	gen func(int) T
}

// FIFO wraps a FIFO queue. gen produces the value enqueued for index i.
func FIFO[T any, Q queue.QueueValidationInterface[T]](q Q, gen func(int) T) Workload {
	return &fifoWorkload[T, Q]{q: q, gen: gen}
}

func (w *fifoWorkload[T, Q]) Load(i int) { w.q.Enqueue(w.gen(i)) }
func (w *fifoWorkload[T, Q]) Len() int   { return w.q.Len() }
func (w *fifoWorkload[T, Q]) Next() error {
	_, err := w.q.Dequeue()
	return err
}

type priorityWorkload[Q queue.PriorityValidationInterface] struct {
	q      Q
	levels int
}

// Priority wraps a priority queue. Entries cycle through levels priorities.
func Priority[Q queue.PriorityValidationInterface](q Q, levels int) Workload {
	if levels < 1 {
		levels = 1
	}
	return &priorityWorkload[Q]{q: q, levels: levels}
}

func (w *priorityWorkload[Q]) Load(i int) { w.q.Enqueue("entry", (i*7919)%w.levels) }
func (w *priorityWorkload[Q]) Len() int   { return w.q.Len() }
func (w *priorityWorkload[Q]) Next() error {
	_, err := w.q.Dequeue()
	return err
}

type schedulerWorkload[P any, S queue.SchedulerValidationInterface[P]] struct {
	s        S
	maxTurns int
}

// Scheduler wraps a turn scheduler. Participant i gets 1 + i%maxTurns turns,
// or unlimited turns when maxTurns <= 0.
func Scheduler[P any, S queue.SchedulerValidationInterface[P]](s S, maxTurns int) Workload {
	return &schedulerWorkload[P, S]{s: s, maxTurns: maxTurns}
}

func (w *schedulerWorkload[P, S]) Load(i int) {
	turns := 0
	if w.maxTurns > 0 {
		turns = 1 + i%w.maxTurns
	}
	w.s.AddParticipant("participant", turns)
}
func (w *schedulerWorkload[P, S]) Len() int { return w.s.Len() }
func (w *schedulerWorkload[P, S]) Next() error {
	_, err := w.s.GetNextParticipant()
	return err
}

// RunTimedTest repeatedly fills the workload up to cfg.RosterSize and drains
// it again until testDuration has passed. A workload that never drains
// (unlimited turns) is dispatched until the deadline.
// Returns the total entries loaded, total dispatched, and the actual elapsed time.
func RunTimedTest(w Workload, cfg Config, testDuration time.Duration) (loadedCount int64, dispatchedCount int64, elapsed time.Duration, err error) {
	start := time.Now()

	// Create a context that will cancel after testDuration.
	ctx, cancel := context.WithTimeout(context.Background(), testDuration)
	defer cancel()

	roster := cfg.RosterSize
	if roster < 1 {
		roster = 1
	}

	// done is set once the test duration expires.
	var done atomic.Bool
	go func() {
		<-ctx.Done()
		done.Store(true)
	}()

	idx := 0
	for !done.Load() {
		for w.Len() < roster {
			w.Load(idx)
			idx++
			loadedCount++
		}
		for w.Len() > 0 && !done.Load() {
			if err := w.Next(); err != nil {
				return loadedCount, dispatchedCount, time.Since(start),
					errors.Wrapf(err, "testbench: dispatch %d failed", dispatchedCount)
			}
			dispatchedCount++
		}
	}

	elapsed = time.Since(start)
	return loadedCount, dispatchedCount, elapsed, nil
}
