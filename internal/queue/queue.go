package queue

// QueueValidationInterface is a *type constraint* that ensures any FIFO type Q
// has these methods. Q is never stored in a runtime interface; the constraint
// only makes the compiler check matching signatures.
type QueueValidationInterface[T any] interface {
	// Enqueue adds an element at the tail. It never fails.
	Enqueue(T)

	// Dequeue removes and returns the oldest element.
	// If the queue is empty it must return an empty T and an EmptyQueueError.
	Dequeue() (T, error)

	// Len returns how many elements are currently queued.
	Len() int

	// IsEmpty reports whether Len is zero.
	IsEmpty() bool
}

// PriorityValidationInterface is the same kind of constraint for priority queues.
type PriorityValidationInterface interface {
	// Enqueue adds value with the given priority.
	Enqueue(value string, priority int)

	// Dequeue removes the value with the highest priority; ties go to the
	// entry enqueued first.
	Dequeue() (string, error)

	Len() int
	IsEmpty() bool
}

// SchedulerValidationInterface is the constraint for turn schedulers.
// P is the participant type handed out on every dispatch.
type SchedulerValidationInterface[P any] interface {
	AddParticipant(name string, turns int) P
	GetNextParticipant() (P, error)
	Len() int
	IsEmpty() bool
}
