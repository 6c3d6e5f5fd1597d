package turns

import "sync"

// SyncScheduler guards a Scheduler with a mutex so it can be shared between
// goroutines. Each method holds the lock for the whole call.
type SyncScheduler struct {
	mu sync.Mutex
	s  *Scheduler
}

// NewSync creates a SyncScheduler around a fresh Scheduler.
func NewSync(opts ...Option) *SyncScheduler {
	return &SyncScheduler{s: New(opts...)}
}

// AddParticipant adds a participant under the lock, see Scheduler.AddParticipant.
func (ss *SyncScheduler) AddParticipant(name string, turns int) Participant {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.s.AddParticipant(name, turns)
}

// GetNextParticipant dispatches under the lock, see Scheduler.GetNextParticipant.
func (ss *SyncScheduler) GetNextParticipant() (Participant, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.s.GetNextParticipant()
}

// Len returns how many participants are waiting.
func (ss *SyncScheduler) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.s.Len()
}

// IsEmpty reports whether no participant is waiting.
func (ss *SyncScheduler) IsEmpty() bool {
	return ss.Len() == 0
}

// Participants returns copies of the waiting participants, head first.
func (ss *SyncScheduler) Participants() []Participant {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.s.Participants()
}

// String renders the line like Scheduler.String.
func (ss *SyncScheduler) String() string {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.s.String()
}
