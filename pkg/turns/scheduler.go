// Package turns hands out turns round-robin to a roster of participants.
//
// Every call to GetNextParticipant takes the participant at the head of the
// line, uses up one of its turns and puts it back at the tail while it still
// has turns left. Participants added with zero or negative turns rotate
// forever and their Turns field is never touched.
//
// A Scheduler is not safe for concurrent use; wrap it in a SyncScheduler when
// several goroutines share it.
package turns

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/i5heu/GoTurnQueue/pkg/fifo"
	"github.com/i5heu/GoTurnQueue/pkg/queueerr"
)

// ErrNoParticipants is returned by GetNextParticipant when the line is empty.
var ErrNoParticipants = queueerr.New("No one in the queue.")

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger makes the scheduler report dispatches and retirements at debug level.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// Scheduler is a FIFO line of participants taking turns.
// The zero value is an empty Scheduler ready to use.
type Scheduler struct {
	line   fifo.Queue[*Participant]
	logger logrus.FieldLogger
}

// New creates an empty Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddParticipant puts a new participant with the given number of turns at the
// back of the line and returns a copy of it. turns <= 0 means unlimited.
func (s *Scheduler) AddParticipant(name string, turns int) Participant {
	p := NewParticipant(name, turns)
	s.line.Enqueue(&p)
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"participant": p.Name,
			"id":          p.ID,
			"turns":       p.Turns,
		}).Debug("turns: participant added")
	}
	return p
}

// GetNextParticipant dispatches the participant at the head of the line.
//
// A participant with finite turns has one turn deducted and goes back to the
// tail unless that was its last turn. Infinite participants always go back and
// keep their original Turns value. The returned copy reflects the state after
// the dispatch.
func (s *Scheduler) GetNextParticipant() (Participant, error) {
	if s.line.IsEmpty() {
		return Participant{}, ErrNoParticipants
	}

	p, err := s.line.Dequeue()
	if err != nil {
		return Participant{}, err
	}

	switch {
	case p.Infinite():
		s.line.Enqueue(p)
	case p.Turns > 1:
		p.Turns--
		s.line.Enqueue(p)
	default:
		// Last turn used up, the participant leaves the rotation.
		p.Turns--
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"participant": p.Name,
				"id":          p.ID,
			}).Debug("turns: participant retired")
		}
		return *p, nil
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"participant": p.Name,
			"id":          p.ID,
			"turns":       p.Turns,
		}).Debug("turns: participant dispatched")
	}
	return *p, nil
}

// Len returns how many participants are waiting for a turn.
func (s *Scheduler) Len() int {
	return s.line.Len()
}

// IsEmpty reports whether no participant is waiting.
func (s *Scheduler) IsEmpty() bool {
	return s.line.IsEmpty()
}

// Participants returns copies of the waiting participants, head first.
func (s *Scheduler) Participants() []Participant {
	line := s.line.Items()
	out := make([]Participant, len(line))
	for i, p := range line {
		out[i] = *p
	}
	return out
}

// String renders the line as "[Bob (Turns:2), Tim (Turns:forever)]".
func (s *Scheduler) String() string {
	parts := make([]string, 0, s.line.Len())
	for _, p := range s.Participants() {
		// Everyone still waiting with Turns <= 0 is infinite.
		if p.Infinite() {
			parts = append(parts, fmt.Sprintf("%s (Turns:forever)", p.Name))
			continue
		}
		parts = append(parts, p.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
