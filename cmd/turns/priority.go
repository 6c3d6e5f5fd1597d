package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/i5heu/GoTurnQueue/internal/queue"
	"github.com/i5heu/GoTurnQueue/pkg/priority"
	"github.com/i5heu/GoTurnQueue/pkg/priorityheap"
)

// PriorityCommand enqueues entries and prints the order they come back out.
type PriorityCommand struct {
	Logger *log.Logger
}

func (cmd PriorityCommand) Command() *cobra.Command {
	var (
		entries []string
		useHeap bool
	)

	c := &cobra.Command{
		Use:     "priority",
		Short:   "print the dequeue order of prioritised entries",
		Example: "  turns priority -e Apple:5 -e Banana:1 -e Orange:5 -e Grape:3",
		RunE: func(c *cobra.Command, _ []string) error {
			if useHeap {
				return drainPriority(cmd.Logger, c.OutOrStdout(), priorityheap.New(), entries)
			}
			return drainPriority(cmd.Logger, c.OutOrStdout(), priority.New(), entries)
		},
	}
	c.Flags().StringArrayVarP(&entries, "entry", "e", nil, "entry as value:priority")
	c.Flags().BoolVar(&useHeap, "heap", false, "use the heap backed queue")
	return c
}

func drainPriority[Q queue.PriorityValidationInterface](logger log.FieldLogger, out io.Writer, q Q, specs []string) error {
	if len(specs) == 0 {
		return errors.New("no entries given, use -e value:priority")
	}
	for _, spec := range specs {
		value, prio, err := parsePair(spec)
		if err != nil {
			return err
		}
		q.Enqueue(value, prio)
	}
	logger.WithField("queue", fmt.Sprint(q)).Debug("priority: loaded")

	for n := 1; !q.IsEmpty(); n++ {
		v, err := q.Dequeue()
		if err != nil {
			return errors.Wrap(err, "priority: dequeue")
		}
		fmt.Fprintf(out, "%d: %s\n", n, v)
	}
	return nil
}
