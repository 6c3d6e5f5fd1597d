package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/i5heu/GoTurnQueue/pkg/turns"
)

// RunCommand dispatches a roster until it is exhausted or --max is reached.
type RunCommand struct {
	Logger *log.Logger
}

type runOptions struct {
	participants []string
	late         []string
	addAfter     int
	max          int
}

func (cmd RunCommand) Command() *cobra.Command {
	var opts runOptions

	c := &cobra.Command{
		Use:   "run",
		Short: "dispatch participants round-robin",
		Example: "  turns run -p Bob:2 -p Tim:5 -p Sue:3\n" +
			"  turns run -p Bob:2 -p Tim:0 --max 11\n" +
			"  turns run -p Bob:2 -p Tim:5 -p Sue:3 --add-after 5 --add George:3",
		RunE: func(c *cobra.Command, _ []string) error {
			return cmd.main(c.Context(), c.OutOrStdout(), opts)
		},
	}
	c.Flags().StringArrayVarP(&opts.participants, "participant", "p", nil, "participant as name:turns, turns <= 0 never runs out")
	c.Flags().StringArrayVar(&opts.late, "add", nil, "participant (name:turns) added after --add-after dispatches")
	c.Flags().IntVar(&opts.addAfter, "add-after", 0, "number of dispatches before --add participants join")
	c.Flags().IntVar(&opts.max, "max", 100, "stop after this many dispatches; 0 means until the line is empty")
	return c
}

func (cmd RunCommand) main(ctx context.Context, out io.Writer, opts runOptions) error {
	roster, err := parseRoster(opts.participants)
	if err != nil {
		return err
	}
	late, err := parseRoster(opts.late)
	if err != nil {
		return errors.Wrap(err, "--add")
	}
	if len(roster) == 0 && len(late) == 0 {
		return errors.New("no participants given, use -p name:turns")
	}

	s := turns.New(turns.WithLogger(cmd.Logger))
	for _, r := range roster {
		s.AddParticipant(r.name, r.count)
	}

	if len(late) > 0 && opts.max > 0 && opts.addAfter > opts.max {
		return errors.Errorf("--add-after %d is beyond --max %d, --add participants would never join", opts.addAfter, opts.max)
	}

	// Late participants join before the first dispatch when --add-after is 0.
	if opts.addAfter <= 0 {
		addAll(s, late)
		late = nil
	}

	for n := 1; opts.max <= 0 || n <= opts.max; n++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p, err := s.GetNextParticipant()
		if err != nil {
			// Line exhausted; anyone still waiting to join can't be reached anymore.
			if len(late) > 0 {
				return errors.Wrapf(err, "line emptied after %d dispatches, before --add-after %d", n-1, opts.addAfter)
			}
			break
		}
		fmt.Fprintf(out, "%d: %s\n", n, p)

		if n == opts.addAfter {
			addAll(s, late)
			late = nil
		}
	}

	fmt.Fprintf(out, "remaining: %s\n", s)
	return nil
}

func addAll(s *turns.Scheduler, entries []rosterEntry) {
	for _, e := range entries {
		s.AddParticipant(e.name, e.count)
	}
}

type rosterEntry struct {
	name  string
	count int
}

func parseRoster(specs []string) ([]rosterEntry, error) {
	out := make([]rosterEntry, 0, len(specs))
	for _, spec := range specs {
		name, count, err := parsePair(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, rosterEntry{name: name, count: count})
	}
	return out, nil
}

// parsePair splits "name:number". The name may itself contain colons;
// the number is taken after the last one.
func parsePair(spec string) (string, int, error) {
	i := strings.LastIndex(spec, ":")
	if i <= 0 || i == len(spec)-1 {
		return "", 0, errors.Errorf("invalid entry %q, expected name:number", spec)
	}
	n, err := strconv.Atoi(strings.TrimSpace(spec[i+1:]))
	if err != nil {
		return "", 0, errors.Wrapf(err, "invalid number in %q", spec)
	}
	return spec[:i], n, nil
}
