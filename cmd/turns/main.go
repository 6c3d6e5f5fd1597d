package main

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := log.New()

	root := newRootCommand(logger)
	if err := root.ExecuteContext(ctx); err != nil {
		logger.WithContext(ctx).Fatalf("turns: %v", err)
	}
}

func newRootCommand(logger *log.Logger) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "turns",
		Short:         "Replay a roster through the turn scheduler or a priority queue",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every dispatch")

	root.AddCommand(
		RunCommand{Logger: logger}.Command(),
		PriorityCommand{Logger: logger}.Command(),
	)
	return root
}
