package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/palrtos"
	"github.com/wippyai/palrtos/threads"
)

type rootArgs struct {
	verbose      bool
	inheritSched bool
	threshold    uint32
}

func newRootCmd() *cobra.Command {
	args := &rootArgs{}

	cmd := &cobra.Command{
		Use:           "palmon",
		Short:         "Timer bench and priority inspection for palrtos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&args.verbose, "verbose", "v", false, "Log library events to stderr")
	cmd.PersistentFlags().BoolVar(&args.inheritSched, "inherit-sched", false,
		"Keep the process scheduling policy instead of SCHED_RR (no CAP_SYS_NICE needed)")
	cmd.PersistentFlags().Uint32Var(&args.threshold, "fine-threshold", 0,
		"Largest periodic interval in ms served by the fine-grained thread (0 for the default)")

	cmd.AddCommand(newBenchCmd(args), newPrioritiesCmd(args))
	return cmd
}

func (a *rootArgs) logger() (*zap.Logger, error) {
	if !a.verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func (a *rootArgs) config() (palrtos.Config, error) {
	log, err := a.logger()
	if err != nil {
		return palrtos.Config{}, err
	}

	cfg := palrtos.Config{
		Logger:               log,
		FineGrainedThreshold: a.threshold,
	}
	if a.inheritSched {
		cfg.Scheduling = threads.SchedulingInherit
	}
	return cfg, nil
}
