package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/wippyai/palrtos"
	"github.com/wippyai/palrtos/threads"
)

func newPrioritiesCmd(root *rootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "priorities",
		Short: "Print the abstract to SCHED_RR priority mapping",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.config()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			r, err := palrtos.New(cfg)
			if err != nil {
				return err
			}
			defer r.Close()

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("LEVEL", "PRIORITY", "HOST")
			for p := range threads.Priority(threads.NumPriorities) {
				t.Row(strconv.Itoa(int(p)), p.String(), strconv.Itoa(r.TranslatePriority(p)))
			}

			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}
