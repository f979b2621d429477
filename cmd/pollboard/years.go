package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/pollboard/poll"
)

// NewYearsCommand creates the years command.
func NewYearsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List the years found in thread tags, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.config()
			if err != nil {
				return err
			}
			snap, err := rootOpts.fetch(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			for _, y := range poll.ExtractYears(snap.Posts) {
				fmt.Fprintln(cmd.OutOrStdout(), y)
			}
			return nil
		},
	}
}
