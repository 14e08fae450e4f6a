package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/shipflow/batch"
)

func newRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Solve a single pair and print its record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := loadNetwork()
			if err != nil {
				return err
			}
			d, err := newDriver(net)
			if err != nil {
				return err
			}

			rec, err := d.SolvePair(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if err := writeRecords("-", []batch.Record{rec}); err != nil {
				return err
			}

			return rec.Err
		},
	}
}
