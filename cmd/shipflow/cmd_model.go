package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/shipflow/balance"
	"github.com/katalvlaran/shipflow/model"
)

func newModelCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "model <from> <to>",
		Short: "Print the min-cost flow model of one pair in DIMACS format",
		Long: `Build the flow model for one (source, sink) pair and write it as a DIMACS
min-cost flow problem. Node numbers follow the sorted node set; the comment
lines map them back to names.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := loadNetwork()
			if err != nil {
				return err
			}
			b, err := balance.Build(args[0], args[1], net.Nodes)
			if err != nil {
				return err
			}
			m, err := model.Build(b, net.Catalog, net.Nodes, model.WithConservation(cfg.Sense()))
			if err != nil {
				return err
			}

			if outputPath == "" || outputPath == "-" {
				return m.WriteDIMACS(os.Stdout)
			}
			f, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outputPath, err)
			}
			if err := m.WriteDIMACS(f); err != nil {
				_ = f.Close()
				return fmt.Errorf("writing %s: %w", outputPath, err)
			}

			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")

	return cmd
}
