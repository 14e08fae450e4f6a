package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/shipflow/internal/tabular"
)

type nodeSummary struct {
	NodeSet         string   `json:"node_set" yaml:"node_set"`
	Nodes           []string `json:"nodes" yaml:"nodes"`
	DestinationOnly []string `json:"destination_only" yaml:"destination_only"`
	Pairs           int      `json:"pairs" yaml:"pairs"`
}

func newNodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nodes",
		Short: "List the node set derived from the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := loadNetwork()
			if err != nil {
				return err
			}

			destOnly := make(map[string]bool, len(net.DestinationOnly))
			for _, n := range net.DestinationOnly {
				destOnly[n] = true
			}

			out := cmd.OutOrStdout()
			summary := nodeSummary{
				NodeSet:         net.Policy.String(),
				Nodes:           net.Nodes,
				DestinationOnly: net.DestinationOnly,
				Pairs:           len(net.Pairs()),
			}
			switch cfg.OutputFormat() {
			case tabular.JSON:
				return formatJSON(out, summary)
			case tabular.YAML:
				return formatYAML(out, summary)
			}

			rows := make([][]string, 0, len(net.Nodes))
			for _, n := range net.Nodes {
				rows = append(rows, []string{n, strconv.FormatBool(destOnly[n])})
			}
			formatTable(out, []string{"NODE", "DESTINATION_ONLY"}, rows)
			if excluded := excludedNodes(net.Nodes, net.DestinationOnly); len(excluded) > 0 {
				logger.WithField("nodes", strings.Join(excluded, ",")).
					Warn("destination-only nodes excluded by the origins node set")
			}

			return nil
		},
	}
}

func excludedNodes(nodes, destOnly []string) []string {
	in := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		in[n] = true
	}
	var out []string
	for _, n := range destOnly {
		if !in[n] {
			out = append(out, n)
		}
	}

	return out
}
