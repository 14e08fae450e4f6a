package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteDIMACS writes the model as a DIMACS minimum-cost flow problem.
//
// Nodes are numbered from 1 in node-set order, followed by any destination
// outside the node set. Each node line carries its excess (supply − demand);
// each arc line carries "src dst low cap cost". Costs are written in their
// shortest decimal form, so fractional costs are preserved at the expense of
// strict integer DIMACS.
func (m *FlowModel) WriteDIMACS(w io.Writer) error {
	ids := make(map[string]int, len(m.Nodes))
	names := make([]string, 0, len(m.Nodes))
	assign := func(n string) {
		if _, ok := ids[n]; !ok {
			names = append(names, n)
			ids[n] = len(names)
		}
	}
	for _, n := range m.Nodes {
		assign(n)
	}
	for _, v := range m.Variables {
		assign(v.Arc.Destination)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, "c ===========================\n")
	fmt.Fprintf(bw, "c shipment %s -> %s (%s)\n", m.Source, m.Sink, m.Sense)
	fmt.Fprintf(bw, "p min %d %d\n", len(names), len(m.Variables))
	fmt.Fprint(bw, "c ===========================\n")

	fmt.Fprint(bw, "c === ALL NODES FOLLOW ===\n")
	for _, n := range names {
		fmt.Fprintf(bw, "c nd %s\n", n)
		fmt.Fprintf(bw, "n %d %d\n", ids[n], m.Balances.Net(n))
	}

	fmt.Fprint(bw, "c === ALL ARCS FOLLOW ===\n")
	for _, v := range m.Variables {
		fmt.Fprintf(bw, "c arc %s\n", v.Arc)
		fmt.Fprintf(bw, "a %d %d %d %d %s\n",
			ids[v.Arc.Origin], ids[v.Arc.Destination], v.Lower, v.Upper,
			strconv.FormatFloat(v.Cost, 'f', -1, 64))
	}

	fmt.Fprint(bw, "c EOI\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("model: write dimacs: %w", err)
	}

	return nil
}
