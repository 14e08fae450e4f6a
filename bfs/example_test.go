package bfs_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/shipflow/bfs"
	"github.com/katalvlaran/shipflow/core"
)

// ExampleBFS shows hop layering over a small one-way network.
func ExampleBFS() {
	g := core.NewGraph(core.WithMultiEdges())
	_, _ = g.AddEdge("A", "B", 5, core.WithLabel("UPS"))
	_, _ = g.AddEdge("A", "C", 1, core.WithLabel("DHL"))
	_, _ = g.AddEdge("B", "D", 1, core.WithLabel("UPS"))
	_, _ = g.AddEdge("C", "D", 1, core.WithLabel("DHL"))

	res, err := bfs.BFS(g, "A")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Order)
	fmt.Println(res.Hops["D"], res.ParentArc["D"].Label)
	// Output:
	// [A B C D]
	// 2 UPS
}

// ExampleReachable shows that arcs are one-way.
func ExampleReachable() {
	g := core.NewGraph()
	_, _ = g.AddEdge("A", "B", 1)

	fwd, _ := bfs.Reachable(context.Background(), g, "A", "B")
	back, _ := bfs.Reachable(context.Background(), g, "B", "A")
	fmt.Println(fwd, back)
	// Output:
	// true false
}
