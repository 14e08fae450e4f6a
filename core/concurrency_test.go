// Package core_test verifies thread-safety of core.Graph under concurrent operations.
package core_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/katalvlaran/shipflow/core"
	"github.com/stretchr/testify/require"
)

// TestConcurrentAddEdge ensures that concurrent AddEdge calls
// on a graph allowing multi-edges are safe and all neighbors appear.
func TestConcurrentAddEdge(t *testing.T) {
	g := core.NewGraph(core.WithMultiEdges())
	const num = 200
	var wg sync.WaitGroup
	wg.Add(num)

	for i := 0; i < num; i++ {
		go func(id int) {
			defer wg.Done()
			_, err := g.AddEdge("X", fmt.Sprintf("V%d", id), 1, core.WithLabel("carrier"))
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	nbs, err := g.Neighbors("X")
	require.NoError(t, err)
	require.Len(t, nbs, num, "expected %d neighbors", num)

	// Seq values are unique and strictly increasing in Neighbors order.
	for i := 1; i < len(nbs); i++ {
		require.Less(t, nbs[i-1].Seq, nbs[i].Seq)
	}
}

// TestConcurrentAddRemoveEdge mixes AddEdge and RemoveEdge calls
// to verify no races or panics occur under concurrent modification.
func TestConcurrentAddRemoveEdge(t *testing.T) {
	g := core.NewGraph(core.WithMultiEdges())
	require.NoError(t, g.AddVertex("Base"))

	const rounds = 100
	var wg sync.WaitGroup
	wg.Add(2 * rounds)

	for i := 0; i < rounds; i++ {
		go func(id int) {
			defer wg.Done()
			_, _ = g.AddEdge("Base", fmt.Sprintf("V%d", id), float64(id))
		}(i)

		go func() {
			defer wg.Done()
			for _, e := range g.Edges() {
				_ = g.RemoveEdge(e.ID)
			}
		}()
	}
	wg.Wait()

	// Whatever survived must be internally consistent.
	for _, e := range g.Edges() {
		require.True(t, g.HasEdge(e.From, e.To))
	}
}

// TestConcurrentReaders runs many readers against a frozen graph.
func TestConcurrentReaders(t *testing.T) {
	g := core.NewGraph(core.WithMultiEdges())
	for i := 0; i < 50; i++ {
		_, err := g.AddEdge(fmt.Sprintf("N%d", i), fmt.Sprintf("N%d", i+1), float64(i))
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for r := 0; r < 16; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, v := range g.Vertices() {
				_, err := g.Neighbors(v)
				require.NoError(t, err)
				_, err = g.InEdges(v)
				require.NoError(t, err)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 50, g.EdgeCount())
}
