// Package shipflow computes least-cost shipment routes between every ordered pair
// of locations in a multi-carrier network.
//
// Each carrier offers directed arcs {carrier, origin, destination, cost}. For a
// (source, sink) pair the network is cast as a minimum-cost unit flow over binary
// arc-usage variables, solved, and the activated arcs are stitched back into the
// route a parcel would actually travel.
//
// Under the hood, everything is organized under these subpackages:
//
//	core/      thread-safe directed multigraph (carrier-labelled, float costs)
//	bfs/       directed reachability
//	dijkstra/  single-source shortest paths with edge-level predecessors
//	flow/      min-cost flow by successive shortest paths
//	catalog/   arc catalog and node-set policy
//	balance/   per-pair supply/demand
//	model/     min-cost-flow formulation, feasibility check, DIMACS export
//	solver/    solver adapter and backends (dijkstra, ssp, ilp)
//	route/     path reconstruction from activated arcs
//	batch/     all-pairs driver with a worker pool
//
// This root package holds the error taxonomy shared by all of them:
//
//	ErrValidation  malformed or inconsistent input (fatal for a batch)
//	ErrInfeasible  no flow satisfies the constraints (pair is disconnected)
//	ErrTimeout     a solve exceeded its budget
//	ErrPath        activated arcs do not form a single simple path
//	ErrModel       a solver returned an assignment that violates the model
//
// Quick example:
//
//	A ──DHL:2──▶ B ──UPS:1──▶ C
//	A ──DHL:5──────────────▶ C
//
// routes A→C through B for a total cost of 3 in 2 hops.
package shipflow
