// Package dag provides the layering DAG of a leveled control-flow graph.
//
// # Overview
//
// Leveling discards back edges to break cycles. What remains is a directed
// acyclic graph in which every node sits on a row (its level) and every edge
// points to a strictly higher row. This package materializes that graph so
// it can be checked and queried:
//
//	l := graph.Level(g)
//	d := dag.FromLeveled(l)
//	if err := d.Validate(); err != nil {
//	    // leveling produced an invalid layering
//	}
//
// Unlike a strict Sugiyama layering, edges may span several rows. [DAG.LongEdges]
// lists them; the renderers use the span to size edges. [DAG.Subdivide]
// replaces them by chains of virtual nodes, which [DAG.Crossings] relies on
// to count crossings in every row an edge passes.
//
// # Checks
//
// [DAG.Validate] verifies rows are positive, edges strictly increase the row and
// the graph is acyclic. Acyclicity is checked with a topological sort from
// gonum.org/v1/gonum/graph/topo. [DAG.CheckTight] additionally verifies that
// every row equals the longest-path depth of its node.
//
// # Concurrency
//
// DAG instances are not safe for concurrent mutation. Read-only queries on a
// fully built DAG may run in parallel.
package dag
