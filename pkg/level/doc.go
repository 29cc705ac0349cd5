// Package level assigns hierarchical layout levels to the nodes of a directed
// graph that may contain cycles, and derives per-edge rendering hints from
// those levels.
//
// # Overview
//
// Control-flow graphs produced by a compiler backend are rarely acyclic: loops
// create back edges that make a plain longest-path layering impossible. This
// package picks a set of back edges with a depth-first traversal, layers the
// remaining edges, and then tells a renderer which edges should take part in
// a layered layout and how long they should be.
//
// [Assign] runs four phases in order:
//
//  1. Index: every identifier gets a dense index in input order. Edges whose
//     endpoints are not both known are invalid; they are tolerated, never
//     rejected.
//  2. Classify: a three-color DFS (unvisited, active, done) visits nodes in
//     input order. An edge into an active node closes a cycle and is a back
//     edge. Every other valid edge, including cross edges into finished
//     subtrees, is a layering edge.
//  3. Propagate: levels flow along layering edges with an in-degree gate. A
//     node is released only once all of its layering predecessors committed
//     their level, so level(v) > level(u) holds for every layering edge.
//  4. Annotate: an edge participates in the layout (physics) when its target
//     sits on a strictly deeper level, with a length of
//     diff * (200 - 5*min(5, diff)).
//
// # Determinism
//
// DFS roots are chosen as the first unvisited node in input order, so the set
// of back edges, and with it the final levels, depend on node order. Two
// isomorphic graphs listed in different orders may be leveled differently.
// Given the same order the result is always the same.
//
// # Identifiers
//
// The package is generic over any comparable identifier type:
//
//	res := level.Assign([]string{"bb0", "bb1"}, []level.Edge[string]{
//	    {From: "bb0", To: "bb1"},
//	    {From: "bb1", To: "bb0"},
//	})
//	res.Levels // [1 2]
//
// # Concurrency
//
// Assign allocates its working state per call and never mutates its inputs.
// Concurrent calls on different (or the same, read-only) inputs are safe.
//
// # Performance
//
// Both traversals use explicit stacks, so deep graphs do not grow the
// goroutine stack. Time and space are O(V + E).
package level
