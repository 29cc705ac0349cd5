package graph

import (
	"maps"

	apperrors "github.com/matzehuels/cfglevel/pkg/errors"
	"github.com/matzehuels/cfglevel/pkg/level"
)

// Level assigns a level to every node of g and derives the edge hints.
// The result is a new value that shares nothing mutable with g. Malformed
// input (dangling edges, duplicate IDs) is tolerated; use [Validate] for a
// strict check.
func Level(g Graph) Leveled {
	ids := make([]ID, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	edges := make([]level.Edge[ID], len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = level.Edge[ID]{From: e.From, To: e.To}
	}

	res := level.Assign(ids, edges)

	out := Leveled{
		Nodes: make([]LeveledNode, len(g.Nodes)),
		Edges: make([]LeveledEdge, len(g.Edges)),
		Stats: Stats{
			Nodes:    res.Stats.Nodes,
			Edges:    res.Stats.Edges,
			Invalid:  res.Stats.Invalid,
			Back:     res.Stats.Back,
			Layering: res.Stats.Layering,
			Physics:  res.Stats.Physics,
			Levels:   res.Stats.MaxLevel,
		},
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = LeveledNode{
			Node:  Node{ID: n.ID, Label: n.Label, Attrs: maps.Clone(n.Attrs)},
			Level: res.Levels[i],
		}
	}
	for i, e := range g.Edges {
		h := res.Edges[i]
		out.Edges[i] = LeveledEdge{
			Edge:    Edge{From: e.From, To: e.To, Attrs: maps.Clone(e.Attrs)},
			Kind:    h.Kind,
			Physics: h.Physics,
			Length:  h.Length,
		}
	}
	return out
}

// Validate reports structural problems that [Level] silently tolerates:
// empty node IDs, duplicate node IDs and edges with an unknown endpoint.
func Validate(g Graph) error {
	seen := make(map[ID]struct{}, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.ID == "" {
			return apperrors.New(apperrors.ErrCodeInvalidGraph, "node %d has an empty id", i)
		}
		if _, dup := seen[n.ID]; dup {
			return apperrors.New(apperrors.ErrCodeInvalidGraph, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	for i, e := range g.Edges {
		for _, end := range []ID{e.From, e.To} {
			if _, ok := seen[end]; !ok {
				return apperrors.New(apperrors.ErrCodeInvalidGraph, "edge %d (%s -> %s) references unknown node %q", i, e.From, e.To, end)
			}
		}
	}
	return nil
}
