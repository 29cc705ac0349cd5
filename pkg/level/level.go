package level

// Edge is a directed edge between two node identifiers.
type Edge[ID comparable] struct {
	From ID
	To   ID
}

// Kind classifies an input edge.
type Kind int

const (
	// KindInvalid marks an edge with at least one endpoint missing from the node set.
	KindInvalid Kind = iota
	// KindLayering marks an edge kept for level computation (tree, forward or cross edge).
	KindLayering
	// KindBack marks an edge into a node on the active DFS path. It closes a cycle
	// and is discarded from the layering DAG.
	KindBack
)

// String returns the lowercase name of the kind ("invalid", "layering", "back").
func (k Kind) String() string {
	switch k {
	case KindLayering:
		return "layering"
	case KindBack:
		return "back"
	default:
		return "invalid"
	}
}

// ParseKind is the inverse of [Kind.String]. Unknown names map to KindInvalid.
func ParseKind(s string) Kind {
	switch s {
	case "layering":
		return KindLayering
	case "back":
		return KindBack
	default:
		return KindInvalid
	}
}

// EdgeHint carries the rendering hints computed for one input edge.
type EdgeHint struct {
	Kind Kind
	// Physics reports whether the edge takes part in the layered layout.
	// It is true exactly when the target level is strictly greater than the source level.
	Physics bool
	// Length is the target rendering length; zero when Physics is false.
	Length int
}

// Stats summarizes one Assign call.
type Stats struct {
	Nodes    int
	Edges    int
	Invalid  int // edges with an unknown endpoint
	Back     int // edges discarded to break cycles
	Layering int // edges kept for level computation
	Physics  int // edges participating in the layout
	MaxLevel int
}

// Result holds the levels and edge hints computed by [Assign].
// Levels and Edges are parallel to the input node and edge slices.
type Result[ID comparable] struct {
	Levels []int
	Edges  []EdgeHint
	// Roots lists the input indices of the nodes that started a DFS tree, in
	// visit order.
	Roots []int
	Stats Stats

	pos map[ID]int
}

// Level returns the level of the node with the given identifier.
func (r Result[ID]) Level(id ID) (int, bool) {
	i, ok := r.pos[id]
	if !ok {
		return 0, false
	}
	return r.Levels[i], true
}

// Assign computes a level for every node and a hint for every edge.
//
// Nodes are visited in slice order; the first unvisited node starts each DFS
// tree, which makes the chosen back edges depend on that order. Edges that
// reference an unknown identifier are reported as [KindInvalid] and never
// influence any level. Identifiers are expected to be unique; with duplicates
// the last occurrence owns the identifier.
//
// Assign never mutates nodes or edges. An empty node slice yields an empty
// Result with all edges invalid.
func Assign[ID comparable](nodes []ID, edges []Edge[ID]) Result[ID] {
	ix := buildIndex(nodes, edges)
	kinds := make([]Kind, len(edges))

	roots := ix.classifyAll(kinds)
	ix.propagate(roots)
	hints := ix.annotate(kinds)

	res := Result[ID]{
		Levels: make([]int, len(nodes)),
		Edges:  hints,
		Roots:  roots,
		Stats:  Stats{Nodes: len(nodes), Edges: len(edges)},
		pos:    ix.pos,
	}
	for i := range ix.records {
		res.Levels[i] = ix.records[i].level
		res.Stats.MaxLevel = max(res.Stats.MaxLevel, ix.records[i].level)
	}
	for _, h := range hints {
		switch h.Kind {
		case KindInvalid:
			res.Stats.Invalid++
		case KindBack:
			res.Stats.Back++
		case KindLayering:
			res.Stats.Layering++
		}
		if h.Physics {
			res.Stats.Physics++
		}
	}
	return res
}
