package level

type visitState uint8

const (
	unvisited visitState = iota
	active
	done
)

// record is the working state kept for one input node during a single Assign call.
type record struct {
	out     []int // input indices of valid outbound edges, in edge order
	kept    []int // node indices reached through layering edges
	state   visitState
	pending int // layering edges into this node not yet propagated
	level   int
}

// index maps identifiers to dense node indices and resolves edge endpoints.
type index[ID comparable] struct {
	pos     map[ID]int
	records []record
	from    []int // per edge source index, -1 when the edge is invalid
	to      []int // per edge target index, -1 when the edge is invalid
}

// buildIndex creates a fresh working record per node. With duplicate
// identifiers the last occurrence owns the identifier.
func buildIndex[ID comparable](nodes []ID, edges []Edge[ID]) *index[ID] {
	ix := &index[ID]{
		pos:     make(map[ID]int, len(nodes)),
		records: make([]record, len(nodes)),
		from:    make([]int, len(edges)),
		to:      make([]int, len(edges)),
	}
	for i, id := range nodes {
		ix.pos[id] = i
	}
	for i, e := range edges {
		ix.from[i], ix.to[i] = -1, -1
		src, okSrc := ix.pos[e.From]
		dst, okDst := ix.pos[e.To]
		if !okSrc || !okDst {
			continue
		}
		ix.from[i], ix.to[i] = src, dst
		ix.records[src].out = append(ix.records[src].out, i)
	}
	return ix
}

// valid reports whether both endpoints of edge e are known nodes.
func (ix *index[ID]) valid(e int) bool { return ix.from[e] >= 0 }
