package dag

import "slices"

// Crossings returns the number of edge crossings between adjacent rows when
// every row is drawn in node insertion order. Long edges are subdivided
// first, so an edge counts in every row it passes; the virtual nodes sit
// after the real nodes of their row.
//
// The count is a rough measure of how tangled the input order draws; it is
// reported by the inspect command next to the leveling statistics.
func (d *DAG) Crossings() int {
	if len(d.LongEdges()) > 0 {
		d = d.Subdivide()
	}
	rows := d.RowIDs()
	total := 0
	for i := 0; i+1 < len(rows); i++ {
		if rows[i+1] != rows[i]+1 {
			continue
		}
		total += d.CountLayerCrossings(NodeIDs(d.rows[rows[i]]), NodeIDs(d.rows[rows[i+1]]))
	}
	return total
}

// CountLayerCrossings counts crossings between two adjacent rows using a
// Fenwick tree in O(E log V).
//
// Two edges (u1,v1) and (u2,v2) cross iff pos(u1) < pos(u2) and pos(v1) > pos(v2),
// so the count is the number of inversions of the target positions once edges
// are sorted by source position.
func (d *DAG) CountLayerCrossings(upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	lowerPos := PosMap(lower)

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, id := range upper {
		for _, child := range d.outgoing[id] {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}
	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, seen := 0, 0
	for _, e := range edges {
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += seen - lessOrEqual

		seen++
		for q := e.lower + 1; q < len(fenwick); q += q & (-q) {
			fenwick[q]++
		}
	}
	return crossings
}

// PosMap maps each ID to its index in ids.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs extracts the IDs of nodes, preserving order.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
