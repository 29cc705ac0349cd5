package level

// frame is one entry of the explicit DFS stack: the node being visited and the
// position of the next outbound edge to examine.
type frame struct {
	node int
	next int
}

// classify runs a depth-first visit from root and labels every valid edge it
// examines as KindLayering or KindBack.
//
// The explicit stack reproduces the recursive visit order exactly: edges are
// examined in input order and a newly discovered target is fully explored
// before the next edge of its parent is looked at.
func (ix *index[ID]) classify(root int, kinds []Kind) {
	ix.records[root].state = active
	stack := []frame{{node: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		rec := &ix.records[top.node]
		if top.next == len(rec.out) {
			rec.state = done
			stack = stack[:len(stack)-1]
			continue
		}

		e := rec.out[top.next]
		top.next++

		t := ix.to[e]
		target := &ix.records[t]
		if target.state == active {
			kinds[e] = KindBack
			continue
		}

		kinds[e] = KindLayering
		rec.kept = append(rec.kept, t)
		target.pending++
		if target.state == unvisited {
			target.state = active
			stack = append(stack, frame{node: t})
		}
	}
}

// classifyAll starts a DFS at every node still unvisited, in input order, and
// returns the DFS roots.
func (ix *index[ID]) classifyAll(kinds []Kind) []int {
	var roots []int
	for i := range ix.records {
		if ix.records[i].state != unvisited {
			continue
		}
		roots = append(roots, i)
		ix.classify(i, kinds)
	}
	return roots
}
