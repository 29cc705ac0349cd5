package level

// propagate assigns levels along layering edges, visiting roots in DFS-root order.
//
// A root with no pending layering edges starts at level 1. A root that later
// received cross edges from another DFS tree still has pending edges; it is
// released by its predecessors like any other node. A node is pushed only when
// its pending count reaches zero, so its level is final when it propagates.
func (ix *index[ID]) propagate(roots []int) {
	var stack []int
	for _, r := range roots {
		if ix.records[r].pending > 0 {
			continue
		}
		ix.records[r].level = 1
		stack = append(stack, r)

		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			next := ix.records[n].level + 1
			for _, t := range ix.records[n].kept {
				target := &ix.records[t]
				target.level = max(target.level, next)
				target.pending--
				if target.pending == 0 {
					stack = append(stack, t)
				}
			}
		}
	}
}
