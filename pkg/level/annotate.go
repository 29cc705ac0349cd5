package level

const (
	baseLength   = 200
	lengthStep   = 5
	saturateDiff = 5
)

// EdgeLength returns the rendering length for an edge spanning diff levels.
//
// The per-level increment shrinks by 5 for every level up to a difference of
// 5 and stays at 175 beyond that: 1 -> 195, 2 -> 380, 5 -> 875, 6 -> 1050.
// EdgeLength returns 0 for diff <= 0.
func EdgeLength(diff int) int {
	if diff <= 0 {
		return 0
	}
	return diff * (baseLength - lengthStep*min(saturateDiff, diff))
}

// annotate turns final levels into one hint per input edge.
func (ix *index[ID]) annotate(kinds []Kind) []EdgeHint {
	hints := make([]EdgeHint, len(kinds))
	for e, kind := range kinds {
		hints[e].Kind = kind
		if !ix.valid(e) {
			continue
		}
		from := ix.records[ix.from[e]].level
		to := ix.records[ix.to[e]].level
		if from >= to {
			continue
		}
		hints[e].Physics = true
		hints[e].Length = EdgeLength(to - from)
	}
	return hints
}
