package dag

import "fmt"

// Subdivide returns a copy of d in which every edge spanning more than one
// row is replaced by a chain of single-row edges through [Node.Virtual]
// nodes:
//
//	Before: entry (row 1) -> exit (row 4)
//	After:  entry -> entry_sub_2 -> entry_sub_3 -> exit
//
// Virtual IDs have the form "from_sub_row". On a collision a numeric suffix
// is appended ("entry_sub_2__1"). d itself is not modified.
func (d *DAG) Subdivide() *DAG {
	out := New()
	for _, id := range d.order {
		_ = out.AddNode(*d.nodes[id])
	}

	gen := newIDGen(d.order)
	for _, e := range d.edges {
		src, dst := d.nodes[e.From], d.nodes[e.To]
		prev := e.From
		for row := src.Row + 1; row < dst.Row; row++ {
			id := gen.next(e.From, row)
			_ = out.AddNode(Node{ID: id, Row: row, Virtual: true})
			_ = out.AddEdge(prev, id)
			prev = id
		}
		_ = out.AddEdge(prev, e.To)
	}
	return out
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(ids []string) *idGen {
	m := make(map[string]struct{}, len(ids)*2)
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, row int) string {
	prefix := fmt.Sprintf("%s_sub_%d", base, row)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
