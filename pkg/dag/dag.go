package dag

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/cfglevel/pkg/graph"
	"github.com/matzehuels/cfglevel/pkg/level"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the same
	// ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidRow is returned by [DAG.Validate] when a node has a row below 1.
	ErrInvalidRow = errors.New("rows must be at least 1")

	// ErrNonIncreasingRows is returned by [DAG.Validate] when an edge does not
	// point to a strictly lower row (From.Row >= To.Row).
	ErrNonIncreasingRows = errors.New("edges must point to a higher row")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a directed cycle exists.
	ErrGraphHasCycle = errors.New("graph contains a cycle")

	// ErrRowNotTight is returned by [DAG.CheckTight] when a node sits lower
	// than its longest incoming path requires.
	ErrRowNotTight = errors.New("row is not the longest-path depth")
)

// Node is a vertex of the layering DAG. Row is the assigned level, starting at 1.
type Node struct {
	ID    string
	Row   int
	Label string
	// Virtual marks a node inserted by [DAG.Subdivide].
	Virtual bool
}

// Edge is a kept layering edge. Span is the row difference it covers.
type Edge struct {
	From string
	To   string
	Span int
}

// DAG is the acyclic subgraph left after back edges are discarded, with every
// node placed on its level. Nodes and edges keep insertion order so all
// queries are deterministic.
//
// The zero value is not usable; use [New] or [FromLeveled].
// DAG is not safe for concurrent mutation.
type DAG struct {
	order    []string
	nodes    map[string]*Node
	index    map[string]int64
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
	rows     map[int][]*Node
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]*Node),
		index:    make(map[string]int64),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		rows:     make(map[int][]*Node),
	}
}

// FromLeveled builds the layering DAG of a leveled graph: every node, and
// every edge classified as layering. Back edges and invalid edges are left
// out. With duplicate node IDs the last occurrence wins, matching leveling.
func FromLeveled(l graph.Leveled) *DAG {
	d := New()
	last := make(map[graph.ID]int, len(l.Nodes))
	for i, n := range l.Nodes {
		last[n.ID] = i
	}
	for i, n := range l.Nodes {
		if last[n.ID] != i || n.ID == "" {
			continue
		}
		_ = d.AddNode(Node{ID: string(n.ID), Row: n.Level, Label: n.DisplayLabel()})
	}
	for _, e := range l.Edges {
		if e.Kind != level.KindLayering {
			continue
		}
		_ = d.AddEdge(string(e.From), string(e.To))
	}
	return d
}

// AddNode adds a node and indexes it by its Row.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	node := &n
	d.index[n.ID] = int64(len(d.order))
	d.order = append(d.order, n.ID)
	d.nodes[n.ID] = node
	d.rows[n.Row] = append(d.rows[n.Row], node)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Span is computed
// from the current rows. Row constraints are checked by [DAG.Validate], not here.
func (d *DAG) AddEdge(from, to string) error {
	src, ok := d.nodes[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSourceNode, from)
	}
	dst, ok := d.nodes[to]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTargetNode, to)
	}
	d.edges = append(d.edges, Edge{From: from, To: to, Span: dst.Row - src.Row})
	d.outgoing[from] = append(d.outgoing[from], to)
	d.incoming[to] = append(d.incoming[to], from)
	return nil
}

// Nodes returns all nodes in insertion order.
func (d *DAG) Nodes() []*Node {
	out := make([]*Node, len(d.order))
	for i, id := range d.order {
		out[i] = d.nodes[id]
	}
	return out
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

func (d *DAG) NodeCount() int { return len(d.nodes) }
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Node returns the node with the given ID.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Children returns the targets of the node's edges. The slice is a read-only view.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the sources of the node's incoming edges. The slice is a read-only view.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }
func (d *DAG) InDegree(id string) int  { return len(d.incoming[id]) }

// NodesInRow returns the nodes on the given row in insertion order.
func (d *DAG) NodesInRow(row int) []*Node { return d.rows[row] }

// RowCount returns the number of distinct rows.
func (d *DAG) RowCount() int { return len(d.rows) }

// RowIDs returns all row indices in ascending order.
func (d *DAG) RowIDs() []int { return slices.Sorted(maps.Keys(d.rows)) }

// MaxRow returns the highest row, or 0 for an empty graph.
func (d *DAG) MaxRow() int {
	ids := d.RowIDs()
	if len(ids) == 0 {
		return 0
	}
	return ids[len(ids)-1]
}

// Sources returns nodes without incoming edges, in insertion order.
func (d *DAG) Sources() []*Node {
	var out []*Node
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			out = append(out, d.nodes[id])
		}
	}
	return out
}

// Sinks returns nodes without outgoing edges, in insertion order.
func (d *DAG) Sinks() []*Node {
	var out []*Node
	for _, id := range d.order {
		if len(d.outgoing[id]) == 0 {
			out = append(out, d.nodes[id])
		}
	}
	return out
}

// LongEdges returns the edges spanning more than one row.
func (d *DAG) LongEdges() []Edge {
	var out []Edge
	for _, e := range d.edges {
		if e.Span > 1 {
			out = append(out, e)
		}
	}
	return out
}

// Validate checks that the graph is a valid layering:
//
//  1. every row is at least 1
//  2. every edge points to a strictly higher row
//  3. the graph is acyclic
//
// Rule 2 implies rule 3. Cycles are still checked with a topological sort
// so the error names the actual defect.
func (d *DAG) Validate() error {
	for _, id := range d.order {
		if n := d.nodes[id]; n.Row < 1 {
			return fmt.Errorf("%w: node %s has row %d", ErrInvalidRow, id, n.Row)
		}
	}
	for _, e := range d.edges {
		if d.nodes[e.From].Row >= d.nodes[e.To].Row {
			return fmt.Errorf("%w: %s (row %d) -> %s (row %d)", ErrNonIncreasingRows,
				e.From, d.nodes[e.From].Row, e.To, d.nodes[e.To].Row)
		}
	}
	if _, err := d.TopoOrder(); err != nil {
		return err
	}
	return nil
}

// TopoOrder returns the node IDs in a topological order, or ErrGraphHasCycle.
func (d *DAG) TopoOrder() ([]string, error) {
	g := simple.NewDirectedGraph()
	for _, id := range d.order {
		g.AddNode(simple.Node(d.index[id]))
	}
	for _, e := range d.edges {
		if e.From == e.To {
			return nil, fmt.Errorf("%w: self loop on %s", ErrGraphHasCycle, e.From)
		}
		g.SetEdge(g.NewEdge(simple.Node(d.index[e.From]), simple.Node(d.index[e.To])))
	}

	sorted, err := topo.SortStabilized(g, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGraphHasCycle, err)
	}
	ids := make([]string, len(sorted))
	for i, n := range sorted {
		ids[i] = d.order[n.ID()]
	}
	return ids, nil
}

// LongestPathRows computes, for every node, 1 + the length of the longest
// path reaching it. This is the row assignment leveling is expected to produce.
func (d *DAG) LongestPathRows() (map[string]int, error) {
	order, err := d.TopoOrder()
	if err != nil {
		return nil, err
	}
	rows := make(map[string]int, len(order))
	for _, id := range order {
		rows[id] = max(rows[id], 1)
		for _, c := range d.outgoing[id] {
			rows[c] = max(rows[c], rows[id]+1)
		}
	}
	return rows, nil
}

// CheckTight reports the first node whose row differs from its longest-path
// depth.
func (d *DAG) CheckTight() error {
	want, err := d.LongestPathRows()
	if err != nil {
		return err
	}
	for _, id := range d.order {
		if got := d.nodes[id].Row; got != want[id] {
			return fmt.Errorf("%w: node %s has row %d, want %d", ErrRowNotTight, id, got, want[id])
		}
	}
	return nil
}
