package graph

import (
	"maps"

	"github.com/matzehuels/cfglevel/pkg/level"
)

// =============================================================================
// Constants
// =============================================================================

// Output formats understood by the CLI, the pipeline and the HTTP API.
const (
	FormatJSON = "json" // leveled graph
	FormatVis  = "vis"  // vis-network payload with layout options
	FormatDOT  = "dot"  // Graphviz DOT source
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// Keys written by leveling. They are dropped when a graph is decoded so that
// re-leveling a leveled graph recomputes everything from IDs alone.
const (
	keyID      = "id"
	keyLabel   = "label"
	keyFrom    = "from"
	keyTo      = "to"
	keyLevel   = "level"
	keyPhysics = "physics"
	keyLength  = "length"
	keyKind    = "kind"
)

// PlaceholderID is the node ID of the graph shown when no function is available.
const PlaceholderID ID = "0"

// =============================================================================
// Graph - Input
// =============================================================================

// ID identifies a node. Compiler output uses both strings ("bb0") and numbers
// (0) as node IDs; both decode into ID and are encoded back as strings.
type ID string

// Graph is a raw control-flow graph as supplied by a compiler backend.
// Node and edge order is significant: it decides which edges break cycles.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Node is a graph vertex with a display label and opaque rendering attributes.
type Node struct {
	ID    ID
	Label string
	// Attrs holds every other key of the encoded node (shape, color, font, ...).
	// They are passed through to the renderer untouched.
	Attrs map[string]any
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return string(n.ID)
}

// Edge is a directed edge with opaque rendering attributes.
type Edge struct {
	From  ID
	To    ID
	Attrs map[string]any
}

// NodeCount returns the number of nodes.
func (g Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g Graph) EdgeCount() int { return len(g.Edges) }

// Placeholder returns the single-node graph shown when there is nothing to display.
func Placeholder() Graph {
	return Graph{
		Nodes: []Node{{ID: PlaceholderID, Label: "No Output", Attrs: map[string]any{"shape": "box"}}},
		Edges: []Edge{},
	}
}

// =============================================================================
// Leveled - Output
// =============================================================================

// Leveled is a graph annotated with node levels and edge rendering hints.
// It is a new value; the Graph it was computed from is left untouched.
type Leveled struct {
	Nodes []LeveledNode `json:"nodes" yaml:"nodes"`
	Edges []LeveledEdge `json:"edges" yaml:"edges"`
	Stats Stats         `json:"stats" yaml:"stats"`
}

// LeveledNode is a node with its assigned level (>= 1).
type LeveledNode struct {
	Node
	Level int
}

// LeveledEdge is an edge with its rendering hints.
type LeveledEdge struct {
	Edge
	Kind    level.Kind
	Physics bool // takes part in the layered layout
	Length  int  // target length, only meaningful when Physics is set
}

// Stats summarizes a leveling run.
type Stats struct {
	Nodes    int `json:"nodes" yaml:"nodes"`
	Edges    int `json:"edges" yaml:"edges"`
	Invalid  int `json:"invalid" yaml:"invalid"`
	Back     int `json:"back" yaml:"back"`
	Layering int `json:"layering" yaml:"layering"`
	Physics  int `json:"physics" yaml:"physics"`
	Levels   int `json:"levels" yaml:"levels"`
}

// Graph strips the leveling annotations and returns the underlying graph.
func (l Leveled) Graph() Graph {
	g := Graph{
		Nodes: make([]Node, len(l.Nodes)),
		Edges: make([]Edge, len(l.Edges)),
	}
	for i, n := range l.Nodes {
		g.Nodes[i] = Node{ID: n.ID, Label: n.Label, Attrs: maps.Clone(n.Attrs)}
	}
	for i, e := range l.Edges {
		g.Edges[i] = Edge{From: e.From, To: e.To, Attrs: maps.Clone(e.Attrs)}
	}
	return g
}

// Rows groups node IDs by level, in node order. Index 0 holds level 1.
func (l Leveled) Rows() [][]ID {
	rows := make([][]ID, l.Stats.Levels)
	for _, n := range l.Nodes {
		if n.Level < 1 || n.Level > len(rows) {
			continue
		}
		rows[n.Level-1] = append(rows[n.Level-1], n.ID)
	}
	return rows
}
