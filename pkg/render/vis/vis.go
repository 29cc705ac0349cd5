// Package vis builds vis-network payloads for leveled control-flow graphs.
//
// A [Payload] can be handed to a vis.Network as-is: nodes carry their level,
// edges carry physics and length, and [DefaultOptions] turns on the
// hierarchical top-down layout that consumes them.
package vis

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/cfglevel/pkg/graph"
)

// MonospaceFont is the font stack used for node and edge labels.
const MonospaceFont = `Consolas, "Liberation Mono", Courier, monospace`

// Payload is the data and configuration of one network.
type Payload struct {
	Function string              `json:"function,omitempty"`
	Nodes    []graph.LeveledNode `json:"nodes"`
	Edges    []graph.LeveledEdge `json:"edges"`
	Options  Options             `json:"options"`
}

// Options mirrors the subset of vis-network options the hierarchical
// control-flow layout relies on.
type Options struct {
	AutoResize  bool        `json:"autoResize"`
	Locale      string      `json:"locale"`
	Edges       EdgeOptions `json:"edges"`
	Nodes       NodeOptions `json:"nodes"`
	Layout      Layout      `json:"layout"`
	Physics     Physics     `json:"physics"`
	Interaction Interaction `json:"interaction"`
}

type EdgeOptions struct {
	Arrows  Arrows `json:"arrows"`
	Smooth  Smooth `json:"smooth"`
	Physics bool   `json:"physics"`
	Font    Font   `json:"font"`
}

type Arrows struct {
	To Toggle `json:"to"`
}

type Toggle struct {
	Enabled bool `json:"enabled"`
}

type Smooth struct {
	Enabled   bool    `json:"enabled"`
	Type      string  `json:"type"`
	Roundness float64 `json:"roundness"`
}

type Font struct {
	Face        string `json:"face"`
	Align       string `json:"align,omitempty"`
	Color       string `json:"color,omitempty"`
	StrokeWidth *int   `json:"strokeWidth,omitempty"`
}

type NodeOptions struct {
	Font Font `json:"font"`
}

type Layout struct {
	Hierarchical Hierarchical `json:"hierarchical"`
}

type Hierarchical struct {
	Enabled         bool   `json:"enabled"`
	Direction       string `json:"direction"`
	NodeSpacing     int    `json:"nodeSpacing"`
	LevelSeparation int    `json:"levelSeparation"`
}

// Physics is disabled globally; edges opt in individually through their
// physics flag.
type Physics struct {
	Enabled               bool      `json:"enabled"`
	HierarchicalRepulsion Repulsion `json:"hierarchicalRepulsion"`
}

type Repulsion struct {
	NodeDistance int `json:"nodeDistance"`
}

type Interaction struct {
	NavigationButtons bool     `json:"navigationButtons"`
	Keyboard          Keyboard `json:"keyboard"`
}

type Keyboard struct {
	Enabled      bool          `json:"enabled"`
	Speed        KeyboardSpeed `json:"speed"`
	BindToWindow bool          `json:"bindToWindow"`
}

type KeyboardSpeed struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// DefaultOptions returns the options of the control-flow view: top-down
// hierarchy with wide node spacing, global physics off and smooth edges.
func DefaultOptions() Options {
	zero := 0
	return Options{
		AutoResize: true,
		Locale:     "en",
		Edges: EdgeOptions{
			Arrows: Arrows{To: Toggle{Enabled: true}},
			Smooth: Smooth{Enabled: true, Type: "dynamic", Roundness: 1},
			Font:   Font{Face: MonospaceFont, StrokeWidth: &zero, Color: "#ffffff"},
		},
		Nodes: NodeOptions{Font: Font{Face: MonospaceFont, Align: "left"}},
		Layout: Layout{Hierarchical: Hierarchical{
			Enabled:         true,
			Direction:       "UD",
			NodeSpacing:     800,
			LevelSeparation: 150,
		}},
		Physics: Physics{HierarchicalRepulsion: Repulsion{NodeDistance: 160}},
		Interaction: Interaction{
			Keyboard: Keyboard{
				Enabled: true,
				Speed:   KeyboardSpeed{X: 10, Y: 10, Zoom: 0.03},
			},
		},
	}
}

// New wraps a leveled graph with the default options.
func New(function string, l graph.Leveled) Payload {
	return Payload{
		Function: function,
		Nodes:    l.Nodes,
		Edges:    l.Edges,
		Options:  DefaultOptions(),
	}
}

// Marshal encodes the payload as indented JSON.
func Marshal(p Payload) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Write encodes the payload as indented JSON to w.
func Write(w io.Writer, p Payload) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
