package vis

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cfglevel/pkg/graph"
)

func TestPayloadJSON(t *testing.T) {
	l := graph.Level(graph.Graph{
		Nodes: []graph.Node{{ID: "0", Label: "bb0", Attrs: map[string]any{"shape": "box"}}, {ID: "1"}},
		Edges: []graph.Edge{{From: "0", To: "1"}, {From: "1", To: "0"}},
	})

	data, err := Marshal(New("main", l))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got struct {
		Function string           `json:"function"`
		Nodes    []map[string]any `json:"nodes"`
		Edges    []map[string]any `json:"edges"`
		Options  map[string]any   `json:"options"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.Function != "main" {
		t.Errorf("function = %q, want main", got.Function)
	}
	wantNodes := []map[string]any{
		{"id": "0", "label": "bb0", "shape": "box", "level": float64(1)},
		{"id": "1", "level": float64(2)},
	}
	if diff := cmp.Diff(wantNodes, got.Nodes); diff != "" {
		t.Errorf("nodes (-want +got):\n%s", diff)
	}
	wantEdges := []map[string]any{
		{"from": "0", "to": "1", "physics": true, "length": float64(195), "kind": "layering"},
		{"from": "1", "to": "0", "physics": false, "kind": "back"},
	}
	if diff := cmp.Diff(wantEdges, got.Edges); diff != "" {
		t.Errorf("edges (-want +got):\n%s", diff)
	}
}

func TestDefaultOptions(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Payload{Options: DefaultOptions()}); err != nil {
		t.Fatal(err)
	}
	var got struct {
		Options struct {
			Edges struct {
				Physics bool `json:"physics"`
				Smooth  struct {
					Type      string  `json:"type"`
					Roundness float64 `json:"roundness"`
				} `json:"smooth"`
				Font struct {
					StrokeWidth *int `json:"strokeWidth"`
				} `json:"font"`
			} `json:"edges"`
			Layout struct {
				Hierarchical struct {
					Enabled         bool   `json:"enabled"`
					Direction       string `json:"direction"`
					NodeSpacing     int    `json:"nodeSpacing"`
					LevelSeparation int    `json:"levelSeparation"`
				} `json:"hierarchical"`
			} `json:"layout"`
			Physics struct {
				Enabled bool `json:"enabled"`
			} `json:"physics"`
		} `json:"options"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}

	o := got.Options
	if o.Physics.Enabled || o.Edges.Physics {
		t.Error("global physics must be disabled")
	}
	h := o.Layout.Hierarchical
	if !h.Enabled || h.Direction != "UD" || h.NodeSpacing != 800 || h.LevelSeparation != 150 {
		t.Errorf("hierarchical layout = %+v", h)
	}
	if o.Edges.Smooth.Type != "dynamic" || o.Edges.Smooth.Roundness != 1 {
		t.Errorf("smooth = %+v", o.Edges.Smooth)
	}
	if o.Edges.Font.StrokeWidth == nil || *o.Edges.Font.StrokeWidth != 0 {
		t.Error("edge label stroke width must be encoded as 0")
	}
}
