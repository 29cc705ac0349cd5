package graph

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/matzehuels/cfglevel/pkg/errors"
	"github.com/matzehuels/cfglevel/pkg/level"
)

const loopJSON = `{
  "nodes": [
    {"id": "bb0", "label": "start", "shape": "box"},
    {"id": "bb1"},
    {"id": "bb2"},
    {"id": "bb3", "color": {"background": "red"}}
  ],
  "edges": [
    {"from": "bb0", "to": "bb1"},
    {"from": "bb1", "to": "bb2"},
    {"from": "bb2", "to": "bb1", "color": "blue"},
    {"from": "bb1", "to": "bb3"},
    {"from": "bb3", "to": "missing"}
  ]
}`

func mustReadGraph(t *testing.T, s string) Graph {
	t.Helper()
	g, err := ReadGraph(strings.NewReader(s), EncodingJSON)
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	return g
}

func TestReadGraph(t *testing.T) {
	g := mustReadGraph(t, loopJSON)

	if g.NodeCount() != 4 || g.EdgeCount() != 5 {
		t.Fatalf("counts = %d/%d, want 4/5", g.NodeCount(), g.EdgeCount())
	}
	if g.Nodes[0].Label != "start" {
		t.Errorf("label = %q, want start", g.Nodes[0].Label)
	}
	if diff := cmp.Diff(map[string]any{"shape": "box"}, g.Nodes[0].Attrs); diff != "" {
		t.Errorf("node attrs mismatch (-want +got):\n%s", diff)
	}
	if g.Nodes[1].Attrs != nil {
		t.Errorf("bb1 attrs = %v, want nil", g.Nodes[1].Attrs)
	}
	if got := g.Edges[2].Attrs["color"]; got != "blue" {
		t.Errorf("edge color = %v, want blue", got)
	}
}

func TestReadGraphNumericIDs(t *testing.T) {
	g := mustReadGraph(t, `{"nodes":[{"id":0},{"id":1.5},{"id":"2"}],"edges":[{"from":0,"to":"2"}]}`)

	want := []ID{"0", "1.5", "2"}
	for i, n := range g.Nodes {
		if n.ID != want[i] {
			t.Errorf("node %d id = %q, want %q", i, n.ID, want[i])
		}
	}
	if g.Edges[0].From != "0" || g.Edges[0].To != "2" {
		t.Errorf("edge = %s->%s, want 0->2", g.Edges[0].From, g.Edges[0].To)
	}
}

func TestReadGraphErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code apperrors.Code
	}{
		{"empty", "", apperrors.ErrCodeInvalidInput},
		{"syntax", "{", apperrors.ErrCodeInvalidFormat},
		{"node without id", `{"nodes":[{"label":"x"}]}`, apperrors.ErrCodeInvalidFormat},
		{"null id", `{"nodes":[{"id":null}]}`, apperrors.ErrCodeInvalidFormat},
		{"bool id", `{"nodes":[{"id":true}]}`, apperrors.ErrCodeInvalidFormat},
		{"edge without to", `{"nodes":[],"edges":[{"from":"a"}]}`, apperrors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGraph(strings.NewReader(tt.in), EncodingJSON)
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperrors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (err: %v)", apperrors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestReadGraphDropsLevelingKeys(t *testing.T) {
	g := mustReadGraph(t, `{
		"nodes": [{"id": "a", "level": 7, "shape": "box"}],
		"edges": [{"from": "a", "to": "a", "physics": true, "length": 195, "kind": "layering", "width": 2}]
	}`)

	if diff := cmp.Diff(map[string]any{"shape": "box"}, g.Nodes[0].Attrs); diff != "" {
		t.Errorf("node attrs (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"width": float64(2)}, g.Edges[0].Attrs); diff != "" {
		t.Errorf("edge attrs (-want +got):\n%s", diff)
	}
}

func TestLevel(t *testing.T) {
	g := mustReadGraph(t, loopJSON)
	l := Level(g)

	levels := map[ID]int{}
	for _, n := range l.Nodes {
		levels[n.ID] = n.Level
	}
	wantLevels := map[ID]int{"bb0": 1, "bb1": 2, "bb2": 3, "bb3": 3}
	if diff := cmp.Diff(wantLevels, levels); diff != "" {
		t.Errorf("levels (-want +got):\n%s", diff)
	}

	type hint struct {
		Kind    level.Kind
		Physics bool
		Length  int
	}
	var hints []hint
	for _, e := range l.Edges {
		hints = append(hints, hint{e.Kind, e.Physics, e.Length})
	}
	wantHints := []hint{
		{level.KindLayering, true, 195},
		{level.KindLayering, true, 195},
		{level.KindBack, false, 0},
		{level.KindLayering, true, 195},
		{level.KindInvalid, false, 0},
	}
	if diff := cmp.Diff(wantHints, hints); diff != "" {
		t.Errorf("hints (-want +got):\n%s", diff)
	}

	wantStats := Stats{Nodes: 4, Edges: 5, Invalid: 1, Back: 1, Layering: 3, Physics: 3, Levels: 3}
	if diff := cmp.Diff(wantStats, l.Stats); diff != "" {
		t.Errorf("stats (-want +got):\n%s", diff)
	}
}

func TestLevelDoesNotShareAttrs(t *testing.T) {
	g := mustReadGraph(t, loopJSON)
	l := Level(g)

	l.Nodes[0].Attrs["shape"] = "ellipse"
	if g.Nodes[0].Attrs["shape"] != "box" {
		t.Error("Level result shares attribute maps with its input")
	}
}

func TestLevelIdempotent(t *testing.T) {
	first := Level(mustReadGraph(t, loopJSON))

	var buf bytes.Buffer
	if err := Write(&buf, first, EncodingJSON); err != nil {
		t.Fatalf("Write: %v", err)
	}
	second := Level(mustReadGraph(t, buf.String()))

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("re-leveling changed the result (-first +second):\n%s", diff)
	}
}

func TestLeveledJSON(t *testing.T) {
	g := Graph{
		Nodes: []Node{{ID: "a"}, {ID: "b", Label: "B"}},
		Edges: []Edge{{From: "a", To: "b"}, {From: "b", To: "a"}},
	}
	data, err := json.Marshal(Level(g))
	if err != nil {
		t.Fatal(err)
	}

	want := `{"nodes":[{"id":"a","level":1},{"id":"b","label":"B","level":2}],` +
		`"edges":[{"from":"a","kind":"layering","length":195,"physics":true,"to":"b"},` +
		`{"from":"b","kind":"back","physics":false,"to":"a"}],` +
		`"stats":{"nodes":2,"edges":2,"invalid":0,"back":1,"layering":1,"physics":1,"levels":2}}`
	if string(data) != want {
		t.Errorf("json =\n%s\nwant\n%s", data, want)
	}

	var back Leveled
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(Level(g), back); diff != "" {
		t.Errorf("decoded leveled graph (-want +got):\n%s", diff)
	}
}

func TestLeveledGraphAndRows(t *testing.T) {
	g := mustReadGraph(t, loopJSON)
	l := Level(g)

	if diff := cmp.Diff(g, l.Graph()); diff != "" {
		t.Errorf("Graph() (-want +got):\n%s", diff)
	}
	wantRows := [][]ID{{"bb0"}, {"bb1"}, {"bb2", "bb3"}}
	if diff := cmp.Diff(wantRows, l.Rows()); diff != "" {
		t.Errorf("Rows() (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		g       Graph
		wantErr bool
	}{
		{"empty", Graph{}, false},
		{"ok", Graph{Nodes: []Node{{ID: "a"}, {ID: "b"}}, Edges: []Edge{{From: "a", To: "b"}}}, false},
		{"empty id", Graph{Nodes: []Node{{ID: ""}}}, true},
		{"duplicate id", Graph{Nodes: []Node{{ID: "a"}, {ID: "a"}}}, true},
		{"dangling edge", Graph{Nodes: []Node{{ID: "a"}}, Edges: []Edge{{From: "a", To: "b"}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.g)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !apperrors.Is(err, apperrors.ErrCodeInvalidGraph) {
				t.Errorf("code = %v, want %v", apperrors.GetCode(err), apperrors.ErrCodeInvalidGraph)
			}
		})
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	const in = `
nodes:
  - id: bb0
    label: start
    shape: box
  - id: 1
edges:
  - from: bb0
    to: 1
    dashes: true
`
	g, err := ReadGraph(strings.NewReader(in), EncodingYAML)
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	want := Graph{
		Nodes: []Node{
			{ID: "bb0", Label: "start", Attrs: map[string]any{"shape": "box"}},
			{ID: "1"},
		},
		Edges: []Edge{{From: "bb0", To: "1", Attrs: map[string]any{"dashes": true}}},
	}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Fatalf("decoded (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if err := Write(&buf, Level(g), EncodingYAML); err != nil {
		t.Fatalf("Write: %v", err)
	}
	again, err := ReadGraph(&buf, EncodingYAML)
	if err != nil {
		t.Fatalf("ReadGraph(leveled): %v", err)
	}
	if diff := cmp.Diff(want, again); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestReadGraphFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.json")
	if err := os.WriteFile(path, []byte(loopJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if g.NodeCount() != 4 {
		t.Errorf("nodes = %d, want 4", g.NodeCount())
	}

	out := filepath.Join(dir, "leveled.yaml")
	if err := WriteFile(out, Level(g)); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "level: 3") {
		t.Errorf("yaml output missing level annotation:\n%s", data)
	}
}

func TestReadGraphFileNotFound(t *testing.T) {
	_, err := ReadGraphFile(filepath.Join(t.TempDir(), "nope.json"))
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want %v", err, apperrors.ErrCodeFileNotFound)
	}
}

func TestEncodingFor(t *testing.T) {
	tests := map[string]Encoding{
		"a.json":  EncodingJSON,
		"a.yaml":  EncodingYAML,
		"a.YML":   EncodingYAML,
		"a":       EncodingJSON,
		"a.cfg":   EncodingJSON,
		"dir/a.y": EncodingJSON,
	}
	for path, want := range tests {
		if got := EncodingFor(path); got != want {
			t.Errorf("EncodingFor(%q) = %v, want %v", path, got, want)
		}
	}
}
