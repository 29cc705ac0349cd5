package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadDocumentShapes(t *testing.T) {
	tests := []struct {
		name      string
		enc       Encoding
		in        string
		wantNames []string
	}{
		{
			name:      "functions wrapper",
			enc:       EncodingJSON,
			in:        `{"functions":{"b":{"nodes":[{"id":0}]},"a":{"nodes":[]}}}`,
			wantNames: []string{"a", "b"},
		},
		{
			name:      "cfg wrapper",
			enc:       EncodingJSON,
			in:        `{"cfg":{"main":{"nodes":[{"id":0}],"edges":[]}}}`,
			wantNames: []string{"main"},
		},
		{
			name:      "bare map",
			enc:       EncodingJSON,
			in:        `{"main":{"nodes":[{"id":"bb0"}]},"drop_in_place":{"nodes":[]}}`,
			wantNames: []string{"drop_in_place", "main"},
		},
		{
			name:      "single graph",
			enc:       EncodingJSON,
			in:        `{"nodes":[{"id":"bb0"}],"edges":[]}`,
			wantNames: []string{SingleGraphName},
		},
		{
			name:      "empty object",
			enc:       EncodingJSON,
			in:        `{}`,
			wantNames: []string{},
		},
		{
			name:      "yaml wrapper",
			enc:       EncodingYAML,
			in:        "functions:\n  main:\n    nodes:\n      - id: bb0\n",
			wantNames: []string{"main"},
		},
		{
			name:      "yaml single graph",
			enc:       EncodingYAML,
			in:        "nodes:\n  - id: 0\nedges: []\n",
			wantNames: []string{SingleGraphName},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ReadDocument(strings.NewReader(tt.in), tt.enc)
			if err != nil {
				t.Fatalf("ReadDocument: %v", err)
			}
			if diff := cmp.Diff(tt.wantNames, doc.Names()); diff != "" {
				t.Errorf("names (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadDocumentInvalid(t *testing.T) {
	for _, in := range []string{`[]`, `"x"`, `{"functions": 3}`, `{"main": {"nodes": [{"label": "no id"}]}}`} {
		if _, err := ReadDocument(strings.NewReader(in), EncodingJSON); err == nil {
			t.Errorf("ReadDocument(%s): expected error", in)
		}
	}
}

func TestDocumentSelect(t *testing.T) {
	main := Graph{Nodes: []Node{{ID: "m"}}}
	alpha := Graph{Nodes: []Node{{ID: "a"}}}
	doc := Document{Functions: map[string]Graph{"main": main, "alpha": alpha}}

	tests := []struct {
		name     string
		request  string
		wantName string
		want     Graph
	}{
		{"exact", "main", "main", main},
		{"fallback to first", "gone", "alpha", alpha},
		{"empty request", "", "alpha", alpha},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, name := doc.Select(tt.request)
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if diff := cmp.Diff(tt.want, g); diff != "" {
				t.Errorf("graph (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDocumentSelectEmpty(t *testing.T) {
	g, name := Document{}.Select("main")
	if name != "" {
		t.Errorf("name = %q, want empty", name)
	}
	if diff := cmp.Diff(Placeholder(), g); diff != "" {
		t.Errorf("graph (-want +got):\n%s", diff)
	}

	l := Level(g)
	if l.Nodes[0].Level != 1 || l.Nodes[0].ID != PlaceholderID {
		t.Errorf("placeholder leveled = %+v", l.Nodes[0])
	}
}

func TestDocumentWriteRead(t *testing.T) {
	doc := NewDocument("main", Graph{
		Nodes: []Node{{ID: "bb0", Label: "entry"}, {ID: "bb1"}},
		Edges: []Edge{{From: "bb0", To: "bb1"}},
	})

	var buf bytes.Buffer
	if err := Write(&buf, doc, EncodingJSON); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "{\n  \"functions\"") {
		t.Errorf("documents must be written with the functions wrapper:\n%s", buf.String())
	}

	back, err := UnmarshalDocument(buf.Bytes())
	if err != nil {
		t.Fatalf("UnmarshalDocument: %v", err)
	}
	if diff := cmp.Diff(doc, back); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}
