package graph

import (
	"encoding/json"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// SingleGraphName is the function name given to a bare graph read as a document.
const SingleGraphName = "graph"

// wrapperKeys are the top-level keys under which compiler output nests its
// per-function graphs.
var wrapperKeys = []string{"functions", "cfg"}

// Document is compiler output holding one control-flow graph per function.
//
// Three encodings are accepted on decode:
//
//	{"functions": {"main": {"nodes": [...], "edges": [...]}}}  // also "cfg"
//	{"main": {"nodes": [...], "edges": [...]}}                 // bare map
//	{"nodes": [...], "edges": [...]}                           // single graph
//
// Documents are always encoded in the first form.
type Document struct {
	Functions map[string]Graph `json:"functions" yaml:"functions"`
}

// NewDocument wraps a single graph.
func NewDocument(name string, g Graph) Document {
	return Document{Functions: map[string]Graph{name: g}}
}

// Len returns the number of functions.
func (d Document) Len() int { return len(d.Functions) }

// Names returns the function names in sorted order.
func (d Document) Names() []string {
	names := make([]string, 0, len(d.Functions))
	for name := range d.Functions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the graph of the named function.
func (d Document) Lookup(name string) (Graph, bool) {
	g, ok := d.Functions[name]
	return g, ok
}

// Select returns the graph of the named function together with the name
// actually selected. When name is empty or unknown the first function in
// [Document.Names] order is selected. An empty document selects the
// [Placeholder] graph and returns an empty name.
func (d Document) Select(name string) (Graph, string) {
	if g, ok := d.Functions[name]; ok {
		return g, name
	}
	names := d.Names()
	if len(names) == 0 {
		return Placeholder(), ""
	}
	return d.Functions[names[0]], names[0]
}

// UnmarshalJSON decodes any of the three accepted document shapes.
func (d *Document) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("document: %w", err)
	}
	if isGraphObject(keysOf(raw)) {
		var g Graph
		if err := json.Unmarshal(data, &g); err != nil {
			return err
		}
		*d = NewDocument(SingleGraphName, g)
		return nil
	}

	fns := data
	for _, k := range wrapperKeys {
		if v, ok := raw[k]; ok {
			fns = v
			break
		}
	}
	var m map[string]Graph
	if err := json.Unmarshal(fns, &m); err != nil {
		return fmt.Errorf("document functions: %w", err)
	}
	if m == nil {
		m = map[string]Graph{}
	}
	d.Functions = m
	return nil
}

// UnmarshalYAML decodes any of the three accepted document shapes.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	raw, err := mappingFields(value)
	if err != nil {
		return err
	}
	if isGraphObject(keysOf(raw)) {
		var g Graph
		if err := value.Decode(&g); err != nil {
			return err
		}
		*d = NewDocument(SingleGraphName, g)
		return nil
	}

	fns := value
	for _, k := range wrapperKeys {
		if v, ok := raw[k]; ok {
			fns = v
			break
		}
	}
	m := map[string]Graph{}
	if err := fns.Decode(&m); err != nil {
		return fmt.Errorf("document functions: %w", err)
	}
	d.Functions = m
	return nil
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// isGraphObject reports whether a top-level object is a graph rather than a
// function map. Function maps never carry the reserved graph keys.
func isGraphObject(keys []string) bool {
	return slices.Contains(keys, "nodes") || slices.Contains(keys, "edges")
}
