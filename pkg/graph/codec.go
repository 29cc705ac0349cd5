package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/cfglevel/pkg/level"
)

// Nodes and edges are encoded as flat objects: the well-known keys (id, label,
// from, to and the leveling annotations) sit next to the opaque attributes,
// exactly like the objects a vis-network renderer consumes.

// =============================================================================
// ID
// =============================================================================

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("id must be a string or number, got null")
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number, got %s", data)
	}
	*id = ID(n.String())
	return nil
}

// UnmarshalYAML accepts any non-null scalar.
func (id *ID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode || value.Tag == "!!null" {
		return fmt.Errorf("line %d: id must be a string or number", value.Line)
	}
	*id = ID(value.Value)
	return nil
}

// =============================================================================
// Node / Edge
// =============================================================================

// UnmarshalJSON decodes id and label and keeps every other key in Attrs.
func (n *Node) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	idRaw, ok := raw[keyID]
	if !ok {
		return fmt.Errorf("node missing %q", keyID)
	}
	var out Node
	if err := json.Unmarshal(idRaw, &out.ID); err != nil {
		return fmt.Errorf("node id: %w", err)
	}
	if l, ok := raw[keyLabel]; ok {
		if err := json.Unmarshal(l, &out.Label); err != nil {
			return fmt.Errorf("node %s label: %w", out.ID, err)
		}
	}
	if out.Attrs, err = decodeAttrs(raw, keyID, keyLabel, keyLevel); err != nil {
		return fmt.Errorf("node %s: %w", out.ID, err)
	}
	*n = out
	return nil
}

// MarshalJSON encodes the node as a flat object.
func (n Node) MarshalJSON() ([]byte, error) { return json.Marshal(n.fields()) }

// UnmarshalYAML decodes id and label and keeps every other key in Attrs.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	raw, err := mappingFields(value)
	if err != nil {
		return err
	}
	idNode, ok := raw[keyID]
	if !ok {
		return fmt.Errorf("line %d: node missing %q", value.Line, keyID)
	}
	var out Node
	if err := out.ID.UnmarshalYAML(idNode); err != nil {
		return err
	}
	if l, ok := raw[keyLabel]; ok {
		if err := l.Decode(&out.Label); err != nil {
			return fmt.Errorf("node %s label: %w", out.ID, err)
		}
	}
	if out.Attrs, err = decodeYAMLAttrs(raw, keyID, keyLabel, keyLevel); err != nil {
		return fmt.Errorf("node %s: %w", out.ID, err)
	}
	*n = out
	return nil
}

// MarshalYAML encodes the node as a flat mapping.
func (n Node) MarshalYAML() (any, error) { return n.fields(), nil }

func (n Node) fields() map[string]any {
	m := make(map[string]any, len(n.Attrs)+2)
	maps.Copy(m, n.Attrs)
	m[keyID] = n.ID
	if n.Label != "" {
		m[keyLabel] = n.Label
	}
	return m
}

// UnmarshalJSON decodes from and to and keeps every other key in Attrs.
func (e *Edge) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out Edge
	for key, dst := range map[string]*ID{keyFrom: &out.From, keyTo: &out.To} {
		v, ok := raw[key]
		if !ok {
			return fmt.Errorf("edge missing %q", key)
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return fmt.Errorf("edge %s: %w", key, err)
		}
	}
	if out.Attrs, err = decodeAttrs(raw, keyFrom, keyTo, keyPhysics, keyLength, keyKind); err != nil {
		return fmt.Errorf("edge %s->%s: %w", out.From, out.To, err)
	}
	*e = out
	return nil
}

// MarshalJSON encodes the edge as a flat object.
func (e Edge) MarshalJSON() ([]byte, error) { return json.Marshal(e.fields()) }

// UnmarshalYAML decodes from and to and keeps every other key in Attrs.
func (e *Edge) UnmarshalYAML(value *yaml.Node) error {
	raw, err := mappingFields(value)
	if err != nil {
		return err
	}
	var out Edge
	for key, dst := range map[string]*ID{keyFrom: &out.From, keyTo: &out.To} {
		v, ok := raw[key]
		if !ok {
			return fmt.Errorf("line %d: edge missing %q", value.Line, key)
		}
		if err := dst.UnmarshalYAML(v); err != nil {
			return err
		}
	}
	if out.Attrs, err = decodeYAMLAttrs(raw, keyFrom, keyTo, keyPhysics, keyLength, keyKind); err != nil {
		return fmt.Errorf("edge %s->%s: %w", out.From, out.To, err)
	}
	*e = out
	return nil
}

// MarshalYAML encodes the edge as a flat mapping.
func (e Edge) MarshalYAML() (any, error) { return e.fields(), nil }

func (e Edge) fields() map[string]any {
	m := make(map[string]any, len(e.Attrs)+2)
	maps.Copy(m, e.Attrs)
	m[keyFrom] = e.From
	m[keyTo] = e.To
	return m
}

// =============================================================================
// Leveled nodes and edges
// =============================================================================

// MarshalJSON encodes the node with its level.
func (n LeveledNode) MarshalJSON() ([]byte, error) { return json.Marshal(n.fields()) }

// MarshalYAML encodes the node with its level.
func (n LeveledNode) MarshalYAML() (any, error) { return n.fields(), nil }

func (n LeveledNode) fields() map[string]any {
	m := n.Node.fields()
	m[keyLevel] = n.Level
	return m
}

// UnmarshalJSON decodes a leveled node; the level is read back from the "level" key.
func (n *LeveledNode) UnmarshalJSON(data []byte) error {
	if err := n.Node.UnmarshalJSON(data); err != nil {
		return err
	}
	var lv struct {
		Level int `json:"level"`
	}
	if err := json.Unmarshal(data, &lv); err != nil {
		return fmt.Errorf("node %s level: %w", n.ID, err)
	}
	n.Level = lv.Level
	return nil
}

// UnmarshalYAML decodes a leveled node.
func (n *LeveledNode) UnmarshalYAML(value *yaml.Node) error {
	if err := n.Node.UnmarshalYAML(value); err != nil {
		return err
	}
	var lv struct {
		Level int `yaml:"level"`
	}
	if err := value.Decode(&lv); err != nil {
		return fmt.Errorf("node %s level: %w", n.ID, err)
	}
	n.Level = lv.Level
	return nil
}

// MarshalJSON encodes the edge with its hints. Length is omitted for edges
// that do not take part in the layout.
func (e LeveledEdge) MarshalJSON() ([]byte, error) { return json.Marshal(e.fields()) }

// MarshalYAML encodes the edge with its hints.
func (e LeveledEdge) MarshalYAML() (any, error) { return e.fields(), nil }

func (e LeveledEdge) fields() map[string]any {
	m := e.Edge.fields()
	m[keyPhysics] = e.Physics
	m[keyKind] = e.Kind.String()
	if e.Physics {
		m[keyLength] = e.Length
	}
	return m
}

// UnmarshalJSON decodes a leveled edge, reading hints back from their keys.
func (e *LeveledEdge) UnmarshalJSON(data []byte) error {
	if err := e.Edge.UnmarshalJSON(data); err != nil {
		return err
	}
	var hints struct {
		Physics bool   `json:"physics"`
		Length  int    `json:"length"`
		Kind    string `json:"kind"`
	}
	if err := json.Unmarshal(data, &hints); err != nil {
		return fmt.Errorf("edge %s->%s hints: %w", e.From, e.To, err)
	}
	e.Physics = hints.Physics
	e.Length = hints.Length
	e.Kind = level.ParseKind(hints.Kind)
	return nil
}

// UnmarshalYAML decodes a leveled edge.
func (e *LeveledEdge) UnmarshalYAML(value *yaml.Node) error {
	if err := e.Edge.UnmarshalYAML(value); err != nil {
		return err
	}
	var hints struct {
		Physics bool   `yaml:"physics"`
		Length  int    `yaml:"length"`
		Kind    string `yaml:"kind"`
	}
	if err := value.Decode(&hints); err != nil {
		return fmt.Errorf("edge %s->%s hints: %w", e.From, e.To, err)
	}
	e.Physics = hints.Physics
	e.Length = hints.Length
	e.Kind = level.ParseKind(hints.Kind)
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("expected object, got null")
	}
	return raw, nil
}

func decodeAttrs(raw map[string]json.RawMessage, skip ...string) (map[string]any, error) {
	var attrs map[string]any
	for k, v := range raw {
		if contains(skip, k) {
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return nil, fmt.Errorf("attribute %s: %w", k, err)
		}
		if attrs == nil {
			attrs = make(map[string]any, len(raw))
		}
		attrs[k] = val
	}
	return attrs, nil
}

func mappingFields(value *yaml.Node) (map[string]*yaml.Node, error) {
	if value.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected mapping", value.Line)
	}
	fields := make(map[string]*yaml.Node, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		fields[value.Content[i].Value] = value.Content[i+1]
	}
	return fields, nil
}

func decodeYAMLAttrs(raw map[string]*yaml.Node, skip ...string) (map[string]any, error) {
	var attrs map[string]any
	for k, v := range raw {
		if contains(skip, k) {
			continue
		}
		var val any
		if err := v.Decode(&val); err != nil {
			return nil, fmt.Errorf("attribute %s: %w", k, err)
		}
		if attrs == nil {
			attrs = make(map[string]any, len(raw))
		}
		attrs[k] = val
	}
	return attrs, nil
}

func contains(keys []string, k string) bool {
	for _, s := range keys {
		if s == k {
			return true
		}
	}
	return false
}
