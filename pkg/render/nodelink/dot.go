package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cfglevel/pkg/graph"
	"github.com/matzehuels/cfglevel/pkg/level"
)

// lengthUnit converts edge lengths (vis-network pixels) into Graphviz inches.
const lengthUnit = 100.0

// Options configures DOT generation.
type Options struct {
	// Detailed appends the level to every node label.
	Detailed bool
	// HideBackEdges drops edges that do not take part in the layout.
	HideBackEdges bool
}

// ToDOT converts a leveled graph to Graphviz DOT.
//
// Nodes sharing a level are pinned to one rank. Participating edges carry
// minlen (the level difference) and len (the target length); the remaining
// edges are drawn dashed with constraint=false so they never move a node.
// Edges with an unknown endpoint are skipped since Graphviz would invent the
// missing node.
func ToDOT(l graph.Leveled, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Consolas, monospace\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=normal];\n")
	buf.WriteString("  ranksep=0.75;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for i, row := range l.Rows() {
		if len(row) == 0 {
			continue
		}
		quoted := make([]string, len(row))
		for j, id := range row {
			quoted[j] = strconv.Quote(string(id))
		}
		fmt.Fprintf(&buf, "  { rank=same; /* level %d */ %s; }\n", i+1, strings.Join(quoted, "; "))
	}

	buf.WriteString("\n")
	levels := make(map[graph.ID]int, len(l.Nodes))
	for _, n := range l.Nodes {
		levels[n.ID] = n.Level
	}
	for _, e := range l.Edges {
		if e.Kind == level.KindInvalid {
			continue
		}
		if !e.Physics && opts.HideBackEdges {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(edgeAttrs(e, levels), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.LeveledNode, detailed bool) []string {
	label := n.DisplayLabel()
	if detailed {
		label = fmt.Sprintf("%s\nlevel: %d", label, n.Level)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if shape, ok := n.Attrs["shape"].(string); ok && shape != "" {
		attrs = append(attrs, fmt.Sprintf("shape=%q", shape))
	}
	if c := color(n.Attrs); c != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c))
	}
	return attrs
}

func edgeAttrs(e graph.LeveledEdge, levels map[graph.ID]int) []string {
	var attrs []string
	if e.Physics {
		attrs = append(attrs,
			fmt.Sprintf("minlen=%d", levels[e.To]-levels[e.From]),
			"len="+strconv.FormatFloat(float64(e.Length)/lengthUnit, 'f', 2, 64),
		)
	} else {
		attrs = append(attrs, "constraint=false", "style=dashed")
	}
	if c := color(e.Attrs); c != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", c))
	}
	if label, ok := e.Attrs["label"].(string); ok && label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", label))
	}
	return attrs
}

// color reads a vis-network color attribute, which is either a plain string
// or an object with a "background" or "color" entry.
func color(attrs map[string]any) string {
	switch c := attrs["color"].(type) {
	case string:
		return c
	case map[string]any:
		for _, k := range []string{"background", "color"} {
			if s, ok := c[k].(string); ok {
				return s
			}
		}
	}
	return ""
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG using the embedded Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
