// Package nodelink renders leveled control-flow graphs as Graphviz diagrams.
//
// # Usage
//
// Convert a leveled graph to DOT, then render it:
//
//	dot := nodelink.ToDOT(leveled, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Layout
//
// Levels map directly onto Graphviz ranks: every level becomes a rank=same
// group, and participating edges carry minlen equal to their level
// difference so the ranks cannot collapse. Back edges and other
// non-participating edges are drawn dashed and excluded from ranking with
// constraint=false.
//
// Display attributes carried through from the input graph (shape, color and
// edge labels in vis-network form) are translated to their DOT equivalents;
// all others are ignored.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz as
// WebAssembly; no system installation is needed.
package nodelink
