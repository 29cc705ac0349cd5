// Package render groups the output formats for leveled graphs.
//
//   - [nodelink]: Graphviz DOT, SVG and PNG
//   - [vis]: vis-network data and options for the hierarchical layout
//
// Both renderers consume a [graph.Leveled] and never recompute levels.
//
// [nodelink]: github.com/matzehuels/cfglevel/pkg/render/nodelink
// [vis]: github.com/matzehuels/cfglevel/pkg/render/vis
// [graph.Leveled]: github.com/matzehuels/cfglevel/pkg/graph.Leveled
package render
