// Package graph provides the serialization model for control-flow graphs.
//
// This package defines the wire format shared by the CLI, the HTTP API and
// the cache. It wraps the generic leveling algorithm of pkg/level with string
// node identifiers and opaque display attributes.
//
// # Core Types
//
//   - [Graph], [Node], [Edge]: raw compiler output
//   - [Leveled], [LeveledNode], [LeveledEdge]: the same graph with levels and edge hints
//   - [Document]: one graph per function, as emitted by a compiler backend
//
// # Graph Format
//
// Graphs use the node-link format consumed by vis-network:
//
//	{
//	  "nodes": [{"id": "bb0", "label": "bb0: start", "shape": "box"}, {"id": "bb1"}],
//	  "edges": [{"from": "bb0", "to": "bb1", "color": "red"}]
//	}
//
// Keys other than id, label, from and to are kept verbatim in Attrs and
// written back inline. Node IDs may be strings or numbers.
//
// Leveling adds "level" to every node and "physics", "kind" and (for
// participating edges) "length" to every edge. These keys are dropped when a
// graph is decoded, so leveling an already leveled graph gives the same result.
//
// # Usage
//
//	g, _ := graph.ReadGraphFile("main.cfg.json")
//	leveled := graph.Level(g)
//	graph.Write(os.Stdout, leveled, graph.EncodingJSON)
//
// Documents select one function, falling back to the first one:
//
//	doc, _ := graph.ReadDocumentFile("mir.json")
//	g, name := doc.Select("main")
package graph
