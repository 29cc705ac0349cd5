// Package pkg provides the core libraries of cfglevel, which prepares
// control-flow graphs for hierarchical drawing.
//
// # Overview
//
// A compiler backend emits one graph per function. cfglevel assigns every
// basic block a level so that control flows downward, finds the loop back
// edges that must not shape the layering, and annotates every edge with a
// rendering hint. The pkg directory is organized into these areas:
//
//  1. [level] - The leveling algorithm over plain node and edge indices
//  2. [graph] - Graph and document types, JSON/YAML codecs, [graph.Level]
//  3. [dag] - The layering DAG of a leveled graph, with checks and crossings
//  4. [render] - Output formats (vis-network, DOT, SVG, PNG)
//  5. [pipeline] - Orchestration (select -> level -> render) with caching
//  6. [cache] - File, Redis and MongoDB backends for results and documents
//
// # Architecture
//
// The typical data flow:
//
//	Compiler output (JSON/YAML document)
//	         ↓
//	    [graph] package (decode, select function)
//	         ↓
//	    [level] package (index, classify, propagate, annotate)
//	         ↓
//	    [render] package (vis / dot / svg / png)
//
// # Quick Start
//
//	doc, _ := graph.ReadDocumentFile("cfg.json")
//	g, name := doc.Select("main")
//	l := graph.Level(g)
//	fmt.Println(name, l.Stats.Levels, l.Stats.Back)
//
// [level]: github.com/matzehuels/cfglevel/pkg/level
// [graph]: github.com/matzehuels/cfglevel/pkg/graph
// [graph.Level]: github.com/matzehuels/cfglevel/pkg/graph.Level
// [dag]: github.com/matzehuels/cfglevel/pkg/dag
// [render]: github.com/matzehuels/cfglevel/pkg/render
// [pipeline]: github.com/matzehuels/cfglevel/pkg/pipeline
// [cache]: github.com/matzehuels/cfglevel/pkg/cache
package pkg
