package graph_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/cfglevel/pkg/graph"
)

func ExampleLevel() {
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "bb0"}, {ID: "bb1"}, {ID: "bb2"}},
		Edges: []graph.Edge{
			{From: "bb0", To: "bb1"},
			{From: "bb1", To: "bb2"},
			{From: "bb2", To: "bb0"},
			{From: "bb0", To: "bb2"},
		},
	}

	leveled := graph.Level(g)
	for _, n := range leveled.Nodes {
		fmt.Printf("%s level=%d\n", n.ID, n.Level)
	}
	for _, e := range leveled.Edges {
		fmt.Printf("%s->%s %s physics=%v length=%d\n", e.From, e.To, e.Kind, e.Physics, e.Length)
	}
	// Output:
	// bb0 level=1
	// bb1 level=2
	// bb2 level=3
	// bb0->bb1 layering physics=true length=195
	// bb1->bb2 layering physics=true length=195
	// bb2->bb0 back physics=false length=0
	// bb0->bb2 layering physics=true length=380
}

func ExampleWrite() {
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "a", Attrs: map[string]any{"shape": "box"}}, {ID: "b"}},
		Edges: []graph.Edge{{From: "a", To: "b"}},
	}

	if err := graph.Write(os.Stdout, graph.Level(g).Nodes, graph.EncodingJSON); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// [
	//   {
	//     "id": "a",
	//     "level": 1,
	//     "shape": "box"
	//   },
	//   {
	//     "id": "b",
	//     "level": 2
	//   }
	// ]
}

func ExampleDocument_Select() {
	doc, err := graph.ReadDocument(strings.NewReader(`{
		"functions": {
			"main": {"nodes": [{"id": 0}], "edges": []},
			"helper": {"nodes": [{"id": 0}, {"id": 1}], "edges": [{"from": 0, "to": 1}]}
		}
	}`), graph.EncodingJSON)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println(doc.Names())

	g, name := doc.Select("main")
	fmt.Println(name, g.NodeCount())

	g, name = doc.Select("does_not_exist")
	fmt.Println(name, g.NodeCount())

	g, name = graph.Document{}.Select("main")
	fmt.Printf("%q %s\n", name, g.Nodes[0].DisplayLabel())
	// Output:
	// [helper main]
	// main 1
	// helper 2
	// "" No Output
}
