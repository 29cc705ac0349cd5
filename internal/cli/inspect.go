package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cfglevel/pkg/dag"
	"github.com/matzehuels/cfglevel/pkg/graph"
	"github.com/matzehuels/cfglevel/pkg/level"
)

type inspectOpts struct {
	function    string
	interactive bool
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [graph.json|-]",
		Short: "Show node levels and edge hints of a function",
		Long: `Level one function and print its nodes with their levels and its edges
with their kind, physics flag and target length, followed by a summary of
the layering (crossings between adjacent levels and edges spanning more
than one level).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-" && opts.interactive {
				return fmt.Errorf("--interactive cannot be combined with input on stdin")
			}
			doc, err := c.readInput(args[0])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			name, err := c.selectFunction(doc, opts.function, opts.interactive)
			if err != nil {
				return err
			}
			g, name := doc.Select(name)
			inspect(cmd.OutOrStdout(), name, graph.Level(g))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.function, "func", "", "function to inspect (default: first in name order)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick the function interactively")

	return cmd
}

func inspect(w io.Writer, name string, l graph.Leveled) {
	fmt.Fprintln(w, StyleTitle.Render(displayName(name)))

	nodes := make([][]string, len(l.Nodes))
	for i, n := range l.Nodes {
		nodes[i] = []string{string(n.ID), n.Label, strconv.Itoa(n.Level)}
	}
	fmt.Fprintln(w, renderTable([]string{"ID", "Label", "Level"}, nodes, func(row, col int) bool {
		return col == 1
	}))

	if len(l.Edges) > 0 {
		edges := make([][]string, len(l.Edges))
		for i, e := range l.Edges {
			length := "-"
			if e.Physics {
				length = strconv.Itoa(e.Length)
			}
			edges[i] = []string{string(e.From), string(e.To), e.Kind.String(), strconv.FormatBool(e.Physics), length}
		}
		fmt.Fprintln(w, renderTable([]string{"From", "To", "Kind", "Physics", "Length"}, edges, func(row, col int) bool {
			return l.Edges[row].Kind != level.KindLayering
		}))
	}

	d := dag.FromLeveled(l)
	fmt.Fprintf(w, "%s %d  %s %d  %s %d  %s %d\n",
		StyleDim.Render("levels"), l.Stats.Levels,
		StyleDim.Render("back edges"), l.Stats.Back,
		StyleDim.Render("crossings"), d.Crossings(),
		StyleDim.Render("long edges"), len(d.LongEdges()),
	)
	if l.Stats.Invalid > 0 {
		fmt.Fprintf(w, "%s\n", StyleWarning.Render(fmt.Sprintf("%d edges reference unknown nodes", l.Stats.Invalid)))
	}
}
