package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cfglevel/pkg/dag"
	"github.com/matzehuels/cfglevel/pkg/graph"
)

// errCheckFailed is returned when at least one function fails its check.
var errCheckFailed = errors.New("check failed")

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var function string

	cmd := &cobra.Command{
		Use:   "check [graph.json|-]",
		Short: "Verify the layering of every function",
		Long: `Level every function of a document (or only --func) and verify the result:
the kept edges must be acyclic, must point to a strictly deeper level, and
every node must sit exactly at the length of the longest path reaching it.

Structural problems leveling tolerates, such as duplicate node IDs or edges
to unknown nodes, are reported as warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.readInput(args[0])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			names := doc.Names()
			if function != "" {
				if _, ok := doc.Lookup(function); !ok {
					return fmt.Errorf("function %q not found", function)
				}
				names = []string{function}
			}
			return c.check(cmd.OutOrStdout(), doc, names)
		},
	}

	cmd.Flags().StringVar(&function, "func", "", "check only this function")

	return cmd
}

func (c *CLI) check(w io.Writer, doc graph.Document, names []string) error {
	failed := 0
	for _, name := range names {
		g, _ := doc.Lookup(name)
		if err := graph.Validate(g); err != nil {
			printWarning("%s: %v", name, err)
		}
		if err := checkLayering(graph.Level(g)); err != nil {
			failed++
			fmt.Fprintf(w, "%s %s %s\n", styleIconError.Render(iconError), name, StyleError.Render(err.Error()))
			continue
		}
		fmt.Fprintf(w, "%s %s\n", styleIconSuccess.Render(iconSuccess), name)
	}
	c.Logger.Debug("checked functions", "total", len(names), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d functions", errCheckFailed, failed, len(names))
	}
	return nil
}

// checkLayering verifies that the layering edges of l form a DAG on which
// every node sits at its longest-path depth.
func checkLayering(l graph.Leveled) error {
	d := dag.FromLeveled(l)
	if err := d.Validate(); err != nil {
		return err
	}
	return d.CheckTight()
}
