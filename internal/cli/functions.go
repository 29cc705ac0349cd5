package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// functionsCommand creates the functions command.
func (c *CLI) functionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "functions [graph.json|-]",
		Short: "List the functions of a document",
		Long: `List every function of a document with its size and leveling summary.

A bare graph is listed as a single function named "graph".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.readInput(args[0])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			entries := functionEntries(doc)
			if len(entries) == 0 {
				printInfo("No functions")
				return nil
			}

			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{
					e.Name,
					strconv.Itoa(e.Nodes),
					strconv.Itoa(e.Edges),
					strconv.Itoa(e.Back),
					strconv.Itoa(e.Levels),
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Function", "Nodes", "Edges", "Back", "Levels"},
				rows,
				func(row, col int) bool { return col > 0 },
			))
			return nil
		},
	}
}
