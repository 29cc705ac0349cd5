package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cfglevel/pkg/graph"
	"github.com/matzehuels/cfglevel/pkg/pipeline"
)

// levelOpts holds the flags of the level command.
type levelOpts struct {
	output      string
	noCache     bool
	interactive bool
	pipeline.Options
}

// levelCommand creates the level command.
func (c *CLI) levelCommand() *cobra.Command {
	var opts levelOpts

	cmd := &cobra.Command{
		Use:   "level [graph.json|-]",
		Short: "Assign levels to a control-flow graph",
		Long: `Assign levels to a control-flow graph and write the result.

The input is a single graph ({"nodes": [...], "edges": [...]}) or a document
of several functions ({"functions": {"main": {...}}}); use - for stdin.
YAML files are recognized by their extension.

Formats:
  json   the graph with "level" on nodes and physics/length/kind on edges
  vis    a vis-network payload with the hierarchical layout options
  dot    Graphviz source with one rank per level
  svg    rendered with the embedded Graphviz
  png    rendered with the embedded Graphviz

Text formats go to stdout unless -o is given; images are written next to the
input. With -o, a .yaml extension switches the json format to YAML.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runLevel(cmd.Context(), args[0], opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Function, "func", "", "function to level (default: first in name order)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", pipeline.DefaultFormat, "output format: json, vis, dot, svg, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick the function interactively")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "append levels to node labels (dot, svg, png)")
	cmd.Flags().BoolVar(&opts.HideBackEdges, "hide-back-edges", false, "omit edges that do not shape the layout (dot, svg, png)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached result exists")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runLevel(ctx context.Context, input string, opts levelOpts, stdout io.Writer) error {
	if input == "-" && opts.interactive {
		return errors.New("--interactive cannot be combined with input on stdin")
	}
	doc, err := c.readInput(input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	if opts.Function, err = c.selectFunction(doc, opts.Function, opts.interactive); err != nil {
		return err
	}

	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	image := opts.Format == graph.FormatSVG || opts.Format == graph.FormatPNG
	var sp *spinner
	if image {
		sp = newSpinner(ctx, fmt.Sprintf("Rendering %s...", opts.Format))
		sp.Start()
	}
	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, doc, opts.Options)
	if sp != nil {
		sp.Stop()
	}
	if err != nil {
		return err
	}
	prog.done("leveled", "function", res.Function, "cached", res.CacheInfo.LevelHit)

	out := opts.output
	if out == "" && image {
		out = imagePath(input, res.Function, opts.Format)
	}
	if out == "" {
		_, err := stdout.Write(res.Artifact)
		return err
	}

	if opts.Format == graph.FormatJSON && graph.EncodingFor(out) == graph.EncodingYAML {
		err = graph.WriteFile(out, res.Leveled)
	} else {
		err = os.WriteFile(out, res.Artifact, 0o644)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Leveled %s", displayName(res.Function))
	printStats(res.Leveled.Stats.Nodes, res.Leveled.Stats.Back, res.Leveled.Stats.Levels, res.CacheInfo.LevelHit)
	printFile(out)
	return nil
}

// imagePath derives an output file next to the input: cfg.json -> cfg.svg,
// or cfg.main.svg for a named function of a document. Stdin writes to the
// working directory.
func imagePath(input, function, format string) string {
	base := "graph"
	dir := "."
	if input != "-" {
		dir = filepath.Dir(input)
		base = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	if function != "" && function != graph.SingleGraphName {
		base += "." + sanitize(function)
	}
	return filepath.Join(dir, base+"."+format)
}

// sanitize makes a function name safe to use in a file name.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}

func displayName(function string) string {
	if function == "" {
		return "empty document"
	}
	return function
}
