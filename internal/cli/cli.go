// Package cli implements the cfglevel command-line interface.
//
// # Commands
//
//   - level: assign levels to a graph and write json, vis, dot, svg or png
//   - functions: list the functions of a document
//   - inspect: show node levels and edge hints as tables
//   - check: verify that the kept edges form a tight layering
//   - serve: run the HTTP API
//   - cache, config, completion: housekeeping
//
// Status lines go to stderr; results go to stdout unless -o is given, so
// `cfglevel level cfg.json | jq` works.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cfglevel/internal/config"
	"github.com/matzehuels/cfglevel/pkg/buildinfo"
	"github.com/matzehuels/cfglevel/pkg/cache"
	"github.com/matzehuels/cfglevel/pkg/graph"
	"github.com/matzehuels/cfglevel/pkg/pipeline"
)

const appName = "cfglevel"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
	in         io.Reader
}

// New creates a CLI that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		in:     os.Stdin,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "cfglevel assigns layout levels to control-flow graphs",
		Long: `cfglevel prepares control-flow graphs for hierarchical drawing.

Every basic block gets a level so that control flows downward; loop back
edges are found and excluded from the layering, and every edge gets a hint
saying whether it should pull on the layout and how long it should be.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return c.loadConfig() },
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cfglevel/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.levelCommand())
	root.AddCommand(c.functionsCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies its log level; --verbose wins.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level, _ := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	return nil
}

// newRunner creates a pipeline runner on the configured cache. A cache that
// cannot be opened is logged and replaced by no caching at all.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	var store cache.Cache = cache.NewNullCache()
	if !noCache {
		opened, err := cache.Open(ctx, c.Config.CacheOptions())
		if err != nil {
			c.Logger.Warn("cache unavailable, continuing without", "backend", c.Config.Cache.Backend, "err", err)
		} else {
			store = opened
		}
	}
	return pipeline.NewRunner(store, c.Config.Keyer(), c.Logger)
}

// readInput loads a graph or document from path, or from stdin for "-".
func (c *CLI) readInput(path string) (graph.Document, error) {
	if path == "-" {
		return graph.ReadDocument(c.in, graph.EncodingJSON)
	}
	return graph.ReadDocumentFile(path)
}

// selectFunction resolves the function to work on. With interactive set and
// more than one function to choose from, the picker decides.
func (c *CLI) selectFunction(doc graph.Document, name string, interactive bool) (string, error) {
	if !interactive || doc.Len() < 2 {
		return name, nil
	}
	return pickFunction(c.in, os.Stderr, doc, name)
}
