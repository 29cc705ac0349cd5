package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cfglevel/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve leveling over HTTP until interrupted.

  GET  /healthz
  POST /v1/level?func=NAME&format=json|vis|dot|svg|png
  POST /v1/documents
  GET  /v1/documents/{id}
  GET  /v1/documents/{id}/functions/{name}

Stored documents and results use the configured cache backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Server
			if addr != "" {
				cfg.Addr = addr
			}
			runner := c.newRunner(cmd.Context(), noCache)
			defer runner.Close()

			return server.New(runner, c.Logger, cfg).ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching; documents cannot be stored")

	return cmd
}
