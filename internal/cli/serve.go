package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/teamtree/internal/mcp"
	"github.com/matzehuels/teamtree/pkg/buildinfo"
	"github.com/matzehuels/teamtree/pkg/observability"
	"github.com/matzehuels/teamtree/pkg/pipeline"
	"github.com/matzehuels/teamtree/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Serve layouts over HTTP.

Endpoints:
  GET  /healthz
  POST /v1/layout
  POST /v1/render/{format}

The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	observability.NewLogHooks(c.Logger).Install()

	srv := server.New(runner,
		server.WithPolicy(c.Config.Viewport),
		server.WithDefaults(c.layoutDefaults()),
		server.WithLogger(c.Logger))
	return srv.ListenAndServe(ctx, addr)
}

// mcpCommand creates the mcp command that runs the MCP server on stdio.
func (c *CLI) mcpCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol server on stdio",
		Long: `Run the Model Context Protocol server on stdio.

Exposes the dendrogram_layout and dendrogram_render tools to MCP clients.
Logs go to stderr; stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			return mcp.Serve(mcp.ServerConfig{
				Runner:   runner,
				Version:  buildinfo.Version,
				Defaults: c.layoutDefaults(),
			})
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// layoutDefaults returns the label and viewport settings from the config.
func (c *CLI) layoutDefaults() pipeline.Options {
	policy := c.Config.Viewport
	return pipeline.Options{
		MaxLabelLength: c.Config.Layout.MaxLabelLength,
		Ellipsis:       c.Config.Layout.Ellipsis,
		LabelOffset:    c.Config.Layout.LabelOffset,
		Policy:         &policy,
	}
}
