// Package cli implements the teamtree command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/teamtree/pkg/buildinfo"
	"github.com/matzehuels/teamtree/pkg/cache"
	"github.com/matzehuels/teamtree/pkg/config"
	"github.com/matzehuels/teamtree/pkg/observability"
	"github.com/matzehuels/teamtree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config     config.Config
	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level. Debug level also routes pipeline,
// cache and HTTP events to the logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Install()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "teamtree lays out team-similarity dendrograms",
		Long: `teamtree turns hierarchical clustering results for football teams into
dendrogram drawings that fit any screen, from a phone to a printed page.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/teamtree/config.toml)")

	// Register all subcommands
	root.AddCommand(c.clusterCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.mcpCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies its log level.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return fmt.Errorf("config path: %w", err)
		}
		path = p
	}
	c.configPath = path

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.SetLogLevel(cfg.Level())
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, keyer, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// openCache opens the configured cache backend. A backend that cannot be
// reached degrades to no caching with a warning.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	if noCache {
		return cache.NewNullCache(), cache.NewDefaultKeyer(), nil
	}
	cc, keyer, err := cache.Open(ctx, c.Config.Cache)
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", c.Config.Cache.Backend, "error", err)
		return cache.NewNullCache(), cache.NewDefaultKeyer(), nil
	}
	return cc, keyer, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the layout options shared by layout, render and preview.
type layoutFlags struct {
	opts pipeline.Options
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.opts.Width, "width", 0, "canvas width in pixels (default 800)")
	cmd.Flags().Float64Var(&f.opts.Height, "height", 0, "canvas height in pixels (default 600)")
	cmd.Flags().Float64Var(&f.opts.ScreenWidth, "screen-width", 0, "pick the canvas from the viewport breakpoints for this screen width")
	cmd.Flags().IntVar(&f.opts.MaxLabelLength, "max-label-length", 0, "truncate team names after this many characters (0 disables)")
}

// resolve applies configuration defaults to anything not given on the
// command line.
func (f *layoutFlags) resolve(cmd *cobra.Command, cfg config.Config, logger *log.Logger) pipeline.Options {
	opts := f.opts
	opts.Logger = logger
	policy := cfg.Viewport
	opts.Policy = &policy

	if cmd.Flags().Changed("max-label-length") {
		if opts.MaxLabelLength <= 0 {
			opts.MaxLabelLength = -1
		}
	} else {
		opts.MaxLabelLength = cfg.Layout.MaxLabelLength
	}
	opts.LabelOffset = cfg.Layout.LabelOffset
	opts.Ellipsis = cfg.Layout.Ellipsis

	// Explicit canvas sizes keep the default margins.
	if opts.ScreenWidth == 0 && (opts.Width > 0 || opts.Height > 0) {
		opts.MarginLeft, opts.MarginTop = pipeline.DefaultMarginLeft, pipeline.DefaultMarginTop
		opts.MarginBottom, opts.MarginRight = pipeline.DefaultMarginBottom, pipeline.DefaultMarginRight
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
