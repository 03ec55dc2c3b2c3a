package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/teamtree/pkg/io"
	"github.com/matzehuels/teamtree/pkg/pipeline"
)

// renderCommand creates the render command, the shortcut from a clustering
// result straight to output files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		refresh    bool
		flags      layoutFlags
		style      renderStyle
	)

	cmd := &cobra.Command{
		Use:   "render [clustering.json]",
		Short: "Render a clustering result to SVG, PNG, PDF, JSON or DOT",
		Long: `Render a clustering result to SVG, PNG, PDF, JSON or DOT.

This runs 'layout' and 'visualize' in one step. Formats:

  svg   dendrogram drawing
  png   raster of the drawing (requires rsvg-convert)
  pdf   print version of the drawing (requires rsvg-convert)
  json  layout document, same as 'layout'
  dot   Graphviz source of the merge tree
  tree  merge tree drawn by Graphviz

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.resolve(cmd, c.Config, c.Logger)
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.Refresh = refresh
			style.apply(&opts)
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames(), ", ")+" (comma-separated, default svg)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	flags.register(cmd)
	style.register(cmd)

	return cmd
}

// renderStyle holds the drawing flags shared by render and visualize.
type renderStyle struct {
	title       string
	strokeColor string
	fontSize    float64
	leafRadius  float64
	detailed    bool
}

func (s *renderStyle) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.title, "title", "", "chart title")
	cmd.Flags().StringVar(&s.strokeColor, "stroke", "", "line color (SVG color value)")
	cmd.Flags().Float64Var(&s.fontSize, "font-size", 0, "label font size in pixels")
	cmd.Flags().Float64Var(&s.leafRadius, "leaf-radius", 0, "leaf dot radius in pixels")
	cmd.Flags().BoolVar(&s.detailed, "detailed", false, "show merge heights and leaf ids (tree, dot)")
}

func (s *renderStyle) apply(opts *pipeline.Options) {
	if s.title != "" {
		opts.Title = s.title
	}
	opts.StrokeColor = s.strokeColor
	opts.FontSize = s.fontSize
	opts.LeafRadius = s.leafRadius
	opts.Detailed = s.detailed
}

// runRender loads the clustering and renders it to the requested formats.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	res, err := pkgio.ImportClustering(input)
	if err != nil {
		return fmt.Errorf("load clustering %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, res, opts)
	if err != nil {
		spinner.StopWithFailure("Render")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	}); err != nil {
		return err
	}
	printStats(result.Stats.LeafCount, result.Stats.MergeCount,
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
		result.Stats.LayoutTime+result.Stats.RenderTime)
	return nil
}

// =============================================================================
// Output Files
// =============================================================================

// artifactWriteParams describes a set of rendered artifacts to write.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // input file, used to derive names
	output    string // -o value
}

// writeArtifacts writes one file per format. A single format goes to
// output verbatim; several formats share output as base path.
func writeArtifacts(p artifactWriteParams) error {
	base := basePath(p.output, p.input)
	printSuccess("Rendered %d file(s)", len(p.formats))
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			return fmt.Errorf("no %s output produced", format)
		}

		path := base + "." + artifactExt(format)
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}

		out, err := openOutput(path)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			out.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := out.Close(); err != nil {
			return err
		}
		printFile(path, len(data))
	}
	return nil
}

// artifactExt is the file extension for a format.
func artifactExt(format string) string {
	switch format {
	case pipeline.FormatTree:
		return "tree.svg"
	case pipeline.FormatJSON:
		return "layout.json"
	}
	return format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input (and a trailing
// ".clustering" or ".layout").
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		base = strings.TrimSuffix(base, ".clustering")
		return strings.TrimSuffix(base, ".layout")
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// openOutput creates the file at path, overwriting if it exists. "-" means
// stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// fileSize returns the size of path, or 0 if it cannot be read.
func fileSize(path string) int {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return int(info.Size())
}
