package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/teamtree/pkg/dendrogram"
	pkgio "github.com/matzehuels/teamtree/pkg/io"
	"github.com/matzehuels/teamtree/pkg/pipeline"
	"github.com/matzehuels/teamtree/pkg/render/sink"
)

// layoutCommand creates the layout command for computing dendrogram layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output    string
		noCache   bool
		refresh   bool
		showTable bool
		title     string
		flags     layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [clustering.json]",
		Short: "Compute a dendrogram layout from a clustering result",
		Long: `Compute a dendrogram layout from a clustering result.

The layout command takes a clustering file (produced by 'cluster' or 'fetch')
and computes line segments, leaf points and label positions for one canvas.
The output is a layout.json file (same format as 'render -f json') that can
be rendered to SVG/PNG/PDF using the 'visualize' command.

Use --screen-width to pick the canvas from the configured viewport
breakpoints instead of giving --width and --height.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.resolve(cmd, c.Config, c.Logger)
			opts.Refresh = refresh
			opts.Title = title
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache, showTable)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")

	// Layout flags
	flags.register(cmd)
	cmd.Flags().StringVar(&title, "title", "", "title stored in the layout document")
	cmd.Flags().BoolVar(&showTable, "table", false, "print leaf positions as a table")

	return cmd
}

// runLayout loads the clustering, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache, showTable bool) error {
	res, err := pkgio.ImportClustering(input)
	if err != nil {
		return fmt.Errorf("load clustering %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	start := time.Now()
	out, cacheHit, err := runner.LayoutWithCacheInfo(ctx, res, opts)
	if err != nil {
		spinner.StopWithFailure("Layout")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	vp := opts.Viewport()
	data, err := sink.RenderJSON(out, vp, sink.WithJSONTitle(opts.Title), sink.WithJSONSource(res), sink.WithJSONIndent())
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		base = strings.TrimSuffix(base, ".clustering")
		outputPath = base + ".layout.json"
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath, len(data))
	printStats(res.LeafCount(), res.MergeCount(), cacheHit, elapsed)
	printDetail("Canvas %gx%g", vp.Width, vp.Height)
	if showTable {
		printNewline()
		fmt.Println(leafTable(out))
	}
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}

// leafTable renders leaf positions in leaf order.
func leafTable(out dendrogram.Output) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, len(out.Labels))
	for i, l := range out.Labels {
		p := out.LeafPoints[i]
		rows[i] = []string{
			strconv.Itoa(i + 1),
			l.Text,
			strconv.Itoa(l.LeafID),
			strconv.FormatFloat(p.X, 'f', 1, 64),
			strconv.FormatFloat(p.Y, 'f', 1, 64),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Team", "Leaf", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if col == 1 {
				return cellStyle.Foreground(colorWhite)
			}
			return cellStyle.Foreground(colorDim).Align(lipgloss.Right)
		})
	return t.Render()
}
