package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/teamtree/pkg/dendrogram"
	pkgio "github.com/matzehuels/teamtree/pkg/io"
	"github.com/matzehuels/teamtree/pkg/render/sink"
	"github.com/matzehuels/teamtree/pkg/viewport"
)

// Terminal cells are treated as 8x16 pixel blocks when picking a viewport
// breakpoint for the terminal width.
const (
	cellWidthPx  = 8
	cellHeightPx = 16

	// previewChrome is the number of rows used by the header and help line.
	previewChrome = 4
)

var (
	previewHeaderStyle = lipgloss.NewStyle().Foreground(colorGray)
	previewHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	previewErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// previewCommand creates the preview command for drawing a dendrogram in the
// terminal.
func (c *CLI) previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview [clustering.json]",
		Short: "Draw a clustering result in the terminal",
		Long: `Draw a clustering result in the terminal.

The drawing is laid out again whenever the terminal is resized, using the
viewport breakpoint that matches the terminal width. This shows how the
dendrogram adapts from phone to desktop sizes.

Keys: t toggles label truncation, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runPreview(ctx context.Context, input string) error {
	res, err := pkgio.ImportClustering(input)
	if err != nil {
		return fmt.Errorf("load clustering %s: %w", input, err)
	}

	m := newPreviewModel(res, c.Config.Viewport, c.Config.Layout.MaxLabelLength,
		dendrogram.WithEllipsis(c.Config.Layout.Ellipsis),
		dendrogram.WithLabelOffset(c.Config.Layout.LabelOffset))
	m.title = input

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// =============================================================================
// PreviewModel - terminal dendrogram
// =============================================================================

// previewModel is the bubbletea model for the preview command.
type previewModel struct {
	res      dendrogram.Result
	policy   viewport.Policy
	maxLabel int
	opts     []dendrogram.Option
	title    string

	cols, rows int
	truncate   bool

	breakpoint string
	vp         dendrogram.Viewport
	out        dendrogram.Output
	err        error
}

func newPreviewModel(res dendrogram.Result, policy viewport.Policy, maxLabel int, opts ...dendrogram.Option) previewModel {
	if policy.Validate() != nil {
		policy = viewport.DefaultPolicy()
	}
	return previewModel{
		res:      res,
		policy:   policy,
		maxLabel: maxLabel,
		opts:     opts,
		truncate: true,
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "t":
			m.truncate = !m.truncate
			m = m.relayout()
		}
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m = m.relayout()
	}
	return m, nil
}

// relayout recomputes the layout for the current terminal size.
func (m previewModel) relayout() previewModel {
	if m.cols <= 0 || m.rows <= previewChrome {
		return m
	}

	screen := float64(m.cols * cellWidthPx)
	bp := m.policy.Lookup(screen)
	m.breakpoint = bp.Name
	m.vp = m.policy.For(screen)

	maxLabel := 0
	if m.truncate {
		maxLabel = m.maxLabel
	}
	opts := append([]dendrogram.Option{dendrogram.WithMaxLabelLength(maxLabel)}, m.opts...)
	m.out, m.err = dendrogram.Compute(m.res, m.vp, opts...)
	return m
}

func (m previewModel) View() string {
	if m.cols == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")

	name := m.breakpoint
	if name == "" {
		name = "custom"
	}
	b.WriteString(previewHeaderStyle.Render(fmt.Sprintf("%s · %.0fx%.0f px · %d teams · %d merges",
		name, m.vp.Width, m.vp.Height, m.res.LeafCount(), m.res.MergeCount())))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(previewErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString(sink.RenderASCII(m.out, m.vp, m.cols, m.rows-previewChrome))
		b.WriteString("\n")
	}

	truncation := "on"
	if !m.truncate {
		truncation = "off"
	}
	b.WriteString(previewHelpStyle.Render(fmt.Sprintf("t truncation (%s)  q quit", truncation)))
	return b.String()
}
