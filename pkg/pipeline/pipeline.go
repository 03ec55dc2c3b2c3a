// Package pipeline provides the core dendrogram pipeline for teamtree.
//
// This package implements the layout → render pipeline that is shared by the
// CLI, the HTTP server and the MCP server. By centralizing this logic, every
// entry point applies the same defaults, the same cache keys and the same
// hooks.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: fit a clustering result into a viewport ([dendrogram.Compute])
//  2. Render: generate output in various formats (SVG, JSON, PDF, PNG, DOT)
//
// Loading the clustering result (from a file, the prediction backend or a
// linkage run) happens before the pipeline; see packages io, api and linkage.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ScreenWidth: 390,
//	    Formats:     []string{"svg", "json"},
//	}
//	result, err := runner.Execute(ctx, clustering, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	out, err := runner.Layout(ctx, clustering, opts)
//	artifacts, err := runner.Render(ctx, clustering, out, opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/teamtree/pkg/cache"
	"github.com/matzehuels/teamtree/pkg/dendrogram"
	tterrors "github.com/matzehuels/teamtree/pkg/errors"
	"github.com/matzehuels/teamtree/pkg/viewport"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and MCP
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 600.0

	// Default margins leave room for rotated labels below the leaves.
	DefaultMarginLeft   = 40.0
	DefaultMarginTop    = 20.0
	DefaultMarginBottom = 120.0
	DefaultMarginRight  = 40.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatTree = "tree" // merge tree drawn by Graphviz, as SVG
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatTree: true,
}

// FormatNames lists the supported formats in a stable order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the dendrogram pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options. A positive ScreenWidth picks the canvas from Policy
	// and replaces Width, Height and the margins.
	Width          float64 `json:"width,omitempty"`
	Height         float64 `json:"height,omitempty"`
	MarginLeft     float64 `json:"margin_left,omitempty"`
	MarginTop      float64 `json:"margin_top,omitempty"`
	MarginBottom   float64 `json:"margin_bottom,omitempty"`
	MarginRight    float64 `json:"margin_right,omitempty"`
	ScreenWidth    float64 `json:"screen_width,omitempty"`
	MaxLabelLength int     `json:"max_label_length,omitempty"` // 0 = default, <0 = never truncate
	Ellipsis       string  `json:"ellipsis,omitempty"`
	LabelOffset    float64 `json:"label_offset,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Title       string   `json:"title,omitempty"`
	StrokeColor string   `json:"stroke_color,omitempty"`
	FontSize    float64  `json:"font_size,omitempty"`
	LeafRadius  float64  `json:"leaf_radius,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"` // label merge heights in DOT/tree output
	Refresh     bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Policy *viewport.Policy `json:"-"`
	Logger *log.Logger      `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Source is the clustering result that was laid out.
	Source dendrogram.Result

	// SourceHash is the content hash of Source.
	SourceHash string

	// Viewport is the canvas the layout was fitted into.
	Viewport dendrogram.Viewport

	// Layout is the computed geometry.
	Layout dendrogram.Output

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LeafCount  int
	MergeCount int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return tterrors.New(tterrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults resolves the viewport and fills in layout defaults.
func (o *Options) SetLayoutDefaults() {
	if o.ScreenWidth > 0 {
		policy := viewport.DefaultPolicy()
		if o.Policy != nil {
			policy = *o.Policy
		}
		if policy.Validate() == nil {
			vp := policy.For(o.ScreenWidth)
			o.Width, o.Height = vp.Width, vp.Height
			o.MarginLeft, o.MarginTop = vp.MarginLeft, vp.MarginTop
			o.MarginBottom, o.MarginRight = vp.MarginBottom, vp.MarginRight
		}
	}
	if o.Width == 0 && o.Height == 0 {
		o.Width, o.Height = DefaultWidth, DefaultHeight
		if o.MarginLeft == 0 && o.MarginTop == 0 && o.MarginBottom == 0 && o.MarginRight == 0 {
			o.MarginLeft, o.MarginTop = DefaultMarginLeft, DefaultMarginTop
			o.MarginBottom, o.MarginRight = DefaultMarginBottom, DefaultMarginRight
		}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.MaxLabelLength == 0 {
		o.MaxLabelLength = dendrogram.DefaultMaxLabelLength
	}
	if o.Ellipsis == "" {
		o.Ellipsis = dendrogram.DefaultEllipsis
	}
	if o.LabelOffset == 0 {
		o.LabelOffset = dendrogram.DefaultLabelOffset
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Width < 0 || o.Height < 0 {
		return tterrors.New(tterrors.ErrCodeInvalidInput, "viewport size must not be negative")
	}
	if o.MarginLeft < 0 || o.MarginTop < 0 || o.MarginBottom < 0 || o.MarginRight < 0 {
		return tterrors.New(tterrors.ErrCodeInvalidInput, "margins must not be negative")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// Viewport returns the canvas described by the layout options.
func (o *Options) Viewport() dendrogram.Viewport {
	return dendrogram.Viewport{
		Width:        o.Width,
		Height:       o.Height,
		MarginLeft:   o.MarginLeft,
		MarginTop:    o.MarginTop,
		MarginBottom: o.MarginBottom,
		MarginRight:  o.MarginRight,
	}
}

// LayoutOptions returns the label options for [dendrogram.Compute].
func (o *Options) LayoutOptions() []dendrogram.Option {
	return []dendrogram.Option{
		dendrogram.WithMaxLabelLength(o.MaxLabelLength),
		dendrogram.WithEllipsis(o.Ellipsis),
		dendrogram.WithLabelOffset(o.LabelOffset),
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:          o.Width,
		Height:         o.Height,
		MarginLeft:     o.MarginLeft,
		MarginTop:      o.MarginTop,
		MarginBottom:   o.MarginBottom,
		MarginRight:    o.MarginRight,
		MaxLabelLength: o.MaxLabelLength,
		Ellipsis:       o.Ellipsis,
		LabelOffset:    o.LabelOffset,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		StrokeColor: o.StrokeColor,
		FontSize:    o.FontSize,
		LeafRadius:  o.LeafRadius,
		Title:       o.Title,
		Detailed:    o.Detailed,
	}
}
