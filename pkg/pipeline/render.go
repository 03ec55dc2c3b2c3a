package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/teamtree/pkg/dendrogram"
	"github.com/matzehuels/teamtree/pkg/observability"
	"github.com/matzehuels/teamtree/pkg/render/nodelink"
	"github.com/matzehuels/teamtree/pkg/render/sink"
)

// DefaultPNGScale renders PNGs at twice the viewport size.
const DefaultPNGScale = 2.0

// RenderArtifacts generates output artifacts in the requested formats.
// res is the clustering out was computed from; the JSON document embeds it
// and the DOT and tree formats are built from it.
func RenderArtifacts(ctx context.Context, res dendrogram.Result, out dendrogram.Output, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderFormats(ctx, res, out, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(ctx context.Context, res dendrogram.Result, out dendrogram.Output, opts Options) (map[string][]byte, error) {
	vp := opts.Viewport()
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	treeDOT := func() (string, error) {
		if dot != "" {
			return dot, nil
		}
		tree, err := dendrogram.BuildTree(res)
		if err != nil {
			return "", fmt.Errorf("build tree: %w", err)
		}
		dot = nodelink.ToDOT(tree, nodelink.Options{Detailed: opts.Detailed, MaxLabelLength: opts.MaxLabelLength})
		return dot, nil
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(out, vp, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, out, vp, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(DefaultPNGScale))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, out, vp, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			jsonOpts := []sink.JSONOption{sink.WithJSONTitle(opts.Title), sink.WithJSONIndent()}
			if res.LeafCount() > 0 {
				jsonOpts = append(jsonOpts, sink.WithJSONSource(res))
			}
			data, err = sink.RenderJSON(out, vp, jsonOpts...)
		case FormatDOT:
			var d string
			if d, err = treeDOT(); err == nil {
				data = []byte(d)
			}
		case FormatTree:
			var d string
			if d, err = treeDOT(); err == nil {
				data, err = nodelink.RenderSVG(ctx, d)
			}
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options. Zero values keep the sink
// defaults.
func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	if opts.StrokeColor != "" {
		svgOpts = append(svgOpts, sink.WithStrokeColor(opts.StrokeColor))
	}
	if opts.FontSize > 0 {
		svgOpts = append(svgOpts, sink.WithFontSize(opts.FontSize))
	}
	if opts.LeafRadius > 0 {
		svgOpts = append(svgOpts, sink.WithLeafRadius(opts.LeafRadius))
	}
	return svgOpts
}

// RenderFromDocument renders a saved layout document without recomputing
// it. Formats that need the merge tree require the document to carry its
// source clustering.
func RenderFromDocument(ctx context.Context, doc sink.Document, opts Options) (map[string][]byte, error) {
	opts.Width, opts.Height = doc.Viewport.Width, doc.Viewport.Height
	opts.MarginLeft, opts.MarginTop = doc.Viewport.MarginLeft, doc.Viewport.MarginTop
	opts.MarginBottom, opts.MarginRight = doc.Viewport.MarginBottom, doc.Viewport.MarginRight
	opts.ScreenWidth = 0
	if opts.Title == "" {
		opts.Title = doc.Title
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	var res dendrogram.Result
	if doc.Source != nil {
		r, err := doc.Source.Result()
		if err != nil {
			return nil, err
		}
		res = r
	} else {
		for _, f := range opts.Formats {
			if f == FormatDOT || f == FormatTree {
				return nil, fmt.Errorf("format %s needs a layout saved with its source clustering", f)
			}
		}
	}
	return RenderArtifacts(ctx, res, doc.Output, opts)
}
