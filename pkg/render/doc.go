// Package render turns dendrogram layouts into files.
//
// # Overview
//
// The layout engine in [dendrogram] stops at canvas coordinates. This
// package and its subpackages draw them:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Layout sinks (in [sink] subpackage): SVG, JSON, ASCII, PDF, PNG
//   - Merge-tree diagrams (in [nodelink] subpackage) via Graphviz
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both sinks and node-link
// renderers use them.
//
//	svg := sink.RenderSVG(out, vp)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [dendrogram]: github.com/matzehuels/teamtree/pkg/dendrogram
// [sink]: github.com/matzehuels/teamtree/pkg/render/sink
// [nodelink]: github.com/matzehuels/teamtree/pkg/render/nodelink
package render
