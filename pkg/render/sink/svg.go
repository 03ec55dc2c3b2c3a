package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/teamtree/pkg/dendrogram"
)

// Default SVG styling.
const (
	DefaultStrokeColor = "#334155"
	DefaultStrokeWidth = 2.0
	DefaultFontSize    = 12.0
	DefaultFontFamily  = "Inter, Helvetica, Arial, sans-serif"
	DefaultLeafRadius  = 3.0
	DefaultLabelAngle  = -45.0
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	stroke      string
	strokeWidth float64
	fontSize    float64
	fontFamily  string
	leafRadius  float64
	labelAngle  float64
	title       string
	background  string
}

func WithStrokeColor(c string) SVGOption   { return func(r *svgRenderer) { r.stroke = c } }
func WithStrokeWidth(w float64) SVGOption  { return func(r *svgRenderer) { r.strokeWidth = w } }
func WithFontSize(s float64) SVGOption     { return func(r *svgRenderer) { r.fontSize = s } }
func WithFontFamily(f string) SVGOption    { return func(r *svgRenderer) { r.fontFamily = f } }
func WithTitle(t string) SVGOption         { return func(r *svgRenderer) { r.title = t } }
func WithBackground(c string) SVGOption    { return func(r *svgRenderer) { r.background = c } }
func WithLabelAngle(deg float64) SVGOption { return func(r *svgRenderer) { r.labelAngle = deg } }

// WithLeafRadius sets the leaf dot radius. Zero hides the dots.
func WithLeafRadius(px float64) SVGOption { return func(r *svgRenderer) { r.leafRadius = px } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		stroke:      DefaultStrokeColor,
		strokeWidth: DefaultStrokeWidth,
		fontSize:    DefaultFontSize,
		fontFamily:  DefaultFontFamily,
		leafRadius:  DefaultLeafRadius,
		labelAngle:  DefaultLabelAngle,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws out on a canvas the size of vp.
//
// Each merge becomes one polyline through its four corners, so the three
// segments of a staple share a single element. Labels are rotated around
// their anchor and end there.
func RenderSVG(out dendrogram.Output, vp dendrogram.Viewport, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		vp.Width, vp.Height, vp.Width, vp.Height)

	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}

	renderMerges(&buf, &r, out.Segments)
	renderLeaves(&buf, &r, out.LeafPoints)
	renderLabels(&buf, &r, out.Labels)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderMerges(buf *bytes.Buffer, r *svgRenderer, segs []dendrogram.Segment) {
	fmt.Fprintf(buf, `  <g class="merges" fill="none" stroke="%s" stroke-width="%.1f" stroke-linecap="round" stroke-linejoin="round">`+"\n",
		escapeXML(r.stroke), r.strokeWidth)
	for i := 0; i+2 < len(segs); i += 3 {
		a, b, c := segs[i], segs[i+1], segs[i+2]
		fmt.Fprintf(buf, `    <polyline data-merge="%d" points="%.2f,%.2f %.2f,%.2f %.2f,%.2f %.2f,%.2f"/>`+"\n",
			i/3, a.X1, a.Y1, a.X2, a.Y2, b.X2, b.Y2, c.X2, c.Y2)
	}
	buf.WriteString("  </g>\n")
}

func renderLeaves(buf *bytes.Buffer, r *svgRenderer, points []dendrogram.Point) {
	if r.leafRadius <= 0 {
		return
	}
	fmt.Fprintf(buf, `  <g class="leaves" fill="%s">`+"\n", escapeXML(r.stroke))
	for _, p := range points {
		fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.1f"/>`+"\n", p.X, p.Y, r.leafRadius)
	}
	buf.WriteString("  </g>\n")
}

func renderLabels(buf *bytes.Buffer, r *svgRenderer, labels []dendrogram.LabelPlacement) {
	fmt.Fprintf(buf, `  <g class="labels" font-family="%s" font-size="%.1f" fill="%s" text-anchor="end" dominant-baseline="middle">`+"\n",
		escapeXML(r.fontFamily), r.fontSize, escapeXML(r.stroke))
	for _, l := range labels {
		fmt.Fprintf(buf, `    <text data-leaf="%d" x="%.2f" y="%.2f" transform="rotate(%.1f %.2f %.2f)">%s</text>`+"\n",
			l.LeafID, l.X, l.Y, r.labelAngle, l.X, l.Y, escapeXML(l.Text))
	}
	buf.WriteString("  </g>\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
