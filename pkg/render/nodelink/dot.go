package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/teamtree/pkg/dendrogram"
)

// Options configures merge-tree diagram rendering.
type Options struct {
	// Detailed adds merge heights to merge nodes and leaf ids to leaves.
	Detailed bool

	// MaxLabelLength truncates leaf labels; zero keeps them whole.
	MaxLabelLength int
}

// ToDOT converts a reconstructed merge tree to Graphviz DOT.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Leaves are boxes, merges are small points, and edges run from each child
// to its merge. With rankdir=BT the leaves sit along the bottom and the root
// at the top, matching the staple layout. Leaves share one rank and are
// chained invisibly so they keep leaf order.
func ToDOT(t dendrogram.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	if len(t.Nodes) == 0 {
		buf.WriteString("}\n")
		return buf.String()
	}

	leafIDs := make([]string, 0, t.LeafCount)
	for i, n := range t.Nodes {
		id := nodeID(t, i)
		if n.IsLeaf() {
			leafIDs = append(leafIDs, strconv.Quote(id))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(n, opts), ", "))
	}

	fmt.Fprintf(&buf, "\n  { rank=source; %s; }\n", strings.Join(leafIDs, "; "))
	if len(leafIDs) > 1 {
		fmt.Fprintf(&buf, "  %s [style=invis];\n", strings.Join(leafIDs, " -> "))
	}

	buf.WriteString("\n")
	for i, n := range t.Nodes {
		for _, c := range n.Children {
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(t, c), nodeID(t, i))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(t dendrogram.Tree, i int) string {
	if i < t.LeafCount {
		return fmt.Sprintf("leaf%d", t.Nodes[i].LeafID)
	}
	return fmt.Sprintf("merge%d", i-t.LeafCount)
}

func fmtAttrs(n dendrogram.TreeNode, opts Options) []string {
	if n.IsLeaf() {
		label := dendrogram.TruncateLabel(n.Label, opts.MaxLabelLength, dendrogram.DefaultEllipsis)
		if opts.Detailed {
			label = fmt.Sprintf("%s\nid: %d", label, n.LeafID)
		}
		return []string{fmt.Sprintf("label=%q", label)}
	}
	if opts.Detailed {
		return []string{
			fmt.Sprintf("label=%q", strconv.FormatFloat(n.Height, 'g', 4, 64)),
			"shape=ellipse", "style=filled", "fillcolor=lightgrey", "fontsize=10",
		}
	}
	return []string{`label=""`, "shape=point", "width=0.08"}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel-sized one so the SVG scales like the layout sinks' output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
