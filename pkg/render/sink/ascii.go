package sink

import (
	"math"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/matzehuels/teamtree/pkg/dendrogram"
)

// Connection bits for box-drawing cells.
const (
	up = 1 << iota
	down
	left
	right
)

var boxRunes = map[int]string{
	up: "│", down: "│", up | down: "│",
	left: "─", right: "─", left | right: "─",
	down | right: "┌", down | left: "┐", up | right: "└", up | left: "┘",
	up | down | right: "├", up | down | left: "┤",
	left | right | down: "┬", left | right | up: "┴",
	up | down | left | right: "┼",
}

const leafGlyph = "●"

type grid struct {
	cols, rows int
	bits       [][]int
	text       [][]string
	sx, sy     float64
}

func newGrid(cols, rows int, vp dendrogram.Viewport) *grid {
	g := &grid{cols: cols, rows: rows}
	g.bits = make([][]int, rows)
	g.text = make([][]string, rows)
	for y := range g.bits {
		g.bits[y] = make([]int, cols)
		g.text[y] = make([]string, cols)
	}
	if vp.Width > 0 {
		g.sx = float64(cols-1) / vp.Width
	}
	if vp.Height > 0 {
		g.sy = float64(rows-1) / vp.Height
	}
	return g
}

func (g *grid) cell(x, y float64) (int, int) {
	cx := int(math.Round(x * g.sx))
	cy := int(math.Round(y * g.sy))
	return min(max(cx, 0), g.cols-1), min(max(cy, 0), g.rows-1)
}

func (g *grid) line(s dendrogram.Segment) {
	x1, y1 := g.cell(s.X1, s.Y1)
	x2, y2 := g.cell(s.X2, s.Y2)
	switch {
	case x1 == x2 && y1 != y2:
		lo, hi := min(y1, y2), max(y1, y2)
		for y := lo; y <= hi; y++ {
			if y > lo {
				g.bits[y][x1] |= up
			}
			if y < hi {
				g.bits[y][x1] |= down
			}
		}
	case y1 == y2 && x1 != x2:
		lo, hi := min(x1, x2), max(x1, x2)
		for x := lo; x <= hi; x++ {
			if x > lo {
				g.bits[y1][x] |= left
			}
			if x < hi {
				g.bits[y1][x] |= right
			}
		}
	}
}

// RenderASCII rasterizes out onto a cols×rows character grid scaled from
// vp. Merges are drawn with box-drawing characters, leaves as dots, and
// labels run downwards from the row below their leaf, clipped at the
// bottom edge. Non-positive sizes yield an empty string.
func RenderASCII(out dendrogram.Output, vp dendrogram.Viewport, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	g := newGrid(cols, rows, vp)

	for _, s := range out.Segments {
		g.line(s)
	}
	for _, p := range out.LeafPoints {
		x, y := g.cell(p.X, p.Y)
		g.text[y][x] = leafGlyph
	}
	for i, l := range out.Labels {
		anchor := dendrogram.Point{X: l.X, Y: l.Y}
		if i < len(out.LeafPoints) {
			anchor = out.LeafPoints[i]
		}
		x, y := g.cell(anchor.X, anchor.Y)
		gr := uniseg.NewGraphemes(l.Text)
		for row := y + 1; row < rows && gr.Next(); row++ {
			if g.text[row][x] == "" && g.bits[row][x] == 0 {
				g.text[row][x] = gr.Str()
			}
		}
	}

	var b strings.Builder
	for y := 0; y < rows; y++ {
		line := make([]string, cols)
		for x := 0; x < cols; x++ {
			switch {
			case g.text[y][x] != "":
				line[x] = g.text[y][x]
			case g.bits[y][x] != 0:
				line[x] = boxRunes[g.bits[y][x]]
			default:
				line[x] = " "
			}
		}
		b.WriteString(strings.TrimRight(strings.Join(line, ""), " "))
		if y < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
