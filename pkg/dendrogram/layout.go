package dendrogram

import "math"

// Compute lays out r inside vp.
//
// It returns a [MalformedInputError] when r fails [Validate]. A result with
// no leaves yields an empty, non-nil Output. Margins wider than the canvas
// are not an error: the drawing area collapses and points overlap.
//
// Compute is deterministic and allocation-only; identical inputs produce
// identical outputs.
func Compute(r Result, vp Viewport, opts ...Option) (Output, error) {
	if err := Validate(r); err != nil {
		return Output{}, err
	}
	n := r.LeafCount()
	if n == 0 {
		return emptyOutput(), nil
	}

	o := newOptions(opts...)
	s := newScale(r, vp)

	out := Output{
		Segments:   make([]Segment, 0, 3*r.MergeCount()),
		LeafPoints: make([]Point, 0, n),
		Labels:     make([]LabelPlacement, 0, n),
	}

	for i, xs := range r.MergeIntervals {
		ys := r.MergeHeights[i]
		var corners [4]Point
		for k := range corners {
			corners[k] = Point{X: s.mergeX(xs[k]), Y: s.y(ys[k])}
		}
		out.Segments = append(out.Segments,
			segment(corners[0], corners[1]),
			segment(corners[1], corners[2]),
			segment(corners[2], corners[3]),
		)
	}

	baseline := vp.Baseline()
	for i, id := range r.LeafOrder {
		x := s.leafX(i)
		if v, ok := r.LeafPositionOverride[id]; ok {
			x = s.overrideX(v)
		}
		out.LeafPoints = append(out.LeafPoints, Point{X: x, Y: baseline})
		out.Labels = append(out.Labels, LabelPlacement{
			X:      x,
			Y:      baseline + o.labelOffset,
			Text:   TruncateLabel(r.LeafLabels[i], o.maxLabelLength, o.ellipsis),
			LeafID: id,
		})
	}
	return out, nil
}

func segment(a, b Point) Segment {
	return Segment{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y}
}

// scale maps source coordinates onto the canvas.
type scale struct {
	vp          Viewport
	leafCount   int
	maxX        float64
	minY        float64
	heightScale float64
	spacing     float64
}

func newScale(r Result, vp Viewport) scale {
	maxX, minY, maxY := extents(r)
	if maxX == 0 {
		maxX = 1
	}
	yRange := maxY - minY
	if yRange == 0 {
		yRange = 1
	}

	n := r.LeafCount()
	var spacing float64
	if n > 1 {
		spacing = vp.AvailableWidth() / float64(n-1)
	}

	return scale{
		vp:          vp,
		leafCount:   n,
		maxX:        maxX,
		minY:        minY,
		heightScale: vp.AvailableHeight() / yRange,
		spacing:     spacing,
	}
}

// extents scans the merge glyphs for the largest x and the height range.
// A result without merges has all three at zero.
func extents(r Result) (maxX, minY, maxY float64) {
	if len(r.MergeIntervals) == 0 {
		return 0, 0, 0
	}
	maxX = math.Inf(-1)
	for _, xs := range r.MergeIntervals {
		for _, x := range xs {
			maxX = math.Max(maxX, x)
		}
	}
	minY, maxY = math.Inf(1), math.Inf(-1)
	for _, ys := range r.MergeHeights {
		for _, y := range ys {
			minY = math.Min(minY, y)
			maxY = math.Max(maxY, y)
		}
	}
	return maxX, minY, maxY
}

// column snaps a source x onto a leaf column. Distinct inputs that round to
// the same column share it.
func (s scale) column(x float64) int {
	idx := int(math.Round(x / s.maxX * float64(s.leafCount-1)))
	return min(max(idx, 0), s.leafCount-1)
}

func (s scale) leafX(i int) float64 {
	return s.vp.MarginLeft + float64(i)*s.spacing
}

func (s scale) mergeX(x float64) float64 {
	return s.leafX(s.column(x))
}

func (s scale) overrideX(x float64) float64 {
	return s.vp.MarginLeft + x/s.maxX*s.vp.AvailableWidth()
}

func (s scale) y(h float64) float64 {
	return s.vp.Baseline() - (h-s.minY)*s.heightScale
}
