package dendrogram

import "math"

// =============================================================================
// Input
// =============================================================================

// Result is a hierarchical clustering result in dendrogram-coordinate form.
//
// MergeIntervals and MergeHeights are index-aligned: entry i describes the
// staple drawn for the i-th merge. LeafOrder and LeafLabels are aligned by
// position, left to right.
type Result struct {
	MergeIntervals [][4]float64 `json:"icoord" bson:"icoord"`
	MergeHeights   [][4]float64 `json:"dcoord" bson:"dcoord"`
	LeafOrder      []int        `json:"leaves" bson:"leaves"`
	LeafLabels     []string     `json:"ivl" bson:"ivl"`

	// LeafPositionOverride maps a leaf identifier to a horizontal position in
	// the same source space as MergeIntervals. Optional.
	LeafPositionOverride map[int]float64 `json:"leaf_x_positions,omitempty" bson:"leaf_x_positions,omitempty"`
}

// LeafCount returns the number of leaves in the result.
func (r Result) LeafCount() int { return len(r.LeafOrder) }

// MergeCount returns the number of merge events in the result.
func (r Result) MergeCount() int { return len(r.MergeIntervals) }

// Viewport describes the canvas the layout is fitted into.
type Viewport struct {
	Width        float64 `json:"width" toml:"width" bson:"width"`
	Height       float64 `json:"height" toml:"height" bson:"height"`
	MarginLeft   float64 `json:"margin_left" toml:"margin_left" bson:"margin_left"`
	MarginTop    float64 `json:"margin_top" toml:"margin_top" bson:"margin_top"`
	MarginBottom float64 `json:"margin_bottom" toml:"margin_bottom" bson:"margin_bottom"`
	MarginRight  float64 `json:"margin_right" toml:"margin_right" bson:"margin_right"`
}

// AvailableWidth returns the horizontal drawing area between the margins.
// It is never negative.
func (v Viewport) AvailableWidth() float64 { return math.Max(0, v.Width-v.MarginLeft-v.MarginRight) }

// AvailableHeight returns the vertical drawing area between the margins.
// It is never negative.
func (v Viewport) AvailableHeight() float64 { return math.Max(0, v.Height-v.MarginTop-v.MarginBottom) }

// Baseline returns the canvas y of the bottom boundary, where leaves sit.
func (v Viewport) Baseline() float64 { return v.Height - v.MarginBottom }

// =============================================================================
// Output
// =============================================================================

// Segment is a straight line in canvas coordinates.
type Segment struct {
	X1 float64 `json:"x1" bson:"x1"`
	Y1 float64 `json:"y1" bson:"y1"`
	X2 float64 `json:"x2" bson:"x2"`
	Y2 float64 `json:"y2" bson:"y2"`
}

// Point is a position in canvas coordinates.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// LabelPlacement is the anchor and display text of a leaf label.
type LabelPlacement struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Text   string  `json:"text" bson:"text"`
	LeafID int     `json:"leaf_id" bson:"leaf_id"`
}

// Output is the layout produced by [Compute]. Segments holds three entries
// per merge, in merge order. LeafPoints and Labels hold one entry per leaf,
// in leaf order.
type Output struct {
	Segments   []Segment        `json:"segments" bson:"segments"`
	LeafPoints []Point          `json:"leaf_points" bson:"leaf_points"`
	Labels     []LabelPlacement `json:"labels" bson:"labels"`
}

// IsEmpty reports whether the output has nothing to draw.
func (o Output) IsEmpty() bool {
	return len(o.Segments) == 0 && len(o.LeafPoints) == 0 && len(o.Labels) == 0
}

func emptyOutput() Output {
	return Output{
		Segments:   []Segment{},
		LeafPoints: []Point{},
		Labels:     []LabelPlacement{},
	}
}
