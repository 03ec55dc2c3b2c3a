// Package dendrogram computes renderer-agnostic layouts for hierarchical
// clustering results.
//
// # Overview
//
// A clustering backend (scipy's dendrogram routine, [linkage.Dendrogram], or
// the prediction API) describes a dendrogram as raw glyph coordinates: one
// "∪"-shaped staple per merge, given as four horizontal positions (icoord)
// and four heights (dcoord), plus the leaf order and leaf labels. This
// package turns that description into canvas geometry:
//
//   - [Segment]: three per merge (left leg, bridge, right leg)
//   - [Point]: one per leaf, on the bottom boundary of the drawing area
//   - [LabelPlacement]: anchor point and truncated text per leaf
//
// # Layout Rules
//
// Leaves are redistributed to uniform columns instead of keeping the source
// spacing, which is often bunched near dense merges:
//
//	spacing = (width - marginLeft - marginRight) / (leafCount - 1)
//
// Merge corners are snapped to the nearest leaf column:
//
//	column  = clamp(round(x / maxX * (leafCount - 1)), 0, leafCount-1)
//	canvasX = marginLeft + column * spacing
//
// Heights are inverted so that the lowest source height sits on the bottom
// boundary (height - marginBottom) and the highest on the top margin:
//
//	canvasY = height - marginBottom - (h - minY) * heightScale
//
// When the result carries leaf position overrides, leaf points follow the
// override while merge corners keep the column formula. The two can drift
// apart visually; that is the accepted behavior.
//
// # Usage
//
//	res, err := payload.Result()
//	if err != nil {
//	    return err // MalformedInputError: skip rendering, show a fallback
//	}
//	out, err := dendrogram.Compute(res, dendrogram.Viewport{
//	    Width: 800, Height: 600,
//	    MarginLeft: 40, MarginRight: 40, MarginTop: 20, MarginBottom: 120,
//	}, dendrogram.WithMaxLabelLength(14))
//
// [Compute] is pure: it performs no I/O, keeps no state between calls and
// is safe for concurrent use. Recompute on every viewport change.
//
// [linkage.Dendrogram]: github.com/matzehuels/teamtree/pkg/linkage
package dendrogram
