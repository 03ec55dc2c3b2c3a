// Package nodelink renders a dendrogram's merge tree as a node-link diagram.
//
// # Overview
//
// The layout sinks draw the classic staple picture. This package instead
// draws the tree that [dendrogram.BuildTree] reconstructs from it: teams
// are boxes, merges are points, and Graphviz decides the geometry. It is
// useful for checking a clustering result whose staples overlap.
//
// # Usage
//
//	tree, err := dendrogram.BuildTree(result)
//	dot := nodelink.ToDOT(tree, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// [ToDOT] emits bottom-to-top layout (rankdir=BT) so that teams line up
// along the bottom edge and the root merge ends up on top, as in the
// layout sinks. The DOT source can also be saved and processed with
// external Graphviz tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
