package dendrogram

import (
	"math"
	"sort"
)

// TreeNode is a leaf or a merge in a reconstructed dendrogram.
type TreeNode struct {
	LeafID   int     // leaf identifier; -1 for merges
	Label    string  // leaf label; empty for merges
	Height   float64 // 0-based source height (the merge distance for merges)
	Children []int   // indices into Tree.Nodes, left to right
}

// IsLeaf reports whether the node is a leaf.
func (n TreeNode) IsLeaf() bool { return len(n.Children) == 0 }

// Tree is a dendrogram rebuilt from glyph geometry. Nodes holds the leaves in
// leaf order followed by one node per merge in merge order, so merge i lives
// at index LeafCount+i. Root is -1 for an empty tree.
type Tree struct {
	Nodes     []TreeNode
	LeafCount int
	Root      int
}

const treeEps = 1e-6

// BuildTree reconstructs parent/child links between merges.
//
// A staple leg at (x, h) belongs to the merge whose bridge is centred on x at
// height h. Any other leg ends in a leaf; leaf legs are matched to LeafOrder
// by ascending x. The result must describe exactly one connected tree.
func BuildTree(r Result) (Tree, error) {
	if err := Validate(r); err != nil {
		return Tree{}, err
	}
	n := r.LeafCount()
	t := Tree{LeafCount: n, Root: -1}
	if n == 0 {
		return t, nil
	}

	t.Nodes = make([]TreeNode, 0, n+r.MergeCount())
	for i, id := range r.LeafOrder {
		t.Nodes = append(t.Nodes, TreeNode{LeafID: id, Label: r.LeafLabels[i]})
	}
	if r.MergeCount() == 0 {
		t.Root = 0
		return t, nil
	}

	_, minY, _ := extents(r)

	type leg struct {
		merge, side int
		x           float64
	}
	var leafLegs []leg
	children := make([][2]int, r.MergeCount())
	isChild := make([]bool, r.MergeCount())

	for i := range r.MergeIntervals {
		xs, ys := r.MergeIntervals[i], r.MergeHeights[i]
		for side, k := range [2]int{0, 3} {
			if j := findMerge(r, i, xs[k], ys[k]); j >= 0 {
				if isChild[j] {
					return Tree{}, malformed("icoord", "merge %d has more than one parent", j)
				}
				isChild[j] = true
				children[i][side] = n + j
				continue
			}
			leafLegs = append(leafLegs, leg{merge: i, side: side, x: xs[k]})
		}
	}

	if len(leafLegs) != n {
		return Tree{}, malformed("icoord", "found %d leaf legs for %d leaves", len(leafLegs), n)
	}
	sort.SliceStable(leafLegs, func(a, b int) bool { return leafLegs[a].x < leafLegs[b].x })
	for rank, l := range leafLegs {
		children[l.merge][l.side] = rank
	}

	for i := range r.MergeIntervals {
		ys := r.MergeHeights[i]
		t.Nodes = append(t.Nodes, TreeNode{
			LeafID:   -1,
			Height:   math.Max(ys[1], ys[2]) - minY,
			Children: []int{children[i][0], children[i][1]},
		})
		if !isChild[i] {
			if t.Root >= 0 {
				return Tree{}, malformed("icoord", "merges %d and %d are both roots", t.Root-n, i)
			}
			t.Root = n + i
		}
	}
	if t.Root < 0 {
		return Tree{}, malformed("icoord", "merges form a cycle")
	}
	return t, nil
}

// findMerge returns the merge (other than self) whose bridge is centred on x
// at height h, or -1.
func findMerge(r Result, self int, x, h float64) int {
	for j := range r.MergeIntervals {
		if j == self {
			continue
		}
		xs, ys := r.MergeIntervals[j], r.MergeHeights[j]
		center := (xs[1] + xs[2]) / 2
		if approxEqual(center, x) && approxEqual(ys[1], h) {
			return j
		}
	}
	return -1
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= treeEps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// Leaves returns the leaf indices under node i, left to right.
func (t Tree) Leaves(i int) []int {
	if i < 0 || i >= len(t.Nodes) {
		return nil
	}
	if t.Nodes[i].IsLeaf() {
		return []int{i}
	}
	var out []int
	for _, c := range t.Nodes[i].Children {
		out = append(out, t.Leaves(c)...)
	}
	return out
}
