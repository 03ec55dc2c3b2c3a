package linkage

import (
	"fmt"

	"github.com/matzehuels/teamtree/pkg/dendrogram"
)

// Leaf x positions follow the usual dendrogram convention: leaf k of the
// traversal sits at 5 + 10k and every leaf has height 0.
const (
	leafStart   = 5.0
	leafSpacing = 10.0
)

// Dendrogram converts a linkage matrix into dendrogram coordinates.
//
// The tree is walked from the root, left child first. A merge's staple is
// emitted after both of its children, so child merges always precede their
// parents in the result. labels[i] names original point i.
func Dendrogram(m Matrix, labels []string) (dendrogram.Result, error) {
	n := m.LeafCount()
	if len(labels) != n {
		return dendrogram.Result{}, fmt.Errorf("%w: %d labels for %d points", ErrInvalidMatrix, len(labels), n)
	}
	if err := checkMatrix(m); err != nil {
		return dendrogram.Result{}, err
	}

	w := walker{m: m, labels: labels, n: n}
	w.r = dendrogram.Result{
		MergeIntervals: make([][4]float64, 0, len(m)),
		MergeHeights:   make([][4]float64, 0, len(m)),
		LeafOrder:      make([]int, 0, n),
		LeafLabels:     make([]string, 0, n),
	}
	w.visit(2*n - 2)
	return w.r, nil
}

type walker struct {
	m      Matrix
	labels []string
	n      int
	r      dendrogram.Result
}

// visit lays out the subtree rooted at cluster id and returns the x of its
// top and its height.
func (w *walker) visit(id int) (x, h float64) {
	if id < w.n {
		x = leafStart + leafSpacing*float64(len(w.r.LeafOrder))
		w.r.LeafOrder = append(w.r.LeafOrder, id)
		w.r.LeafLabels = append(w.r.LeafLabels, w.labels[id])
		return x, 0
	}
	row := w.m[id-w.n]
	xl, hl := w.visit(int(row[0]))
	xr, hr := w.visit(int(row[1]))
	h = row[2]
	w.r.MergeIntervals = append(w.r.MergeIntervals, [4]float64{xl, xl, xr, xr})
	w.r.MergeHeights = append(w.r.MergeHeights, [4]float64{hl, h, h, hr})
	return (xl + xr) / 2, h
}

// checkMatrix verifies that every row merges two existing, unused clusters.
func checkMatrix(m Matrix) error {
	n := m.LeafCount()
	used := make([]bool, 2*n-1)
	for i, row := range m {
		for _, v := range row[:2] {
			id := int(v)
			if float64(id) != v || id < 0 || id >= n+i {
				return fmt.Errorf("%w: row %d references cluster %v", ErrInvalidMatrix, i, v)
			}
			if used[id] {
				return fmt.Errorf("%w: cluster %d merged twice", ErrInvalidMatrix, id)
			}
			used[id] = true
		}
	}
	return nil
}
