package linkage

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrEmpty is returned when there is nothing to cluster.
	ErrEmpty = errors.New("linkage: no points")
	// ErrRagged is returned when feature vectors differ in length.
	ErrRagged = errors.New("linkage: feature vectors differ in length")
	// ErrUnknownMethod is returned by ParseMethod for unsupported names.
	ErrUnknownMethod = errors.New("linkage: unknown method")
	// ErrInvalidMatrix is returned when a matrix does not describe a binary tree.
	ErrInvalidMatrix = errors.New("linkage: invalid matrix")
)

// Method selects how the distance between two clusters is derived from the
// distances between their members.
type Method string

const (
	Single   Method = "single"   // nearest members
	Complete Method = "complete" // farthest members
	Average  Method = "average"  // UPGMA
)

// Methods lists the supported methods in display order.
var Methods = []Method{Single, Complete, Average}

// ParseMethod parses a method name, case-insensitively.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case Single, Complete, Average:
		return m, nil
	case "":
		return Average, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Matrix is a linkage matrix. Row i merges clusters Row[0] and Row[1] at
// distance Row[2] into a cluster of Row[3] points that gets id n+i, where n
// is the number of original points. Ids below n are the points themselves.
type Matrix [][4]float64

// LeafCount returns the number of original points the matrix clusters.
func (m Matrix) LeafCount() int { return len(m) + 1 }

// Compute clusters points bottom-up with euclidean distance.
//
// Each step merges the closest pair of active clusters; ties go to the pair
// with the smallest ids so the result is deterministic. The smaller id is
// always written first.
func Compute(points [][]float64, method Method) (Matrix, error) {
	if err := checkPoints(points); err != nil {
		return nil, err
	}
	n := len(points)
	update, err := updater(method)
	if err != nil {
		return nil, err
	}

	// dist is indexed by slot; slot i holds cluster ids[i] while active.
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := 0; j < i; j++ {
			d := euclidean(points[i], points[j])
			dist[i][j], dist[j][i] = d, d
		}
	}
	ids := make([]int, n)
	sizes := make([]int, n)
	active := make([]bool, n)
	for i := range ids {
		ids[i], sizes[i], active[i] = i, 1, true
	}

	m := make(Matrix, 0, n-1)
	for step := 0; step < n-1; step++ {
		a, b := closest(dist, ids, active)
		d := dist[a][b]
		size := sizes[a] + sizes[b]

		lo, hi := ids[a], ids[b]
		if lo > hi {
			lo, hi = hi, lo
		}
		m = append(m, [4]float64{float64(lo), float64(hi), d, float64(size)})

		// Slot a takes the merged cluster, slot b retires.
		for k := 0; k < n; k++ {
			if !active[k] || k == a || k == b {
				continue
			}
			nd := update(dist[a][k], dist[b][k], sizes[a], sizes[b])
			dist[a][k], dist[k][a] = nd, nd
		}
		ids[a] = n + step
		sizes[a] = size
		active[b] = false
	}
	return m, nil
}

func checkPoints(points [][]float64) error {
	if len(points) == 0 {
		return ErrEmpty
	}
	for i, p := range points {
		if len(p) != len(points[0]) {
			return fmt.Errorf("%w: point %d has %d values, want %d", ErrRagged, i, len(p), len(points[0]))
		}
	}
	return nil
}

// closest returns the slots of the nearest active pair.
func closest(dist [][]float64, ids []int, active []bool) (int, int) {
	ba, bb := -1, -1
	best := math.Inf(1)
	for i := range dist {
		if !active[i] {
			continue
		}
		for j := i + 1; j < len(dist); j++ {
			if !active[j] {
				continue
			}
			d := dist[i][j]
			if d < best || (d == best && lessPair(ids, i, j, ba, bb)) {
				best, ba, bb = d, i, j
			}
		}
	}
	return ba, bb
}

func lessPair(ids []int, i, j, bi, bj int) bool {
	if bi < 0 {
		return true
	}
	lo, hi := min(ids[i], ids[j]), max(ids[i], ids[j])
	blo, bhi := min(ids[bi], ids[bj]), max(ids[bi], ids[bj])
	return lo < blo || (lo == blo && hi < bhi)
}

type updateFunc func(dik, djk float64, si, sj int) float64

func updater(method Method) (updateFunc, error) {
	switch method {
	case Single:
		return func(dik, djk float64, _, _ int) float64 { return math.Min(dik, djk) }, nil
	case Complete:
		return func(dik, djk float64, _, _ int) float64 { return math.Max(dik, djk) }, nil
	case Average:
		return func(dik, djk float64, si, sj int) float64 {
			return (float64(si)*dik + float64(sj)*djk) / float64(si+sj)
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Standardize rescales every feature column to zero mean and unit variance
// in place. Constant columns become zero. Points must share one length.
func Standardize(points [][]float64) {
	if len(points) == 0 {
		return
	}
	for c := range points[0] {
		var mean float64
		for _, p := range points {
			mean += p[c]
		}
		mean /= float64(len(points))

		var variance float64
		for _, p := range points {
			d := p[c] - mean
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(len(points)))

		for _, p := range points {
			if sd == 0 {
				p[c] = 0
				continue
			}
			p[c] = (p[c] - mean) / sd
		}
	}
}
