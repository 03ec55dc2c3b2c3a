package dendrogram

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformedInput is matched by every [MalformedInputError] via errors.Is.
var ErrMalformedInput = errors.New("malformed clustering input")

// MalformedInputError reports a clustering result whose shape cannot be laid
// out. Callers should skip rendering and show a fallback instead.
type MalformedInputError struct {
	Field  string // wire field name, e.g. "icoord"
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", ErrMalformedInput, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", ErrMalformedInput, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedInput) succeed.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

func malformed(field, format string, args ...any) error {
	return &MalformedInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the shape invariants [Compute] relies on.
//
// A result with zero leaves is valid regardless of its merges. A single leaf
// needs no merges. Two or more leaves need at least one merge.
func Validate(r Result) error {
	if len(r.MergeIntervals) != len(r.MergeHeights) {
		return malformed("dcoord", "length %d does not match icoord length %d",
			len(r.MergeHeights), len(r.MergeIntervals))
	}
	if len(r.LeafOrder) != len(r.LeafLabels) {
		return malformed("ivl", "length %d does not match leaves length %d",
			len(r.LeafLabels), len(r.LeafOrder))
	}
	if len(r.LeafOrder) == 0 {
		return nil
	}
	if len(r.LeafOrder) > 1 && len(r.MergeIntervals) == 0 {
		return malformed("icoord", "no merges for %d leaves", len(r.LeafOrder))
	}
	for i := range r.MergeIntervals {
		for j := 0; j < 4; j++ {
			if !finite(r.MergeIntervals[i][j]) {
				return malformed("icoord", "non-finite value at [%d][%d]", i, j)
			}
			if !finite(r.MergeHeights[i][j]) {
				return malformed("dcoord", "non-finite value at [%d][%d]", i, j)
			}
		}
	}
	for id, x := range r.LeafPositionOverride {
		if !finite(x) {
			return malformed("leaf_x_positions", "non-finite value for leaf %d", id)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
