package dendrogram

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Payload is the loosely shaped wire form of a clustering result, as sent by
// the prediction backend. Convert it with [Payload.Result] before layout so
// shape errors are caught at the boundary.
type Payload struct {
	ICoord         [][]float64        `json:"icoord" yaml:"icoord"`
	DCoord         [][]float64        `json:"dcoord" yaml:"dcoord"`
	IVL            []string           `json:"ivl" yaml:"ivl"`
	Leaves         []int              `json:"leaves" yaml:"leaves"`
	LeafXPositions map[string]float64 `json:"leaf_x_positions,omitempty" yaml:"leaf_x_positions,omitempty"`
}

// DecodePayload parses a JSON clustering payload and converts it.
func DecodePayload(data []byte) (Result, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Result{}, malformed("", "decode: %v", err)
	}
	return p.Result()
}

// Result validates the payload and converts it into a [Result].
//
// Every icoord/dcoord entry must hold exactly four values and the override
// keys must be integer leaf identifiers.
func (p Payload) Result() (Result, error) {
	intervals, err := tuples("icoord", p.ICoord)
	if err != nil {
		return Result{}, err
	}
	heights, err := tuples("dcoord", p.DCoord)
	if err != nil {
		return Result{}, err
	}

	r := Result{
		MergeIntervals: intervals,
		MergeHeights:   heights,
		LeafOrder:      p.Leaves,
		LeafLabels:     p.IVL,
	}
	if r.LeafOrder == nil {
		r.LeafOrder = []int{}
	}
	if r.LeafLabels == nil {
		r.LeafLabels = []string{}
	}

	if len(p.LeafXPositions) > 0 {
		r.LeafPositionOverride = make(map[int]float64, len(p.LeafXPositions))
		for k, v := range p.LeafXPositions {
			id, err := strconv.Atoi(strings.TrimSpace(k))
			if err != nil {
				return Result{}, malformed("leaf_x_positions", "key %q is not a leaf id", k)
			}
			r.LeafPositionOverride[id] = v
		}
	}

	if err := Validate(r); err != nil {
		return Result{}, err
	}
	return r, nil
}

// Payload converts r back into its wire form.
func (r Result) Payload() Payload {
	p := Payload{
		ICoord: make([][]float64, len(r.MergeIntervals)),
		DCoord: make([][]float64, len(r.MergeHeights)),
		IVL:    append([]string{}, r.LeafLabels...),
		Leaves: append([]int{}, r.LeafOrder...),
	}
	for i, xs := range r.MergeIntervals {
		p.ICoord[i] = append([]float64(nil), xs[:]...)
	}
	for i, ys := range r.MergeHeights {
		p.DCoord[i] = append([]float64(nil), ys[:]...)
	}
	if len(r.LeafPositionOverride) > 0 {
		p.LeafXPositions = make(map[string]float64, len(r.LeafPositionOverride))
		for id, x := range r.LeafPositionOverride {
			p.LeafXPositions[strconv.Itoa(id)] = x
		}
	}
	return p
}

func tuples(field string, rows [][]float64) ([][4]float64, error) {
	out := make([][4]float64, len(rows))
	for i, row := range rows {
		if len(row) != 4 {
			return nil, malformed(field, "entry %d has %d values, want 4", i, len(row))
		}
		copy(out[i][:], row)
	}
	return out, nil
}
