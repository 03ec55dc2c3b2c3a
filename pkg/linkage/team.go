package linkage

import (
	"github.com/matzehuels/teamtree/pkg/dendrogram"
)

// Team is one entity to cluster: a display name and a feature vector such as
// per-match averages.
type Team struct {
	Name     string    `json:"name" yaml:"name"`
	Features []float64 `json:"features" yaml:"features"`
}

// Options controls [Cluster].
type Options struct {
	Method      Method
	Standardize bool
}

// Cluster clusters teams and returns the dendrogram coordinates ready for
// layout. The input slice is not modified.
func Cluster(teams []Team, opts Options) (dendrogram.Result, Matrix, error) {
	method := opts.Method
	if method == "" {
		method = Average
	}

	points := make([][]float64, len(teams))
	labels := make([]string, len(teams))
	for i, t := range teams {
		points[i] = append([]float64(nil), t.Features...)
		labels[i] = t.Name
	}

	if opts.Standardize {
		if err := checkPoints(points); err != nil {
			return dendrogram.Result{}, nil, err
		}
		Standardize(points)
	}
	m, err := Compute(points, method)
	if err != nil {
		return dendrogram.Result{}, nil, err
	}

	r, err := Dendrogram(m, labels)
	if err != nil {
		return dendrogram.Result{}, nil, err
	}
	return r, m, nil
}
