package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/teamtree/pkg/dendrogram"
	"github.com/matzehuels/teamtree/pkg/linkage"
	"github.com/matzehuels/teamtree/pkg/render/sink"
)

// ReadClustering decodes a clustering payload from r and validates it.
//
// The input must carry the dendrogram coordinates of a clustering run:
//
//	{
//	  "icoord": [[5, 5, 15, 15]],
//	  "dcoord": [[0, 2, 2, 0]],
//	  "ivl":    ["Inter", "Milan"],
//	  "leaves": [0, 1]
//	}
//
// Optional "leaf_x_positions" maps leaf ids (as strings) to x values in the
// same space as icoord.
//
// Both syntax errors and shape errors are reported as
// [*dendrogram.MalformedInputError], so callers can match every rejection
// of bad input with errors.Is(err, dendrogram.ErrMalformedInput).
// ReadClustering does not close r.
func ReadClustering(r io.Reader, f Format) (dendrogram.Result, error) {
	var p dendrogram.Payload
	if err := decode(r, f, &p); err != nil {
		return dendrogram.Result{}, &dendrogram.MalformedInputError{Reason: err.Error()}
	}
	return p.Result()
}

// ImportClustering reads a clustering file at path. The format follows the
// file extension; see [FormatFromPath].
func ImportClustering(path string) (dendrogram.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return dendrogram.Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadClustering(f, FormatFromPath(path))
}

type teamFile struct {
	Teams []linkage.Team `json:"teams" yaml:"teams"`
}

// ReadTeams decodes team feature vectors for clustering:
//
//	teams:
//	  - name: Inter
//	    features: [2.1, 0.8, 61.2]
//	  - name: Milan
//	    features: [1.7, 1.1, 55.0]
//
// Every team needs a name and at least one feature. Vector lengths are
// checked later by [linkage.Cluster].
func ReadTeams(r io.Reader, f Format) ([]linkage.Team, error) {
	var tf teamFile
	if err := decode(r, f, &tf); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(tf.Teams))
	for i, t := range tf.Teams {
		if t.Name == "" {
			return nil, fmt.Errorf("team %d: missing name", i)
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("team %s: duplicate name", t.Name)
		}
		if len(t.Features) == 0 {
			return nil, fmt.Errorf("team %s: no features", t.Name)
		}
		seen[t.Name] = true
	}
	return tf.Teams, nil
}

// ImportTeams reads a team file at path.
func ImportTeams(path string) ([]linkage.Team, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTeams(f, FormatFromPath(path))
}

// ImportLayout reads a layout document written by [sink.RenderJSON].
func ImportLayout(path string) (sink.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sink.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return sink.ParseJSON(data)
}

func decode(r io.Reader, f Format, v any) error {
	switch f {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(v); err != nil {
			return fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(v); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
	}
	return nil
}
