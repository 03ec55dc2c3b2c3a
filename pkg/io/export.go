package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/teamtree/pkg/dendrogram"
)

// WriteClustering encodes r as a clustering payload and writes it to w.
// The output can be read back with [ReadClustering].
func WriteClustering(w io.Writer, r dendrogram.Result, f Format) error {
	p := r.Payload()
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	}
}

// ExportClustering writes r to a file at path, in the format matching the
// file extension.
func ExportClustering(r dendrogram.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteClustering(f, r, FormatFromPath(path))
}
