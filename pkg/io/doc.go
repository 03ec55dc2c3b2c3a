// Package io reads and writes the files teamtree works with.
//
// # Clustering Files
//
// A clustering file holds the dendrogram coordinates produced by a
// hierarchical clustering run, as JSON or YAML:
//
//	icoord: [[5, 5, 15, 15], [10, 10, 25, 25]]
//	dcoord: [[0, 1, 1, 0], [1, 3, 3, 0]]
//	ivl: [Arsenal, Chelsea, Liverpool]
//	leaves: [0, 1, 2]
//
// Use [ImportClustering] for a path or [ReadClustering] for any io.Reader.
// Input is validated on the way in; a decoded [dendrogram.Result] is always
// safe to hand to [dendrogram.Compute]. [ExportClustering] and
// [WriteClustering] write the same format back.
//
// # Team Files
//
// A team file lists feature vectors that [linkage.Cluster] turns into a
// clustering:
//
//	{"teams": [{"name": "Arsenal", "features": [2.1, 0.8]}, ...]}
//
// # Layout Documents
//
// [ImportLayout] reads a computed layout saved by the JSON sink so it can
// be drawn again without the original clustering.
//
// # Formats
//
// Files ending in .yaml or .yml are YAML; everything else is JSON.
package io
