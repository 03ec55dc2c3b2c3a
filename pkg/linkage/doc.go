// Package linkage clusters team feature vectors and produces dendrogram
// coordinates for [github.com/matzehuels/teamtree/pkg/dendrogram].
//
// [Compute] runs naive agglomerative clustering (single, complete or average
// linkage over euclidean distance) and returns a [Matrix] in the common
// four-column form. [Dendrogram] turns a matrix into the icoord/dcoord/ivl/
// leaves arrays the layout engine consumes, so a clustering produced locally
// looks exactly like one served by the prediction backend.
//
//	r, _, err := linkage.Cluster(teams, linkage.Options{Method: linkage.Average})
//	out, err := dendrogram.Compute(r, vp)
//
// Compute is O(n³), which is fine for a league table.
package linkage
