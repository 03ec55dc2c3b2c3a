// Package buildinfo holds the version stamped into teamtree binaries.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/teamtree/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/teamtree/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)" ./cmd/teamtree
package buildinfo

import "fmt"

var (
	// Version is the release tag, or "dev" for local builds.
	Version = "dev"

	// Commit is the short git SHA the binary was built from.
	Commit = "none"

	// Date is the UTC build time.
	Date = "unknown"
)

// Template is cobra's --version output.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, built %s)\n", Version, Commit, Date)
}

// UserAgent identifies teamtree to the prediction API.
func UserAgent() string {
	if Commit == "none" {
		return "teamtree/" + Version
	}
	return "teamtree/" + Version + "+" + Commit
}
