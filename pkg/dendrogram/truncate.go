package dendrogram

import (
	"strings"

	"github.com/rivo/uniseg"
)

// TruncateLabel shortens s to max user-perceived characters and appends
// ellipsis when anything was cut. Labels at or under the limit, and any label
// when max <= 0, are returned unchanged.
//
// Counting grapheme clusters keeps flags, accented names and emoji intact.
func TruncateLabel(s string, max int, ellipsis string) string {
	if max <= 0 || uniseg.GraphemeClusterCount(s) <= max {
		return s
	}

	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; i < max && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	return strings.TrimRight(b.String(), " ") + ellipsis
}
