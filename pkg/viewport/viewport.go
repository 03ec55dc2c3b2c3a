// Package viewport turns a screen width into a dendrogram canvas.
//
// A [Policy] is an ordered list of breakpoints. Each breakpoint names the
// smallest screen width it applies to and the canvas size and margins to use
// from there up. Policies are plain configuration: they are loaded from the
// config file or taken from [DefaultPolicy], and the chosen
// [dendrogram.Viewport] is handed to [dendrogram.Compute].
package viewport

import (
	"errors"
	"fmt"
	"sort"

	"github.com/matzehuels/teamtree/pkg/dendrogram"
)

// ErrEmptyPolicy is returned by Validate for a policy without breakpoints.
var ErrEmptyPolicy = errors.New("viewport: policy has no breakpoints")

// Breakpoint applies from MinScreenWidth upwards.
//
// A zero Width means "as wide as the screen": the canvas takes the screen
// width at lookup time.
type Breakpoint struct {
	Name           string  `json:"name,omitempty" toml:"name"`
	MinScreenWidth float64 `json:"min_screen_width" toml:"min_screen_width"`

	dendrogram.Viewport
}

// Policy is a set of breakpoints.
type Policy struct {
	Breakpoints []Breakpoint `json:"breakpoints" toml:"breakpoints"`
}

// DefaultPolicy returns phone, tablet and desktop breakpoints. Phones get a
// deep bottom margin for rotated labels.
func DefaultPolicy() Policy {
	return Policy{Breakpoints: []Breakpoint{
		{
			Name:     "phone",
			Viewport: dendrogram.Viewport{Height: 420, MarginLeft: 20, MarginTop: 20, MarginBottom: 110, MarginRight: 20},
		},
		{
			Name:           "tablet",
			MinScreenWidth: 600,
			Viewport:       dendrogram.Viewport{Width: 560, Height: 480, MarginLeft: 30, MarginTop: 20, MarginBottom: 120, MarginRight: 30},
		},
		{
			Name:           "desktop",
			MinScreenWidth: 1024,
			Viewport:       dendrogram.Viewport{Width: 800, Height: 600, MarginLeft: 40, MarginTop: 20, MarginBottom: 120, MarginRight: 40},
		},
	}}
}

// Validate checks that the policy has breakpoints with non-negative sizes
// and distinct minimum widths.
func (p Policy) Validate() error {
	if len(p.Breakpoints) == 0 {
		return ErrEmptyPolicy
	}
	seen := make(map[float64]bool, len(p.Breakpoints))
	for i, b := range p.Breakpoints {
		if b.MinScreenWidth < 0 || b.Width < 0 || b.Height <= 0 {
			return fmt.Errorf("viewport: breakpoint %d (%s): negative or zero size", i, b.Name)
		}
		if seen[b.MinScreenWidth] {
			return fmt.Errorf("viewport: duplicate min_screen_width %g", b.MinScreenWidth)
		}
		seen[b.MinScreenWidth] = true
	}
	return nil
}

// Lookup returns the breakpoint with the largest MinScreenWidth not above
// screenWidth. Screens narrower than every breakpoint get the smallest one.
// Lookup panics on an empty policy; call Validate first.
func (p Policy) Lookup(screenWidth float64) Breakpoint {
	sorted := append([]Breakpoint(nil), p.Breakpoints...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinScreenWidth < sorted[j].MinScreenWidth
	})

	chosen := sorted[0]
	for _, b := range sorted[1:] {
		if b.MinScreenWidth > screenWidth {
			break
		}
		chosen = b
	}
	return chosen
}

// For returns the viewport for a screen of the given width.
func (p Policy) For(screenWidth float64) dendrogram.Viewport {
	vp := p.Lookup(screenWidth).Viewport
	if vp.Width == 0 {
		vp.Width = screenWidth
	}
	return vp
}
