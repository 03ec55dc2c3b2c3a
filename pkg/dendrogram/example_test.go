package dendrogram_test

import (
	"fmt"

	"github.com/matzehuels/teamtree/pkg/dendrogram"
)

func ExampleCompute() {
	r := dendrogram.Result{
		MergeIntervals: [][4]float64{{5, 5, 15, 15}},
		MergeHeights:   [][4]float64{{0, 2, 2, 0}},
		LeafOrder:      []int{0, 1},
		LeafLabels:     []string{"Boca Juniors", "River Plate"},
	}
	vp := dendrogram.Viewport{Width: 300, Height: 200, MarginLeft: 50, MarginRight: 50, MarginTop: 20, MarginBottom: 80}

	out, err := dendrogram.Compute(r, vp, dendrogram.WithMaxLabelLength(4))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, s := range out.Segments {
		fmt.Printf("(%g,%g)-(%g,%g)\n", s.X1, s.Y1, s.X2, s.Y2)
	}
	for _, l := range out.Labels {
		fmt.Printf("%s at (%g,%g)\n", l.Text, l.X, l.Y)
	}
	// Output:
	// (50,120)-(50,20)
	// (50,20)-(250,20)
	// (250,20)-(250,120)
	// Boca… at (50,128)
	// Rive… at (250,128)
}

func ExampleTruncateLabel() {
	fmt.Println(dendrogram.TruncateLabel("Paris Saint-Germain", 5, "…"))
	fmt.Println(dendrogram.TruncateLabel("PSG", 5, "…"))
	// Output:
	// Paris…
	// PSG
}
