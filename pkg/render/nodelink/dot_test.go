package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/teamtree/pkg/dendrogram"
)

func threeTeamTree(t *testing.T) dendrogram.Tree {
	t.Helper()
	tree, err := dendrogram.BuildTree(dendrogram.Result{
		MergeIntervals: [][4]float64{{5, 5, 15, 15}, {10, 10, 25, 25}},
		MergeHeights:   [][4]float64{{0, 1, 1, 0}, {1, 3, 3, 0}},
		LeafOrder:      []int{0, 1, 2},
		LeafLabels:     []string{"Arsenal", "Chelsea", "Wolverhampton Wanderers"},
	})
	if err != nil {
		t.Fatalf("BuildTree() error: %v", err)
	}
	return tree
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(threeTeamTree(t), Options{MaxLabelLength: 12})

	for _, want := range []string{
		"rankdir=BT;",
		`"leaf0" [label="Arsenal"];`,
		`"leaf2" [label="Wolverhampto…"];`,
		`{ rank=source; "leaf0"; "leaf1"; "leaf2"; }`,
		`"leaf0" -> "leaf1" -> "leaf2" [style=invis];`,
		`"leaf0" -> "merge0";`,
		`"leaf1" -> "merge0";`,
		`"merge0" -> "merge1";`,
		`"leaf2" -> "merge1";`,
		`shape=point`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(threeTeamTree(t), Options{Detailed: true})

	for _, want := range []string{
		`"leaf1" [label="Chelsea\nid: 1"];`,
		`"merge0" [label="1", shape=ellipse`,
		`"merge1" [label="3", shape=ellipse`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT(Detailed) missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "shape=point") {
		t.Error("ToDOT(Detailed) should label merges instead of drawing points")
	}
}

func TestToDOTEmpty(t *testing.T) {
	tree, err := dendrogram.BuildTree(dendrogram.Result{})
	if err != nil {
		t.Fatalf("BuildTree() error: %v", err)
	}
	dot := ToDOT(tree, Options{})
	if strings.Contains(dot, "->") || strings.Contains(dot, "rank=source") {
		t.Errorf("ToDOT(empty) emitted nodes:\n%s", dot)
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("ToDOT(empty) not closed")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg">
<g id="graph0"></g>
</svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116">`
	if !strings.Contains(got, want) {
		t.Errorf("normalizeViewBox() = %s, want root %s", got, want)
	}
	if strings.Contains(got, "pt\"") {
		t.Error("normalizeViewBox() kept pt units")
	}

	plain := []byte(`<svg></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox(no viewBox) = %s, want unchanged", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(threeTeamTree(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("RenderSVG() root not normalized: %.200s", s)
	}
	if !strings.Contains(s, "Arsenal") {
		t.Error("RenderSVG() missing leaf label")
	}
}
