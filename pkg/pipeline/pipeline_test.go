package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/teamtree/pkg/cache"
	"github.com/matzehuels/teamtree/pkg/dendrogram"
	tterrors "github.com/matzehuels/teamtree/pkg/errors"
	"github.com/matzehuels/teamtree/pkg/observability"
	"github.com/matzehuels/teamtree/pkg/render/sink"
	"github.com/matzehuels/teamtree/pkg/viewport"
)

func threeTeams() dendrogram.Result {
	return dendrogram.Result{
		MergeIntervals: [][4]float64{{5, 5, 15, 15}, {10, 10, 25, 25}},
		MergeHeights:   [][4]float64{{0, 1, 1, 0}, {1, 3, 3, 0}},
		LeafOrder:      []int{0, 1, 2},
		LeafLabels:     []string{"Arsenal", "Chelsea", "Wolverhampton Wanderers"},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"tree", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !tterrors.Is(err, tterrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, tterrors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	want := dendrogram.Viewport{
		Width: DefaultWidth, Height: DefaultHeight,
		MarginLeft: DefaultMarginLeft, MarginTop: DefaultMarginTop,
		MarginBottom: DefaultMarginBottom, MarginRight: DefaultMarginRight,
	}
	if got := opts.Viewport(); got != want {
		t.Errorf("Viewport() = %+v, want %+v", got, want)
	}
	if opts.MaxLabelLength != dendrogram.DefaultMaxLabelLength {
		t.Errorf("MaxLabelLength = %d, want %d", opts.MaxLabelLength, dendrogram.DefaultMaxLabelLength)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsExplicitSizeKeepsMargins(t *testing.T) {
	opts := Options{Width: 500, Height: 400, MarginLeft: 10}
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatalf("ValidateForLayout() error: %v", err)
	}
	want := dendrogram.Viewport{Width: 500, Height: 400, MarginLeft: 10}
	if got := opts.Viewport(); got != want {
		t.Errorf("Viewport() = %+v, want %+v", got, want)
	}
}

func TestOptionsScreenWidth(t *testing.T) {
	tests := []struct {
		name   string
		screen float64
		policy *viewport.Policy
		want   dendrogram.Viewport
	}{
		{
			name:   "phone",
			screen: 390,
			want:   dendrogram.Viewport{Width: 390, Height: 420, MarginLeft: 20, MarginTop: 20, MarginBottom: 110, MarginRight: 20},
		},
		{
			name:   "desktop",
			screen: 1440,
			want:   dendrogram.Viewport{Width: 800, Height: 600, MarginLeft: 40, MarginTop: 20, MarginBottom: 120, MarginRight: 40},
		},
		{
			name:   "custom policy",
			screen: 700,
			policy: &viewport.Policy{Breakpoints: []viewport.Breakpoint{
				{Viewport: dendrogram.Viewport{Width: 300, Height: 300, MarginBottom: 50}},
			}},
			want: dendrogram.Viewport{Width: 300, Height: 300, MarginBottom: 50},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{ScreenWidth: tt.screen, Policy: tt.policy, Width: 999, Height: 999}
			if err := opts.ValidateForLayout(); err != nil {
				t.Fatalf("ValidateForLayout() error: %v", err)
			}
			if got := opts.Viewport(); got != tt.want {
				t.Errorf("Viewport() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOptionsOversizedMargins(t *testing.T) {
	opts := Options{Width: 100, Height: 100, MarginLeft: 60, MarginRight: 40, MarginTop: 50, MarginBottom: 50}
	if err := opts.ValidateForLayout(); err != nil {
		t.Errorf("ValidateForLayout() error = %v, want nil", err)
	}
}

func TestOptionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code tterrors.Code
	}{
		{"negative width", Options{Width: -1, Height: 100}, tterrors.ErrCodeInvalidInput},
		{"negative margin", Options{Width: 100, Height: 100, MarginTop: -5}, tterrors.ErrCodeInvalidInput},
		{"bad format", Options{Formats: []string{"gif"}}, tterrors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !tterrors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRunnerExecute(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	ctx := context.Background()
	opts := Options{Formats: []string{FormatSVG, FormatJSON, FormatDOT}, Title: "Big Three"}

	first, err := runner.Execute(ctx, threeTeams(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if first.Stats.LeafCount != 3 || first.Stats.MergeCount != 2 {
		t.Errorf("Stats = %+v", first.Stats)
	}
	if len(first.Layout.Segments) != 6 {
		t.Errorf("len(Segments) = %d, want 6", len(first.Layout.Segments))
	}
	if first.SourceHash == "" {
		t.Error("SourceHash empty")
	}
	if got := first.Layout.Labels[2].Text; got != "Wolverhampto…" {
		t.Errorf("truncated label = %q", got)
	}

	if !strings.Contains(string(first.Artifacts[FormatSVG]), "<title>Big Three</title>") {
		t.Error("svg artifact missing title")
	}
	if !strings.Contains(string(first.Artifacts[FormatDOT]), "rankdir=BT") {
		t.Error("dot artifact missing rankdir")
	}
	doc, err := sink.ParseJSON(first.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("ParseJSON(json artifact) error: %v", err)
	}
	if doc.Source == nil || doc.Viewport != first.Viewport {
		t.Errorf("json artifact = %+v", doc)
	}

	second, err := runner.Execute(ctx, threeTeams(), opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if string(second.Artifacts[FormatSVG]) != string(first.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}

	opts.Refresh = true
	third, err := runner.Execute(ctx, threeTeams(), opts)
	if err != nil {
		t.Fatalf("refresh Execute() error: %v", err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh CacheInfo = %+v, want misses", third.CacheInfo)
	}
}

func TestRunnerLayoutChangesWithViewport(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()

	narrow, err := runner.Layout(ctx, threeTeams(), Options{ScreenWidth: 390})
	if err != nil {
		t.Fatalf("Layout(phone) error: %v", err)
	}
	wide, err := runner.Layout(ctx, threeTeams(), Options{ScreenWidth: 1440})
	if err != nil {
		t.Fatalf("Layout(desktop) error: %v", err)
	}
	if narrow.LeafPoints[2].X == wide.LeafPoints[2].X {
		t.Error("layouts for different screens should differ")
	}
}

func TestRunnerLayoutMalformed(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	bad := threeTeams()
	bad.LeafLabels = bad.LeafLabels[:2]

	_, err := runner.Execute(context.Background(), bad, Options{})
	if !errors.Is(err, dendrogram.ErrMalformedInput) {
		t.Errorf("Execute() error = %v, want ErrMalformedInput", err)
	}
}

func TestRunnerLayoutCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRunner(nil, nil, nil).Layout(ctx, threeTeams(), Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Layout() error = %v, want context.Canceled", err)
	}
}

func TestRenderFromDocument(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()
	res, err := runner.Execute(ctx, threeTeams(), Options{Formats: []string{FormatJSON}, Width: 600, Height: 300})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	doc, err := sink.ParseJSON(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("ParseJSON() error: %v", err)
	}

	artifacts, err := RenderFromDocument(ctx, doc, Options{Formats: []string{FormatSVG, FormatDOT}})
	if err != nil {
		t.Fatalf("RenderFromDocument() error: %v", err)
	}
	if !strings.Contains(string(artifacts[FormatSVG]), `viewBox="0 0 600.0 300.0"`) {
		t.Errorf("svg did not keep the document viewport: %.120s", artifacts[FormatSVG])
	}

	doc.Source = nil
	if _, err := RenderFromDocument(ctx, doc, Options{Formats: []string{FormatDOT}}); err == nil {
		t.Error("RenderFromDocument(dot without source) expected error")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnLayoutStart(context.Context, int, int) { h.record("layout-start") }
func (h *recordingHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {
	h.record("layout-complete")
}
func (h *recordingHooks) OnRenderStart(context.Context, []string) { h.record("render-start") }
func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.record("render-complete")
}

func TestRunnerHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), threeTeams(), Options{}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	want := []string{"layout-start", "layout-complete", "render-start", "render-complete"}
	if strings.Join(hooks.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}
