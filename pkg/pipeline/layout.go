package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/teamtree/pkg/cache"
	"github.com/matzehuels/teamtree/pkg/dendrogram"
	"github.com/matzehuels/teamtree/pkg/observability"
)

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout fits res into the viewport described by opts.
// Options must already be validated. Hooks fire around the computation.
func ComputeLayout(ctx context.Context, res dendrogram.Result, opts Options) (dendrogram.Output, error) {
	if err := ctx.Err(); err != nil {
		return dendrogram.Output{}, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, res.LeafCount(), res.MergeCount())
	start := time.Now()

	out, err := dendrogram.Compute(res, opts.Viewport(), opts.LayoutOptions()...)
	hooks.OnLayoutComplete(ctx, res.LeafCount(), time.Since(start), err)
	return out, err
}

// HashResult returns the content hash of a clustering result. Results that
// describe the same dendrogram hash equally.
func HashResult(res dendrogram.Result) (string, error) {
	h, err := cache.HashJSON(res.Payload())
	if err != nil {
		return "", fmt.Errorf("hash clustering: %w", err)
	}
	return h, nil
}
