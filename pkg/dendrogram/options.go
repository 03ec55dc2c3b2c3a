package dendrogram

// Default label settings.
const (
	DefaultMaxLabelLength = 12
	DefaultEllipsis       = "…"
	DefaultLabelOffset    = 8.0
)

// Option configures [Compute].
type Option func(*options)

type options struct {
	maxLabelLength int
	ellipsis       string
	labelOffset    float64
}

func newOptions(opts ...Option) options {
	o := options{
		maxLabelLength: DefaultMaxLabelLength,
		ellipsis:       DefaultEllipsis,
		labelOffset:    DefaultLabelOffset,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMaxLabelLength sets the number of characters (grapheme clusters) kept
// before a label is cut and suffixed with the ellipsis. n <= 0 disables
// truncation.
func WithMaxLabelLength(n int) Option { return func(o *options) { o.maxLabelLength = n } }

// WithEllipsis sets the suffix appended to truncated labels.
func WithEllipsis(s string) Option { return func(o *options) { o.ellipsis = s } }

// WithLabelOffset sets how far below the leaf point the label anchor sits.
func WithLabelOffset(px float64) Option { return func(o *options) { o.labelOffset = px } }
