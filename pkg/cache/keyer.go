package cache

// Keyer derives cache keys. Implementations must be deterministic.
type Keyer interface {
	// HTTPKey keys a raw backend response.
	HTTPKey(namespace, key string) string
	// LayoutKey keys a computed layout by the hash of its clustering result.
	LayoutKey(resultHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys a rendered artifact by the hash of its layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every input besides the clustering result that
// changes a layout.
type LayoutKeyOpts struct {
	Width          float64 `json:"w"`
	Height         float64 `json:"h"`
	MarginLeft     float64 `json:"ml"`
	MarginTop      float64 `json:"mt"`
	MarginBottom   float64 `json:"mb"`
	MarginRight    float64 `json:"mr"`
	MaxLabelLength int     `json:"max_label"`
	Ellipsis       string  `json:"ellipsis"`
	LabelOffset    float64 `json:"label_offset"`
}

// ArtifactKeyOpts holds every render option that changes an artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	StrokeColor string  `json:"stroke,omitempty"`
	FontSize    float64 `json:"font_size,omitempty"`
	LeafRadius  float64 `json:"leaf_radius,omitempty"`
	Title       string  `json:"title,omitempty"`
	Detailed    bool    `json:"detailed,omitempty"`
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>". Backend responses are keyed
// verbatim so that they can be inspected and invalidated by hand.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// LayoutKey hashes the result hash together with the layout options.
func (DefaultKeyer) LayoutKey(resultHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", resultHash, opts)
}

// ArtifactKey hashes the layout hash together with the render options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
