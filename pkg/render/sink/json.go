package sink

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/teamtree/pkg/dendrogram"
)

// DocumentVersion is written to every layout document.
const DocumentVersion = 1

// Document is the JSON form of a layout. It carries the viewport so that a
// saved layout can be drawn again without recomputing it.
type Document struct {
	Version  int                 `json:"version"`
	Title    string              `json:"title,omitempty"`
	Viewport dendrogram.Viewport `json:"viewport"`
	dendrogram.Output

	// Source is the clustering result the layout was computed from.
	Source *dendrogram.Payload `json:"source,omitempty"`
}

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	title  string
	source *dendrogram.Result
	indent bool
}

// WithJSONTitle records a title in the document.
func WithJSONTitle(t string) JSONOption { return func(r *jsonRenderer) { r.title = t } }

// WithJSONSource embeds the clustering result so the document can be
// re-laid out for another viewport.
func WithJSONSource(res dendrogram.Result) JSONOption {
	return func(r *jsonRenderer) { r.source = &res }
}

// WithJSONIndent pretty-prints the document.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// NewDocument builds the document [RenderJSON] serializes.
func NewDocument(out dendrogram.Output, vp dendrogram.Viewport, opts ...JSONOption) Document {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	doc := Document{
		Version:  DocumentVersion,
		Title:    r.title,
		Viewport: vp,
		Output:   out,
	}
	if r.source != nil {
		p := r.source.Payload()
		doc.Source = &p
	}
	return doc
}

// RenderJSON serializes the layout as a [Document].
func RenderJSON(out dendrogram.Output, vp dendrogram.Viewport, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	doc := NewDocument(out, vp, opts...)
	if r.indent {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

// ParseJSON reads a document written by [RenderJSON].
func ParseJSON(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode layout: %w", err)
	}
	if doc.Version != DocumentVersion {
		return Document{}, fmt.Errorf("unsupported layout version %d", doc.Version)
	}
	if doc.Segments == nil {
		doc.Segments = []dendrogram.Segment{}
	}
	if doc.LeafPoints == nil {
		doc.LeafPoints = []dendrogram.Point{}
	}
	if doc.Labels == nil {
		doc.Labels = []dendrogram.LabelPlacement{}
	}
	return doc, nil
}
