// Package sink provides output format renderers for dendrogram layouts.
//
// # Overview
//
// A "sink" transforms a computed [dendrogram.Output] and the
// [dendrogram.Viewport] it was fitted to into a final output format:
//
//   - SVG: scalable vector graphics, one polyline per merge
//   - JSON: a layout [Document] that can be drawn again later
//   - ASCII: a box-drawing raster for terminals
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster image output (requires rsvg-convert)
//
// # SVG Output
//
//	svg := sink.RenderSVG(out, vp,
//	    sink.WithTitle("Premier League 2024-25"),
//	    sink.WithStrokeColor("#0f172a"),
//	    sink.WithFontSize(11),
//	)
//
// Leaf labels are rotated around their anchor (−45° by default) so long
// names fit in the bottom margin.
//
// # JSON Output
//
// [RenderJSON] writes a versioned [Document]; [ParseJSON] reads it back.
// With [WithJSONSource] the clustering result is embedded, which lets the
// HTTP server and the CLI re-run the layout for a different screen.
package sink
