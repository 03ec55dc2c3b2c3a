// Package server exposes the dendrogram pipeline over HTTP.
//
// # Endpoints
//
//	GET  /healthz              liveness and version
//	POST /v1/layout            layout document (JSON)
//	POST /v1/render/{format}   rendered artifact (svg, png, pdf, json, dot, tree)
//
// Both POST endpoints take the same body:
//
//	{
//	  "clustering": {"icoord": [...], "dcoord": [...], "ivl": [...], "leaves": [...]},
//	  "screen_width": 390,
//	  "max_label_length": 10
//	}
//
// An explicit "viewport" object wins over "screen_width"; without either
// the pipeline defaults apply.
//
// # Errors
//
// Failures are JSON objects with a code from package errors:
//
//	{"code": "MALFORMED_INPUT", "message": "icoord: entry 0 has 3 values, want 4", "request_id": "..."}
//
// Malformed clustering input is 422, an unreadable body is 400.
//
// # Request IDs
//
// Every response carries an X-Request-ID header. A client-supplied ID is
// kept; otherwise a UUID is generated. The ID appears in the access log.
package server
