// Package pkg provides the core libraries for teamtree dendrogram layouts.
//
// # Overview
//
// teamtree draws hierarchical clustering results for football teams as
// dendrograms that fit the screen they are shown on. The pkg directory is
// organized into these areas:
//
//  1. [dendrogram] - The layout engine: clustering coordinates to canvas pixels
//  2. [linkage] - Agglomerative clustering of team feature vectors
//  3. [viewport] - Breakpoint policy from screen width to canvas
//  4. [render] - SVG, JSON, ASCII, PDF, PNG and Graphviz output
//  5. [pipeline] - Orchestration (layout → render) with caching
//  6. [api], [server] - Prediction API client and the HTTP layout service
//  7. [cache], [config], [errors], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow through teamtree:
//
//	Team statistics            Prediction API
//	      ↓                          ↓
//	[linkage] package          [api] package
//	      ↘                        ↙
//	     dendrogram.Result (icoord, dcoord, ivl, leaves)
//	                 ↓
//	  [viewport] package (screen width → canvas)
//	                 ↓
//	  [dendrogram] package (segments, leaf points, labels)
//	                 ↓
//	  [render] packages → SVG/PDF/PNG/JSON/DOT
//
// # Quick Start
//
// Cluster teams and render the dendrogram for a phone screen:
//
//	import (
//	    "github.com/matzehuels/teamtree/pkg/dendrogram"
//	    "github.com/matzehuels/teamtree/pkg/linkage"
//	    "github.com/matzehuels/teamtree/pkg/render/sink"
//	    "github.com/matzehuels/teamtree/pkg/viewport"
//	)
//
//	// 1. Cluster
//	res, _, err := linkage.Cluster(teams, linkage.Options{Standardize: true})
//
//	// 2. Pick a canvas
//	vp := viewport.DefaultPolicy().For(390)
//
//	// 3. Lay out
//	out, err := dendrogram.Compute(res, vp)
//
//	// 4. Render
//	svg := sink.RenderSVG(out, vp)
//
// For cached, multi-format output use [pipeline.Runner].
//
// [dendrogram]: github.com/matzehuels/teamtree/pkg/dendrogram
// [linkage]: github.com/matzehuels/teamtree/pkg/linkage
// [viewport]: github.com/matzehuels/teamtree/pkg/viewport
// [render]: github.com/matzehuels/teamtree/pkg/render
// [pipeline]: github.com/matzehuels/teamtree/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/teamtree/pkg/pipeline#Runner
// [api]: github.com/matzehuels/teamtree/pkg/api
// [server]: github.com/matzehuels/teamtree/pkg/server
// [cache]: github.com/matzehuels/teamtree/pkg/cache
// [config]: github.com/matzehuels/teamtree/pkg/config
// [errors]: github.com/matzehuels/teamtree/pkg/errors
// [observability]: github.com/matzehuels/teamtree/pkg/observability
package pkg
