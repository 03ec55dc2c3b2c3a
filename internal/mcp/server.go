// Package mcp provides a Model Context Protocol server for teamtree.
//
// It exposes dendrogram layout and rendering as MCP tools so that an
// assistant can lay out a clustering result without a browser. The server
// speaks stdio transport.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/matzehuels/teamtree/pkg/dendrogram"
	tterrors "github.com/matzehuels/teamtree/pkg/errors"
	"github.com/matzehuels/teamtree/pkg/pipeline"
	"github.com/matzehuels/teamtree/pkg/render/sink"
)

// Tool names.
const (
	ToolLayout = "dendrogram_layout"
	ToolRender = "dendrogram_render"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Runner  *pipeline.Runner
	Version string // version string for MCP server info

	// Defaults supplies label options for requests that leave them out.
	Defaults pipeline.Options
}

// NewServer creates a configured MCP server with the layout tools.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}
	runner := cfg.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, nil)
	}

	s := server.NewMCPServer(
		"teamtree",
		ver,
		server.WithToolCapabilities(false),
	)

	registerLayoutTool(s, runner, cfg.Defaults)
	registerRenderTool(s, runner, cfg.Defaults)

	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(cfg ServerConfig) error {
	return server.ServeStdio(NewServer(cfg))
}

func viewportArgs(extra ...mcp.ToolOption) []mcp.ToolOption {
	opts := []mcp.ToolOption{
		mcp.WithString("clustering",
			mcp.Required(),
			mcp.Description(`Clustering result as JSON: {"icoord": [[x1,x2,x3,x4],...], "dcoord": [[y1,y2,y3,y4],...], "ivl": [labels], "leaves": [ids]}`),
		),
		mcp.WithNumber("width",
			mcp.Description("Canvas width in pixels (default: 800)"),
		),
		mcp.WithNumber("height",
			mcp.Description("Canvas height in pixels (default: 600)"),
		),
		mcp.WithNumber("screen_width",
			mcp.Description("Pick the canvas from the responsive breakpoints for this screen width. Ignored when width or height is set."),
		),
		mcp.WithNumber("max_label_length",
			mcp.Description("Truncate team names to this many characters (default: 12, 0 disables)"),
		),
	}
	return append(opts, extra...)
}

func registerLayoutTool(s *server.MCPServer, runner *pipeline.Runner, defaults pipeline.Options) {
	tool := mcp.NewTool(ToolLayout, append([]mcp.ToolOption{
		mcp.WithDescription("Compute screen coordinates for a dendrogram. Returns a JSON layout document with line segments, leaf points and label placements."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	}, viewportArgs()...)...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, opts, errResult := parseRequest(req, defaults)
		if errResult != nil {
			return errResult, nil
		}
		if err := opts.ValidateForLayout(); err != nil {
			return toolError(err), nil
		}

		out, err := runner.Layout(ctx, res, opts)
		if err != nil {
			return toolError(err), nil
		}

		data, err := sink.RenderJSON(out, opts.Viewport(), sink.WithJSONIndent())
		if err != nil {
			return toolError(err), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerRenderTool(s *server.MCPServer, runner *pipeline.Runner, defaults pipeline.Options) {
	tool := mcp.NewTool(ToolRender, append([]mcp.ToolOption{
		mcp.WithDescription("Render a dendrogram as SVG markup or Graphviz DOT source."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	}, viewportArgs(
		mcp.WithString("format",
			mcp.Description("Output format: svg or dot (default: svg)"),
			mcp.Enum(pipeline.FormatSVG, pipeline.FormatDOT),
		),
		mcp.WithString("title",
			mcp.Description("Chart title"),
		),
	)...)...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, opts, errResult := parseRequest(req, defaults)
		if errResult != nil {
			return errResult, nil
		}

		format := pipeline.FormatSVG
		if f, err := req.RequireString("format"); err == nil && f != "" {
			format = f
		}
		if format != pipeline.FormatSVG && format != pipeline.FormatDOT {
			return mcp.NewToolResultError(fmt.Sprintf("unsupported format: %s (use svg or dot)", format)), nil
		}
		opts.Formats = []string{format}
		if title, err := req.RequireString("title"); err == nil {
			opts.Title = title
		}

		result, err := runner.Execute(ctx, res, opts)
		if err != nil {
			return toolError(err), nil
		}
		return mcp.NewToolResultText(string(result.Artifacts[format])), nil
	})
}

// parseRequest decodes the shared arguments. A non-nil result is a tool
// error to return as is.
func parseRequest(req mcp.CallToolRequest, defaults pipeline.Options) (dendrogram.Result, pipeline.Options, *mcp.CallToolResult) {
	raw, err := req.RequireString("clustering")
	if err != nil {
		return dendrogram.Result{}, pipeline.Options{}, mcp.NewToolResultError("clustering is required")
	}

	var payload dendrogram.Payload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return dendrogram.Result{}, pipeline.Options{}, mcp.NewToolResultError(fmt.Sprintf("clustering is not valid JSON: %v", err))
	}
	res, err := payload.Result()
	if err != nil {
		return dendrogram.Result{}, pipeline.Options{}, toolError(err)
	}

	opts := pipeline.Options{
		MaxLabelLength: defaults.MaxLabelLength,
		Ellipsis:       defaults.Ellipsis,
		LabelOffset:    defaults.LabelOffset,
		Policy:         defaults.Policy,
	}
	if w, err := req.RequireFloat("width"); err == nil && w > 0 {
		opts.Width = w
	}
	if h, err := req.RequireFloat("height"); err == nil && h > 0 {
		opts.Height = h
	}
	if opts.Width == 0 && opts.Height == 0 {
		if sw, err := req.RequireFloat("screen_width"); err == nil && sw > 0 {
			opts.ScreenWidth = sw
		}
	} else {
		// Explicit sizes keep the default margins.
		opts.MarginLeft, opts.MarginTop = pipeline.DefaultMarginLeft, pipeline.DefaultMarginTop
		opts.MarginBottom, opts.MarginRight = pipeline.DefaultMarginBottom, pipeline.DefaultMarginRight
	}
	if n, err := req.RequireFloat("max_label_length"); err == nil {
		opts.MaxLabelLength = int(n)
		if opts.MaxLabelLength <= 0 {
			opts.MaxLabelLength = -1
		}
	}
	return res, opts, nil
}

func toolError(err error) *mcp.CallToolResult {
	err = tterrors.FromLayout(err)
	return mcp.NewToolResultError(fmt.Sprintf("%s: %s", tterrors.GetCode(err), tterrors.UserMessage(err)))
}
