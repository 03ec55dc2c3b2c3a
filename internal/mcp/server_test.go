package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/server"

	"github.com/matzehuels/teamtree/pkg/render/sink"
)

const clustering = `{"icoord": [[5, 5, 15, 15]], "dcoord": [[0, 2, 2, 0]], "ivl": ["Tottenham Hotspur", "Everton"], "leaves": [0, 1]}`

type toolResponse struct {
	Text    string
	IsError bool
}

// callTool invokes an MCP tool through the JSON-RPC entry point.
func callTool(t *testing.T, srv *server.MCPServer, name string, args map[string]any) toolResponse {
	t.Helper()

	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]any{
			"name":      name,
			"arguments": args,
		},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	respBytes, err := json.Marshal(srv.HandleMessage(context.Background(), msg))
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	var resp struct {
		Result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("unmarshal response: %v\nraw: %s", err, respBytes)
	}
	if resp.Error != nil {
		t.Fatalf("JSON-RPC error: %d %s", resp.Error.Code, resp.Error.Message)
	}
	if len(resp.Result.Content) == 0 {
		t.Fatalf("no content in result: %s", respBytes)
	}
	return toolResponse{Text: resp.Result.Content[0].Text, IsError: resp.Result.IsError}
}

func TestNewServer(t *testing.T) {
	if srv := NewServer(ServerConfig{}); srv == nil {
		t.Fatal("NewServer returned nil")
	}
}

func TestLayoutTool(t *testing.T) {
	srv := NewServer(ServerConfig{Version: "test"})

	resp := callTool(t, srv, ToolLayout, map[string]any{
		"clustering": clustering,
		"width":      300,
		"height":     200,
	})
	if resp.IsError {
		t.Fatalf("tool error: %s", resp.Text)
	}

	doc, err := sink.ParseJSON([]byte(resp.Text))
	if err != nil {
		t.Fatalf("ParseJSON() error: %v", err)
	}
	if doc.Viewport.Width != 300 || doc.Viewport.Height != 200 {
		t.Errorf("viewport = %+v", doc.Viewport)
	}
	if len(doc.Segments) != 3 {
		t.Errorf("segments = %d, want 3", len(doc.Segments))
	}
	if got := doc.Labels[0].Text; got != "Tottenham Ho…" {
		t.Errorf("label = %q, want default truncation", got)
	}
}

func TestLayoutToolLabelLength(t *testing.T) {
	srv := NewServer(ServerConfig{})

	resp := callTool(t, srv, ToolLayout, map[string]any{
		"clustering":       clustering,
		"max_label_length": 0,
	})
	if resp.IsError {
		t.Fatalf("tool error: %s", resp.Text)
	}
	doc, err := sink.ParseJSON([]byte(resp.Text))
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Labels[0].Text; got != "Tottenham Hotspur" {
		t.Errorf("label = %q, want untruncated", got)
	}
}

func TestLayoutToolScreenWidth(t *testing.T) {
	srv := NewServer(ServerConfig{})

	resp := callTool(t, srv, ToolLayout, map[string]any{
		"clustering":   clustering,
		"screen_width": 700,
	})
	if resp.IsError {
		t.Fatalf("tool error: %s", resp.Text)
	}
	doc, err := sink.ParseJSON([]byte(resp.Text))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Viewport.Width != 560 {
		t.Errorf("Width = %v, want tablet breakpoint 560", doc.Viewport.Width)
	}
}

func TestLayoutToolErrors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing clustering", map[string]any{}, "clustering is required"},
		{"not json", map[string]any{"clustering": "{"}, "not valid JSON"},
		{"malformed", map[string]any{"clustering": `{"icoord": [], "dcoord": [], "ivl": ["a", "b"], "leaves": [0]}`}, "MALFORMED_INPUT"},
	}

	srv := NewServer(ServerConfig{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, srv, ToolLayout, tt.args)
			if !resp.IsError {
				t.Fatalf("expected tool error, got %s", resp.Text)
			}
			if !strings.Contains(resp.Text, tt.want) {
				t.Errorf("error = %q, want it to contain %q", resp.Text, tt.want)
			}
		})
	}
}

func TestRenderTool(t *testing.T) {
	srv := NewServer(ServerConfig{})

	svg := callTool(t, srv, ToolRender, map[string]any{"clustering": clustering, "title": "NLD"})
	if svg.IsError {
		t.Fatalf("tool error: %s", svg.Text)
	}
	if !strings.HasPrefix(svg.Text, "<svg") || !strings.Contains(svg.Text, "<title>NLD</title>") {
		t.Errorf("unexpected svg: %.120s", svg.Text)
	}

	dot := callTool(t, srv, ToolRender, map[string]any{"clustering": clustering, "format": "dot"})
	if dot.IsError {
		t.Fatalf("tool error: %s", dot.Text)
	}
	if !strings.Contains(dot.Text, "rankdir=BT") {
		t.Errorf("unexpected dot: %s", dot.Text)
	}

	png := callTool(t, srv, ToolRender, map[string]any{"clustering": clustering, "format": "png"})
	if !png.IsError {
		t.Error("format png should be rejected")
	}
}
