package fsserver

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

// Errors surface as structured results with is_error set, never as Go
// errors, so stdio clients see a payload instead of a dropped call.
func TestWrapTextHandlerReportsErrors(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	h := wrapTextHandler(s.handleRead(), formatReadResult)

	res, err := h(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: map[string]any{"path": "../outside"}},
	})
	if err != nil {
		t.Fatalf("handler errors must become results: %v", err)
	}
	if res == nil || !res.IsError {
		t.Fatalf("expected error result, got %+v", res)
	}
	errResp, ok := res.StructuredContent.(ErrorResponse)
	if !ok {
		t.Fatalf("expected ErrorResponse payload, got %T", res.StructuredContent)
	}
	if errResp.Code != "PATH_ESCAPE" || errResp.Operation != "read" {
		t.Fatalf("error payload wrong: %+v", errResp)
	}
}

func TestWrapTextHandlerFormatsSuccess(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	mustWrite(t, filepath.Join(s.Root(), "f.txt"), []byte("hi"), 0o644)
	h := wrapTextHandler(s.handleRead(), formatReadResult)

	res, err := h(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: map[string]any{"path": "f.txt"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %+v", res)
	}
	if len(res.Content) != 1 {
		t.Fatalf("expected one text content, got %v", res.Content)
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", res.Content[0])
	}
	if !strings.Contains(tc.Text, "path=f.txt") || !strings.Contains(tc.Text, "content=hi") {
		t.Fatalf("formatted text wrong: %q", tc.Text)
	}
}

func TestStructuredHandlerReportsErrors(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	h := wrapStructuredHandler(s.handleRead())

	res, err := h(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: map[string]any{"path": "../outside"}},
	})
	if err != nil {
		t.Fatalf("handler errors must become results: %v", err)
	}
	if res == nil || !res.IsError {
		t.Fatalf("expected error result, got %+v", res)
	}
	errResp, ok := res.StructuredContent.(ErrorResponse)
	if !ok || errResp.Code != "PATH_ESCAPE" {
		t.Fatalf("error payload wrong: %+v", res.StructuredContent)
	}
}

func TestStructuredHandlerOmitsTextContent(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	mustWrite(t, filepath.Join(s.Root(), "f.txt"), []byte("hi"), 0o644)
	h := wrapStructuredHandler(s.handleRead())

	res, err := h(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: map[string]any{"path": "f.txt"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.StructuredContent == nil {
		t.Fatalf("expected structured content")
	}
	if len(res.Content) != 0 {
		t.Fatalf("expected no text content, got %v", res.Content)
	}
	rr, ok := res.StructuredContent.(ReadResult)
	if !ok || rr.Content != "hi" || rr.Encoding != "text" {
		t.Fatalf("structured payload wrong: %+v", res.StructuredContent)
	}
}

func TestWrapHandlerBadArguments(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	h := wrapStructuredHandler(s.handleRead())

	// max_bytes must be a number; a string fails argument binding.
	res, err := h(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: map[string]any{"path": "f.txt", "max_bytes": "lots"}},
	})
	if err != nil {
		t.Fatalf("bind errors must become results: %v", err)
	}
	if res == nil || !res.IsError {
		t.Fatalf("expected error result, got %+v", res)
	}
}
