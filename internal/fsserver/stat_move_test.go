package fsserver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestHandleStat(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	mustWrite(t, filepath.Join(s.Root(), "f.txt"), []byte("hello"), 0o644)
	if err := os.Mkdir(filepath.Join(s.Root(), "d"), 0o755); err != nil {
		t.Fatal(err)
	}
	st := s.handleStat()

	res, err := st(context.Background(), mcp.CallToolRequest{}, StatArgs{Path: "f.txt"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Exists || res.Kind != "file" || res.Size != 5 || res.SizeHuman == "" {
		t.Fatalf("file stat wrong: %+v", res)
	}
	if res.Mode == "" || res.ModifiedAt == "" {
		t.Fatalf("missing metadata: %+v", res)
	}

	res, err = st(context.Background(), mcp.CallToolRequest{}, StatArgs{Path: "d"})
	if err != nil || res.Kind != "dir" {
		t.Fatalf("dir stat wrong: %+v err=%v", res, err)
	}
}

func TestStatAbsentIsNotError(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	res, err := s.handleStat()(context.Background(), mcp.CallToolRequest{}, StatArgs{Path: "nothing/here"})
	if err != nil {
		t.Fatalf("absence must not be an error: %v", err)
	}
	if res.Exists {
		t.Fatalf("expected exists=false: %+v", res)
	}
	if res.Kind != "" || res.Size != 0 {
		t.Fatalf("absent path leaked metadata: %+v", res)
	}
}

func TestStatSymlinkReportsTarget(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	mustWrite(t, filepath.Join(s.Root(), "real.txt"), []byte("x"), 0o644)
	if err := makeSymlink(t, "real.txt", filepath.Join(s.Root(), "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	res, err := s.handleStat()(context.Background(), mcp.CallToolRequest{}, StatArgs{Path: "link"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != "symlink" || res.Target != "real.txt" {
		t.Fatalf("symlink stat wrong: %+v", res)
	}
}

func TestStatOutsideRoot(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	if _, err := s.handleStat()(context.Background(), mcp.CallToolRequest{}, StatArgs{Path: "../../etc"}); !errors.Is(err, ErrPathOutsideRoot) {
		t.Fatalf("expected ErrPathOutsideRoot, got %v", err)
	}
}

func TestHandleMove(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	mustWrite(t, filepath.Join(s.Root(), "old.txt"), []byte("payload"), 0o644)
	mv := s.handleMove()

	res, err := mv(context.Background(), mcp.CallToolRequest{}, MoveArgs{Source: "old.txt", Dest: "new.txt"})
	if err != nil || !res.Moved || res.Replaced {
		t.Fatalf("move failed: %+v err=%v", res, err)
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "old.txt")); !os.IsNotExist(err) {
		t.Fatalf("source still present: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(s.Root(), "new.txt"))
	if err != nil || string(data) != "payload" {
		t.Fatalf("dest content wrong: %q err=%v", data, err)
	}
}

func TestMoveDirectory(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	mustWrite(t, filepath.Join(s.Root(), "src", "inner.txt"), []byte("x"), 0o644)

	res, err := s.handleMove()(context.Background(), mcp.CallToolRequest{}, MoveArgs{Source: "src", Dest: "dst"})
	if err != nil || !res.Moved {
		t.Fatalf("dir move failed: %+v err=%v", res, err)
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "dst", "inner.txt")); err != nil {
		t.Fatalf("moved content missing: %v", err)
	}
}

func TestMoveOverwrite(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	mustWrite(t, filepath.Join(s.Root(), "a.txt"), []byte("AAA"), 0o644)
	mustWrite(t, filepath.Join(s.Root(), "b.txt"), []byte("BBB"), 0o644)
	mv := s.handleMove()

	if _, err := mv(context.Background(), mcp.CallToolRequest{}, MoveArgs{Source: "a.txt", Dest: "b.txt"}); !errors.Is(err, ErrFileExists) {
		t.Fatalf("expected ErrFileExists, got %v", err)
	}

	res, err := mv(context.Background(), mcp.CallToolRequest{}, MoveArgs{Source: "a.txt", Dest: "b.txt", Overwrite: true})
	if err != nil || !res.Replaced {
		t.Fatalf("overwrite move failed: %+v err=%v", res, err)
	}
	data, _ := os.ReadFile(filepath.Join(s.Root(), "b.txt"))
	if string(data) != "AAA" {
		t.Fatalf("dest content not replaced: %q", data)
	}
}

func TestMoveErrors(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	mustWrite(t, filepath.Join(s.Root(), "f.txt"), []byte("x"), 0o644)
	if err := os.Mkdir(filepath.Join(s.Root(), "dir"), 0o755); err != nil {
		t.Fatal(err)
	}
	mv := s.handleMove()

	if _, err := mv(context.Background(), mcp.CallToolRequest{}, MoveArgs{Source: "absent", Dest: "x"}); !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
	if _, err := mv(context.Background(), mcp.CallToolRequest{}, MoveArgs{Source: "f.txt", Dest: "dir", Overwrite: true}); !errors.Is(err, ErrPathIsDirectory) {
		t.Fatalf("expected ErrPathIsDirectory, got %v", err)
	}
	if _, err := mv(context.Background(), mcp.CallToolRequest{}, MoveArgs{Source: "f.txt", Dest: "../out"}); !errors.Is(err, ErrPathOutsideRoot) {
		t.Fatalf("expected ErrPathOutsideRoot, got %v", err)
	}

	// Same source and dest are a successful noop.
	res, err := mv(context.Background(), mcp.CallToolRequest{}, MoveArgs{Source: "f.txt", Dest: "f.txt"})
	if err != nil || !res.Moved || res.Replaced {
		t.Fatalf("same-path move should be a noop: %+v err=%v", res, err)
	}
}
