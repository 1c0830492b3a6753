package fsserver

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func newTestServer(t *testing.T, root string) *Server {
	t.Helper()
	s, err := New(Config{Root: root}, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustWrite(t *testing.T, p string, b []byte, mode os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, b, mode); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func makeSymlink(t *testing.T, target, link string) error {
	t.Helper()
	// Windows often needs admin privileges for symlinks.
	if runtime.GOOS == "windows" {
		return os.ErrPermission
	}
	return os.Symlink(target, link)
}

func boolPtr(b bool) *bool { return &b }
