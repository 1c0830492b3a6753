package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeServersFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "servers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMergeFile(t *testing.T) {
	path := writeServersFile(t, t.TempDir(), `
servers:
  docs:
    command: npx
    args: ["-y", "@example/docs-server"]
    env:
      API_KEY: k
  filesystem-mcp:
    command: uvx
    args: [filesystem-mcp]
`)
	r := New()
	n, err := r.MergeFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	docs, err := r.Resolve("docs")
	require.NoError(t, err)
	assert.Equal(t, "npx", docs.Command)
	assert.Equal(t, "k", docs.Env["API_KEY"])

	// The file overrides the built-in entry.
	fs, err := r.Resolve("filesystem-mcp")
	require.NoError(t, err)
	assert.Equal(t, "uvx", fs.Command)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "missing file accepted")

	bad := writeServersFile(t, dir, "servers: [not, a, map]")
	_, err = LoadFile(bad)
	assert.Error(t, err, "malformed yaml accepted")

	noCmd := writeServersFile(t, dir, "servers:\n  broken:\n    args: [x]\n")
	_, err = LoadFile(noCmd)
	assert.Error(t, err, "entry without command accepted")
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeServersFile(t, dir, "servers:\n  a:\n    command: one\n")

	r := New()
	_, err := r.MergeFile(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan int, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, r, path, func(n int, err error) {
			if err == nil {
				reloads <- n
			}
		})
	}()

	// Give the watcher a moment to attach before rewriting the file.
	time.Sleep(200 * time.Millisecond)
	writeServersFile(t, dir, "servers:\n  a:\n    command: two\n")

	select {
	case <-reloads:
	case <-time.After(5 * time.Second):
		t.Fatal("watch never reloaded")
	}

	cmd, err := r.Resolve("a")
	require.NoError(t, err)
	assert.Equal(t, "two", cmd.Command, "reload not applied")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err, "Watch returned an error after cancel")
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop on cancel")
	}
}
