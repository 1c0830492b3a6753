package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandraschi/filesystem-mcp/internal/host"
)

func TestNewSeedsBuiltin(t *testing.T) {
	r := New()
	cmd, err := r.Resolve("filesystem-mcp")
	require.NoError(t, err)
	assert.Equal(t, "uv", cmd.Command)
	assert.Equal(t, []string{"run", "filesystem-mcp"}, cmd.Args)
}

func TestRegisterAndResolve(t *testing.T) {
	r := New()
	replaced := r.Register("docs", host.Command{
		Command: "npx",
		Args:    []string{"-y", "@example/docs-server"},
		Env:     map[string]string{"API_KEY": "k"},
	})
	assert.False(t, replaced, "Register reported replacement for a new name")

	cmd, err := r.Resolve("docs")
	require.NoError(t, err)
	assert.Equal(t, "npx", cmd.Command)
	assert.Equal(t, "k", cmd.Env["API_KEY"])

	// Mutating the resolved copy must not touch registry state.
	cmd.Args[0] = "x"
	cmd.Env["API_KEY"] = "leaked"
	again, err := r.Resolve("docs")
	require.NoError(t, err)
	assert.Equal(t, "-y", again.Args[0])
	assert.Equal(t, "k", again.Env["API_KEY"])

	assert.True(t, r.Register("docs", host.Command{Command: "node"}))
}

func TestResolveUnknownName(t *testing.T) {
	r := New()
	_, err := r.Resolve("nope")
	require.Error(t, err)
	assert.EqualError(t, err, "Unknown server: nope")
}

func TestRemove(t *testing.T) {
	r := New()
	r.Register("tmp", host.Command{Command: "true"})
	r.Remove("tmp")
	_, err := r.Resolve("tmp")
	assert.Error(t, err, "entry survived Remove")
	// Removing an absent name is a no-op.
	r.Remove("tmp")
}

func TestNamesSorted(t *testing.T) {
	r := New()
	r.Register("zeta", host.Command{Command: "z"})
	r.Register("alpha", host.Command{Command: "a"})
	assert.Equal(t, []string{"alpha", "filesystem-mcp", "zeta"}, r.Names())
}

func TestSnapshotIsACopy(t *testing.T) {
	r := New()
	snap := r.Snapshot()
	snap["filesystem-mcp"] = host.Command{Command: "hacked"}
	cmd, err := r.Resolve("filesystem-mcp")
	require.NoError(t, err)
	assert.Equal(t, "uv", cmd.Command, "snapshot mutation leaked into the registry")
}

func TestConcurrentAccess(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			r.Register(fmt.Sprintf("srv-%d", n), host.Command{Command: "x"})
		}(i)
		go func(n int) {
			defer wg.Done()
			_, _ = r.Resolve(fmt.Sprintf("srv-%d", n))
			_ = r.Names()
		}(i)
	}
	wg.Wait()
	assert.Len(t, r.Names(), 17)
}
