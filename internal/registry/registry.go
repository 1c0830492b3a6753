// Package registry provides an in-memory catalog that maps context server
// names to their launch commands. The CLI uses it to answer "what would the
// host run for server X" for the built-in server and for any extra servers
// declared in a servers file.
//
// The registry is safe for concurrent use. Lookups take a read lock and
// return copies so callers cannot mutate internal state.
package registry

import (
	"sort"
	"sync"

	"github.com/sandraschi/filesystem-mcp/internal/extension"
	"github.com/sandraschi/filesystem-mcp/internal/host"
)

// Registry maps context server names to launch commands.
type Registry struct {
	mu      sync.RWMutex
	servers map[string]host.Command
}

// New creates a registry seeded with the built-in server entry, so a fresh
// registry resolves exactly what the plugin itself resolves.
func New() *Registry {
	r := &Registry{servers: make(map[string]host.Command)}
	if cmd, err := extension.Resolve(extension.ServerID); err == nil {
		r.servers[extension.ServerID] = cmd
	}
	return r
}

// Register adds or replaces the entry for name and reports whether an
// existing entry was overwritten (last-write-wins).
func (r *Registry) Register(name string, cmd host.Command) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, replaced := r.servers[name]
	r.servers[name] = cmd.Clone()
	return replaced
}

// Resolve returns the launch command registered under name. The error
// message matches the plugin's host contract so CLI output and host
// behavior agree.
func (r *Registry) Resolve(name string) (host.Command, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.servers[name]
	if !ok {
		return host.Command{}, &host.UnknownServerError{ID: host.ContextServerID(name)}
	}
	return cmd.Clone(), nil
}

// Remove deletes the entry for name, if present.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.servers, name)
}

// Names returns all registered server names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.servers))
	for name := range r.servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a copy of the full name-to-command table.
func (r *Registry) Snapshot() map[string]host.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]host.Command, len(r.servers))
	for name, cmd := range r.servers {
		out[name] = cmd.Clone()
	}
	return out
}
