// Package extension implements the editor-plugin side of the filesystem-mcp
// context server: given a server identifier from the host's settings, it
// resolves the command line the host should spawn.
package extension

import (
	"github.com/sandraschi/filesystem-mcp/internal/host"
)

const (
	// ServerID is the identifier under which hosts register this server.
	// Matching is exact; no normalization is applied.
	ServerID = "filesystem-mcp"

	// launcher runs the server out of its project environment so the host
	// never needs the package installed globally.
	launcher = "uv"
)

// Extension resolves context server identifiers for the host. It holds no
// state; every resolution is a pure lookup.
type Extension struct{}

var _ host.Extension = (*Extension)(nil)

// New returns the plugin entry point handed to the host.
func New() *Extension {
	return &Extension{}
}

// ContextServerCommand resolves the launch command for id. The project
// handle is accepted for signature compatibility and never consulted, so
// resolution behaves identically across workspaces.
func (e *Extension) ContextServerCommand(id host.ContextServerID, _ *host.Project) (host.Command, error) {
	return Resolve(id)
}

// Resolve maps a context server identifier to its launch command. It is
// total: every input yields either a command or an UnknownServerError, and
// repeated calls return freshly constructed values.
func Resolve(id host.ContextServerID) (host.Command, error) {
	switch id {
	case ServerID:
		return host.Command{
			Command: launcher,
			Args:    []string{"run", ServerID},
		}, nil
	default:
		return host.Command{}, &host.UnknownServerError{ID: id}
	}
}
