// Package host defines the types exchanged with an editor host when it asks
// the plugin for a context server launch command. The shapes mirror the
// host-side settings model: a server identifier keys into configuration, and
// a Command tells the host what process to spawn for it.
package host

// ContextServerID identifies a context server entry in the host's settings.
type ContextServerID string

// Project is the workspace handle the host passes alongside a resolution
// request. Command resolution never consults it; it exists so the callback
// signature matches the host boundary.
type Project struct{}

// Command describes how to launch a context server process: the executable,
// its argument vector, and environment overrides applied on top of the
// inherited environment. A nil Env means no overrides.
type Command struct {
	Command string            `json:"command" yaml:"command"`
	Args    []string          `json:"args" yaml:"args"`
	Env     map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
}

// Clone returns an independent copy of c. Callers may mutate the clone's
// args or env without affecting the value it was copied from.
func (c Command) Clone() Command {
	out := Command{Command: c.Command}
	if c.Args != nil {
		out.Args = make([]string, len(c.Args))
		copy(out.Args, c.Args)
	}
	if c.Env != nil {
		out.Env = make(map[string]string, len(c.Env))
		for k, v := range c.Env {
			out.Env[k] = v
		}
	}
	return out
}

// Extension is the host-facing surface of the plugin.
type Extension interface {
	// ContextServerCommand resolves the launch command for the given
	// context server. It must not spawn processes or touch the
	// filesystem; the host does the launching.
	ContextServerCommand(id ContextServerID, project *Project) (Command, error)
}

// UnknownServerError reports a context server identifier the plugin does not
// manage. The message format is part of the host contract: hosts surface it
// verbatim in their settings UI.
type UnknownServerError struct {
	ID ContextServerID
}

func (e *UnknownServerError) Error() string {
	return "Unknown server: " + string(e.ID)
}
