package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/sandraschi/filesystem-mcp/internal/host"
)

// Config selects an optional servers file to merge over the built-in
// entries.
type Config struct {
	// File is the path to a servers YAML file. Empty disables merging.
	File string `mapstructure:"file" default:""`
}

// File is the on-disk shape of a servers file. The layout follows the
// mcpServers convention used by MCP client configs, in YAML:
//
//	servers:
//	  my-server:
//	    command: npx
//	    args: [-y, "@scope/my-server"]
//	    env:
//	      API_KEY: secret
type File struct {
	Servers map[string]host.Command `yaml:"servers"`
}

// LoadFile parses a servers file and validates each entry.
func LoadFile(path string) (map[string]host.Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for name, cmd := range f.Servers {
		if name == "" {
			return nil, fmt.Errorf("%s: server entry with empty name", path)
		}
		if cmd.Command == "" {
			return nil, fmt.Errorf("%s: server %q has no command", path, name)
		}
	}
	return f.Servers, nil
}

// MergeFile loads path and registers every entry, returning how many
// entries were applied. Existing entries with the same name are replaced;
// entries not named in the file are left alone.
func (r *Registry) MergeFile(path string) (int, error) {
	servers, err := LoadFile(path)
	if err != nil {
		return 0, err
	}
	for name, cmd := range servers {
		r.Register(name, cmd)
	}
	return len(servers), nil
}

// Watch re-merges path into r whenever the file is written or recreated,
// until ctx is cancelled. onReload, if non-nil, is invoked after every
// reload attempt with the entry count and any load error. Editors often
// replace files by rename, so the parent directory is watched rather than
// the file itself.
func Watch(ctx context.Context, r *Registry, path string, onReload func(n int, err error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			n, err := r.MergeFile(path)
			if onReload != nil {
				onReload(n, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onReload != nil {
				onReload(0, err)
			}
		}
	}
}
