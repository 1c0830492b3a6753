package fsserver

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config holds configuration for the filesystem server.
type Config struct {
	// Root is the base folder every path is confined to. Empty means
	// $FS_ROOT, falling back to the current working directory.
	Root string `mapstructure:"root" default:""`
	// TraceFile, when set, receives a per-call operation trace.
	TraceFile string `mapstructure:"trace_file" default:""`
	// Compat renders tool results as plain text instead of structured
	// content, for clients that predate output schemas.
	Compat bool `mapstructure:"compat" default:"false"`
	// Workers bounds the search/glob worker pools. Zero picks a value
	// from the CPU count.
	Workers int `mapstructure:"workers" default:"0"`
	// MaxFileSize is the per-file byte ceiling for content operations.
	// Larger files are skipped by search and rejected by read/tail.
	MaxFileSize int64 `mapstructure:"max_file_size" default:"104857600"`
	// LockTimeout bounds how long write-path tools wait on the advisory
	// lock of a contended file.
	LockTimeout time.Duration `mapstructure:"lock_timeout" default:"3s"`
	// CallBudget caps tool calls per client session. Zero disables the cap.
	CallBudget int `mapstructure:"call_budget" default:"0"`
	// HTTPAddr serves streamable HTTP on this address instead of stdio.
	HTTPAddr string `mapstructure:"http_addr" default:""`
}

// normalize fills in zero values with working defaults.
func (c *Config) normalize() {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
		if c.Workers > 8 {
			c.Workers = 8 // cap to prevent resource exhaustion
		}
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 100 << 20
	}
	if c.LockTimeout <= 0 {
		c.LockTimeout = 3 * time.Second
	}
}

// resolveRoot picks the base folder: explicit config, then $FS_ROOT, then
// the current working directory. The result is absolute with symlinks
// resolved, and must be an existing directory.
func (c *Config) resolveRoot() (string, error) {
	var base string
	switch {
	case c.Root != "":
		base = mustAbs(c.Root)
	case os.Getenv("FS_ROOT") != "":
		base = mustAbs(os.Getenv("FS_ROOT"))
	default:
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		base = mustAbs(cwd)
	}
	if resolved, err := filepath.EvalSymlinks(base); err == nil {
		base = resolved
	}
	fi, err := os.Stat(base)
	if err != nil {
		return "", fmt.Errorf("root %s: %w", base, err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("root %s is not a directory", base)
	}
	return base, nil
}
