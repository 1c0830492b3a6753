package fsserver

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

func detectMIME(name string, sample []byte) string {
	if ext := filepath.Ext(name); ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			return mt
		}
	}
	if isText(sample) {
		return "text/plain; charset=utf-8"
	}
	return "application/octet-stream"
}

func isText(b []byte) bool {
	for _, c := range b {
		if c == 9 || c == 10 || c == 13 {
			continue
		}
		if c < 32 || c == 0x7f {
			return false
		}
	}
	return true
}

// sniffSample caps the bytes handed to content sniffers.
func sniffSample(b []byte) []byte {
	if len(b) > maxPeekBytesForSniff {
		return b[:maxPeekBytesForSniff]
	}
	return b
}

func sha256sum(b []byte) string {
	s := sha256.Sum256(b)
	return fmt.Sprintf("%x", s[:])
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func parseMode(s string) (os.FileMode, error) {
	if s == "" {
		return 0o644, nil
	}
	if !strings.HasPrefix(s, "0") {
		s = "0" + s
	}
	u, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, err
	}
	return os.FileMode(u), nil
}

// atomicWrite writes to a temp file then renames over target.
func atomicWrite(target string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".fsmcp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		if runtime.GOOS == "windows" {
			if removeErr := os.Remove(target); removeErr != nil && !os.IsNotExist(removeErr) {
				return removeErr
			}
			return os.Rename(tmpName, target)
		}
		return err
	}
	return nil
}

// acquireLock creates a best-effort advisory lock using a sibling .lock file.
// It evicts lock files older than ten minutes.
func acquireLock(path string, timeout time.Duration) (release func(), err error) {
	lock := path + ".lock"
	deadline := time.Now().Add(timeout)
	for {
		f, err := os.OpenFile(lock, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())
			_ = f.Close()
			return func() { _ = os.Remove(lock) }, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, err
		}
		if info, statErr := os.Stat(lock); statErr == nil {
			if time.Since(info.ModTime()) > 10*time.Minute {
				_ = os.Remove(lock)
				continue
			}
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, path)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func kindOf(fi os.FileInfo) string {
	m := fi.Mode()
	if m.IsRegular() {
		return "file"
	}
	if m.IsDir() {
		return "dir"
	}
	if (m & os.ModeSymlink) != 0 {
		return "symlink"
	}
	if (m & os.ModeNamedPipe) != 0 {
		return "pipe"
	}
	return "other"
}

// humanSize renders a byte count the way the tools report it to agents.
func humanSize(n int64) string {
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if size < 1024.0 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.1f PB", size)
}

// compileExcludes turns user-supplied glob patterns into matchers.
func compileExcludes(patterns []string) ([]glob.Glob, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidGlob, p)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// excluded reports whether an entry should be skipped, matching either its
// slash-relative path or its base name.
func excluded(globs []glob.Glob, relPath, name string) bool {
	for _, g := range globs {
		if g.Match(relPath) || g.Match(name) {
			return true
		}
	}
	return false
}

// hiddenName reports dotfile entries, which listings skip by default.
func hiddenName(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// isBinaryExtension checks if a file extension suggests binary content.
func isBinaryExtension(ext string) bool {
	ext = strings.ToLower(ext)
	binaryExts := map[string]bool{
		".exe": true, ".dll": true, ".so": true, ".dylib": true,
		".zip": true, ".tar": true, ".gz": true, ".bz2": true,
		".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
		".pdf": true, ".doc": true, ".docx": true,
		".mp3": true, ".mp4": true, ".avi": true, ".mov": true,
		".bin": true, ".dat": true, ".db": true,
		".pyc": true, ".pyo": true, ".class": true,
		".o": true, ".a": true, ".lib": true,
	}
	return binaryExts[ext]
}
