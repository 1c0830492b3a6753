package fsserver

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// EnsureSingleInstance terminates any previously running instance of this
// server and writes the current process PID to a file so subsequent runs can
// replace it. Only the serve command opts into this.
func EnsureSingleInstance() (func(), error) {
	pidFile := filepath.Join(os.TempDir(), "filesystem-mcp.pid")
	exePath, _ := os.Executable()
	execName := filepath.Base(exePath)

	if b, err := os.ReadFile(pidFile); err == nil {
		parts := strings.SplitN(strings.TrimSpace(string(b)), ":", 2)
		if len(parts) == 2 && parts[1] == execName {
			if old, err := strconv.Atoi(parts[0]); err == nil && old != os.Getpid() {
				if p, err := os.FindProcess(old); err == nil {
					_ = p.Kill()
				}
			}
		}
	}
	if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d:%s", os.Getpid(), execName)), 0o644); err != nil {
		return nil, err
	}
	return func() { os.Remove(pidFile) }, nil
}
