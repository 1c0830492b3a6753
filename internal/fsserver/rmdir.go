package fsserver

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func formatRmdirResult(r RmdirResult) string {
	return fmt.Sprintf("path=%s removed=%v", r.Path, r.Removed)
}

func (s *Server) handleRmdir() mcp.StructuredToolHandlerFunc[RmdirArgs, RmdirResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args RmdirArgs) (RmdirResult, error) {
		start := time.Now()
		s.tracef("-> fs_rmdir path=%q recursive=%v", args.Path, args.Recursive)
		var out RmdirResult
		full, err := safeJoin(s.root, args.Path)
		if err != nil {
			s.tracef("fs_rmdir error: %v", err)
			return out, newOpError("rmdir", args.Path, err)
		}
		if full == s.root {
			s.tracef("fs_rmdir refusing root")
			return out, newOpError("rmdir", args.Path, ErrPathOutsideRoot, "refusing to remove the root directory")
		}
		fi, err := os.Lstat(full)
		if err != nil {
			s.tracef("fs_rmdir lstat error: %v", err)
			if os.IsNotExist(err) {
				return out, newOpError("rmdir", args.Path, ErrPathNotFound)
			}
			return out, newOpError("rmdir", args.Path, err)
		}
		if !fi.IsDir() {
			s.tracef("fs_rmdir not a directory")
			return out, newOpError("rmdir", args.Path, ErrNotADirectory)
		}
		if args.Recursive {
			if err := os.RemoveAll(full); err != nil {
				s.tracef("fs_rmdir RemoveAll error: %v", err)
				return out, newOpError("rmdir", args.Path, err)
			}
		} else {
			if err := os.Remove(full); err != nil {
				s.tracef("fs_rmdir Remove error: %v", err)
				return out, newOpError("rmdir", args.Path, err)
			}
		}
		out = RmdirResult{Path: args.Path, Removed: true}
		s.tracef("<- fs_rmdir ok removed=true dur=%s", time.Since(start))
		return out, nil
	}
}
