package fsserver

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func formatStatResult(r StatResult) string {
	if !r.Exists {
		return fmt.Sprintf("path=%s exists=false", r.Path)
	}
	return fmt.Sprintf("path=%s kind=%s size=%d (%s) mode=%s modified_at=%s",
		r.Path, r.Kind, r.Size, r.SizeHuman, r.Mode, r.ModifiedAt)
}

func (s *Server) handleStat() mcp.StructuredToolHandlerFunc[StatArgs, StatResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args StatArgs) (StatResult, error) {
		start := time.Now()
		s.tracef("-> fs_stat path=%q", args.Path)
		var out StatResult
		full, err := safeJoin(s.root, args.Path)
		if err != nil {
			s.tracef("fs_stat error: %v", err)
			return out, newOpError("stat", args.Path, err)
		}
		out.Path = args.Path
		fi, err := os.Lstat(full)
		if err != nil {
			if os.IsNotExist(err) {
				// Absence is an answer, not a failure.
				out.Exists = false
				s.tracef("<- fs_stat ok exists=false dur=%s", time.Since(start))
				return out, nil
			}
			s.tracef("fs_stat lstat error: %v", err)
			return out, newOpError("stat", args.Path, err)
		}
		out.Exists = true
		out.Kind = kindOf(fi)
		out.Size = fi.Size()
		out.SizeHuman = humanSize(fi.Size())
		out.Mode = fmt.Sprintf("%#o", fi.Mode()&os.ModePerm)
		out.ModifiedAt = fi.ModTime().UTC().Format(time.RFC3339)
		if fi.Mode()&os.ModeSymlink != 0 {
			if target, err := os.Readlink(full); err == nil {
				out.Target = target
			}
		}
		s.tracef("<- fs_stat ok kind=%s size=%d dur=%s", out.Kind, out.Size, time.Since(start))
		return out, nil
	}
}
