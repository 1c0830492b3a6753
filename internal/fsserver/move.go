package fsserver

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func formatMoveResult(r MoveResult) string {
	return fmt.Sprintf("source=%s dest=%s moved=%v replaced=%v", r.Source, r.Dest, r.Moved, r.Replaced)
}

func (s *Server) handleMove() mcp.StructuredToolHandlerFunc[MoveArgs, MoveResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args MoveArgs) (MoveResult, error) {
		start := time.Now()
		s.tracef("-> fs_move source=%q dest=%q overwrite=%v", args.Source, args.Dest, args.Overwrite)
		var out MoveResult
		src, err := safeJoin(s.root, args.Source)
		if err != nil {
			s.tracef("fs_move source error: %v", err)
			return out, newOpError("move", args.Source, err)
		}
		dst, err := safeJoin(s.root, args.Dest)
		if err != nil {
			s.tracef("fs_move dest error: %v", err)
			return out, newOpError("move", args.Dest, err)
		}
		if _, err := os.Lstat(src); err != nil {
			s.tracef("fs_move lstat source error: %v", err)
			if os.IsNotExist(err) {
				return out, newOpError("move", args.Source, ErrPathNotFound)
			}
			return out, newOpError("move", args.Source, err)
		}
		if src == dst {
			out = MoveResult{Source: args.Source, Dest: args.Dest, Moved: true}
			s.tracef("<- fs_move ok noop dur=%s", time.Since(start))
			return out, nil
		}
		replaced := false
		if fi, err := os.Lstat(dst); err == nil {
			if !args.Overwrite {
				s.tracef("fs_move dest exists")
				return out, newOpError("move", args.Dest, ErrFileExists)
			}
			if fi.IsDir() {
				s.tracef("fs_move dest is directory")
				return out, newOpError("move", args.Dest, ErrPathIsDirectory)
			}
			replaced = true
		} else if !os.IsNotExist(err) {
			s.tracef("fs_move lstat dest error: %v", err)
			return out, newOpError("move", args.Dest, err)
		}
		unlock, err := acquireLock(dst, s.cfg.LockTimeout)
		if err != nil {
			s.tracef("fs_move lock error: %v", err)
			return out, newOpError("move", args.Dest, err)
		}
		defer unlock()
		if err := os.Rename(src, dst); err != nil {
			s.tracef("fs_move rename error: %v", err)
			return out, newOpError("move", args.Source, err)
		}
		out = MoveResult{Source: args.Source, Dest: args.Dest, Moved: true, Replaced: replaced}
		s.tracef("<- fs_move ok replaced=%v dur=%s", replaced, time.Since(start))
		return out, nil
	}
}
