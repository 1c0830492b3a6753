package fsserver

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func formatMkdirResult(r MkdirResult) string {
	return fmt.Sprintf("path=%s dirs=%d created=%v mode=%s modified_at=%s",
		r.Path, len(r.Paths), r.Created, r.Mode, r.ModifiedAt)
}

func (s *Server) handleMkdir() mcp.StructuredToolHandlerFunc[MkdirArgs, MkdirResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args MkdirArgs) (MkdirResult, error) {
		start := time.Now()
		s.tracef("-> fs_mkdir path=%q parents=%v mode=%s", args.Path, args.Parents, args.Mode)
		var out MkdirResult
		paths := expandBraces(args.Path)
		mode, err := parseMode(args.Mode)
		if err != nil {
			s.tracef("fs_mkdir mode error: %v", err)
			return out, newOpError("mkdir", args.Path, fmt.Errorf("invalid mode: %w", err))
		}
		if args.Mode == "" {
			mode = 0o755
		}
		anyCreated := false
		var firstFi os.FileInfo
		for i, p := range paths {
			full, err := safeJoin(s.root, p)
			if err != nil {
				s.tracef("fs_mkdir error: %v", err)
				return out, newOpError("mkdir", p, err)
			}
			created := false
			if fi, err := os.Lstat(full); err == nil {
				if !fi.IsDir() {
					s.tracef("fs_mkdir exists but not dir")
					return out, newOpError("mkdir", p, ErrNotADirectory)
				}
			} else if os.IsNotExist(err) {
				if args.Parents {
					if err := os.MkdirAll(full, mode); err != nil {
						s.tracef("fs_mkdir MkdirAll error: %v", err)
						return out, newOpError("mkdir", p, err)
					}
				} else {
					if err := os.Mkdir(full, mode); err != nil {
						s.tracef("fs_mkdir Mkdir error: %v", err)
						if os.IsNotExist(err) {
							return out, newOpError("mkdir", p, ErrPathNotFound, "parent does not exist")
						}
						return out, newOpError("mkdir", p, err)
					}
				}
				created = true
			} else {
				s.tracef("fs_mkdir lstat error: %v", err)
				return out, newOpError("mkdir", p, err)
			}
			fi, err := os.Lstat(full)
			if err != nil {
				s.tracef("fs_mkdir stat error: %v", err)
				return out, newOpError("mkdir", p, err)
			}
			if i == 0 {
				firstFi = fi
			}
			out.Paths = append(out.Paths, p)
			anyCreated = anyCreated || created
		}
		out.Path = args.Path
		out.Created = anyCreated
		if firstFi != nil {
			out.Mode = fmt.Sprintf("%#o", firstFi.Mode()&os.ModePerm)
			out.ModifiedAt = firstFi.ModTime().UTC().Format(time.RFC3339)
		}
		s.tracef("<- fs_mkdir ok dirs=%d created=%v dur=%s", len(out.Paths), anyCreated, time.Since(start))
		return out, nil
	}
}
