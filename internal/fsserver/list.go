package fsserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func formatListResult(r ListResult) string {
	var b strings.Builder
	for i, e := range r.Entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s %d %s %s", e.Path, e.Name, e.Kind, e.Size, e.Mode, e.ModifiedAt)
	}
	return b.String()
}

func (s *Server) handleList() mcp.StructuredToolHandlerFunc[ListArgs, ListResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args ListArgs) (ListResult, error) {
		start := time.Now()
		s.tracef("-> fs_list path=%q recursive=%v hidden=%v excludes=%d max_entries=%d",
			args.Path, args.Recursive, args.IncludeHidden, len(args.Excludes), args.MaxEntries)
		var out ListResult
		base, err := safeJoinResolveFinal(s.root, args.Path)
		if err != nil {
			s.tracef("fs_list error: %v", err)
			return out, newOpError("list", args.Path, err)
		}
		globs, err := compileExcludes(args.Excludes)
		if err != nil {
			s.tracef("fs_list error: %v", err)
			return out, newOpError("list", args.Path, err)
		}
		max := args.MaxEntries
		if max <= 0 {
			max = defaultListMaxEntries
		}
		count := 0
		skip := func(path string, name string) bool {
			if !args.IncludeHidden && hiddenName(name) {
				return true
			}
			rel := filepath.ToSlash(trimUnderRoot(s.root, path))
			return excluded(globs, rel, name)
		}
		add := func(path string, fi os.FileInfo) {
			if count >= max {
				out.Truncated = true
				return
			}
			out.Entries = append(out.Entries, ListEntry{
				Path:       filepath.ToSlash(trimUnderRoot(s.root, path)),
				Name:       fi.Name(),
				Kind:       kindOf(fi),
				Size:       fi.Size(),
				Mode:       fmt.Sprintf("%#o", fi.Mode()&os.ModePerm),
				ModifiedAt: fi.ModTime().UTC().Format(time.RFC3339),
			})
			count++
		}
		fi, err := os.Stat(base)
		if err != nil {
			s.tracef("fs_list stat error: %v", err)
			if os.IsNotExist(err) {
				return out, newOpError("list", args.Path, ErrPathNotFound)
			}
			return out, newOpError("list", args.Path, err)
		}
		if fi.IsDir() {
			if !args.Recursive {
				ents, err := os.ReadDir(base)
				if err != nil {
					s.tracef("fs_list readdir error: %v", err)
					return out, newOpError("list", args.Path, err)
				}
				for _, e := range ents {
					select {
					case <-ctx.Done():
						return out, ctx.Err()
					default:
					}
					full := filepath.Join(base, e.Name())
					if skip(full, e.Name()) {
						continue
					}
					info, err := e.Info()
					if err != nil {
						continue
					}
					add(full, info)
				}
			} else {
				err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
					if err != nil {
						return nil
					}
					select {
					case <-ctx.Done():
						return ctx.Err()
					default:
					}
					if path != base && skip(path, d.Name()) {
						if d.IsDir() {
							return fs.SkipDir
						}
						return nil
					}
					info, err := d.Info()
					if err != nil {
						return nil
					}
					add(path, info)
					if count >= max {
						return io.EOF
					}
					return nil
				})
				if err != nil && !errors.Is(err, io.EOF) {
					s.tracef("fs_list walk error: %v", err)
					return out, newOpError("list", args.Path, err)
				}
			}
		} else {
			add(base, fi)
		}
		s.tracef("<- fs_list ok entries=%d truncated=%v dur=%s", len(out.Entries), out.Truncated, time.Since(start))
		return out, nil
	}
}
