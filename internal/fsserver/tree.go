package fsserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/mark3labs/mcp-go/mcp"
)

func formatTreeResult(r TreeResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "path=%s dirs=%d files=%d truncated=%v", r.Path, r.Dirs, r.Files, r.Truncated)
	var walk func(n TreeNode, depth int)
	walk = func(n TreeNode, depth int) {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.Name)
		if n.Kind == "dir" {
			b.WriteByte('/')
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(r.Tree, 0)
	return b.String()
}

func (s *Server) handleTree() mcp.StructuredToolHandlerFunc[TreeArgs, TreeResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args TreeArgs) (TreeResult, error) {
		start := time.Now()
		s.tracef("-> fs_tree path=%q max_depth=%d hidden=%v excludes=%d",
			args.Path, args.MaxDepth, args.IncludeHidden, len(args.Excludes))
		var out TreeResult
		base := s.root
		if args.Path != "" {
			p, err := safeJoinResolveFinal(s.root, args.Path)
			if err != nil {
				s.tracef("fs_tree error: %v", err)
				return out, newOpError("tree", args.Path, err)
			}
			base = p
		}
		globs, err := compileExcludes(args.Excludes)
		if err != nil {
			s.tracef("fs_tree error: %v", err)
			return out, newOpError("tree", args.Path, err)
		}
		maxDepth := args.MaxDepth
		if maxDepth <= 0 {
			maxDepth = defaultTreeMaxDepth
		}
		fi, err := os.Stat(base)
		if err != nil {
			s.tracef("fs_tree stat error: %v", err)
			if os.IsNotExist(err) {
				return out, newOpError("tree", args.Path, ErrPathNotFound)
			}
			return out, newOpError("tree", args.Path, err)
		}
		if !fi.IsDir() {
			s.tracef("fs_tree not a directory")
			return out, newOpError("tree", args.Path, ErrNotADirectory)
		}
		root := TreeNode{Name: fi.Name(), Kind: "dir"}
		dirs, files := 0, 0
		truncated := false
		var build func(dir string, node *TreeNode, depth int) error
		build = func(dir string, node *TreeNode, depth int) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			ents, err := os.ReadDir(dir)
			if err != nil {
				return nil
			}
			for _, e := range ents {
				name := e.Name()
				if !args.IncludeHidden && hiddenName(name) {
					continue
				}
				full := filepath.Join(dir, name)
				rel := filepath.ToSlash(trimUnderRoot(s.root, full))
				if excluded(globs, rel, name) {
					continue
				}
				info, err := e.Info()
				if err != nil {
					continue
				}
				child := TreeNode{Name: name, Kind: kindOf(info)}
				if info.Mode().IsRegular() {
					child.Size = info.Size()
				}
				if e.IsDir() {
					dirs++
					if depth+1 < maxDepth {
						if err := build(full, &child, depth+1); err != nil {
							return err
						}
					} else if hasVisibleChild(full, args.IncludeHidden, globs, s.root) {
						truncated = true
					}
				} else {
					files++
				}
				node.Children = append(node.Children, child)
			}
			return nil
		}
		if err := build(base, &root, 0); err != nil {
			s.tracef("fs_tree error: %v", err)
			return out, newOpError("tree", args.Path, err)
		}
		out = TreeResult{
			Path:      args.Path,
			Tree:      root,
			Dirs:      dirs,
			Files:     files,
			Truncated: truncated,
		}
		s.tracef("<- fs_tree ok dirs=%d files=%d truncated=%v dur=%s", dirs, files, truncated, time.Since(start))
		return out, nil
	}
}

func hasVisibleChild(dir string, includeHidden bool, globs []glob.Glob, root string) bool {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range ents {
		name := e.Name()
		if !includeHidden && hiddenName(name) {
			continue
		}
		rel := filepath.ToSlash(trimUnderRoot(root, filepath.Join(dir, name)))
		if excluded(globs, rel, name) {
			continue
		}
		return true
	}
	return false
}
