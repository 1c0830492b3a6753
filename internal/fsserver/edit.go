package fsserver

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func formatEditResult(r EditResult) string {
	return fmt.Sprintf("path=%s replacements=%d bytes=%d sha=%s", r.Path, r.Replacements, r.Bytes, r.SHA256)
}

func (s *Server) handleEdit() mcp.StructuredToolHandlerFunc[EditArgs, EditResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args EditArgs) (EditResult, error) {
		start := time.Now()
		s.tracef("-> fs_edit path=%q regex=%v count=%d", args.Path, args.Regex, args.Count)
		var res EditResult
		if args.Path == "" {
			return res, newOpError("edit", args.Path, ErrPathRequired)
		}
		if args.Pattern == "" {
			return res, newOpError("edit", args.Path, ErrPatternRequired)
		}
		full, err := safeJoin(s.root, args.Path)
		if err != nil {
			s.tracef("fs_edit error: %v", err)
			return res, newOpError("edit", args.Path, err)
		}
		fi, err := os.Lstat(full)
		if err != nil {
			s.tracef("fs_edit error: %v", err)
			if os.IsNotExist(err) {
				return res, newOpError("edit", args.Path, ErrPathNotFound)
			}
			return res, newOpError("edit", args.Path, err)
		}
		if (fi.Mode() & os.ModeSymlink) != 0 {
			return res, newOpError("edit", args.Path, ErrPathIsSymlink)
		}
		if !fi.Mode().IsRegular() {
			return res, newOpError("edit", args.Path, ErrPathNotRegular)
		}

		var re *regexp.Regexp
		if args.Regex {
			re, err = regexp.Compile(args.Pattern)
			if err != nil {
				return res, newOpError("edit", args.Path, ErrInvalidRegex, err.Error())
			}
		}

		release, err := acquireLock(full, s.cfg.LockTimeout)
		if err != nil {
			s.tracef("fs_edit lock error: %v", err)
			return res, newOpError("edit", args.Path, err)
		}
		defer release()

		b, err := os.ReadFile(full)
		if err != nil {
			s.tracef("fs_edit read error: %v", err)
			return res, newOpError("edit", args.Path, err)
		}

		count := 0
		var out []byte
		if args.Regex {
			if args.Count <= 0 {
				out = re.ReplaceAll(b, []byte(args.Replace))
				count = len(re.FindAllIndex(b, -1))
			} else {
				remaining := args.Count
				out = re.ReplaceAllFunc(b, func(m []byte) []byte {
					if remaining == 0 {
						return m
					}
					remaining--
					count++
					// ReplaceAllFunc does not expand $1; run the plain
					// replacer on the matched slice to honor captures.
					return re.ReplaceAll(m, []byte(args.Replace))
				})
			}
		} else {
			old := string(b)
			limit := args.Count
			if limit <= 0 {
				out = []byte(strings.ReplaceAll(old, args.Pattern, args.Replace))
				count = strings.Count(old, args.Pattern)
			} else {
				out = []byte(strings.Replace(old, args.Pattern, args.Replace, limit))
				if c := strings.Count(old, args.Pattern); c < limit {
					count = c
				} else {
					count = limit
				}
			}
		}

		mode := fi.Mode() & os.ModePerm
		if mode == 0 {
			mode = 0o644
		}
		if err := atomicWrite(full, out, mode); err != nil {
			s.tracef("fs_edit write error: %v", err)
			return res, newOpError("edit", args.Path, err)
		}
		res = EditResult{
			Path:         args.Path,
			Replacements: count,
			Bytes:        len(out),
			SHA256:       sha256sum(out),
			MetaFields: MetaFields{
				Mode:       fmt.Sprintf("%#o", mode),
				ModifiedAt: time.Now().UTC().Format(time.RFC3339),
			},
		}
		s.tracef("<- fs_edit ok replacements=%d bytes=%d dur=%s", count, len(out), time.Since(start))
		return res, nil
	}
}
