package fsserver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mark3labs/mcp-go/mcp"
)

func formatGlobResult(r GlobResult) string {
	return strings.Join(r.Matches, "\n")
}

func (s *Server) handleGlob() mcp.StructuredToolHandlerFunc[GlobArgs, GlobResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args GlobArgs) (GlobResult, error) {
		start := time.Now()
		s.tracef("-> fs_glob pattern=%q max_results=%d", args.Pattern, args.MaxResults)
		var out GlobResult
		if args.Pattern == "" {
			return out, newOpError("glob", "", ErrPatternRequired)
		}
		if _, err := safeJoin(s.root, args.Pattern); err != nil {
			s.tracef("fs_glob error: %v", err)
			return out, newOpError("glob", args.Pattern, err)
		}
		max := args.MaxResults
		if max <= 0 {
			max = defaultGlobMaxResults
		}
		pat := filepath.ToSlash(filepath.Clean(args.Pattern))
		if _, err := doublestar.Match(pat, ""); err != nil {
			s.tracef("fs_glob error: %v", err)
			return out, newOpError("glob", args.Pattern, fmt.Errorf("%w: %v", ErrInvalidGlob, err))
		}
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		paths := make(chan string, 64)
		var walkErr error
		var walkWG sync.WaitGroup
		walkWG.Add(1)
		go func() {
			defer walkWG.Done()
			defer close(paths)
			walkErr = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return nil
				}
				rel, err := filepath.Rel(s.root, path)
				if err != nil {
					return nil
				}
				// The send must not outlive the workers or the walk
				// wedges once the buffer fills.
				select {
				case paths <- filepath.ToSlash(rel):
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		}()

		var mu sync.Mutex
		matches := []string{}
		workers := s.cfg.Workers
		if workers <= 0 {
			workers = 1
		}
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for p := range paths {
					if ctx.Err() != nil {
						return
					}
					ok, err := doublestar.Match(pat, p)
					if err != nil {
						cancel()
						return
					}
					if ok {
						mu.Lock()
						if len(matches) >= max {
							mu.Unlock()
							return
						}
						matches = append(matches, filepath.ToSlash(p))
						if len(matches) >= max {
							mu.Unlock()
							cancel()
							return
						}
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()
		walkWG.Wait()
		if walkErr != nil && !errors.Is(walkErr, context.Canceled) {
			s.tracef("fs_glob error: %v", walkErr)
			return out, newOpError("glob", args.Pattern, walkErr)
		}
		sort.Strings(matches)
		out.Matches = matches
		s.tracef("<- fs_glob ok matches=%d dur=%s", len(out.Matches), time.Since(start))
		return out, nil
	}
}
