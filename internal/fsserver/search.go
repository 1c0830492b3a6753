package fsserver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func formatSearchResult(r SearchResult) string {
	var b strings.Builder
	for i, m := range r.Matches {
		if i > 0 {
			b.WriteByte('\n')
		}
		text := m.Text
		if len(text) > 200 {
			text = text[:197] + "..."
		}
		fmt.Fprintf(&b, "%s:%d:%s", m.Path, m.Line, text)
	}
	return b.String()
}

func (s *Server) handleSearch() mcp.StructuredToolHandlerFunc[SearchArgs, SearchResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args SearchArgs) (SearchResult, error) {
		start := time.Now()
		s.tracef("-> fs_search path=%q pattern=%q regex=%v max=%d context=%d",
			args.Path, args.Pattern, args.Regex, args.MaxResults, args.ContextLines)

		var out SearchResult
		if args.Pattern == "" {
			return out, newOpError("search", args.Path, ErrPatternRequired)
		}

		max := args.MaxResults
		if max <= 0 {
			max = defaultSearchMaxResults
		}
		contextLines := args.ContextLines
		if contextLines < 0 {
			contextLines = 0
		}

		var rx *regexp.Regexp
		if args.Regex {
			r, err := regexp.Compile(args.Pattern)
			if err != nil {
				return out, newOpError("search", args.Path, ErrInvalidRegex, err.Error())
			}
			rx = r
		}

		startPath := s.root
		if args.Path != "" {
			p, err := safeJoin(s.root, args.Path)
			if err != nil {
				return out, newOpError("search", args.Path, err)
			}
			startPath = p
		}
		if _, err := os.Stat(startPath); err != nil {
			return out, newOpError("search", args.Path, ErrPathNotFound)
		}

		matches, stats, err := s.performSearch(ctx, startPath, args.Pattern, rx, max, contextLines)
		if err != nil {
			return out, newOpError("search", args.Path, err)
		}

		out.Matches = matches
		out.Statistics = SearchStats{
			FilesScanned: atomic.LoadInt64(&stats.filesScanned),
			BytesRead:    atomic.LoadInt64(&stats.bytesRead),
			DurationMS:   time.Since(start).Milliseconds(),
		}

		s.tracef("<- fs_search ok matches=%d files=%d bytes=%d dur=%s",
			len(out.Matches), stats.filesScanned, stats.bytesRead, time.Since(start))
		return out, nil
	}
}

type searchStats struct {
	filesScanned int64
	bytesRead    int64
}

func (s *Server) performSearch(ctx context.Context, startPath, pattern string, rx *regexp.Regexp, max, contextLines int) ([]SearchMatch, *searchStats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	files := make(chan string, 64)
	stats := &searchStats{}

	var walkErr error
	var walkWG sync.WaitGroup
	walkWG.Add(1)
	go func() {
		defer walkWG.Done()
		defer close(files)

		walkErr = filepath.WalkDir(startPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				s.tracef("walk error at %s: %v", path, err)
				return nil
			}
			if d.IsDir() || d.Type()&os.ModeSymlink != 0 {
				return nil
			}
			if isBinaryExtension(filepath.Ext(path)) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			if info.Size() > s.cfg.MaxFileSize {
				s.tracef("skipping large file: %s (%d bytes)", path, info.Size())
				return nil
			}
			select {
			case files <- path:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()

	var mu sync.Mutex
	matches := []SearchMatch{}
	matchCount := int32(0)

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range files {
				if ctx.Err() != nil {
					return
				}
				if atomic.LoadInt32(&matchCount) >= int32(max) {
					return
				}

				fileMatches, bytesRead := s.searchFile(path, pattern, rx, max-int(atomic.LoadInt32(&matchCount)), contextLines)

				atomic.AddInt64(&stats.filesScanned, 1)
				atomic.AddInt64(&stats.bytesRead, bytesRead)

				if len(fileMatches) > 0 {
					mu.Lock()
					if len(matches) < max {
						remaining := max - len(matches)
						if len(fileMatches) > remaining {
							fileMatches = fileMatches[:remaining]
						}
						matches = append(matches, fileMatches...)
						atomic.StoreInt32(&matchCount, int32(len(matches)))
						if len(matches) >= max {
							cancel()
						}
					}
					mu.Unlock()
				}
			}
		}()
	}

	wg.Wait()
	walkWG.Wait()

	if walkErr != nil && ctx.Err() == nil {
		return matches, stats, walkErr
	}
	return matches, stats, nil
}

func (s *Server) searchFile(path, pattern string, rx *regexp.Regexp, maxMatches, contextLines int) ([]SearchMatch, int64) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0
	}
	defer f.Close()

	var matches []SearchMatch
	var bytesRead int64

	// Indexes of matches still collecting trailing context lines.
	var open []int
	var before []string

	reader := bufio.NewReaderSize(f, 64*1024)

	lineNo := 1
	done := false
	for !done {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			s.tracef("read error in %s: %v", path, err)
			break
		}
		if len(line) == 0 && err == io.EOF {
			break
		}
		if err == io.EOF {
			done = true
		}

		bytesRead += int64(len(line))
		line = strings.TrimRight(line, "\n")
		line = strings.TrimRight(line, "\r")

		if contextLines > 0 && len(open) > 0 {
			next := open[:0]
			for _, i := range open {
				matches[i].After = append(matches[i].After, line)
				if len(matches[i].After) < contextLines {
					next = append(next, i)
				}
			}
			open = next
		}

		var found bool
		if rx != nil {
			found = rx.MatchString(line)
		} else {
			found = strings.Contains(line, pattern)
		}

		if found && len(matches) < maxMatches {
			rel, _ := filepath.Rel(s.root, path)
			displayText := line
			if len(displayText) > 500 {
				displayText = displayText[:497] + "..."
			}
			matches = append(matches, SearchMatch{
				Path: filepath.ToSlash(rel),
				Line: lineNo,
				Text: displayText,
			})
			if contextLines > 0 {
				idx := len(matches) - 1
				matches[idx].Before = append([]string(nil), before...)
				open = append(open, idx)
			}
		}

		// Only stop early when no match is still owed context.
		if len(matches) >= maxMatches && len(open) == 0 {
			break
		}

		if contextLines > 0 {
			before = append(before, line)
			if len(before) > contextLines {
				before = before[1:]
			}
		}

		lineNo++

		// A line count this high means the content is almost
		// certainly not text.
		if lineNo > 1000000 {
			s.tracef("stopping search in %s: too many lines", path)
			break
		}
	}

	return matches, bytesRead
}
