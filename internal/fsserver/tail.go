package fsserver

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func formatTailResult(r TailResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "path=%s returned=%d total=%d", r.Path, r.Returned, r.Total)
	for _, line := range r.Lines {
		b.WriteByte('\n')
		b.WriteString(line)
	}
	return b.String()
}

func (s *Server) handleTail() mcp.StructuredToolHandlerFunc[TailArgs, TailResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args TailArgs) (TailResult, error) {
		start := time.Now()
		s.tracef("-> fs_tail path=%q lines=%d", args.Path, args.Lines)
		var out TailResult
		full, err := safeJoinResolveFinal(s.root, args.Path)
		if err != nil {
			s.tracef("fs_tail error: %v", err)
			return out, newOpError("tail", args.Path, err)
		}
		n := args.Lines
		if n <= 0 {
			n = defaultTailLines
		}
		fi, err := os.Stat(full)
		if err != nil {
			s.tracef("fs_tail stat error: %v", err)
			if os.IsNotExist(err) {
				return out, newOpError("tail", args.Path, ErrPathNotFound)
			}
			return out, newOpError("tail", args.Path, err)
		}
		if fi.IsDir() {
			s.tracef("fs_tail is directory")
			return out, newOpError("tail", args.Path, ErrPathIsDirectory)
		}
		if fi.Size() > s.cfg.MaxFileSize {
			s.tracef("fs_tail file too large: %d", fi.Size())
			return out, newOpError("tail", args.Path, ErrFileTooLarge,
				fmt.Sprintf("%d bytes exceeds limit of %d", fi.Size(), s.cfg.MaxFileSize))
		}
		f, err := os.Open(full)
		if err != nil {
			s.tracef("fs_tail open error: %v", err)
			return out, newOpError("tail", args.Path, err)
		}
		defer f.Close()
		ring := make([]string, 0, n)
		total := 0
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 64*1024), maxScanLineBytes)
		for scanner.Scan() {
			total++
			if len(ring) == n {
				copy(ring, ring[1:])
				ring[n-1] = scanner.Text()
			} else {
				ring = append(ring, scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			s.tracef("fs_tail scan error: %v", err)
			return out, newOpError("tail", args.Path, err)
		}
		out = TailResult{
			Path:     args.Path,
			Lines:    ring,
			Returned: len(ring),
			Total:    total,
		}
		s.tracef("<- fs_tail ok returned=%d total=%d dur=%s", out.Returned, out.Total, time.Since(start))
		return out, nil
	}
}
