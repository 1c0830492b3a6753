package fsserver

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func formatReadResult(r ReadResult) string {
	return fmt.Sprintf("path=%s size=%d mime=%s sha=%s encoding=%s truncated=%v content=%s",
		r.Path, r.Size, r.MIMEType, r.SHA256, r.Encoding, r.Truncated, r.Content)
}

func (s *Server) handleRead() mcp.StructuredToolHandlerFunc[ReadArgs, ReadResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args ReadArgs) (ReadResult, error) {
		start := time.Now()
		s.tracef("-> fs_read path=%q encoding=%q max_bytes=%d", args.Path, args.Encoding, args.MaxBytes)
		var res ReadResult
		full, err := safeJoinResolveFinal(s.root, args.Path)
		if err != nil {
			s.tracef("fs_read error: %v", err)
			return res, newOpError("read", args.Path, err)
		}
		fi, err := os.Stat(full)
		if err != nil {
			s.tracef("fs_read stat error: %v", err)
			if os.IsNotExist(err) {
				return res, newOpError("read", args.Path, ErrPathNotFound)
			}
			return res, newOpError("read", args.Path, err)
		}
		if fi.IsDir() {
			return res, newOpError("read", args.Path, ErrPathIsDirectory)
		}
		if fi.Size() > s.cfg.MaxFileSize {
			return res, newOpError("read", args.Path, ErrFileTooLarge,
				fmt.Sprintf("%d bytes, limit %d", fi.Size(), s.cfg.MaxFileSize))
		}
		limit := args.MaxBytes
		if limit <= 0 {
			limit = defaultReadMaxBytes
		}
		f, err := os.Open(full)
		if err != nil {
			s.tracef("fs_read open error: %v", err)
			return res, newOpError("read", args.Path, err)
		}
		defer f.Close()
		buf, err := io.ReadAll(io.LimitReader(f, int64(limit)))
		if err != nil {
			s.tracef("fs_read read error: %v", err)
			return res, newOpError("read", args.Path, err)
		}
		trunc := fi.Size() > int64(len(buf))

		// Hash the whole file, streamed, so the digest is stable across
		// truncated reads.
		sha := ""
		if fi.Size() <= maxHashBytes {
			if hf, err := os.Open(full); err == nil {
				h := sha256.New()
				if _, err := io.Copy(h, hf); err == nil {
					sha = fmt.Sprintf("%x", h.Sum(nil))
				}
				hf.Close()
			}
		} else {
			s.tracef("fs_read: skip sha256 (size %d > cap %d)", fi.Size(), maxHashBytes)
		}

		enc := args.Encoding
		if enc == "" {
			if isText(sniffSample(buf)) {
				enc = string(encText)
			} else {
				enc = string(encBase64)
			}
		}
		var content string
		if encodingKind(enc) == encBase64 {
			content = base64.StdEncoding.EncodeToString(buf)
		} else {
			content = string(buf)
		}

		res = ReadResult{
			Path:      args.Path,
			Size:      fi.Size(),
			MIMEType:  detectMIME(full, sniffSample(buf)),
			SHA256:    sha,
			Encoding:  enc,
			Content:   content,
			Truncated: trunc,
			MetaFields: MetaFields{
				Mode:       fmt.Sprintf("%#o", fi.Mode()&os.ModePerm),
				ModifiedAt: fi.ModTime().UTC().Format(time.RFC3339),
			},
		}
		s.tracef("<- fs_read ok size=%d truncated=%v dur=%s", len(buf), trunc, time.Since(start))
		return res, nil
	}
}
