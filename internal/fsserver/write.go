package fsserver

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func formatWriteResult(r WriteResult) string {
	return fmt.Sprintf("path=%s action=%s bytes=%d created=%v mime=%s sha=%s",
		r.Path, r.Action, r.Bytes, r.Created, r.MIMEType, r.SHA256)
}

func (s *Server) handleWrite() mcp.StructuredToolHandlerFunc[WriteArgs, WriteResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args WriteArgs) (WriteResult, error) {
		start := time.Now()
		s.tracef("-> fs_write path=%q strategy=%q encoding=%q bytes=%d", args.Path, args.Strategy, args.Encoding, len(args.Content))
		var res WriteResult
		if args.Encoding == "" {
			s.tracef("fs_write error: encoding required")
			return res, errors.New("encoding is required: text|base64")
		}
		full, err := safeJoin(s.root, args.Path)
		if err != nil {
			s.tracef("fs_write error: %v", err)
			return res, newOpError("write", args.Path, err)
		}
		if args.CreateDirs != nil && *args.CreateDirs {
			if err := ensureParent(full); err != nil {
				s.tracef("fs_write error: %v", err)
				return res, newOpError("write", args.Path, err)
			}
		}
		mode, err := parseMode(args.Mode)
		if err != nil {
			s.tracef("fs_write error: %v", err)
			return res, newOpError("write", args.Path, fmt.Errorf("invalid mode: %w", err))
		}
		modeProvided := args.Mode != ""
		var data []byte
		if encodingKind(args.Encoding) == encBase64 {
			b, err := base64.StdEncoding.DecodeString(args.Content)
			if err != nil {
				s.tracef("fs_write error: %v", err)
				return res, newOpError("write", args.Path, fmt.Errorf("invalid base64 content: %w", err))
			}
			data = b
		} else {
			data = []byte(args.Content)
		}
		if int64(len(data)) > s.cfg.MaxFileSize {
			return res, newOpError("write", args.Path, ErrFileTooLarge,
				fmt.Sprintf("%d bytes, limit %d", len(data), s.cfg.MaxFileSize))
		}
		st := args.Strategy
		if st == "" {
			st = strategyOverwrite
		}

		preFi, preErr := os.Lstat(full)
		if preErr == nil && (preFi.Mode()&os.ModeSymlink) != 0 {
			s.tracef("fs_write error: target is symlink")
			return res, newOpError("write", args.Path, ErrPathIsSymlink)
		}
		if preErr == nil && preFi.IsDir() && (st == strategyOverwrite || st == strategyNoClobber) {
			return res, newOpError("write", args.Path, ErrPathIsDirectory)
		}
		if preErr == nil && !modeProvided {
			if pm := preFi.Mode() & os.ModePerm; pm != 0 {
				mode = pm
			} else {
				mode = 0o644
			}
		}

		release, err := acquireLock(full, s.cfg.LockTimeout)
		if err != nil {
			s.tracef("fs_write lock error: %v", err)
			return res, newOpError("write", args.Path, err)
		}
		defer release()

		created := false
		action := string(st)

		switch st {
		case strategyNoClobber:
			if preErr == nil {
				s.tracef("fs_write noclobber exists")
				return res, newOpError("write", args.Path, ErrFileExists)
			}
			if err := atomicWrite(full, data, mode); err != nil {
				s.tracef("fs_write error: %v", err)
				return res, newOpError("write", args.Path, err)
			}
			created = true

		case strategyOverwrite:
			if errors.Is(preErr, os.ErrNotExist) {
				created = true
			}
			if err := atomicWrite(full, data, mode); err != nil {
				s.tracef("fs_write error: %v", err)
				return res, newOpError("write", args.Path, err)
			}

		case strategyAppend:
			if preErr == nil && !preFi.Mode().IsRegular() {
				return res, newOpError("write", args.Path, ErrPathNotRegular)
			}
			if errors.Is(preErr, os.ErrNotExist) {
				created = true
			}
			f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_APPEND, mode)
			if err != nil {
				s.tracef("fs_write error: %v", err)
				return res, newOpError("write", args.Path, err)
			}
			_, werr := f.Write(data)
			cerr := f.Close()
			if werr != nil {
				s.tracef("fs_write error: %v", werr)
				return res, newOpError("write", args.Path, werr)
			}
			if cerr != nil {
				return res, newOpError("write", args.Path, cerr)
			}

		case strategyPrepend:
			if preErr == nil && !preFi.Mode().IsRegular() {
				return res, newOpError("write", args.Path, ErrPathNotRegular)
			}
			var old []byte
			if preErr == nil {
				old, err = os.ReadFile(full)
				if err != nil {
					return res, newOpError("write", args.Path, err)
				}
			} else if errors.Is(preErr, os.ErrNotExist) {
				created = true
			}
			buf := append([]byte{}, data...)
			buf = append(buf, old...)
			if err := atomicWrite(full, buf, mode); err != nil {
				s.tracef("fs_write error: %v", err)
				return res, newOpError("write", args.Path, err)
			}

		case strategyReplaceRange:
			if preErr != nil {
				s.tracef("fs_write error: %v", preErr)
				return res, newOpError("write", args.Path, fmt.Errorf("replace_range requires existing file: %w", ErrPathNotFound))
			}
			if !preFi.Mode().IsRegular() {
				return res, newOpError("write", args.Path, ErrPathNotRegular)
			}
			old, err := os.ReadFile(full)
			if err != nil {
				s.tracef("fs_write error: %v", err)
				return res, newOpError("write", args.Path, err)
			}
			if args.Start == nil || args.End == nil {
				return res, newOpError("write", args.Path, ErrInvalidRange, "start and end required for replace_range")
			}
			sOff, eOff := *args.Start, *args.End
			if sOff < 0 || eOff < sOff || eOff > len(old) {
				return res, newOpError("write", args.Path, ErrInvalidRange, fmt.Sprintf("[%d,%d)", sOff, eOff))
			}
			buf := append([]byte{}, old[:sOff]...)
			buf = append(buf, data...)
			buf = append(buf, old[eOff:]...)
			if err := atomicWrite(full, buf, mode); err != nil {
				s.tracef("fs_write error: %v", err)
				return res, newOpError("write", args.Path, err)
			}

		default:
			return res, newOpError("write", args.Path, ErrInvalidStrategy, string(st))
		}

		final := data
		if b, err := os.ReadFile(full); err == nil {
			final = b
		}
		mt := detectMIME(full, sniffSample(final))
		fi, statErr := os.Lstat(full)
		modAt := time.Now().UTC().Format(time.RFC3339)
		modeStr := ""
		if fi != nil && statErr == nil {
			modAt = fi.ModTime().UTC().Format(time.RFC3339)
			modeStr = fmt.Sprintf("%#o", fi.Mode()&os.ModePerm)
		}
		sha := ""
		if len(final) <= int(maxHashBytes) {
			sha = sha256sum(final)
		} else {
			s.tracef("fs_write: skip sha256 (size %d > cap %d)", len(final), maxHashBytes)
		}
		res = WriteResult{
			Path:     args.Path,
			Action:   action,
			Bytes:    len(final),
			Created:  created,
			MIMEType: mt,
			SHA256:   sha,
			MetaFields: MetaFields{
				Mode:       modeStr,
				ModifiedAt: modAt,
			},
		}
		s.tracef("<- fs_write ok created=%v bytes=%d dur=%s", created, len(final), time.Since(start))
		return res, nil
	}
}
