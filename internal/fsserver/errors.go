package fsserver

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the tool handlers. Handlers wrap these in an
// OperationError so the response carries both a stable code and context.
var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathOutsideRoot = errors.New("path escapes base folder")
	ErrPathNotFound    = errors.New("path not found")
	ErrPathIsSymlink   = errors.New("path is a symlink")
	ErrPathIsDirectory = errors.New("path is a directory")
	ErrPathNotRegular  = errors.New("path is not a regular file")
	ErrNotADirectory   = errors.New("path is not a directory")

	ErrFileExists        = errors.New("file already exists")
	ErrInsufficientSpace = errors.New("insufficient disk space")
	ErrFileTooLarge      = errors.New("file exceeds size limit")
	ErrLockTimeout       = errors.New("lock acquisition timeout")
	ErrInvalidStrategy   = errors.New("invalid write strategy")
	ErrInvalidRange      = errors.New("invalid byte range")

	ErrPatternRequired = errors.New("pattern is required")
	ErrInvalidRegex    = errors.New("invalid regular expression")
	ErrInvalidGlob     = errors.New("invalid glob pattern")

	ErrBudgetExhausted = errors.New("session call budget exhausted")
)

// OperationError carries the failing operation and path alongside the
// underlying error.
type OperationError struct {
	Op      string
	Path    string
	Err     error
	Details string
}

func (e *OperationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s %s: %v (%s)", e.Op, e.Path, e.Err, e.Details)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func newOpError(op, path string, err error, details ...string) error {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &OperationError{Op: op, Path: path, Err: err, Details: detail}
}

// ErrorResponse is the structured error payload returned to clients, with a
// stable code they can branch on.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Operation string            `json:"operation,omitempty"`
	Path      string            `json:"path,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// toErrorResponse maps an error to its client-facing shape.
func toErrorResponse(err error) ErrorResponse {
	resp := ErrorResponse{Error: err.Error()}

	var opErr *OperationError
	if errors.As(err, &opErr) {
		resp.Operation = opErr.Op
		resp.Path = opErr.Path
		resp.Error = opErr.Err.Error()
		if opErr.Details != "" {
			resp.Details = map[string]string{"detail": opErr.Details}
		}
	}

	switch {
	case errors.Is(err, ErrPathOutsideRoot):
		resp.Code = "PATH_ESCAPE"
	case errors.Is(err, ErrPathNotFound):
		resp.Code = "NOT_FOUND"
	case errors.Is(err, ErrFileExists):
		resp.Code = "ALREADY_EXISTS"
	case errors.Is(err, ErrPathIsSymlink):
		resp.Code = "IS_SYMLINK"
	case errors.Is(err, ErrPathIsDirectory), errors.Is(err, ErrNotADirectory), errors.Is(err, ErrPathNotRegular):
		resp.Code = "WRONG_KIND"
	case errors.Is(err, ErrInsufficientSpace):
		resp.Code = "NO_SPACE"
	case errors.Is(err, ErrFileTooLarge):
		resp.Code = "FILE_TOO_LARGE"
	case errors.Is(err, ErrLockTimeout):
		resp.Code = "LOCK_TIMEOUT"
	case errors.Is(err, ErrInvalidStrategy), errors.Is(err, ErrInvalidRange):
		resp.Code = "INVALID_ARGUMENT"
	case errors.Is(err, ErrPatternRequired), errors.Is(err, ErrInvalidRegex), errors.Is(err, ErrInvalidGlob), errors.Is(err, ErrPathRequired):
		resp.Code = "INVALID_ARGUMENT"
	case errors.Is(err, ErrBudgetExhausted):
		resp.Code = "BUDGET_EXCEEDED"
	default:
		resp.Code = "UNKNOWN_ERROR"
	}

	return resp
}
