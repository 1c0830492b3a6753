package fsserver

import (
	"log"
	"os"
	"sync"
)

// traceLog mirrors every tool call into a file for offline debugging. It is
// separate from the zap logger: the trace is a raw per-call record an
// operator tails while reproducing agent behavior, truncated on each run.
type traceLog struct {
	mu  sync.Mutex
	out *log.Logger
	f   *os.File
}

// openTrace creates the trace file, truncating a previous one. An empty
// path yields a nil trace, which discards everything.
func openTrace(path string) (*traceLog, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &traceLog{
		out: log.New(f, "", log.LstdFlags|log.Lmicroseconds),
		f:   f,
	}, nil
}

func (t *traceLog) printf(format string, args ...any) {
	if t == nil || t.out == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.out.Printf(format, args...)
}

func (t *traceLog) Close() error {
	if t == nil || t.f == nil {
		return nil
	}
	return t.f.Close()
}

// tracef writes one line to the server's trace file, if tracing is on.
func (s *Server) tracef(format string, args ...any) {
	s.trace.printf(format, args...)
}
