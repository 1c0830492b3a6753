package fsserver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SessionState tracks one client session's usage across tool calls.
type SessionState struct {
	ID        string
	StartedAt time.Time

	mu      sync.Mutex
	calls   int
	perTool map[string]int
}

func newSessionState(id string) *SessionState {
	return &SessionState{
		ID:        id,
		StartedAt: time.Now().UTC(),
		perTool:   make(map[string]int),
	}
}

// recordCall counts a tool call and enforces the budget. The rejected call
// is not counted, so a later budget raise lets the session continue.
func (st *SessionState) recordCall(tool string, budget int) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if budget > 0 && st.calls >= budget {
		return fmt.Errorf("%w: %d calls used", ErrBudgetExhausted, st.calls)
	}
	st.calls++
	st.perTool[tool]++
	return nil
}

func (st *SessionState) snapshot(budget int) SessionResult {
	st.mu.Lock()
	defer st.mu.Unlock()
	perTool := make(map[string]int, len(st.perTool))
	for k, v := range st.perTool {
		perTool[k] = v
	}
	return SessionResult{
		ID:        st.ID,
		StartedAt: st.StartedAt.Format(time.RFC3339),
		Calls:     st.calls,
		Budget:    budget,
		PerTool:   perTool,
	}
}

type sessionStateKey struct{}

// sessionFromContext retrieves the SessionState the middleware attached.
func sessionFromContext(ctx context.Context) *SessionState {
	if v, ok := ctx.Value(sessionStateKey{}).(*SessionState); ok {
		return v
	}
	return nil
}

// sessionMiddleware attaches a SessionState to each request, keyed by the
// transport's session identifier. Transports without one share the server's
// fallback identifier, generated once per process.
func (s *Server) sessionMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			sid := ""
			if cs := server.ClientSessionFromContext(ctx); cs != nil {
				sid = cs.SessionID()
			}
			if sid == "" {
				sid = s.fallbackSession
			}
			v, _ := s.sessions.LoadOrStore(sid, newSessionState(sid))
			state := v.(*SessionState)
			if err := state.recordCall(req.Params.Name, s.cfg.CallBudget); err != nil {
				s.tracef("session=%s budget exhausted tool=%s", sid, req.Params.Name)
				return nil, err
			}
			ctx = context.WithValue(ctx, sessionStateKey{}, state)
			return next(ctx, req)
		}
	}
}

func formatSessionResult(r SessionResult) string {
	tools := make([]string, 0, len(r.PerTool))
	for name := range r.PerTool {
		tools = append(tools, name)
	}
	sort.Strings(tools)
	var b strings.Builder
	fmt.Fprintf(&b, "session=%s started=%s calls=%d", r.ID, r.StartedAt, r.Calls)
	if r.Budget > 0 {
		fmt.Fprintf(&b, " budget=%d", r.Budget)
	}
	for _, name := range tools {
		fmt.Fprintf(&b, " %s=%d", name, r.PerTool[name])
	}
	return b.String()
}

func (s *Server) handleSession() mcp.StructuredToolHandlerFunc[SessionArgs, SessionResult] {
	return func(ctx context.Context, req mcp.CallToolRequest, args SessionArgs) (SessionResult, error) {
		state := sessionFromContext(ctx)
		if state == nil {
			return SessionResult{}, errors.New("no session attached to request")
		}
		return state.snapshot(s.cfg.CallBudget), nil
	}
}
