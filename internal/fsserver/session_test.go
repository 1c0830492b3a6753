package fsserver

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func callThrough(t *testing.T, s *Server, tool string) (*SessionState, error) {
	t.Helper()
	var captured *SessionState
	next := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		captured = sessionFromContext(ctx)
		return mcp.NewToolResultText("ok"), nil
	}
	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Name: tool}}
	_, err := s.sessionMiddleware()(next)(context.Background(), req)
	return captured, err
}

func TestSessionMiddlewareFallbackIdentity(t *testing.T) {
	s := newTestServer(t, t.TempDir())

	first, err := callThrough(t, s, "fs_read")
	if err != nil {
		t.Fatal(err)
	}
	if first == nil || first.ID == "" {
		t.Fatalf("no session attached: %+v", first)
	}

	// Requests without a transport session share one state.
	second, err := callThrough(t, s, "fs_write")
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Fatalf("expected shared fallback session, got %p and %p", first, second)
	}
}

func TestSessionPerToolCounts(t *testing.T) {
	s := newTestServer(t, t.TempDir())

	var state *SessionState
	for _, tool := range []string{"fs_read", "fs_read", "fs_write"} {
		st, err := callThrough(t, s, tool)
		if err != nil {
			t.Fatal(err)
		}
		state = st
	}

	snap := state.snapshot(0)
	if snap.Calls != 3 {
		t.Fatalf("expected 3 calls, got %d", snap.Calls)
	}
	if snap.PerTool["fs_read"] != 2 || snap.PerTool["fs_write"] != 1 {
		t.Fatalf("per-tool counts wrong: %+v", snap.PerTool)
	}
	if snap.StartedAt == "" {
		t.Fatalf("missing start time: %+v", snap)
	}
}

func TestSessionCallBudget(t *testing.T) {
	root := t.TempDir()
	s, err := New(Config{Root: root, CallBudget: 2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })

	for i := 0; i < 2; i++ {
		if _, err := callThrough(t, s, "fs_read"); err != nil {
			t.Fatalf("call %d rejected early: %v", i+1, err)
		}
	}
	_, err = callThrough(t, s, "fs_read")
	if !errors.Is(err, ErrBudgetExhausted) {
		t.Fatalf("expected ErrBudgetExhausted, got %v", err)
	}

	// The rejected call is not counted against the budget.
	v, ok := s.sessions.Load(s.fallbackSession)
	if !ok {
		t.Fatal("session state missing")
	}
	if snap := v.(*SessionState).snapshot(2); snap.Calls != 2 {
		t.Fatalf("rejected call was counted: %+v", snap)
	}
}

func TestHandleSession(t *testing.T) {
	s := newTestServer(t, t.TempDir())

	state := newSessionState("sess-1")
	if err := state.recordCall("fs_session", 0); err != nil {
		t.Fatal(err)
	}
	ctx := context.WithValue(context.Background(), sessionStateKey{}, state)

	res, err := s.handleSession()(ctx, mcp.CallToolRequest{}, SessionArgs{})
	if err != nil {
		t.Fatal(err)
	}
	if res.ID != "sess-1" || res.Calls != 1 || res.PerTool["fs_session"] != 1 {
		t.Fatalf("session snapshot wrong: %+v", res)
	}

	if _, err := s.handleSession()(context.Background(), mcp.CallToolRequest{}, SessionArgs{}); err == nil {
		t.Fatalf("expected error without attached session")
	}
}

func TestFormatSessionResult(t *testing.T) {
	out := formatSessionResult(SessionResult{
		ID:        "abc",
		StartedAt: "2025-01-01T00:00:00Z",
		Calls:     3,
		Budget:    10,
		PerTool:   map[string]int{"fs_read": 2, "fs_list": 1},
	})
	want := "session=abc started=2025-01-01T00:00:00Z calls=3 budget=10 fs_list=1 fs_read=2"
	if out != want {
		t.Fatalf("got %q want %q", out, want)
	}
}
