package fsserver

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Server is the filesystem MCP server: a configured sandbox root plus the
// tool handlers registered on an MCP server instance.
type Server struct {
	cfg   Config
	root  string
	log   *zap.Logger
	trace *traceLog
	mcp   *server.MCPServer

	sessions        sync.Map // session id -> *SessionState
	fallbackSession string
}

// New validates the configuration, resolves the sandbox root, and registers
// every tool. A nil logger disables logging.
func New(cfg Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg.normalize()
	root, err := cfg.resolveRoot()
	if err != nil {
		return nil, err
	}
	trace, err := openTrace(cfg.TraceFile)
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:             cfg,
		root:            root,
		log:             log,
		trace:           trace,
		fallbackSession: uuid.NewString(),
	}
	s.mcp = server.NewMCPServer(ServerName, ServerVersion,
		server.WithToolHandlerMiddleware(s.sessionMiddleware()))
	s.registerTools()
	s.log.Info("server ready",
		zap.String("root", root),
		zap.Bool("compat", cfg.Compat),
		zap.Int("workers", cfg.Workers))
	s.tracef("server start root=%q compat=%v workers=%d", root, cfg.Compat, cfg.Workers)
	return s, nil
}

// Root returns the resolved sandbox base folder.
func (s *Server) Root() string {
	return s.root
}

// MCP exposes the underlying MCP server, mainly for tests.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Close releases the trace file, if any.
func (s *Server) Close() error {
	return s.trace.Close()
}

// ServeStdio blocks serving JSON-RPC over stdin/stdout.
func (s *Server) ServeStdio() error {
	s.log.Info("serving on stdio")
	return server.ServeStdio(s.mcp)
}

// ServeHTTP blocks serving the streamable HTTP transport on addr.
func (s *Server) ServeHTTP(addr string) error {
	s.log.Info("serving streamable http", zap.String("addr", addr))
	return server.NewStreamableHTTPServer(s.mcp).Start(addr)
}

// Run serves on the transport the configuration selects.
func (s *Server) Run() error {
	if s.cfg.HTTPAddr != "" {
		return s.ServeHTTP(s.cfg.HTTPAddr)
	}
	return s.ServeStdio()
}

func wrapTextHandler[TArgs any, TResult any](h mcp.StructuredToolHandlerFunc[TArgs, TResult], format func(TResult) string) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args TArgs
		if err := req.BindArguments(&args); err != nil {
			errResp := toErrorResponse(err)
			out := mcp.NewToolResultStructured(errResp, errResp.Error)
			out.IsError = true
			return out, nil
		}
		res, err := h(ctx, req, args)
		if err != nil {
			errResp := toErrorResponse(err)
			out := mcp.NewToolResultStructured(errResp, errResp.Error)
			out.IsError = true
			return out, nil
		}
		return mcp.NewToolResultText(format(res)), nil
	}
}

func wrapStructuredHandler[TArgs any, TResult any](h mcp.StructuredToolHandlerFunc[TArgs, TResult]) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args TArgs
		if err := req.BindArguments(&args); err != nil {
			errResp := toErrorResponse(err)
			out := mcp.NewToolResultStructured(errResp, errResp.Error)
			out.IsError = true
			return out, nil
		}
		res, err := h(ctx, req, args)
		if err != nil {
			errResp := toErrorResponse(err)
			out := mcp.NewToolResultStructured(errResp, errResp.Error)
			out.IsError = true
			return out, nil
		}
		return &mcp.CallToolResult{StructuredContent: res}, nil
	}
}

// addTool registers one tool, honoring compat mode: structured content with
// an output schema normally, plain text when compat is on.
func addTool[TArgs any, TResult any](s *Server, name string, opts []mcp.ToolOption, h mcp.StructuredToolHandlerFunc[TArgs, TResult], format func(TResult) string) {
	if !s.cfg.Compat {
		opts = append(opts, mcp.WithOutputSchema[TResult]())
	}
	tool := mcp.NewTool(name, opts...)
	if s.cfg.Compat {
		s.mcp.AddTool(tool, wrapTextHandler(h, format))
	} else {
		s.mcp.AddTool(tool, wrapStructuredHandler(h))
	}
}

func (s *Server) registerTools() {
	addTool(s, "fs_read", []mcp.ToolOption{
		mcp.WithDescription("Read a file up to a byte limit. Detects encoding when unspecified."),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path or file:// URI within the base folder")),
		mcp.WithString("encoding", mcp.Enum(string(encText), string(encBase64)), mcp.Description("Force text or base64; auto-detected if empty")),
		mcp.WithNumber("max_bytes", mcp.Min(1), mcp.Description("Maximum bytes to return (default 64 KiB)")),
	}, s.handleRead(), formatReadResult)

	addTool(s, "fs_peek", []mcp.ToolOption{
		mcp.WithDescription("Read a file window without loading the whole file"),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path")),
		mcp.WithNumber("offset", mcp.Min(0), mcp.Description("Byte offset to start at (default 0)")),
		mcp.WithNumber("max_bytes", mcp.Min(1), mcp.Description("Window size in bytes (default 4 KiB)")),
	}, s.handlePeek(), formatPeekResult)

	addTool(s, "fs_write", []mcp.ToolOption{
		mcp.WithDescription("Create or modify a file using a strategy"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Target file path")),
		mcp.WithString("encoding", mcp.Required(), mcp.Enum(string(encText), string(encBase64)), mcp.Description("Content encoding: text or base64")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Data to write")),
		mcp.WithString("strategy", mcp.Enum(string(strategyOverwrite), string(strategyNoClobber), string(strategyAppend), string(strategyPrepend), string(strategyReplaceRange)), mcp.Description("Write behavior (default overwrite)")),
		mcp.WithBoolean("create_dirs", mcp.Description("Create parent directories if needed (default false)")),
		mcp.WithString("mode", mcp.Pattern("^0?[0-7]{3,4}$"), mcp.Description("File mode in octal; omit to keep existing")),
		mcp.WithNumber("start", mcp.Min(0), mcp.Description("Start byte for replace_range")),
		mcp.WithNumber("end", mcp.Min(0), mcp.Description("End byte (exclusive) for replace_range")),
	}, s.handleWrite(), formatWriteResult)

	addTool(s, "fs_edit", []mcp.ToolOption{
		mcp.WithDescription("Search and replace text in a file"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Target text file")),
		mcp.WithString("pattern", mcp.Required(), mcp.Description("Substring or regex to match")),
		mcp.WithString("replace", mcp.Required(), mcp.Description("Replacement text; supports $1 etc. in regex mode")),
		mcp.WithBoolean("regex", mcp.Description("Treat pattern as a regular expression")),
		mcp.WithNumber("count", mcp.Min(0), mcp.Description("If >0, maximum replacements; 0 replaces all")),
	}, s.handleEdit(), formatEditResult)

	addTool(s, "fs_list", []mcp.ToolOption{
		mcp.WithDescription("List directory contents"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Directory to list")),
		mcp.WithBoolean("recursive", mcp.Description("Recurse into subdirectories")),
		mcp.WithBoolean("include_hidden", mcp.Description("Include dotfiles (default false)")),
		mcp.WithArray("excludes", mcp.WithStringItems(), mcp.Description("Glob patterns to skip (e.g. *.log, node_modules/**)")),
		mcp.WithNumber("max_entries", mcp.Min(1), mcp.Description("Maximum entries to return (default 1000)")),
	}, s.handleList(), formatListResult)

	addTool(s, "fs_glob", []mcp.ToolOption{
		mcp.WithDescription("Match paths with shell-style globbing and ** for recursion"),
		mcp.WithString("pattern", mcp.Required(), mcp.Description("Glob pattern relative to the base folder")),
		mcp.WithNumber("max_results", mcp.Min(1), mcp.Description("Maximum matches to return (default 1000)")),
	}, s.handleGlob(), formatGlobResult)

	addTool(s, "fs_search", []mcp.ToolOption{
		mcp.WithDescription("Search files recursively for text using concurrent workers"),
		mcp.WithString("pattern", mcp.Required(), mcp.Description("Substring or regex to find")),
		mcp.WithString("path", mcp.Description("Start directory relative to the base folder")),
		mcp.WithBoolean("regex", mcp.Description("Interpret pattern as regular expression")),
		mcp.WithNumber("max_results", mcp.Min(1), mcp.Description("Maximum matches to return (default 100)")),
		mcp.WithNumber("context_lines", mcp.Min(0), mcp.Description("Lines of context before and after each match")),
	}, s.handleSearch(), formatSearchResult)

	addTool(s, "fs_mkdir", []mcp.ToolOption{
		mcp.WithDescription("Create directories; brace expansion like {a,b} creates several"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Directory path to create")),
		mcp.WithBoolean("parents", mcp.Description("Create missing parent directories")),
		mcp.WithString("mode", mcp.Pattern("^0?[0-7]{3,4}$"), mcp.Description("Directory mode in octal (default 0755)")),
	}, s.handleMkdir(), formatMkdirResult)

	addTool(s, "fs_rmdir", []mcp.ToolOption{
		mcp.WithDescription("Remove a directory"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Directory to remove")),
		mcp.WithBoolean("recursive", mcp.Description("Remove directory contents recursively")),
	}, s.handleRmdir(), formatRmdirResult)

	addTool(s, "fs_stat", []mcp.ToolOption{
		mcp.WithDescription("Report existence and metadata for a path; absent paths are not errors"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to inspect")),
	}, s.handleStat(), formatStatResult)

	addTool(s, "fs_move", []mcp.ToolOption{
		mcp.WithDescription("Move or rename a file or directory within the base folder"),
		mcp.WithString("source", mcp.Required(), mcp.Description("Existing path to move")),
		mcp.WithString("dest", mcp.Required(), mcp.Description("Destination path")),
		mcp.WithBoolean("overwrite", mcp.Description("Replace the destination if it exists")),
	}, s.handleMove(), formatMoveResult)

	addTool(s, "fs_tail", []mcp.ToolOption{
		mcp.WithDescription("Return the last lines of a text file"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Text file to read")),
		mcp.WithNumber("lines", mcp.Min(1), mcp.Description("Number of trailing lines (default 10)")),
	}, s.handleTail(), formatTailResult)

	addTool(s, "fs_tree", []mcp.ToolOption{
		mcp.WithDescription("Render a directory tree up to a depth limit"),
		mcp.WithString("path", mcp.Description("Directory to start from (default base folder)")),
		mcp.WithNumber("max_depth", mcp.Min(1), mcp.Description("Depth limit (default 3)")),
		mcp.WithBoolean("include_hidden", mcp.Description("Include dotfiles (default false)")),
		mcp.WithArray("excludes", mcp.WithStringItems(), mcp.Description("Glob patterns to skip")),
	}, s.handleTree(), formatTreeResult)

	addTool(s, "fs_session", []mcp.ToolOption{
		mcp.WithDescription("Report the calling session's identity and tool usage"),
	}, s.handleSession(), formatSessionResult)
}
