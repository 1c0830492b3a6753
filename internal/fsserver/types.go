package fsserver

// Write strategies define how content is written to files
type writeStrategy string

const (
	strategyOverwrite    writeStrategy = "overwrite"     // Replace entire file content
	strategyNoClobber    writeStrategy = "no_clobber"    // Fail if file exists
	strategyAppend       writeStrategy = "append"        // Add to end of file
	strategyPrepend      writeStrategy = "prepend"       // Add to beginning of file
	strategyReplaceRange writeStrategy = "replace_range" // Replace specific byte range
)

// Encoding types for file content
type encodingKind string

const (
	encText   encodingKind = "text"   // UTF-8 text content
	encBase64 encodingKind = "base64" // Base64 encoded binary
)

// MetaFields contains common file metadata
type MetaFields struct {
	Mode       string `json:"mode,omitempty"`        // File permissions in octal
	ModifiedAt string `json:"modified_at,omitempty"` // Last modification time (RFC3339)
}

// ReadArgs defines parameters for reading files
type ReadArgs struct {
	Path     string `json:"path" description:"File path or file:// URI within the base folder"`
	Encoding string `json:"encoding,omitempty" description:"Force text or base64; auto-detected if empty"`
	MaxBytes int    `json:"max_bytes,omitempty" description:"Maximum bytes to return (default 64KB)"`
}

// ReadResult contains file read operation results
type ReadResult struct {
	Path      string `json:"path" description:"Original requested path"`
	Size      int64  `json:"size" description:"Total file size in bytes"`
	MIMEType  string `json:"mime_type" description:"Detected MIME type"`
	SHA256    string `json:"sha256" description:"SHA256 hash of content (if under 32MB)"`
	Encoding  string `json:"encoding" description:"Content encoding used (text/base64)"`
	Content   string `json:"content" description:"File content (possibly truncated)"`
	Truncated bool   `json:"truncated" description:"Whether content was truncated"`
	MetaFields
}

// PeekArgs defines parameters for peeking into files
type PeekArgs struct {
	Path     string `json:"path" description:"File path"`
	Offset   int    `json:"offset,omitempty" description:"Byte offset to start at (default 0)"`
	MaxBytes int    `json:"max_bytes,omitempty" description:"Window size in bytes (default 4KB)"`
}

// PeekResult contains file peek operation results
type PeekResult struct {
	Path     string `json:"path" description:"Original requested path"`
	Offset   int    `json:"offset" description:"Starting byte offset"`
	Size     int64  `json:"size" description:"Total file size"`
	EOF      bool   `json:"eof" description:"Whether window reached end of file"`
	Encoding string `json:"encoding" description:"Content encoding (text/base64)"`
	Content  string `json:"content" description:"Window content"`
	MetaFields
}

// WriteArgs defines parameters for writing files
type WriteArgs struct {
	Path       string        `json:"path" description:"Target file path"`
	Encoding   string        `json:"encoding" description:"Content encoding: text or base64"`
	Content    string        `json:"content" description:"Data to write"`
	Strategy   writeStrategy `json:"strategy,omitempty" description:"Write behavior (default overwrite)"`
	CreateDirs *bool         `json:"create_dirs,omitempty" description:"Create parent directories if needed"`
	Mode       string        `json:"mode,omitempty" description:"File mode in octal (e.g., 0644)"`
	Start      *int          `json:"start,omitempty" description:"Start byte for replace_range strategy"`
	End        *int          `json:"end,omitempty" description:"End byte (exclusive) for replace_range"`
}

// WriteResult contains file write operation results
type WriteResult struct {
	Path     string `json:"path" description:"File path written"`
	Action   string `json:"action" description:"Write strategy used"`
	Bytes    int    `json:"bytes" description:"Total bytes in final file"`
	Created  bool   `json:"created" description:"Whether file was newly created"`
	MIMEType string `json:"mime_type" description:"Detected MIME type"`
	SHA256   string `json:"sha256" description:"SHA256 of final content"`
	MetaFields
}

// EditArgs defines parameters for editing files
type EditArgs struct {
	Path    string `json:"path" description:"Target text file"`
	Pattern string `json:"pattern" description:"Substring or regex to match"`
	Replace string `json:"replace" description:"Replacement text"`
	Regex   bool   `json:"regex,omitempty" description:"Treat pattern as regex"`
	Count   int    `json:"count,omitempty" description:"Max replacements (0=all)"`
}

// EditResult contains file edit operation results
type EditResult struct {
	Path         string `json:"path" description:"File path edited"`
	Replacements int    `json:"replacements" description:"Number of replacements made"`
	Bytes        int    `json:"bytes" description:"Final file size"`
	SHA256       string `json:"sha256" description:"SHA256 of final content"`
	MetaFields
}

// ListArgs defines parameters for listing directories
type ListArgs struct {
	Path          string   `json:"path" description:"Directory to list"`
	Recursive     bool     `json:"recursive,omitempty" description:"Recurse into subdirectories"`
	IncludeHidden bool     `json:"include_hidden,omitempty" description:"Include dotfiles (default false)"`
	Excludes      []string `json:"excludes,omitempty" description:"Glob patterns to skip (e.g. *.log, node_modules/**)"`
	MaxEntries    int      `json:"max_entries,omitempty" description:"Maximum entries to return"`
}

// ListEntry represents a single file/directory entry
type ListEntry struct {
	Path       string `json:"path" description:"Relative path from the base folder"`
	Name       string `json:"name" description:"Base filename"`
	Kind       string `json:"kind" description:"Type: file/dir/symlink/other"`
	Size       int64  `json:"size" description:"Size in bytes"`
	Mode       string `json:"mode" description:"Permissions in octal"`
	ModifiedAt string `json:"modified_at" description:"Last modified time (RFC3339)"`
}

// ListResult contains directory listing results
type ListResult struct {
	Entries   []ListEntry `json:"entries" description:"Directory entries"`
	Truncated bool        `json:"truncated,omitempty" description:"Whether the entry cap was hit"`
}

// GlobArgs defines parameters for glob pattern matching
type GlobArgs struct {
	Pattern    string `json:"pattern" description:"Glob pattern (supports ** for recursion)"`
	MaxResults int    `json:"max_results,omitempty" description:"Maximum matches to return"`
}

// GlobResult contains glob matching results
type GlobResult struct {
	Matches []string `json:"matches" description:"Matched file paths"`
}

// SearchArgs defines parameters for text search
type SearchArgs struct {
	Pattern      string `json:"pattern" description:"Text or regex pattern to find"`
	Path         string `json:"path,omitempty" description:"Start directory (default base folder)"`
	Regex        bool   `json:"regex,omitempty" description:"Interpret pattern as regex"`
	MaxResults   int    `json:"max_results,omitempty" description:"Maximum matches to return"`
	ContextLines int    `json:"context_lines,omitempty" description:"Lines of context before and after each match"`
}

// SearchMatch represents a single search result
type SearchMatch struct {
	Path   string   `json:"path" description:"File path relative to the base folder"`
	Line   int      `json:"line" description:"Line number of match"`
	Text   string   `json:"text" description:"Matching line content"`
	Before []string `json:"before,omitempty" description:"Context lines preceding the match"`
	After  []string `json:"after,omitempty" description:"Context lines following the match"`
}

// SearchStats summarizes the work a search performed
type SearchStats struct {
	FilesScanned int64 `json:"files_scanned" description:"Files whose content was scanned"`
	BytesRead    int64 `json:"bytes_read" description:"Total bytes read"`
	DurationMS   int64 `json:"duration_ms" description:"Wall time in milliseconds"`
}

// SearchResult contains text search results
type SearchResult struct {
	Matches    []SearchMatch `json:"matches" description:"Found matches"`
	Statistics SearchStats   `json:"statistics" description:"Search statistics"`
}

// MkdirArgs defines parameters for creating directories
type MkdirArgs struct {
	Path    string `json:"path" description:"Directory path; brace expansion like {a,b} creates several"`
	Parents bool   `json:"parents,omitempty" description:"Create missing parent directories"`
	Mode    string `json:"mode,omitempty" description:"Directory mode in octal (default 0755)"`
}

// MkdirResult contains directory creation results
type MkdirResult struct {
	Path    string   `json:"path" description:"Requested path expression"`
	Paths   []string `json:"paths,omitempty" description:"All paths the expression expanded to"`
	Created bool     `json:"created" description:"Whether any directory was newly created"`
	MetaFields
}

// RmdirArgs defines parameters for removing directories
type RmdirArgs struct {
	Path      string `json:"path" description:"Directory to remove"`
	Recursive bool   `json:"recursive,omitempty" description:"Remove contents recursively"`
}

// RmdirResult contains directory removal results
type RmdirResult struct {
	Path    string `json:"path" description:"Directory removed"`
	Removed bool   `json:"removed" description:"Whether removal happened"`
}

// StatArgs defines parameters for stat reports
type StatArgs struct {
	Path string `json:"path" description:"Path to inspect"`
}

// StatResult reports existence and metadata for a path. An absent path is
// not an error; it reports exists=false.
type StatResult struct {
	Path      string `json:"path" description:"Inspected path"`
	Exists    bool   `json:"exists" description:"Whether the path exists"`
	Kind      string `json:"kind,omitempty" description:"Type: file/dir/symlink/other"`
	Size      int64  `json:"size,omitempty" description:"Size in bytes"`
	SizeHuman string `json:"size_human,omitempty" description:"Human readable size"`
	Target    string `json:"target,omitempty" description:"Symlink target, when kind is symlink"`
	MetaFields
}

// MoveArgs defines parameters for moving/renaming
type MoveArgs struct {
	Source    string `json:"source" description:"Existing path to move"`
	Dest      string `json:"dest" description:"Destination path"`
	Overwrite bool   `json:"overwrite,omitempty" description:"Replace the destination if it exists"`
}

// MoveResult contains move operation results
type MoveResult struct {
	Source   string `json:"source" description:"Original path"`
	Dest     string `json:"dest" description:"New path"`
	Moved    bool   `json:"moved" description:"Whether the move happened"`
	Replaced bool   `json:"replaced" description:"Whether an existing destination was replaced"`
}

// TailArgs defines parameters for reading the end of a file
type TailArgs struct {
	Path  string `json:"path" description:"Text file to read"`
	Lines int    `json:"lines,omitempty" description:"Number of trailing lines (default 10)"`
}

// TailResult contains the trailing lines of a file
type TailResult struct {
	Path     string   `json:"path" description:"File read"`
	Lines    []string `json:"lines" description:"Trailing lines in order"`
	Returned int      `json:"returned" description:"Number of lines returned"`
	Total    int      `json:"total" description:"Total lines in the file"`
}

// TreeArgs defines parameters for rendering a directory tree
type TreeArgs struct {
	Path          string   `json:"path,omitempty" description:"Directory to start from (default base folder)"`
	MaxDepth      int      `json:"max_depth,omitempty" description:"Depth limit (default 3)"`
	IncludeHidden bool     `json:"include_hidden,omitempty" description:"Include dotfiles (default false)"`
	Excludes      []string `json:"excludes,omitempty" description:"Glob patterns to skip"`
}

// TreeNode is one element of a rendered directory tree
type TreeNode struct {
	Name     string     `json:"name" description:"Entry name"`
	Kind     string     `json:"kind" description:"Type: file/dir/symlink/other"`
	Size     int64      `json:"size,omitempty" description:"Size in bytes for files"`
	Children []TreeNode `json:"children,omitempty" description:"Child entries for directories"`
}

// TreeResult contains a rendered directory tree
type TreeResult struct {
	Path      string   `json:"path" description:"Tree root"`
	Tree      TreeNode `json:"tree" description:"Nested entries"`
	Dirs      int      `json:"dirs" description:"Directories visited"`
	Files     int      `json:"files" description:"Files visited"`
	Truncated bool     `json:"truncated,omitempty" description:"Whether the depth limit cut the tree short"`
}

// SessionArgs is empty; fs_session reports on the calling session.
type SessionArgs struct{}

// SessionResult reports the calling session's identity and usage
type SessionResult struct {
	ID        string         `json:"id" description:"Session identifier"`
	StartedAt string         `json:"started_at" description:"First call time (RFC3339)"`
	Calls     int            `json:"calls" description:"Tool calls so far, including this one"`
	Budget    int            `json:"budget,omitempty" description:"Configured call budget (0 = unlimited)"`
	PerTool   map[string]int `json:"per_tool" description:"Call count per tool"`
}
