package fsserver

// ServerName and ServerVersion identify the server during the MCP
// initialize handshake.
const (
	ServerName    = "filesystem-mcp"
	ServerVersion = "2.0.0"
)

const (
	maxPeekBytesForSniff = 1 << 20  // 1 MiB for MIME/encoding detection
	maxHashBytes         = 32 << 20 // 32 MiB hashing cap

	defaultReadMaxBytes     = 64 * 1024
	defaultPeekMaxBytes     = 4 * 1024
	defaultListMaxEntries   = 1000
	defaultGlobMaxResults   = 1000
	defaultSearchMaxResults = 100
	defaultTailLines        = 10
	defaultTreeMaxDepth     = 3

	// Scanner lines longer than this are treated as binary noise.
	maxScanLineBytes = 4 * 1024 * 1024
)
