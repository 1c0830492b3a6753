// Package fsserver implements the filesystem-mcp tool server: a sandboxed
// set of filesystem operations exposed over MCP (stdio JSON-RPC, optionally
// streamable HTTP).
//
// Every tool resolves its paths against a configured base folder and refuses
// requests that would escape it, including through symlinks and file:// URIs.
// Results are typed structures with JSON schemas; a compat mode renders them
// as plain text for clients that cannot consume structured content.
package fsserver
