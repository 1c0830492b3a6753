// Package logger provides a structured logging facility based on Zap.
//
// The server speaks JSON-RPC on stdout, so every sink here writes to stderr
// or to a file; stdout is never used.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//   - File: optional path that receives a copy of every entry
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("server started")
package logger
