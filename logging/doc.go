// Package logging provides a minimal logging interface and adapters for bcikit.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the session components use for observability. This
// package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - SessionLogger with contextual helpers (session id, component) and
//     domain logging helpers for markers, loops and training phases
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	sess := protocol.New(cfg, markers, responses, source, protocol.WithLogger(logger))
//
// The design intentionally keeps the interface minimal so hosts can plug any
// structured logger while supporting structured logging where available.
package logging
