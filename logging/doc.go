// Package logging provides a minimal logging interface and adapters for
// admesh.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the bus, router and agents use for observability. This
// package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - AdMeshLogger with contextual helpers (component, session) and domain
//     specific logging helpers for agent calls, routing decisions and
//     connector fetches
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
