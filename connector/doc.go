// Package connector pulls campaign and creative snapshots from external ad
// platforms. An Aggregator fans out to all configured connectors in parallel,
// guards each one with a circuit breaker and a shared rate limit, and merges
// the snapshots agents analyze.
package connector
