// Package core provides the foundational domain types and interfaces used by
// admesh. It defines the core abstractions for:
//
//   - Agents (addressable units collaborating on ad-operations queries)
//   - Messages (immutable, append-only records of inter-agent communication)
//   - QueryContext (the typed configuration bag accompanying each query)
//   - The MessageLog contract backing the message bus's durable log
//   - Ad-ops payload types (campaigns, creatives) agents operate on
//
// The package intentionally keeps implementation concerns (persistence, bus
// mediation, concrete agents) out of scope, exposing small interfaces to
// enable custom backends and extensions.
package core
