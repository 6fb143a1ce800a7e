// Package bus mediates all inter-agent communication. A Bus holds short-lived
// sessions, each bounding the number of messages one query's collaboration may
// exchange, and persists every accepted message to a durable, queryable log
// that outlives the sessions themselves.
//
// The Bus is an explicit, constructor-injected service rather than a
// module-level global so tests can instantiate isolated instances. Over-budget
// and unknown-session sends are expected conditions and are reported as a nil
// message, never as an error.
package bus
