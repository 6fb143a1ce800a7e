package core

import "fmt"

// AgentNotFoundError reports that a primary agent id did not resolve in the
// registry. It is fatal for the query; no bus session has been opened when it
// occurs, so no cleanup obligation exists.
type AgentNotFoundError struct {
	AgentID string
}

func (e *AgentNotFoundError) Error() string {
	return fmt.Sprintf("agent %q not found in registry", e.AgentID)
}

// AgentProcessingError wraps a failure raised by an agent's ProcessQuery.
// Primary-agent failures abort the whole query; collaborator failures are
// recorded and skipped.
type AgentProcessingError struct {
	AgentID string
	Err     error
}

func (e *AgentProcessingError) Error() string {
	return fmt.Sprintf("agent %q failed to process query: %v", e.AgentID, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As matching.
func (e *AgentProcessingError) Unwrap() error { return e.Err }
