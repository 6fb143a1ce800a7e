package core

import "context"

// Agent defines the capability contract every admesh agent implements.
//
// Agents are named, addressable units that answer ad-operations queries. The
// router (or any caller) invokes them polymorphically through ProcessQuery and
// relays inter-agent traffic through the shared message bus via SendMessage.
//
// Implementations must:
//   - Keep identity immutable after construction (Info is side-effect free)
//   - Degrade gracefully on empty or malformed queries instead of failing
//   - Never assume a bus session exists when sending messages
type Agent interface {
	// Info returns the immutable identity and capability descriptor.
	Info() AgentInfo

	// SendMessage relays a payload to another agent through the shared bus.
	// It returns the recorded message, or nil when the bus declined to record
	// one (unknown or exhausted session). A nil result is not an error.
	SendMessage(sessionID, toAgentID string, typ MessageType, payload map[string]any) *Message

	// ProcessQuery answers a free-text query using the supplied context bag.
	// The result shape is capability specific and opaque to callers.
	ProcessQuery(ctx context.Context, query string, qc *QueryContext) (any, error)
}

// AgentInfo carries the identity and capability descriptor of an agent.
// ID is the stable routing address; Role categorizes the specialty
// (e.g. "router", "analyst", "trader").
type AgentInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities,omitempty"`
	Tools        []string `json:"tools,omitempty"`
}
