package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// MessageType tags the direction / intent of an inter-agent message. The set
// is open; request and response cover the router's fan-out traffic.
type MessageType string

const (
	// MessageTypeRequest marks a message asking another agent to contribute.
	MessageTypeRequest MessageType = "request"
	// MessageTypeResponse marks a contribution sent back to the primary agent.
	MessageTypeResponse MessageType = "response"
	// MessageTypeSystem marks bus-level or lifecycle notifications.
	MessageTypeSystem MessageType = "system"
)

// Message is one directed communication between two agents within a session.
// After creation it is immutable; the durable log is append-only and never
// mutates or deletes recorded messages.
type Message struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	From      string         `json:"from,omitempty"` // empty for system-originated
	To        string         `json:"to"`
	Type      MessageType    `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewMessage constructs a message with a fresh ID and UTC timestamp.
func NewMessage(sessionID, from, to string, typ MessageType, payload map[string]any) Message {
	return Message{
		ID:        NewMessageID(),
		SessionID: sessionID,
		From:      from,
		To:        to,
		Type:      typ,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryID generates a unique identifier for queries and bus sessions.
func NewQueryID() string { return uuid.NewString() }

// NewMessageID generates a time-sortable unique identifier for messages so
// the durable log preserves global append order across concurrent queries.
func NewMessageID() string { return ulid.Make().String() }

// MessageFilter narrows a MessageLog query. Zero values mean "no constraint";
// Limit caps the result to the most recent N messages (0 uses the store's
// default bound).
type MessageFilter struct {
	SessionID string
	AgentID   string // matches either From or To
	Type      MessageType
	Limit     int
}

// MessageLog persists the append-only record of inter-agent messages. It is
// independent of session lifecycle: ending a bus session never removes its
// messages. Implementations must be safe for concurrent use and serialize
// appends so log order is stable.
type MessageLog interface {
	Append(msg Message) error
	Query(filter MessageFilter) ([]Message, error)
}
