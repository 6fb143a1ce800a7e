package messagelog

import (
	"sync"

	"github.com/admesh-io/admesh/core"
)

// InMemoryLog is a volatile core.MessageLog storing messages in an
// append-only process-local slice. It is safe for concurrent access and best
// suited for tests or ephemeral demo servers. Appends are serialized so log
// order is stable across concurrent queries sharing one bus.
type InMemoryLog struct {
	mu       sync.RWMutex
	messages []core.Message
}

// NewInMemoryLog constructs an empty in-memory message log.
func NewInMemoryLog() *InMemoryLog {
	return &InMemoryLog{}
}

// Append adds a message to the end of the log.
func (l *InMemoryLog) Append(msg core.Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
	return nil
}

// Query returns the most recent matching messages in append order.
func (l *InMemoryLog) Query(filter core.MessageFilter) ([]core.Message, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	matched := make([]core.Message, 0, len(l.messages))
	for _, msg := range l.messages {
		if matches(msg, filter) {
			matched = append(matched, msg)
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[len(matched)-filter.Limit:]
	}
	return matched, nil
}

// Len reports how many messages the log holds.
func (l *InMemoryLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

func matches(msg core.Message, filter core.MessageFilter) bool {
	if filter.SessionID != "" && msg.SessionID != filter.SessionID {
		return false
	}
	if filter.AgentID != "" && msg.From != filter.AgentID && msg.To != filter.AgentID {
		return false
	}
	if filter.Type != "" && msg.Type != filter.Type {
		return false
	}
	return true
}
