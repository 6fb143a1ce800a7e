package bus

import (
	"sync"

	"github.com/admesh-io/admesh/core"
	"github.com/admesh-io/admesh/logging"
)

// DefaultMaxMessages caps a session's message budget when the caller does not
// supply one.
const DefaultMaxMessages = 10

// defaultQueryLimit bounds GetMessages results when the filter leaves Limit
// unset, keeping audit reads cheap against a large log.
const defaultQueryLimit = 50

// sessionBudget tracks accepted messages against a session's cap. Guarded by
// the owning Bus's mutex.
type sessionBudget struct {
	max   int
	count int
}

// Options holds dependency overrides passed to New().
type Options struct {
	// Logger receives debug signals for declined sends and session lifecycle.
	Logger logging.Logger
}

// Bus is the process-wide mediator for inter-agent messages. It is safe for
// concurrent use by multiple in-flight queries; each query's budget is scoped
// by its own session id while the durable log is shared.
type Bus struct {
	mu       sync.Mutex
	sessions map[string]*sessionBudget
	log      core.MessageLog
	logger   logging.Logger
}

// New constructs a Bus persisting messages to the given log.
func New(log core.MessageLog, optFns ...func(o *Options)) *Bus {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Bus{
		sessions: make(map[string]*sessionBudget),
		log:      log,
		logger:   opts.Logger,
	}
}

// StartSession registers a session with a zero message counter and the given
// cap. A non-positive maxMessages falls back to DefaultMaxMessages.
//
// Restarting an already-open session id resets its counter. This is a
// deliberate contract: a retried request reusing an externally supplied query
// id gets a fresh collaboration budget instead of inheriting stale counts.
func (b *Bus) StartSession(sessionID string, maxMessages int) {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.sessions[sessionID] = &sessionBudget{max: maxMessages}
	b.logger.Debug("bus session started", "session_id", sessionID, "max_messages", maxMessages)
}

// Send records a directed message within a session. When the session is
// unknown or its budget is exhausted the message is not recorded and Send
// returns nil: point-to-point messaging outside a collaborative flow is
// best-effort and must not disturb the business flow.
//
// The returned error covers durable-log failures only, never budget
// conditions. A failed append does not consume budget.
func (b *Bus) Send(sessionID, from, to string, typ core.MessageType, payload map[string]any) (*core.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	budget, ok := b.sessions[sessionID]
	if !ok {
		b.logger.Debug("bus send outside started session, dropping", "session_id", sessionID, "from", from, "to", to)
		return nil, nil
	}
	if budget.count >= budget.max {
		b.logger.Debug("bus session budget exhausted, dropping", "session_id", sessionID, "max_messages", budget.max)
		return nil, nil
	}

	msg := core.NewMessage(sessionID, from, to, typ, payload)
	if err := b.log.Append(msg); err != nil {
		return nil, err
	}
	budget.count++

	return &msg, nil
}

// EndSession removes the session's budget tracker. Calling it with an unknown
// id is a no-op, which lets callers end sessions unconditionally in deferred
// cleanup even when StartSession was never reached. Recorded messages are
// untouched.
func (b *Bus) EndSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.sessions[sessionID]; !ok {
		return
	}
	delete(b.sessions, sessionID)
	b.logger.Debug("bus session ended", "session_id", sessionID)
}

// GetMessages returns a bounded slice of the durable log for audit and
// debugging. It never mutates the log.
func (b *Bus) GetMessages(filter core.MessageFilter) ([]core.Message, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultQueryLimit
	}
	return b.log.Query(filter)
}

// ActiveSessions reports how many sessions currently hold a budget tracker.
func (b *Bus) ActiveSessions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sessions)
}

// Remaining reports how many sends the session can still accept, or 0 for an
// unknown session.
func (b *Bus) Remaining(sessionID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	budget, ok := b.sessions[sessionID]
	if !ok {
		return 0
	}
	return budget.max - budget.count
}
