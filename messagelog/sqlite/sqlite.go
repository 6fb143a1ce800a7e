// Package sqlite provides a durable core.MessageLog backed by a single-file
// SQLite database.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/admesh-io/admesh/core"
)

// Log implements core.MessageLog on SQLite. Message IDs are ULIDs, so
// ordering by id reproduces append order without a separate sequence column.
type Log struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath and runs the schema
// migration. WAL mode is enabled for better concurrent reads.
func Open(dbPath string) (*Log, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open message log db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate message log db: %w", err)
	}
	return &Log{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id         TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			from_agent TEXT NOT NULL DEFAULT '',
			to_agent   TEXT NOT NULL,
			type       TEXT NOT NULL,
			payload    TEXT NOT NULL DEFAULT '{}',
			timestamp  TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id);
	`)
	return err
}

// Close closes the underlying database connection.
func (l *Log) Close() error {
	return l.db.Close()
}

// Append inserts a message. The log is append-only; there is no update or
// delete path.
func (l *Log) Append(msg core.Message) error {
	payload, err := json.Marshal(msg.Payload)
	if err != nil {
		return fmt.Errorf("marshal message payload: %w", err)
	}
	_, err = l.db.Exec(
		`INSERT INTO messages (id, session_id, from_agent, to_agent, type, payload, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.SessionID, msg.From, msg.To, string(msg.Type), string(payload),
		msg.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// Query returns the most recent matching messages in append order.
func (l *Log) Query(filter core.MessageFilter) ([]core.Message, error) {
	var conds []string
	var args []any
	if filter.SessionID != "" {
		conds = append(conds, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.AgentID != "" {
		conds = append(conds, "(from_agent = ? OR to_agent = ?)")
		args = append(args, filter.AgentID, filter.AgentID)
	}
	if filter.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, string(filter.Type))
	}

	query := "SELECT id, session_id, from_agent, to_agent, type, payload, timestamp FROM messages"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	// Newest first so LIMIT keeps the most recent N; reversed below.
	query += " ORDER BY id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []core.Message
	for rows.Next() {
		var msg core.Message
		var typ, payload, ts string
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.From, &msg.To, &typ, &payload, &ts); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.Type = core.MessageType(typ)
		if err := json.Unmarshal([]byte(payload), &msg.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal message payload: %w", err)
		}
		if msg.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse message timestamp: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Restore append order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
