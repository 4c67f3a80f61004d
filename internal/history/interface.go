// Package history keeps an append-only log of applied edits in a local
// SQLite database, so "what did this tool do to my projects" has an
// answer after the fact. History is advisory: callers log and continue
// when a write fails, and the whole log can be disabled by
// configuration.
package history

import (
	"context"
	"encoding/json"
	"time"
)

// Entry is one recorded edit. Stats carries the operation's own summary
// as raw JSON, inlined untouched when the entry is serialized.
type Entry struct {
	ID        int64           `json:"id"`
	Project   string          `json:"project"`
	Operation string          `json:"operation"`
	Stats     json.RawMessage `json:"stats"`
	CreatedAt time.Time       `json:"created_at"`
}

// Store records and lists edits.
type Store interface {
	// Append records one edit. stats is marshaled to JSON; nil records
	// an empty object.
	Append(ctx context.Context, project, operation string, stats any) error

	// Recent returns the newest entries, most recent first. A
	// non-positive limit applies a default cap.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	Close() error
}
