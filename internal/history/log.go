package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// defaultRecentLimit caps Recent when the caller does not.
const defaultRecentLimit = 20

func (s *implStore) Append(ctx context.Context, project, operation string, stats any) error {
	blob := []byte("{}")
	if stats != nil {
		b, err := json.Marshal(stats)
		if err != nil {
			return fmt.Errorf("marshal edit stats: %w", err)
		}
		blob = b
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO edits (project, operation, stats, created_at)
		VALUES (?, ?, ?, ?)
	`, project, operation, string(blob), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("record edit: %w", err)
	}
	return nil
}

func (s *implStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project, operation, stats, created_at
		FROM edits
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query edits: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var stats string
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.Project, &e.Operation, &stats, &createdAt); err != nil {
			return nil, fmt.Errorf("scan edit: %w", err)
		}
		e.Stats = json.RawMessage(stats)
		e.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
