package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Disabled is the configuration value that turns history off.
const Disabled = "off"

const schema = `
CREATE TABLE IF NOT EXISTS edits (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	project TEXT NOT NULL,
	operation TEXT NOT NULL,
	stats TEXT NOT NULL DEFAULT '{}',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS edits_created_at ON edits (created_at);
`

type implStore struct {
	db *sql.DB
}

// DefaultPath returns the default database location under the user's
// home directory. Empty when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".smartcut", "history.sqlite")
}

// New opens (and if needed creates) the history database at path. An
// empty path falls back to DefaultPath; "off" returns a store that
// records nothing.
func New(path string) (Store, error) {
	if strings.EqualFold(path, Disabled) {
		return nopStore{}, nil
	}
	if path == "" {
		path = DefaultPath()
		if path == "" {
			return nopStore{}, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &implStore{db: db}, nil
}

func (s *implStore) Close() error {
	return s.db.Close()
}

// nopStore is the disabled history: every write vanishes and the log
// reads empty.
type nopStore struct{}

func (nopStore) Append(context.Context, string, string, any) error { return nil }

func (nopStore) Recent(context.Context, int) ([]Entry, error) { return nil, nil }

func (nopStore) Close() error { return nil }
