// package repositories provides the SQLite persistence layer for
// client-side state
package repositories

import (
	"database/sql"
	"fmt"
)

// schema is the full state-store schema. Applied idempotently at startup;
// the store is small enough that versioned migrations would be overkill.
const schema = `
CREATE TABLE IF NOT EXISTS prefs (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS search_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	query TEXT NOT NULL,
	searched_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_search_history_at
	ON search_history (searched_at DESC);
`

// Migrate applies the state-store schema.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply state schema: %w", err)
	}
	return nil
}
