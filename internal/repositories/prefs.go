package repositories

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Preference keys. Raw key access stays inside this package; callers use
// the typed accessors.
const (
	keySort           = "library.sort"
	keyViewMode       = "library.view_mode"
	keyZoom           = "library.zoom"
	keyLegacyEndpoint = "library.legacy_endpoint"
	keyBuildVersion   = "server.build_version"
)

// Zoom bounds for the card view.
const (
	MinZoom = 1
	MaxZoom = 5
)

// PrefsStore persists view preferences in the prefs key/value table.
type PrefsStore struct {
	db *sql.DB
}

// NewPrefsStore creates a PrefsStore with the given database connection
func NewPrefsStore(db *sql.DB) *PrefsStore {
	return &PrefsStore{db: db}
}

func (s *PrefsStore) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read pref %s: %w", key, err)
	}
	return value, true, nil
}

func (s *PrefsStore) set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO prefs (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write pref %s: %w", key, err)
	}
	return nil
}

// Sort returns the persisted sort spec string ("name-asc"), or fallback
// when none is stored.
func (s *PrefsStore) Sort(fallback string) string {
	if v, ok, err := s.get(keySort); err == nil && ok {
		return v
	}
	return fallback
}

// SetSort persists the sort spec string.
func (s *PrefsStore) SetSort(spec string) error {
	return s.set(keySort, spec)
}

// ViewMode returns the persisted view mode ("card", "icon", "list"), or
// fallback when none is stored.
func (s *PrefsStore) ViewMode(fallback string) string {
	if v, ok, err := s.get(keyViewMode); err == nil && ok {
		return v
	}
	return fallback
}

// SetViewMode persists the view mode.
func (s *PrefsStore) SetViewMode(mode string) error {
	return s.set(keyViewMode, mode)
}

// Zoom returns the persisted card zoom level clamped to [MinZoom, MaxZoom].
func (s *PrefsStore) Zoom(fallback int) int {
	v, ok, err := s.get(keyZoom)
	if err != nil || !ok {
		return fallback
	}
	zoom, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	if zoom < MinZoom {
		return MinZoom
	}
	if zoom > MaxZoom {
		return MaxZoom
	}
	return zoom
}

// SetZoom persists the card zoom level.
func (s *PrefsStore) SetZoom(zoom int) error {
	return s.set(keyZoom, strconv.Itoa(zoom))
}

// LegacyEndpoint reports whether the sticky legacy-endpoint fallback has
// engaged in a previous session.
func (s *PrefsStore) LegacyEndpoint() bool {
	v, ok, err := s.get(keyLegacyEndpoint)
	return err == nil && ok && v == "true"
}

// SetLegacyEndpoint persists the sticky fallback flag.
func (s *PrefsStore) SetLegacyEndpoint(on bool) error {
	return s.set(keyLegacyEndpoint, strconv.FormatBool(on))
}

// CheckBuildVersion compares the server's build version with the one the
// stored preferences were saved under. On mismatch every view preference
// is dropped and the new version recorded; the sticky endpoint flag also
// resets, giving the paged endpoint another chance after a server upgrade.
func (s *PrefsStore) CheckBuildVersion(version string) (invalidated bool, err error) {
	if version == "" {
		return false, nil
	}
	stored, ok, err := s.get(keyBuildVersion)
	if err != nil {
		return false, err
	}
	if ok && stored == version {
		return false, nil
	}

	if ok {
		if _, err := s.db.Exec("DELETE FROM prefs WHERE key != ?", keyBuildVersion); err != nil {
			return false, fmt.Errorf("failed to invalidate prefs: %w", err)
		}
		invalidated = true
	}
	if err := s.set(keyBuildVersion, version); err != nil {
		return invalidated, err
	}
	return invalidated, nil
}

// SearchHistoryStore persists recent search queries.
type SearchHistoryStore struct {
	db *sql.DB
}

// NewSearchHistoryStore creates a SearchHistoryStore with the given
// database connection
func NewSearchHistoryStore(db *sql.DB) *SearchHistoryStore {
	return &SearchHistoryStore{db: db}
}

// historyLimit caps how many distinct recent queries Recent returns.
const historyLimit = 20

// Add records a query. Blank queries and immediate repeats are skipped.
func (s *SearchHistoryStore) Add(query string) error {
	if query == "" {
		return nil
	}
	var last string
	err := s.db.QueryRow("SELECT query FROM search_history ORDER BY id DESC LIMIT 1").Scan(&last)
	if err == nil && last == query {
		return nil
	}
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read search history: %w", err)
	}

	if _, err := s.db.Exec("INSERT INTO search_history (query) VALUES (?)", query); err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	// Trim old rows beyond a generous retention window.
	_, err = s.db.Exec(`
		DELETE FROM search_history WHERE id NOT IN (
			SELECT id FROM search_history ORDER BY id DESC LIMIT 200
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to trim search history: %w", err)
	}
	return nil
}

// Recent returns the most recent distinct queries, newest first.
func (s *SearchHistoryStore) Recent() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT query FROM search_history
		GROUP BY query ORDER BY MAX(id) DESC LIMIT ?
	`, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to read search history: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("failed to scan search history: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
