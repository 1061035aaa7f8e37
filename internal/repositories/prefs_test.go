package repositories

import (
	"testing"

	"github.com/fernandodimas/myfoil-tui/internal/shared"
)

func newTestStore(t *testing.T) *PrefsStore {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return NewPrefsStore(db)
}

func TestPrefsRoundTrip(t *testing.T) {
	store := newTestStore(t)

	if got := store.Sort("name-asc"); got != "name-asc" {
		t.Errorf("empty store Sort = %q, want fallback", got)
	}

	if err := store.SetSort("release-desc"); err != nil {
		t.Fatalf("SetSort: %v", err)
	}
	if got := store.Sort("name-asc"); got != "release-desc" {
		t.Errorf("Sort = %q, want release-desc", got)
	}

	if err := store.SetViewMode("list"); err != nil {
		t.Fatalf("SetViewMode: %v", err)
	}
	if got := store.ViewMode("card"); got != "list" {
		t.Errorf("ViewMode = %q, want list", got)
	}

	// Overwrites are upserts, not duplicate rows.
	if err := store.SetSort("size-asc"); err != nil {
		t.Fatalf("SetSort overwrite: %v", err)
	}
	if got := store.Sort("name-asc"); got != "size-asc" {
		t.Errorf("Sort after overwrite = %q, want size-asc", got)
	}
}

func TestZoomClamped(t *testing.T) {
	store := newTestStore(t)

	if err := store.SetZoom(99); err != nil {
		t.Fatalf("SetZoom: %v", err)
	}
	if got := store.Zoom(3); got != MaxZoom {
		t.Errorf("Zoom = %d, want clamped to %d", got, MaxZoom)
	}

	if err := store.SetZoom(-1); err != nil {
		t.Fatalf("SetZoom: %v", err)
	}
	if got := store.Zoom(3); got != MinZoom {
		t.Errorf("Zoom = %d, want clamped to %d", got, MinZoom)
	}
}

func TestLegacyEndpointFlag(t *testing.T) {
	store := newTestStore(t)

	if store.LegacyEndpoint() {
		t.Error("flag should default to off")
	}
	if err := store.SetLegacyEndpoint(true); err != nil {
		t.Fatalf("SetLegacyEndpoint: %v", err)
	}
	if !store.LegacyEndpoint() {
		t.Error("flag should stick once set")
	}
}

func TestCheckBuildVersionInvalidates(t *testing.T) {
	store := newTestStore(t)

	// First sighting just records the version.
	invalidated, err := store.CheckBuildVersion("1.0.0")
	if err != nil {
		t.Fatalf("CheckBuildVersion: %v", err)
	}
	if invalidated {
		t.Error("first sighting must not invalidate")
	}

	if err := store.SetSort("release-desc"); err != nil {
		t.Fatalf("SetSort: %v", err)
	}
	if err := store.SetLegacyEndpoint(true); err != nil {
		t.Fatalf("SetLegacyEndpoint: %v", err)
	}

	// Same version: nothing happens.
	if invalidated, _ = store.CheckBuildVersion("1.0.0"); invalidated {
		t.Error("same version must not invalidate")
	}

	// New version: stored prefs drop, sticky flag resets.
	invalidated, err = store.CheckBuildVersion("2.0.0")
	if err != nil {
		t.Fatalf("CheckBuildVersion: %v", err)
	}
	if !invalidated {
		t.Fatal("new version must invalidate")
	}
	if got := store.Sort("name-asc"); got != "name-asc" {
		t.Errorf("Sort survived invalidation: %q", got)
	}
	if store.LegacyEndpoint() {
		t.Error("sticky endpoint flag survived invalidation")
	}
}

func TestSearchHistory(t *testing.T) {
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	store := NewSearchHistoryStore(db)

	for _, q := range []string{"zelda", "zelda", "metroid", "", "zelda"} {
		if err := store.Add(q); err != nil {
			t.Fatalf("Add(%q): %v", q, err)
		}
	}

	recent, err := store.Recent()
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	want := []string{"zelda", "metroid"}
	if len(recent) != len(want) {
		t.Fatalf("Recent = %v, want %v", recent, want)
	}
	for i := range want {
		if recent[i] != want[i] {
			t.Errorf("Recent[%d] = %q, want %q", i, recent[i], want[i])
		}
	}
}
