package engine

import (
	"testing"

	"github.com/fernandodimas/myfoil-tui/internal/models"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		game      models.Game
		ignores   IgnoreMap
		wantColor string
		wantScore int
	}{
		{
			name:      "missing base is orange with score zero",
			game:      models.Game{ID: "0100AAA", HasBase: false},
			wantColor: models.StatusOrange,
			wantScore: models.ScoreMissingBase,
		},
		{
			name: "pending update is orange with score one",
			game: models.Game{
				ID: "0100AAA", HasBase: true, OwnedVersion: 0,
				Updates: []models.Update{{Version: 65536, Owned: false}},
			},
			wantColor: models.StatusOrange,
			wantScore: models.ScorePending,
		},
		{
			name: "pending DLC is orange with score one",
			game: models.Game{
				ID: "0100AAA", HasBase: true,
				Updates: []models.Update{},
				DLCs:    []models.DLC{{AppID: "0100AAB", Owned: false}},
			},
			wantColor: models.StatusOrange,
			wantScore: models.ScorePending,
		},
		{
			name: "complete is green with score two",
			game: models.Game{
				ID: "0100AAA", HasBase: true,
				Updates: []models.Update{{Version: 65536, Owned: true}},
				DLCs:    []models.DLC{{AppID: "0100AAB", Owned: true}},
			},
			wantColor: models.StatusGreen,
			wantScore: models.ScoreComplete,
		},
		{
			name: "ignored update does not count as pending",
			game: models.Game{
				ID: "0100AAA", HasBase: true,
				Updates: []models.Update{{Version: 65536, Owned: false}},
				DLCs:    []models.DLC{},
			},
			ignores: IgnoreMap{
				"0100AAA": {Updates: map[string]bool{"65536": true}},
			},
			wantColor: models.StatusGreen,
			wantScore: models.ScoreComplete,
		},
		{
			name: "ignored DLC does not count as pending",
			game: models.Game{
				ID: "0100aaa", HasBase: true,
				Updates: []models.Update{},
				DLCs:    []models.DLC{{AppID: "0100AAB", Owned: false}},
			},
			ignores: IgnoreMap{
				"0100AAA": {DLCs: map[string]bool{"0100aab": true}},
			},
			wantColor: models.StatusGreen,
			wantScore: models.ScoreComplete,
		},
		{
			name: "owned update below owned version is not pending",
			game: models.Game{
				ID: "0100AAA", HasBase: true, OwnedVersion: 131072,
				Updates: []models.Update{{Version: 65536, Owned: false}},
			},
			wantColor: models.StatusGreen,
			wantScore: models.ScoreComplete,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ignores := tc.ignores
			if ignores == nil {
				ignores = IgnoreMap{}
			}
			DeriveStatus(&tc.game, ignores)
			if tc.game.StatusColor != tc.wantColor {
				t.Errorf("StatusColor = %q, want %q", tc.game.StatusColor, tc.wantColor)
			}
			if tc.game.StatusScore != tc.wantScore {
				t.Errorf("StatusScore = %d, want %d", tc.game.StatusScore, tc.wantScore)
			}
		})
	}
}

func TestDeriveStatusTrustsServerFlagsWithoutArrays(t *testing.T) {
	g := models.Game{ID: "0100AAA", HasBase: true, HasNonIgnoredUpdates: true}
	DeriveStatus(&g, IgnoreMap{})
	if !g.HasNonIgnoredUpdates {
		t.Error("expected server flag to survive when updates array is absent")
	}
	if g.StatusColor != models.StatusOrange {
		t.Errorf("StatusColor = %q, want orange", g.StatusColor)
	}
}

func TestDeriveRedundant(t *testing.T) {
	base := func() models.Game {
		return models.Game{
			ID: "0100AAA", HasBase: true, HasRedundant: true, OwnedVersion: 131072,
			Updates: []models.Update{
				{Version: 65536, Owned: true},
				{Version: 131072, Owned: true},
			},
		}
	}

	t.Run("superseded owned update counts", func(t *testing.T) {
		g := base()
		DeriveStatus(&g, IgnoreMap{})
		if !g.HasNonIgnoredRedundant {
			t.Error("expected redundancy with two owned updates")
		}
	})

	t.Run("ignoring the superseded update clears it", func(t *testing.T) {
		g := base()
		ignores := IgnoreMap{}
		ignores.SetUpdate("0100AAA", 65536, true)
		DeriveStatus(&g, ignores)
		if g.HasNonIgnoredRedundant {
			t.Error("expected redundancy cleared once superseded update is ignored")
		}
	})

	t.Run("single owned update is never redundant", func(t *testing.T) {
		g := base()
		g.Updates = g.Updates[1:]
		DeriveStatus(&g, IgnoreMap{})
		if g.HasNonIgnoredRedundant {
			t.Error("one owned update must not be redundant")
		}
	})
}

func TestIgnoreMapToggle(t *testing.T) {
	m := IgnoreMap{}
	if m.UpdateIgnored("0100aaa", 65536) {
		t.Fatal("empty map must not ignore anything")
	}

	m.SetUpdate("0100aaa", 65536, true)
	if !m.UpdateIgnored("0100AAA", 65536) {
		t.Error("toggle on must be visible through case-insensitive lookup")
	}

	m.SetUpdate("0100AAA", 65536, false)
	if m.UpdateIgnored("0100aaa", 65536) {
		t.Error("toggle off must clear the flag")
	}

	m.SetDLC("0100AAA", "0100AAB", true)
	if !m.DLCIgnored("0100aaa", "0100aab") {
		t.Error("DLC lookup must be case-insensitive on app id")
	}
}
