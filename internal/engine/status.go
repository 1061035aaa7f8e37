// Derived status flags for library games.
//
// The server ships raw ownership data; which pending items actually count
// is a client decision because it depends on the user's ignore
// preferences. Both the client-side filter pass and the server-search pass
// funnel through DeriveStatus so the two paths can never disagree.
package engine

import (
	"strconv"
	"strings"

	"github.com/fernandodimas/myfoil-tui/internal/models"
)

// IgnoreMap holds every known ignore preference, keyed by uppercased
// title id. Mutated optimistically on toggle; the backend round trip's
// outcome does not roll it back.
type IgnoreMap map[string]models.IgnorePrefs

// DLCIgnored reports whether the DLC app id is ignored for the title.
// App id matching is case-insensitive, as stored keys have been seen in
// both cases.
func (m IgnoreMap) DLCIgnored(titleID, appID string) bool {
	if appID == "" {
		return false
	}
	prefs, ok := m[strings.ToUpper(titleID)]
	if !ok || prefs.DLCs == nil {
		return false
	}
	return prefs.DLCs[appID] || prefs.DLCs[strings.ToUpper(appID)] || prefs.DLCs[strings.ToLower(appID)]
}

// UpdateIgnored reports whether the update version is ignored for the title.
func (m IgnoreMap) UpdateIgnored(titleID string, version int) bool {
	prefs, ok := m[strings.ToUpper(titleID)]
	if !ok || prefs.Updates == nil {
		return false
	}
	return prefs.Updates[strconv.Itoa(version)]
}

// SetDLC records a DLC ignore flag locally.
func (m IgnoreMap) SetDLC(titleID, appID string, ignored bool) {
	key := strings.ToUpper(titleID)
	prefs := m[key]
	if prefs.DLCs == nil {
		prefs.DLCs = make(map[string]bool)
	}
	prefs.DLCs[appID] = ignored
	m[key] = prefs
}

// SetUpdate records an update ignore flag locally.
func (m IgnoreMap) SetUpdate(titleID string, version int, ignored bool) {
	key := strings.ToUpper(titleID)
	prefs := m[key]
	if prefs.Updates == nil {
		prefs.Updates = make(map[string]bool)
	}
	prefs.Updates[strconv.Itoa(version)] = ignored
	m[key] = prefs
}

// DeriveStatus recomputes the game's derived flags, status color and
// status score against the ignore map. When a child array is absent from
// the payload (updates/dlcs stripped by a lean endpoint) the server's own
// precomputed flag is trusted instead.
func DeriveStatus(g *models.Game, ignores IgnoreMap) {
	g.HasNonIgnoredUpdates = deriveUpdates(g, ignores)
	g.HasNonIgnoredDLCs = deriveDLCs(g, ignores)
	g.HasNonIgnoredRedundant = deriveRedundant(g, ignores)

	switch {
	case !g.HasBase:
		g.StatusColor = models.StatusOrange
		g.StatusScore = models.ScoreMissingBase
	case g.HasNonIgnoredUpdates || g.HasNonIgnoredDLCs:
		g.StatusColor = models.StatusOrange
		g.StatusScore = models.ScorePending
	default:
		g.StatusColor = models.StatusGreen
		g.StatusScore = models.ScoreComplete
	}
}

// deriveUpdates: an update is pending when it is newer than the owned
// version, not owned, and not ignored.
func deriveUpdates(g *models.Game, ignores IgnoreMap) bool {
	if !g.HasBase {
		return false
	}
	if g.Updates == nil {
		return g.HasNonIgnoredUpdates
	}
	for i := range g.Updates {
		u := &g.Updates[i]
		if u.Version > g.OwnedVersion && !u.Owned && !ignores.UpdateIgnored(g.ID, u.Version) {
			return true
		}
	}
	return false
}

// deriveDLCs: a DLC is pending when it is not owned and not ignored.
func deriveDLCs(g *models.Game, ignores IgnoreMap) bool {
	if !g.HasBase {
		return false
	}
	if g.DLCs == nil {
		return g.HasNonIgnoredDLCs
	}
	for i := range g.DLCs {
		d := &g.DLCs[i]
		if !d.Owned && !ignores.DLCIgnored(g.ID, d.AppID) {
			return true
		}
	}
	return false
}

// deriveRedundant: redundancy means more than one owned update is kept on
// disk; it counts while any superseded version remains non-ignored.
func deriveRedundant(g *models.Game, ignores IgnoreMap) bool {
	if !g.HasRedundant {
		return false
	}
	if g.Updates == nil {
		return g.HasNonIgnoredRedundant
	}

	highest := 0
	owned := 0
	for i := range g.Updates {
		u := &g.Updates[i]
		if !u.Owned {
			continue
		}
		owned++
		if u.Version > highest {
			highest = u.Version
		}
	}
	if owned < 2 {
		return false
	}

	for i := range g.Updates {
		u := &g.Updates[i]
		if u.Owned && u.Version < highest && !ignores.UpdateIgnored(g.ID, u.Version) {
			return true
		}
	}
	return false
}
