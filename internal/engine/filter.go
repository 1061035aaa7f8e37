package engine

import (
	"strings"

	"github.com/fernandodimas/myfoil-tui/internal/models"
	"github.com/fernandodimas/myfoil-tui/internal/services"
)

// Filters is the user's current filter selection. The four status toggles
// are mutually exclusive; SetStatusFilter enforces that.
type Filters struct {
	Query string
	Genre string
	Tag   string

	MissingBase   bool
	PendingUpdate bool
	PendingDLC    bool
	Redundant     bool
}

// StatusFilter names one of the mutually exclusive status toggles.
type StatusFilter int

const (
	FilterNone StatusFilter = iota
	FilterMissingBase
	FilterPendingUpdate
	FilterPendingDLC
	FilterRedundant
)

// Active reports whether any filter criterion is set. This is the pivot
// of the filter pass: active criteria go to the server, an all-clear
// selection stays client-side.
func (f Filters) Active() bool {
	return f.Query != "" || f.Genre != "" || f.Tag != "" ||
		f.MissingBase || f.PendingUpdate || f.PendingDLC || f.Redundant
}

// StatusFilter returns which status toggle is on, if any.
func (f Filters) StatusFilter() StatusFilter {
	switch {
	case f.MissingBase:
		return FilterMissingBase
	case f.PendingUpdate:
		return FilterPendingUpdate
	case f.PendingDLC:
		return FilterPendingDLC
	case f.Redundant:
		return FilterRedundant
	}
	return FilterNone
}

// SetStatusFilter turns one status toggle on and the rest off. Selecting
// the toggle that is already on clears it.
func (f *Filters) SetStatusFilter(which StatusFilter) {
	if f.StatusFilter() == which {
		which = FilterNone
	}
	f.MissingBase = which == FilterMissingBase
	f.PendingUpdate = which == FilterPendingUpdate
	f.PendingDLC = which == FilterPendingDLC
	f.Redundant = which == FilterRedundant
}

// Matches is the client-side predicate mirroring the server search
// semantics: substring query over name and id, exact genre and tag
// membership, and the derived status flags.
func (f Filters) Matches(g *models.Game) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(g.Name), q) &&
			!strings.Contains(strings.ToLower(g.ID), q) {
			return false
		}
	}
	if f.Genre != "" && !containsFold(g.Category, f.Genre) {
		return false
	}
	if f.Tag != "" && !containsFold(g.Tags, f.Tag) {
		return false
	}
	if f.MissingBase && g.HasBase {
		return false
	}
	if f.PendingUpdate && !g.HasNonIgnoredUpdates {
		return false
	}
	if f.PendingDLC && !g.HasNonIgnoredDLCs {
		return false
	}
	if f.Redundant && !g.HasNonIgnoredRedundant {
		return false
	}
	return true
}

func containsFold(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

// SearchQuery translates the filters to the server search parameters.
func (f Filters) SearchQuery() services.SearchQuery {
	return services.SearchQuery{
		Query:     f.Query,
		Genre:     f.Genre,
		Tag:       f.Tag,
		Missing:   f.MissingBase,
		Pending:   f.PendingUpdate,
		DLC:       f.PendingDLC,
		Redundant: f.Redundant,
	}
}
