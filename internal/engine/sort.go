package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fernandodimas/myfoil-tui/internal/models"
	"github.com/fernandodimas/myfoil-tui/internal/shared"
)

// SortField names one sortable column.
type SortField string

const (
	SortByName    SortField = "name"
	SortByRelease SortField = "release"
	SortByAdded   SortField = "added"
	SortByID      SortField = "id"
	SortByStatus  SortField = "status"
	SortBySize    SortField = "size"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// SortSpec is a field plus direction, serialized as "field-order" (e.g.
// "name-asc") in persisted preferences and CLI flags.
type SortSpec struct {
	Field SortField
	Order SortOrder
}

// DefaultSort is the sort applied when no preference is stored.
var DefaultSort = SortSpec{Field: SortByName, Order: OrderAsc}

// ParseSortSpec parses a "field-order" string.
func ParseSortSpec(s string) (SortSpec, error) {
	field, order, ok := strings.Cut(s, "-")
	if !ok {
		return SortSpec{}, fmt.Errorf("%w: sort %q", shared.ErrInvalidInput, s)
	}
	switch SortField(field) {
	case SortByName, SortByRelease, SortByAdded, SortByID, SortByStatus, SortBySize:
	default:
		return SortSpec{}, fmt.Errorf("%w: sort field %q", shared.ErrInvalidInput, field)
	}
	switch SortOrder(order) {
	case OrderAsc, OrderDesc:
	default:
		return SortSpec{}, fmt.Errorf("%w: sort order %q", shared.ErrInvalidInput, order)
	}
	return SortSpec{Field: SortField(field), Order: SortOrder(order)}, nil
}

func (s SortSpec) String() string {
	return string(s.Field) + "-" + string(s.Order)
}

// Reversed returns the spec with the opposite direction.
func (s SortSpec) Reversed() SortSpec {
	if s.Order == OrderAsc {
		return SortSpec{Field: s.Field, Order: OrderDesc}
	}
	return SortSpec{Field: s.Field, Order: OrderAsc}
}

// SortGames sorts in place. The sort is stable so reversing the direction
// exactly reverses runs of distinct keys.
func SortGames(games []models.Game, spec SortSpec) {
	cmp := comparator(spec.Field)
	desc := spec.Order == OrderDesc
	sort.SliceStable(games, func(i, j int) bool {
		c := cmp(&games[i], &games[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func comparator(field SortField) func(a, b *models.Game) int {
	switch field {
	case SortByRelease:
		// Dates are ISO strings; lexicographic order is chronological
		// order, and the zero fallback sorts unknown dates first.
		return func(a, b *models.Game) int {
			return strings.Compare(releaseKey(a), releaseKey(b))
		}
	case SortByAdded:
		return func(a, b *models.Game) int {
			am, bm := addedMillis(a.AddedAt), addedMillis(b.AddedAt)
			switch {
			case am < bm:
				return -1
			case am > bm:
				return 1
			}
			return 0
		}
	case SortByID:
		return func(a, b *models.Game) int {
			return strings.Compare(strings.ToLower(a.ID), strings.ToLower(b.ID))
		}
	case SortByStatus:
		return func(a, b *models.Game) int {
			return a.StatusScore - b.StatusScore
		}
	case SortBySize:
		return func(a, b *models.Game) int {
			switch {
			case a.Size < b.Size:
				return -1
			case a.Size > b.Size:
				return 1
			}
			return 0
		}
	default:
		return func(a, b *models.Game) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}
}

func releaseKey(g *models.Game) string {
	if d := g.EffectiveReleaseDate(); d != "" {
		return d
	}
	return "0000-00-00"
}

// addedMillis parses the added_at timestamp to epoch milliseconds,
// defaulting to zero for missing or unparseable values so such entries
// group together at one end.
func addedMillis(s string) int64 {
	if s == "" {
		return 0
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}
