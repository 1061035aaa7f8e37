// Package engine holds the library view state: loaded pages, the active
// filter and sort selection, ignore preferences, and the derived filtered
// list every frontend (TUI and CLI) renders from.
//
// Remote loads are tagged with a monotonically increasing generation
// counter; a response that comes back after a newer request has been
// issued is discarded instead of clobbering fresher state.
package engine

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fernandodimas/myfoil-tui/internal/models"
	"github.com/fernandodimas/myfoil-tui/internal/services"
	"github.com/fernandodimas/myfoil-tui/internal/shared"
)

// DefaultPerPage is the server page size requested when the config does
// not override it.
const DefaultPerPage = 75

// Opts configures an Engine.
type Opts struct {
	Library services.LibraryAPI
	Logger  *log.Logger
	PerPage int

	// UseLegacy starts the engine on the non-paginated endpoint. Set from
	// the persisted sticky flag.
	UseLegacy bool
	// PersistLegacy is called once when the paged endpoint fails and the
	// engine falls back for good. May be nil.
	PersistLegacy func(bool)
}

// Engine is the library data engine. Safe for concurrent use; frontends
// call its methods from event-loop goroutines.
type Engine struct {
	mu sync.Mutex

	library services.LibraryAPI
	logger  *log.Logger
	perPage int

	games    []models.Game
	filtered []models.Game
	cursor   models.Pagination
	genres   []string
	tags     []string

	sortSpec SortSpec
	filters  Filters
	ignores  IgnoreMap

	// serverFiltered records that the current result set came from the
	// search endpoint, so clearing filters must reload page one instead of
	// refiltering a partial dataset.
	serverFiltered bool

	// useLegacy is sticky: once the paged endpoint has failed, every later
	// load in this and future sessions goes to the legacy endpoint.
	useLegacy     bool
	persistLegacy func(bool)

	gen uint64
}

// New creates an Engine.
func New(opts Opts) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &Engine{
		library:       opts.Library,
		logger:        logger,
		perPage:       perPage,
		sortSpec:      DefaultSort,
		ignores:       make(IgnoreMap),
		useLegacy:     opts.UseLegacy,
		persistLegacy: opts.PersistLegacy,
	}
}

// Snapshot is a consistent copy of the derived view state.
type Snapshot struct {
	Filtered       []models.Game
	Count          int
	Genres         []string
	Tags           []string
	Cursor         models.Pagination
	Sort           SortSpec
	Filters        Filters
	ServerFiltered bool
	Legacy         bool
}

// Snapshot returns a copy of the current view state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	filtered := make([]models.Game, len(e.filtered))
	copy(filtered, e.filtered)
	return Snapshot{
		Filtered:       filtered,
		Count:          e.countLocked(),
		Genres:         append([]string(nil), e.genres...),
		Tags:           append([]string(nil), e.tags...),
		Cursor:         e.cursor,
		Sort:           e.sortSpec,
		Filters:        e.filters,
		ServerFiltered: e.serverFiltered,
		Legacy:         e.useLegacy,
	}
}

// countLocked is the figure shown in the count label: the server's total
// when known, otherwise however many games are loaded.
func (e *Engine) countLocked() int {
	if e.cursor.TotalItems > 0 {
		return e.cursor.TotalItems
	}
	return len(e.games)
}

// LoadIgnorePrefs fetches the stored ignore preferences. Call once at
// startup before the first filter pass; a failure leaves the map empty.
func (e *Engine) LoadIgnorePrefs(ctx context.Context) error {
	prefs, err := e.library.IgnorePrefs(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.ignores = IgnoreMap(prefs)
	e.mu.Unlock()
	return nil
}

// beginRequest issues a new request generation. Only the most recently
// issued generation is allowed to commit.
func (e *Engine) beginRequest() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	return e.gen
}

// LoadPage fetches one library page. When replace is false the page is
// appended to the loaded set (infinite scroll); when true it replaces it.
// A page-one replace that fails on the paged endpoint retries once against
// the legacy endpoint and pins the fallback for future loads.
func (e *Engine) LoadPage(ctx context.Context, page int, replace bool) (Snapshot, error) {
	gen := e.beginRequest()
	reqID := shared.GenerateID()

	e.mu.Lock()
	legacy := e.useLegacy
	spec := e.sortSpec
	e.mu.Unlock()

	e.logger.Debug("loading library page", "req", reqID, "page", page, "legacy", legacy)

	var (
		result *services.LibraryPage
		err    error
	)
	if legacy {
		result, err = e.library.FetchLegacy(ctx)
	} else {
		result, err = e.library.FetchPage(ctx, page, e.perPage, string(spec.Field), string(spec.Order))
		if err != nil && page == 1 && replace {
			e.logger.Warn("paged library endpoint failed, falling back to legacy", "req", reqID, "err", err)
			result, err = e.library.FetchLegacy(ctx)
			if err == nil {
				e.engageLegacy()
				legacy = true
			}
		}
	}
	if err != nil {
		return Snapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return Snapshot{}, shared.ErrStaleResponse
	}

	if replace || legacy {
		e.games = result.Items
	} else {
		e.games = append(e.games, result.Items...)
	}
	e.applyCursor(result, page, legacy)
	e.serverFiltered = false
	e.recomputeOptionsLocked()
	e.refilterLocked()
	return e.snapshotLocked(), nil
}

// engageLegacy pins the sticky fallback and persists it.
func (e *Engine) engageLegacy() {
	e.mu.Lock()
	already := e.useLegacy
	e.useLegacy = true
	persist := e.persistLegacy
	e.mu.Unlock()
	if !already && persist != nil {
		persist(true)
	}
}

// applyCursor updates the pagination cursor from a load result. The legacy
// endpoint returns everything at once, so its cursor never has a next page.
func (e *Engine) applyCursor(result *services.LibraryPage, page int, legacy bool) {
	if result.Pagination != nil {
		e.cursor = *result.Pagination
		return
	}
	e.cursor = models.Pagination{
		Page:       page,
		PerPage:    e.perPage,
		TotalItems: len(e.games),
		HasNext:    false,
	}
	if legacy {
		e.cursor.Page = 1
	}
}

// SearchServer runs the active filters through the server search endpoint.
// Page one replaces the result set; later pages append.
func (e *Engine) SearchServer(ctx context.Context, page int) (Snapshot, error) {
	gen := e.beginRequest()

	e.mu.Lock()
	query := e.filters.SearchQuery()
	e.mu.Unlock()

	result, err := e.library.Search(ctx, page, e.perPage, query)
	if err != nil {
		return Snapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return Snapshot{}, shared.ErrStaleResponse
	}

	if page <= 1 {
		e.games = result.Items
	} else {
		e.games = append(e.games, result.Items...)
	}
	e.applyCursor(result, page, false)
	e.serverFiltered = true
	e.recomputeOptionsLocked()
	e.refilterLocked()
	return e.snapshotLocked(), nil
}

// FilterAction tells the caller which remote call, if any, ApplyFilters
// decided on.
type FilterAction int

const (
	// FilteredLocally means the pass completed in memory.
	FilteredLocally FilterAction = iota
	// NeedsSearch means active criteria require a page-one server search.
	NeedsSearch
	// NeedsReload means filters were cleared after a server search and page
	// one must be reloaded to restore the unfiltered dataset.
	NeedsReload
)

// ApplyFilters runs the three-way filter pass. With active criteria the
// whole dataset must be consulted, so the caller is told to search
// server-side from page one. When the last criteria were just cleared
// after a server search, the loaded set is a filtered remnant and page one
// must be reloaded. Otherwise the pass is purely local: derive status,
// filter, sort.
func (e *Engine) ApplyFilters() (Snapshot, FilterAction) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.filters.Active() {
		return e.snapshotLocked(), NeedsSearch
	}
	if e.serverFiltered {
		return e.snapshotLocked(), NeedsReload
	}
	e.refilterLocked()
	return e.snapshotLocked(), FilteredLocally
}

// Apply runs ApplyFilters and performs whichever remote call it decided
// on. Convenience for frontends without their own scheduling.
func (e *Engine) Apply(ctx context.Context) (Snapshot, error) {
	snap, action := e.ApplyFilters()
	switch action {
	case NeedsSearch:
		return e.SearchServer(ctx, 1)
	case NeedsReload:
		return e.LoadPage(ctx, 1, true)
	}
	return snap, nil
}

// refilterLocked reruns status derivation over every loaded game, applies
// the client-side predicate, and sorts. Search results have already been
// matched server-side against the whole dataset, on fields the client
// predicate cannot see, so they must not be narrowed again. The one
// exception is the pending-DLC toggle: ignore flags live client-side, so
// the derived flag re-narrows what the server returned.
func (e *Engine) refilterLocked() {
	for i := range e.games {
		DeriveStatus(&e.games[i], e.ignores)
	}
	filtered := make([]models.Game, 0, len(e.games))
	for i := range e.games {
		g := &e.games[i]
		if e.serverFiltered {
			if e.filters.PendingDLC && !g.HasNonIgnoredDLCs {
				continue
			}
		} else if !e.filters.Matches(g) {
			continue
		}
		filtered = append(filtered, *g)
	}
	SortGames(filtered, e.sortSpec)
	e.filtered = filtered
}

// recomputeOptionsLocked rebuilds the distinct genre and tag lists from
// the loaded games.
func (e *Engine) recomputeOptionsLocked() {
	genreSet := map[string]struct{}{}
	tagSet := map[string]struct{}{}
	for i := range e.games {
		for _, g := range e.games[i].Category {
			genreSet[g] = struct{}{}
		}
		for _, t := range e.games[i].Tags {
			tagSet[t] = struct{}{}
		}
	}
	e.genres = sortedKeys(genreSet)
	e.tags = sortedKeys(tagSet)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SetQuery updates the text query. The caller debounces and then runs
// Apply.
func (e *Engine) SetQuery(q string) {
	e.mu.Lock()
	e.filters.Query = q
	e.mu.Unlock()
}

// SetGenre updates the genre filter.
func (e *Engine) SetGenre(genre string) {
	e.mu.Lock()
	e.filters.Genre = genre
	e.mu.Unlock()
}

// SetTag updates the tag filter.
func (e *Engine) SetTag(tag string) {
	e.mu.Lock()
	e.filters.Tag = tag
	e.mu.Unlock()
}

// SetStatusFilter toggles one of the mutually exclusive status filters.
func (e *Engine) SetStatusFilter(which StatusFilter) {
	e.mu.Lock()
	e.filters.SetStatusFilter(which)
	e.mu.Unlock()
}

// ClearFilters resets every criterion.
func (e *Engine) ClearFilters() {
	e.mu.Lock()
	e.filters = Filters{}
	e.mu.Unlock()
}

// Filters returns the current selection.
func (e *Engine) Filters() Filters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters
}

// SetSort sets the sort spec and resorts the filtered list in place.
func (e *Engine) SetSort(spec SortSpec) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sortSpec = spec
	SortGames(e.filtered, e.sortSpec)
	return e.snapshotLocked()
}

// Sort returns the current sort spec.
func (e *Engine) Sort() SortSpec {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortSpec
}

// HasNext reports whether another page can be fetched.
func (e *Engine) HasNext() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor.HasNext
}

// NextPage returns the page number the next fetch should request.
func (e *Engine) NextPage() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor.Page + 1
}

// ServerFiltered reports whether the loaded set came from a server search.
func (e *Engine) ServerFiltered() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.serverFiltered
}

// Game returns the loaded game with the given title id, if present.
func (e *Engine) Game(titleID string) (models.Game, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.games {
		if e.games[i].ID == titleID {
			return e.games[i], true
		}
	}
	return models.Game{}, false
}

// ToggleIgnore flips one ignore flag optimistically: the local map and
// derived state update immediately, then the change is pushed to the
// server. A failed push is logged, not rolled back; the server copy wins
// on the next preference load.
func (e *Engine) ToggleIgnore(ctx context.Context, titleID string, req services.IgnoreRequest) Snapshot {
	e.mu.Lock()
	switch req.Type {
	case "dlc":
		e.ignores.SetDLC(titleID, req.ItemID, req.Ignored)
	case "update":
		if v, err := parseVersion(req.ItemID); err == nil {
			e.ignores.SetUpdate(titleID, v, req.Ignored)
		}
	}
	e.refilterLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()

	go func() {
		if err := e.library.SetIgnore(ctx, titleID, req); err != nil {
			e.logger.Error("failed to persist ignore preference",
				"title", titleID, "type", req.Type, "item", req.ItemID, "err", err)
		}
	}()
	return snap
}

// Ignores returns the live ignore map. Callers must treat it as read-only.
func (e *Engine) Ignores() IgnoreMap {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ignores
}

func parseVersion(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: update version %q", shared.ErrInvalidInput, s)
	}
	return v, nil
}
