// package services defines typed clients for the MyFoil server's REST and
// push interfaces
//
// Library, jobs, wishlist, system info
package services

import (
	"context"

	"github.com/fernandodimas/myfoil-tui/internal/models"
)

// LibraryPage is one page of the library, from either the paged endpoint
// or the paged search endpoint.
type LibraryPage struct {
	Items      []models.Game      `json:"items"`
	Pagination *models.Pagination `json:"pagination"`
}

// SearchQuery carries the server-side search criteria. The paged library
// endpoint cannot express the negative filters (missing, pending, dlc,
// redundant); only the search endpoint accepts them.
type SearchQuery struct {
	Query     string
	Genre     string
	Tag       string
	Missing   bool
	Pending   bool
	DLC       bool
	Redundant bool
}

// IgnoreRequest is the body of the ignore toggle endpoint. Type is "dlc"
// or "update"; ItemID is a DLC app id or a stringified update version.
type IgnoreRequest struct {
	Type    string `json:"type"`
	ItemID  string `json:"item_id"`
	Ignored bool   `json:"ignored"`
}

// JobsSnapshot is the full poll response from the jobs endpoint.
type JobsSnapshot struct {
	Jobs    []models.Job        `json:"jobs"`
	TitleDB *models.TitleDBInfo `json:"titledb"`
}

// LibraryAPI is the library surface of the MyFoil server.
type LibraryAPI interface {
	// FetchPage retrieves one page from the paged library endpoint with
	// server-side sorting.
	FetchPage(ctx context.Context, page, perPage int, sortBy, order string) (*LibraryPage, error)

	// FetchLegacy retrieves the whole library from the non-paginated legacy
	// endpoint. Used once the sticky fallback has engaged.
	FetchLegacy(ctx context.Context) (*LibraryPage, error)

	// Search runs a server-side paged search over the entire dataset.
	Search(ctx context.Context, page, perPage int, q SearchQuery) (*LibraryPage, error)

	// AppInfo retrieves one game's full detail (files, updates, DLCs,
	// screenshots).
	AppInfo(ctx context.Context, titleID string) (*models.Game, error)

	// IgnorePrefs retrieves every stored ignore preference, keyed by title id.
	IgnorePrefs(ctx context.Context) (map[string]models.IgnorePrefs, error)

	// SetIgnore persists one ignore flag for a title.
	SetIgnore(ctx context.Context, titleID string, req IgnoreRequest) error
}

// JobsAPI is the background-job surface of the MyFoil server.
type JobsAPI interface {
	// Jobs retrieves the current job list and titledb state.
	Jobs(ctx context.Context) (*JobsSnapshot, error)

	// CancelJob requests cancellation of one job. Fire-and-forget: the
	// effect only becomes visible through a later poll or push.
	CancelJob(ctx context.Context, jobID string) error

	// CleanupJobs clears finished jobs and fails stuck ones.
	CleanupJobs(ctx context.Context) error
}

// SystemAPI covers build info and the wishlist.
type SystemAPI interface {
	SystemInfo(ctx context.Context) (*models.SystemInfo, error)
	Wishlist(ctx context.Context) ([]models.WishlistItem, error)
	AddToWishlist(ctx context.Context, titleID string) error
	RemoveFromWishlist(ctx context.Context, id int64) error
}
