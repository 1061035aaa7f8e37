// package models defines the data model for the MyFoil library client
package models

// Status colors derived for a game. Never sent authoritatively by the
// server; recomputed on every filter pass from ownership and ignore state.
const (
	StatusOrange = "orange"
	StatusGreen  = "green"
	StatusGray   = "gray"
)

// Status scores matching the colors, used only for the "status" sort order.
const (
	ScoreMissingBase = 0
	ScorePending     = 1
	ScoreComplete    = 2
)

// Game represents one cataloged title: a base install plus any updates,
// DLCs and files known to the server.
//
// The HasNonIgnored* flags, StatusColor and StatusScore are derived
// client-side; whatever the server sends for them is overwritten by the
// library engine's status pass.
type Game struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	DisplayVersion    string   `json:"display_version"`
	Size              int64    `json:"size"`
	SizeFormatted     string   `json:"size_formatted"`
	Category          []string `json:"category"`
	Tags              []string `json:"tags"`
	ReleaseDate       string   `json:"release_date"`
	LatestReleaseDate string   `json:"latest_release_date"`
	AddedAt           string   `json:"added_at"`
	Owned             bool     `json:"owned"`
	HasBase           bool     `json:"has_base"`
	HasLatestVersion  bool     `json:"has_latest_version"`
	HasRedundant      bool     `json:"has_redundant_updates"`
	OwnedVersion      int      `json:"owned_version"`
	MetacriticScore   int      `json:"metacritic_score"`
	BannerURL         string   `json:"bannerUrl"`
	IconURL           string   `json:"iconUrl"`

	Updates     []Update   `json:"updates"`
	DLCs        []DLC      `json:"dlcs"`
	Files       []GameFile `json:"files"`
	Screenshots []string   `json:"screenshots"`

	// Derived per filter pass.
	HasNonIgnoredUpdates   bool   `json:"has_non_ignored_updates"`
	HasNonIgnoredDLCs      bool   `json:"has_non_ignored_dlcs"`
	HasNonIgnoredRedundant bool   `json:"has_non_ignored_redundant"`
	StatusColor            string `json:"status_color"`
	StatusScore            int    `json:"status_score"`
}

// EffectiveReleaseDate returns the release date used for sorting: the
// title's own date, falling back to the latest known one.
func (g *Game) EffectiveReleaseDate() string {
	if g.ReleaseDate != "" {
		return g.ReleaseDate
	}
	return g.LatestReleaseDate
}

// Update represents one update package for a title.
type Update struct {
	Version     int        `json:"version"`
	ReleaseDate string     `json:"release_date"`
	Owned       bool       `json:"owned"`
	Files       []GameFile `json:"files"`
}

// DLC represents one piece of downloadable content for a title.
type DLC struct {
	AppID       string     `json:"app_id"`
	Name        string     `json:"name"`
	Owned       bool       `json:"owned"`
	ReleaseDate string     `json:"release_date"`
	Files       []GameFile `json:"files"`
}

// GameFile represents one file on disk backing a base, update or DLC.
type GameFile struct {
	ID            int64  `json:"id"`
	Filename      string `json:"filename"`
	Filepath      string `json:"filepath"`
	SizeFormatted string `json:"size_formatted"`
	Version       string `json:"version"`
}

// Pagination is the server's cursor for the paged library endpoints.
type Pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalItems int  `json:"total_items"`
	HasNext    bool `json:"has_next"`
}

// IgnorePrefs holds per-title ignore flags. DLC keys are app ids, update
// keys are stringified version numbers. The map owner (the library engine)
// keys titles by uppercased title id.
type IgnorePrefs struct {
	DLCs    map[string]bool `json:"dlcs"`
	Updates map[string]bool `json:"updates"`
}

// Job statuses as sent by the server. The client does not own this state
// machine; it only classifies whatever string arrives.
const (
	JobScheduled = "scheduled"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// Job represents one backend background job (scan, metadata fetch, titledb
// update, backup, cleanup). Read-only to this client.
type Job struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Status      string         `json:"status"`
	Progress    JobProgress    `json:"progress"`
	Result      map[string]any `json:"result"`
	Error       string         `json:"error"`
	CompletedAt string         `json:"completed_at"`
	IsStuck     bool           `json:"is_stuck"`
}

// Active reports whether the job is still in flight.
func (j *Job) Active() bool {
	return j.Status == JobScheduled || j.Status == JobRunning
}

// Terminal reports whether the job has finished, successfully or not.
func (j *Job) Terminal() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}

// JobProgress carries the backend's progress report for an active job.
type JobProgress struct {
	Percent float64 `json:"percent"`
	Message string  `json:"message"`
	Current int     `json:"current"`
	Total   int     `json:"total"`
}

// TitleDBInfo describes the server's title database state, shown in the
// job status view.
type TitleDBInfo struct {
	Name             string `json:"name"`
	LoadedTitlesFile string `json:"loaded_titles_file"`
	LastDownloadDate string `json:"last_download_date"`
	RemoteDate       string `json:"remote_date"`
	UpdateAvailable  bool   `json:"update_available"`
	IsFetching       bool   `json:"is_fetching"`
	LastError        string `json:"last_error"`
}

// WishlistItem is one entry on the server-side wishlist.
type WishlistItem struct {
	ID          int64  `json:"id"`
	TitleID     string `json:"title_id"`
	Name        string `json:"name"`
	IconURL     string `json:"iconUrl"`
	ReleaseDate string `json:"release_date"`
	AddedDate   string `json:"added_date"`
}

// SystemInfo is the server's build identification, used to invalidate
// locally persisted state when the backend changes.
type SystemInfo struct {
	BuildVersion string `json:"build_version"`
	IDSource     string `json:"id_source"`
}
