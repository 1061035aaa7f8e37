package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fernandodimas/myfoil-tui/internal/engine"
	"github.com/fernandodimas/myfoil-tui/internal/jobs"
	"github.com/fernandodimas/myfoil-tui/internal/models"
	"github.com/fernandodimas/myfoil-tui/internal/repositories"
	"github.com/fernandodimas/myfoil-tui/internal/services"
	"github.com/fernandodimas/myfoil-tui/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LibraryView ViewState = iota
	DetailView
	JobsView
	HelpView
)

// DefaultDebounce delays search submission while the user is still typing.
const DefaultDebounce = 300 * time.Millisecond

// Deps carries everything the model needs. All fields except Push and
// History are required.
type Deps struct {
	Engine      *engine.Engine
	Jobs        *jobs.Manager
	Library     services.LibraryAPI
	System      services.SystemAPI
	Prefs       *repositories.PrefsStore
	History     *repositories.SearchHistoryStore
	Translator  *shared.Translator
	Push        <-chan services.PushEvent
	Logger      *log.Logger
	Debounce    time.Duration
	PollEvery   time.Duration
	RenderBatch int
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	engine     *engine.Engine
	jobs       *jobs.Manager
	library    services.LibraryAPI
	system     services.SystemAPI
	prefs      *repositories.PrefsStore
	history    *repositories.SearchHistoryStore
	translator *shared.Translator
	push       <-chan services.PushEvent
	logger     *log.Logger
	toasts     *ToastStack

	view     ViewState
	prevView ViewState
	mode     ViewMode
	zoom     int

	snap        engine.Snapshot
	jobsSnap    jobs.Snapshot
	cursor      int
	renderLimit int
	batch       int
	loading     bool

	searching    bool
	searchInput  textinput.Model
	searchSeq    int
	searchRecent []string

	detail       *models.Game
	detailCursor int

	jobsCursor  int
	cancelArmed string

	width  int
	height int
	err    error

	debounce  time.Duration
	pollEvery time.Duration

	help     help.Model
	progress progress.Model
	keys     keyMap
}

type snapshotMsg struct {
	snap engine.Snapshot
	err  error
}

type detailMsg struct {
	game *models.Game
	err  error
}

type jobsMsg struct {
	snap jobs.Snapshot
	err  error
}

type pushMsg struct {
	event services.PushEvent
	ok    bool
}

type debounceMsg struct {
	seq int
}

type pollTickMsg struct{}

type wishlistMsg struct {
	name string
	err  error
}

type cancelDisarmMsg struct {
	id string
}

// cancelArmTimeout disarms a pending job cancel when the second press
// never comes.
const cancelArmTimeout = 5 * time.Second

// NewModel creates a new TUI model with the provided dependencies,
// restoring persisted view preferences.
func NewModel(ctx context.Context, deps Deps) *Model {
	input := textinput.New()
	input.Placeholder = "search"
	input.CharLimit = 120

	m := &Model{
		ctx:         ctx,
		engine:      deps.Engine,
		jobs:        deps.Jobs,
		library:     deps.Library,
		system:      deps.System,
		prefs:       deps.Prefs,
		history:     deps.History,
		translator:  deps.Translator,
		push:        deps.Push,
		logger:      deps.Logger,
		toasts:      NewToastStack(),
		view:        LibraryView,
		mode:        CardMode,
		zoom:        3,
		batch:       deps.RenderBatch,
		searchInput: input,
		debounce:    deps.Debounce,
		pollEvery:   deps.PollEvery,
		help:        help.New(),
		progress:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
		keys:        newKeyMap(),
	}
	if m.batch <= 0 {
		m.batch = RenderBatch
	}
	m.renderLimit = m.batch
	if m.debounce <= 0 {
		m.debounce = DefaultDebounce
	}
	if m.pollEvery <= 0 {
		m.pollEvery = jobs.DefaultPollInterval
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	if m.prefs != nil {
		m.mode = ParseViewMode(m.prefs.ViewMode("card"))
		m.zoom = m.prefs.Zoom(3)
		if spec, err := engine.ParseSortSpec(m.prefs.Sort("name-asc")); err == nil {
			m.engine.SetSort(spec)
		}
	}
	return m
}

// tr translates a UI string, falling back to the key itself.
func (m *Model) tr(key string) string {
	if m.translator == nil {
		return key
	}
	return m.translator.T(key)
}

// Init loads ignore preferences and the first library page, primes the
// job view and starts the push and poll loops.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	cmds := []tea.Cmd{m.loadFirstPage(), m.pollJobs(), m.schedulePoll()}
	if m.push != nil {
		cmds = append(cmds, m.waitForPush())
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case snapshotMsg:
		m.loading = false
		if msg.err != nil {
			// A superseded request; the newer one's snapshot already
			// landed or is about to.
			if errors.Is(msg.err, shared.ErrStaleResponse) {
				return m, nil
			}
			m.err = msg.err
			return m, m.toasts.Push(ToastError, msg.err.Error())
		}
		m.err = nil
		m.applySnapshot(msg.snap)
		return m, nil

	case detailMsg:
		if msg.err != nil {
			return m, m.toasts.Push(ToastError, msg.err.Error())
		}
		m.detail = msg.game
		m.detailCursor = 0
		m.view = DetailView
		return m, nil

	case jobsMsg:
		if msg.err != nil {
			if m.view == JobsView {
				return m, m.toasts.Push(ToastError, msg.err.Error())
			}
			return m, nil
		}
		m.jobsSnap = msg.snap
		m.clampJobsCursor()
		return m, nil

	case pushMsg:
		return m.handlePush(msg)

	case debounceMsg:
		// Only the latest keystroke's timer submits the query.
		if msg.seq != m.searchSeq {
			return m, nil
		}
		m.engine.SetQuery(m.searchInput.Value())
		m.loading = true
		return m, m.applyFilters()

	case pollTickMsg:
		// Always poll: the activity indicator in the header depends on it,
		// and a dropped push connection must not leave the job state frozen.
		return m, tea.Batch(m.schedulePoll(), m.pollJobs())

	case wishlistMsg:
		if msg.err != nil {
			return m, m.toasts.Push(ToastError, msg.err.Error())
		}
		return m, m.toasts.Push(ToastSuccess, msg.name+" "+m.tr("added to wishlist"))

	case cancelDisarmMsg:
		if m.cancelArmed == msg.id {
			m.cancelArmed = ""
		}
		return m, nil

	case toastExpiredMsg:
		m.toasts.Prune()
		return m, nil
	}

	return m, nil
}

// applySnapshot installs a fresh engine snapshot, resetting the render
// window and clamping the cursor.
func (m *Model) applySnapshot(snap engine.Snapshot) {
	prevLen := len(m.snap.Filtered)
	m.snap = snap
	if len(snap.Filtered) <= prevLen {
		// Shrunk or replaced; rewind the window.
		m.renderLimit = m.batch
	}
	if m.cursor >= len(snap.Filtered) {
		m.cursor = len(snap.Filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	for m.cursor >= m.renderLimit {
		m.renderLimit += m.batch
	}
}

func (m *Model) handlePush(msg pushMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		// Channel closed; the poll keeps the job view alive.
		return m, nil
	}
	var cmds []tea.Cmd
	if m.push != nil {
		cmds = append(cmds, m.waitForPush())
	}

	switch msg.event.Type {
	case services.EventLibraryUpdated:
		m.loading = true
		cmds = append(cmds,
			m.toasts.Push(ToastInfo, m.tr("library updated")),
			m.reload())
	case services.EventJobUpdate:
		m.jobs.ApplyPush(msg.event.Jobs)
		m.jobsSnap = m.jobs.Snapshot()
		m.clampJobsCursor()
		for _, j := range msg.event.Jobs {
			if j.Status == models.JobCompleted {
				cmds = append(cmds, m.toasts.Push(ToastSuccess, fmt.Sprintf("%s %s", j.Type, m.tr("finished"))))
			} else if j.Status == models.JobFailed {
				cmds = append(cmds, m.toasts.Push(ToastError, fmt.Sprintf("%s %s", j.Type, m.tr("failed"))))
			}
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKeys(msg)
	}
	switch m.view {
	case LibraryView:
		return m.handleLibraryKeys(msg)
	case DetailView:
		return m.handleDetailKeys(msg)
	case JobsView:
		return m.handleJobsKeys(msg)
	case HelpView:
		return m.handleHelpKeys(msg)
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		if m.history != nil && m.searchInput.Value() != "" {
			m.history.Add(m.searchInput.Value())
		}
		m.searchSeq++
		m.engine.SetQuery(m.searchInput.Value())
		m.loading = true
		return m, m.applyFilters()
	}

	var cmd tea.Cmd
	before := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != before {
		m.searchSeq++
		return m, tea.Batch(cmd, m.scheduleDebounce(m.searchSeq))
	}
	return m, cmd
}

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit

	case key.Matches(msg, keys.up):
		return m, m.moveCursor(-m.mode.columns(m.width, m.zoom))
	case key.Matches(msg, keys.down):
		return m, m.moveCursor(m.mode.columns(m.width, m.zoom))
	case key.Matches(msg, keys.left):
		return m, m.moveCursor(-1)
	case key.Matches(msg, keys.right):
		return m, m.moveCursor(1)
	case key.Matches(msg, keys.home):
		m.cursor = 0
		return m, nil
	case key.Matches(msg, keys.end):
		return m, m.moveCursor(len(m.snap.Filtered))

	case key.Matches(msg, keys.enter):
		if g := m.selectedGame(); g != nil {
			return m, m.fetchDetail(g.ID)
		}
		return m, nil

	case key.Matches(msg, keys.search):
		m.searching = true
		m.searchRecent = nil
		if m.history != nil {
			if recent, err := m.history.Recent(); err == nil {
				m.searchRecent = recent
			}
		}
		m.searchInput.SetValue(m.snap.Filters.Query)
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.clear):
		m.engine.ClearFilters()
		m.searchInput.SetValue("")
		m.loading = true
		return m, m.applyFilters()

	case key.Matches(msg, keys.filter):
		m.engine.SetStatusFilter(nextStatusFilter(m.engine.Filters()))
		m.loading = true
		return m, m.applyFilters()

	case key.Matches(msg, keys.viewMode):
		m.mode = m.mode.next()
		m.persistViewPrefs()
		return m, nil

	case key.Matches(msg, keys.sort):
		spec := engine.SortSpec{Field: nextSortField(m.snap.Sort.Field), Order: m.snap.Sort.Order}
		m.applySnapshot(m.engine.SetSort(spec))
		m.persistSort(spec)
		return m, nil

	case key.Matches(msg, keys.reverse):
		spec := m.snap.Sort.Reversed()
		m.applySnapshot(m.engine.SetSort(spec))
		m.persistSort(spec)
		return m, nil

	case key.Matches(msg, keys.zoomIn):
		if m.zoom < repositories.MaxZoom {
			m.zoom++
			m.persistViewPrefs()
		}
		return m, nil
	case key.Matches(msg, keys.zoomOut):
		if m.zoom > repositories.MinZoom {
			m.zoom--
			m.persistViewPrefs()
		}
		return m, nil

	case key.Matches(msg, keys.refresh):
		m.loading = true
		return m, m.reload()

	case key.Matches(msg, keys.jobs):
		m.view = JobsView
		return m, m.pollJobs()

	case key.Matches(msg, keys.helpKey):
		m.prevView = m.view
		m.view = HelpView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.back):
		m.view = LibraryView
		m.detail = nil
		return m, nil
	case key.Matches(msg, keys.up):
		if m.detailCursor > 0 {
			m.detailCursor--
		}
		return m, nil
	case key.Matches(msg, keys.down):
		if m.detailCursor < m.detailRowCount()-1 {
			m.detailCursor++
		}
		return m, nil
	case key.Matches(msg, keys.toggle):
		return m, m.toggleSelectedIgnore()
	case key.Matches(msg, keys.open):
		if m.detail != nil && m.detail.BannerURL != "" {
			if err := shared.OpenBrowser(m.detail.BannerURL); err != nil {
				return m, m.toasts.Push(ToastError, err.Error())
			}
		}
		return m, nil
	case key.Matches(msg, keys.wishlist):
		return m, m.addToWishlist()
	}
	return m, nil
}

// addToWishlist puts the open title on the server-side wishlist.
func (m *Model) addToWishlist() tea.Cmd {
	if m.detail == nil || m.system == nil {
		return nil
	}
	id, name := m.detail.ID, m.detail.Name
	return func() tea.Msg {
		return wishlistMsg{name: name, err: m.system.AddToWishlist(m.ctx, id)}
	}
}

func (m *Model) handleJobsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.back):
		if m.cancelArmed != "" {
			m.cancelArmed = ""
			return m, nil
		}
		m.view = LibraryView
		return m, nil
	case key.Matches(msg, keys.up):
		if m.jobsCursor > 0 {
			m.jobsCursor--
		}
		m.cancelArmed = ""
		return m, nil
	case key.Matches(msg, keys.down):
		if m.jobsCursor < len(m.jobsSnap.Active)-1 {
			m.jobsCursor++
		}
		m.cancelArmed = ""
		return m, nil
	case key.Matches(msg, keys.cancel):
		return m.handleCancelKey()
	case key.Matches(msg, keys.cleanup):
		return m, m.cleanupJobs()
	case key.Matches(msg, keys.refresh):
		return m, m.pollJobs()
	}
	return m, nil
}

// handleCancelKey implements the two-step cancel: the first press arms,
// the second press on the same job confirms.
func (m *Model) handleCancelKey() (tea.Model, tea.Cmd) {
	if m.jobsCursor >= len(m.jobsSnap.Active) {
		return m, nil
	}
	job := m.jobsSnap.Active[m.jobsCursor]
	if m.cancelArmed != job.ID {
		m.cancelArmed = job.ID
		return m, tea.Tick(cancelArmTimeout, func(time.Time) tea.Msg {
			return cancelDisarmMsg{id: job.ID}
		})
	}
	m.cancelArmed = ""
	return m, func() tea.Msg {
		if err := m.jobs.Cancel(m.ctx, job.ID); err != nil {
			return jobsMsg{err: err}
		}
		err := m.jobs.Poll(m.ctx)
		return jobsMsg{snap: m.jobs.Snapshot(), err: err}
	}
}

func (m *Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	default:
		m.view = m.prevView
		return m, nil
	}
}

// moveCursor shifts the cursor, grows the render window in batch-sized
// steps, and fetches the next page once the loaded set is exhausted.
func (m *Model) moveCursor(delta int) tea.Cmd {
	total := len(m.snap.Filtered)
	if total == 0 {
		return nil
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= total {
		m.cursor = total - 1
	}
	for m.cursor >= m.renderLimit {
		m.renderLimit += m.batch
	}
	if m.cursor == total-1 && m.snap.Cursor.HasNext && !m.loading {
		m.loading = true
		return m.loadNextPage()
	}
	return nil
}

func (m *Model) selectedGame() *models.Game {
	if m.cursor < 0 || m.cursor >= len(m.snap.Filtered) {
		return nil
	}
	return &m.snap.Filtered[m.cursor]
}

func (m *Model) clampJobsCursor() {
	if m.jobsCursor >= len(m.jobsSnap.Active) {
		m.jobsCursor = len(m.jobsSnap.Active) - 1
	}
	if m.jobsCursor < 0 {
		m.jobsCursor = 0
	}
	if _, ok := m.jobs.Job(m.cancelArmed); !ok {
		m.cancelArmed = ""
	}
}

func (m *Model) persistViewPrefs() {
	if m.prefs == nil {
		return
	}
	m.prefs.SetViewMode(m.mode.String())
	m.prefs.SetZoom(m.zoom)
}

func (m *Model) persistSort(spec engine.SortSpec) {
	if m.prefs != nil {
		m.prefs.SetSort(spec.String())
	}
}

// nextSortField cycles through the sortable columns.
func nextSortField(f engine.SortField) engine.SortField {
	order := []engine.SortField{
		engine.SortByName, engine.SortByRelease, engine.SortByAdded,
		engine.SortByID, engine.SortByStatus, engine.SortBySize,
	}
	for i, field := range order {
		if field == f {
			return order[(i+1)%len(order)]
		}
	}
	return engine.SortByName
}

// nextStatusFilter cycles none -> missing -> updates -> dlc -> redundant
// -> none.
func nextStatusFilter(f engine.Filters) engine.StatusFilter {
	switch f.StatusFilter() {
	case engine.FilterNone:
		return engine.FilterMissingBase
	case engine.FilterMissingBase:
		return engine.FilterPendingUpdate
	case engine.FilterPendingUpdate:
		return engine.FilterPendingDLC
	case engine.FilterPendingDLC:
		return engine.FilterRedundant
	default:
		return engine.FilterNone
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case DetailView:
		body = m.renderDetail()
	case JobsView:
		body = m.renderJobs()
	case HelpView:
		body = m.help.FullHelpView(m.keys.FullHelp())
	default:
		body = m.renderHeader() + "\n\n"
		if m.searching {
			body += m.searchInput.View() + "\n"
			if line := m.recentSearchLine(); line != "" {
				body += styles.dim.Render(line) + "\n"
			}
			body += "\n"
		}
		if m.loading && len(m.snap.Filtered) == 0 {
			body += styles.dim.Render(m.tr("loading") + "...")
		} else {
			body += m.renderLibrary()
		}
	}

	if toasts := m.toasts.View(); toasts != "" {
		body += "\n" + toasts
	}
	if m.view != HelpView {
		body += "\n" + m.help.ShortHelpView(m.keys.ShortHelp())
	}
	return body
}

// recentSearchLine summarizes the latest distinct queries under the
// search prompt.
func (m *Model) recentSearchLine() string {
	if len(m.searchRecent) == 0 {
		return ""
	}
	recent := m.searchRecent
	if len(recent) > 5 {
		recent = recent[:5]
	}
	return m.tr("recent") + ": " + strings.Join(recent, " · ")
}

func (m *Model) loadFirstPage() tea.Cmd {
	return func() tea.Msg {
		// Ignore preferences gate status derivation; without them every
		// ignored item would light up as pending.
		if err := m.engine.LoadIgnorePrefs(m.ctx); err != nil {
			m.logger.Warn("failed to load ignore preferences", "err", err)
		}
		snap, err := m.engine.LoadPage(m.ctx, 1, true)
		return snapshotMsg{snap: snap, err: err}
	}
}

// reload refreshes from page one, re-running the active filters if any.
func (m *Model) reload() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.engine.Apply(m.ctx)
		if err == nil && !m.engine.ServerFiltered() {
			snap, err = m.engine.LoadPage(m.ctx, 1, true)
		}
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m *Model) applyFilters() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.engine.Apply(m.ctx)
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m *Model) loadNextPage() tea.Cmd {
	page := m.engine.NextPage()
	serverFiltered := m.snap.ServerFiltered
	return func() tea.Msg {
		var (
			snap engine.Snapshot
			err  error
		)
		if serverFiltered {
			snap, err = m.engine.SearchServer(m.ctx, page)
		} else {
			snap, err = m.engine.LoadPage(m.ctx, page, false)
		}
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m *Model) fetchDetail(titleID string) tea.Cmd {
	return func() tea.Msg {
		game, err := m.library.AppInfo(m.ctx, titleID)
		return detailMsg{game: game, err: err}
	}
}

func (m *Model) pollJobs() tea.Cmd {
	return func() tea.Msg {
		err := m.jobs.Poll(m.ctx)
		return jobsMsg{snap: m.jobs.Snapshot(), err: err}
	}
}

func (m *Model) cleanupJobs() tea.Cmd {
	return func() tea.Msg {
		err := m.jobs.Cleanup(m.ctx)
		return jobsMsg{snap: m.jobs.Snapshot(), err: err}
	}
}

func (m *Model) waitForPush() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.push
		return pushMsg{event: event, ok: ok}
	}
}

func (m *Model) schedulePoll() tea.Cmd {
	return tea.Tick(m.pollEvery, func(time.Time) tea.Msg { return pollTickMsg{} })
}

func (m *Model) scheduleDebounce(seq int) tea.Cmd {
	return tea.Tick(m.debounce, func(time.Time) tea.Msg { return debounceMsg{seq: seq} })
}
