// Package jobs tracks backend background jobs from two feeds: a periodic
// REST poll and real-time push events. Both feeds flow through one
// reducer, so a push frame and a poll response can never leave the view in
// disagreement.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fernandodimas/myfoil-tui/internal/models"
	"github.com/fernandodimas/myfoil-tui/internal/services"
)

const (
	// DefaultPollInterval is how often the job list is polled while the
	// jobs view is visible.
	DefaultPollInterval = 15 * time.Second
	// HistoryLimit caps how many finished jobs the view shows.
	HistoryLimit = 10
)

// Snapshot is the classified job state handed to the frontends.
type Snapshot struct {
	// Active holds scheduled and running jobs, every one of them shown.
	Active []models.Job
	// History holds finished jobs, most recent first, capped at
	// HistoryLimit.
	History []models.Job
	// HasActive drives the header activity indicator.
	HasActive bool
	TitleDB   *models.TitleDBInfo
}

// Manager owns the retained job list. Poll responses replace it; push
// frames merge into it by job id. Classification happens in one place,
// after either kind of event.
type Manager struct {
	mu       sync.Mutex
	jobs     []models.Job
	titledb  *models.TitleDBInfo
	api      services.JobsAPI
	logger   *log.Logger
	interval time.Duration

	subs   map[int]chan Snapshot
	nextID int
}

// NewManager creates a Manager polling at the given interval, or
// DefaultPollInterval when zero.
func NewManager(api services.JobsAPI, logger *log.Logger, interval time.Duration) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Manager{
		api:      api,
		logger:   logger,
		interval: interval,
		subs:     make(map[int]chan Snapshot),
	}
}

// Subscribe registers a snapshot channel. The returned cancel func must be
// called when the subscriber goes away.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	ch := make(chan Snapshot, 1)
	m.subs[id] = ch
	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// publishLocked pushes the current snapshot to every subscriber,
// dropping a stale undelivered one first so slow consumers only ever see
// the latest state.
func (m *Manager) publishLocked() {
	snap := m.snapshotLocked()
	for _, ch := range m.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// Snapshot returns the current classified job state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	var active, history []models.Job
	for i := range m.jobs {
		j := m.jobs[i]
		if j.Active() {
			active = append(active, j)
		} else {
			history = append(history, j)
		}
	}
	// Most recent first; the feed appends new pushes at the front already,
	// poll order is the server's, which is newest-first.
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	return Snapshot{
		Active:    active,
		History:   history,
		HasActive: len(active) > 0,
		TitleDB:   m.titledb,
	}
}

// ApplyPoll replaces the retained list with a poll response.
func (m *Manager) ApplyPoll(snap *services.JobsSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = snap.Jobs
	if snap.TitleDB != nil {
		m.titledb = snap.TitleDB
	}
	m.publishLocked()
}

// ApplyPush merges pushed job records into the retained list: a known id
// is replaced in place, an unknown one is prepended as the newest entry.
func (m *Manager) ApplyPush(jobs []models.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, job := range jobs {
		m.mergeLocked(job)
	}
	m.publishLocked()
}

func (m *Manager) mergeLocked(job models.Job) {
	for i := range m.jobs {
		if m.jobs[i].ID == job.ID {
			m.jobs[i] = job
			return
		}
	}
	m.jobs = append([]models.Job{job}, m.jobs...)
}

// Poll fetches the job list once and applies it.
func (m *Manager) Poll(ctx context.Context) error {
	snap, err := m.api.Jobs(ctx)
	if err != nil {
		return err
	}
	m.ApplyPoll(snap)
	return nil
}

// Run polls on the manager's interval until the context is canceled. An
// immediate first poll primes the view. Poll failures are logged and
// retried on the next tick; the retained state is kept as is.
func (m *Manager) Run(ctx context.Context) {
	if err := m.Poll(ctx); err != nil {
		m.logger.Warn("initial job poll failed", "err", err)
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Poll(ctx); err != nil {
				m.logger.Warn("job poll failed", "err", err)
			}
		}
	}
}

// Cancel requests cancellation of a job. The retained state does not
// change here; the outcome arrives through a later poll or push.
func (m *Manager) Cancel(ctx context.Context, jobID string) error {
	return m.api.CancelJob(ctx, jobID)
}

// Cleanup clears finished jobs server-side and refreshes immediately so
// the view reflects the purge.
func (m *Manager) Cleanup(ctx context.Context) error {
	if err := m.api.CleanupJobs(ctx); err != nil {
		return err
	}
	return m.Poll(ctx)
}

// Job returns the retained job with the given id.
func (m *Manager) Job(id string) (models.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.jobs {
		if m.jobs[i].ID == id {
			return m.jobs[i], true
		}
	}
	return models.Job{}, false
}
