package jobs

import (
	"context"
	"fmt"
	"testing"

	"github.com/fernandodimas/myfoil-tui/internal/models"
	"github.com/fernandodimas/myfoil-tui/internal/services"
	mocks "github.com/fernandodimas/myfoil-tui/internal/testing"
)

func job(id, status string, percent float64) models.Job {
	return models.Job{
		ID: id, Type: "library_scan", Status: status,
		Progress: models.JobProgress{Percent: percent},
	}
}

func TestApplyPollReplacesRetainedList(t *testing.T) {
	m := NewManager(&mocks.MockJobs{}, nil, 0)
	m.ApplyPoll(&services.JobsSnapshot{Jobs: []models.Job{
		job("j1", models.JobRunning, 10),
		job("j2", models.JobCompleted, 100),
	}})

	snap := m.Snapshot()
	if len(snap.Active) != 1 || snap.Active[0].ID != "j1" {
		t.Fatalf("active = %+v, want j1 only", snap.Active)
	}
	if len(snap.History) != 1 || snap.History[0].ID != "j2" {
		t.Fatalf("history = %+v, want j2 only", snap.History)
	}
	if !snap.HasActive {
		t.Error("HasActive should be set")
	}

	// A later poll is authoritative; j1 is gone.
	m.ApplyPoll(&services.JobsSnapshot{Jobs: []models.Job{
		job("j2", models.JobCompleted, 100),
	}})
	snap = m.Snapshot()
	if snap.HasActive || len(snap.Active) != 0 {
		t.Errorf("after replacing poll: active = %+v", snap.Active)
	}
}

func TestApplyPushMergesById(t *testing.T) {
	m := NewManager(&mocks.MockJobs{}, nil, 0)
	m.ApplyPoll(&services.JobsSnapshot{Jobs: []models.Job{
		job("j1", models.JobRunning, 10),
	}})

	// Known id: replaced in place, progress updated.
	m.ApplyPush([]models.Job{job("j1", models.JobRunning, 42)})
	snap := m.Snapshot()
	if len(snap.Active) != 1 {
		t.Fatalf("active = %+v", snap.Active)
	}
	if got := snap.Active[0].Progress.Percent; got != 42 {
		t.Errorf("progress = %v, want 42", got)
	}

	// Unknown id: prepended as newest.
	m.ApplyPush([]models.Job{job("j9", models.JobScheduled, 0)})
	snap = m.Snapshot()
	if len(snap.Active) != 2 || snap.Active[0].ID != "j9" {
		t.Errorf("active = %+v, want j9 first", snap.Active)
	}

	// A push can also retire a job.
	m.ApplyPush([]models.Job{job("j1", models.JobFailed, 42)})
	snap = m.Snapshot()
	if len(snap.Active) != 1 || len(snap.History) != 1 {
		t.Errorf("active %d history %d, want 1 and 1", len(snap.Active), len(snap.History))
	}
}

func TestHistoryCap(t *testing.T) {
	m := NewManager(&mocks.MockJobs{}, nil, 0)
	var done []models.Job
	for i := 0; i < 15; i++ {
		done = append(done, job(fmt.Sprintf("j%02d", i), models.JobCompleted, 100))
	}
	m.ApplyPoll(&services.JobsSnapshot{Jobs: done})

	snap := m.Snapshot()
	if len(snap.History) != HistoryLimit {
		t.Errorf("history %d, want %d", len(snap.History), HistoryLimit)
	}
	if snap.History[0].ID != "j00" {
		t.Errorf("history should keep feed order, got first %s", snap.History[0].ID)
	}
}

func TestSubscribeSeesLatestState(t *testing.T) {
	m := NewManager(&mocks.MockJobs{}, nil, 0)
	ch, cancel := m.Subscribe()
	defer cancel()

	// Two rapid updates; an unread subscriber must still end up with the
	// latest snapshot, not the first.
	m.ApplyPush([]models.Job{job("j1", models.JobRunning, 10)})
	m.ApplyPush([]models.Job{job("j1", models.JobRunning, 90)})

	snap := <-ch
	if got := snap.Active[0].Progress.Percent; got != 90 {
		t.Errorf("subscriber saw %v, want latest 90", got)
	}
}

func TestCleanupRefreshesState(t *testing.T) {
	polls := 0
	api := &mocks.MockJobs{
		JobsFunc: func(context.Context) (*services.JobsSnapshot, error) {
			polls++
			return &services.JobsSnapshot{Jobs: []models.Job{}}, nil
		},
	}
	m := NewManager(api, nil, 0)
	m.ApplyPush([]models.Job{job("j1", models.JobCompleted, 100)})

	if err := m.Cleanup(context.Background()); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if polls != 1 {
		t.Errorf("polls = %d, want immediate refresh", polls)
	}
	if snap := m.Snapshot(); len(snap.History) != 0 {
		t.Errorf("history after cleanup = %+v, want empty", snap.History)
	}
}

func TestTitleDBSurvivesPollsWithoutIt(t *testing.T) {
	m := NewManager(&mocks.MockJobs{}, nil, 0)
	m.ApplyPoll(&services.JobsSnapshot{
		Jobs:    []models.Job{},
		TitleDB: &models.TitleDBInfo{Name: "titledb", UpdateAvailable: true},
	})
	m.ApplyPoll(&services.JobsSnapshot{Jobs: []models.Job{}})

	snap := m.Snapshot()
	if snap.TitleDB == nil || !snap.TitleDB.UpdateAvailable {
		t.Errorf("titledb state lost: %+v", snap.TitleDB)
	}
}
