package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fernandodimas/myfoil-tui/internal/jobs"
	"github.com/fernandodimas/myfoil-tui/internal/models"
	"github.com/fernandodimas/myfoil-tui/internal/shared"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

// JobsList prints active and recent jobs.
func (r *Runner) JobsList(ctx context.Context, cmd *cli.Command) error {
	mgr := jobs.NewManager(r.jobsAPI, r.logger, 0)
	if err := mgr.Poll(ctx); err != nil {
		return fmt.Errorf("failed to fetch jobs: %w", err)
	}
	snap := mgr.Snapshot()

	if cmd.Bool("json") {
		return r.writeJSON(snap, true)
	}

	if db := snap.TitleDB; db != nil {
		line := "titledb: " + db.LoadedTitlesFile
		if db.UpdateAvailable {
			line += " (update available)"
		}
		r.writePlain("%s\n\n", line)
	}

	r.renderJobsTable("Active", snap.Active)
	r.renderJobsTable("Recent", snap.History)
	return nil
}

// JobsWatch polls until no job is active, printing progress lines.
func (r *Runner) JobsWatch(ctx context.Context, cmd *cli.Command) error {
	mgr := jobs.NewManager(r.jobsAPI, r.logger, 0)
	interval := time.Duration(r.config.Client.PollIntervalSeconds) * time.Second

	for {
		if err := mgr.Poll(ctx); err != nil {
			return fmt.Errorf("failed to fetch jobs: %w", err)
		}
		snap := mgr.Snapshot()
		if !snap.HasActive {
			r.writePlain("no active jobs\n")
			return nil
		}
		for _, j := range snap.Active {
			line := fmt.Sprintf("%s %s %.0f%%", j.Type, j.Status, j.Progress.Percent)
			if j.Progress.Message != "" {
				line += " " + j.Progress.Message
			}
			r.writePlain("%s\n", line)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// JobsCancel requests cancellation of one job, with a confirmation prompt
// unless --yes is given.
func (r *Runner) JobsCancel(ctx context.Context, cmd *cli.Command) error {
	jobID := cmd.StringArg("job-id")
	if jobID == "" {
		return fmt.Errorf("%w: job id", shared.ErrMissingArgument)
	}

	if !cmd.Bool("yes") {
		r.writePlain("cancel job %s? [y/N] ", jobID)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			r.writePlain("aborted\n")
			return nil
		}
	}

	if err := r.jobsAPI.CancelJob(ctx, jobID); err != nil {
		return fmt.Errorf("failed to cancel job: %w", err)
	}
	r.writePlain("cancellation requested for %s\n", jobID)
	return nil
}

// JobsCleanup clears finished jobs and fails stuck ones.
func (r *Runner) JobsCleanup(ctx context.Context, cmd *cli.Command) error {
	if err := r.jobsAPI.CleanupJobs(ctx); err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}
	r.writePlain("job cleanup requested\n")
	return nil
}

func (r *Runner) renderJobsTable(title string, list []models.Job) {
	r.writePlain("%s:\n", title)
	if len(list) == 0 {
		r.writePlain("  none\n\n")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.output)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Type", "Status", "Progress", "Detail"})
	for _, j := range list {
		detail := j.Progress.Message
		if j.Error != "" {
			detail = j.Error
		}
		t.AppendRow(table.Row{
			j.ID, j.Type, j.Status,
			fmt.Sprintf("%.0f%%", j.Progress.Percent),
			detail,
		})
	}
	t.Render()
	r.writePlain("\n")
}
