package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fernandodimas/myfoil-tui/internal/engine"
	"github.com/fernandodimas/myfoil-tui/internal/jobs"
	"github.com/fernandodimas/myfoil-tui/internal/repositories"
	"github.com/fernandodimas/myfoil-tui/internal/services"
	"github.com/fernandodimas/myfoil-tui/internal/shared"
	"github.com/fernandodimas/myfoil-tui/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive library browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.library == nil {
		return fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := filepath.Join(os.TempDir(), "myfoil-tui.log")
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.logger = fileLogger

	db, err := r.openState()
	if err != nil {
		return err
	}
	defer db.Close()
	prefs := repositories.NewPrefsStore(db)
	history := repositories.NewSearchHistoryStore(db)

	// Preferences saved under an older server build may no longer match
	// its sorting or endpoints.
	if info, err := r.system.SystemInfo(ctx); err == nil {
		if invalidated, err := prefs.CheckBuildVersion(info.BuildVersion); err == nil && invalidated {
			fileLogger.Info("server build changed, view preferences reset", "build", info.BuildVersion)
		}
	}

	eng := engine.New(engine.Opts{
		Library:   r.library,
		Logger:    fileLogger,
		PerPage:   r.config.Client.PerPage,
		UseLegacy: prefs.LegacyEndpoint(),
		PersistLegacy: func(on bool) {
			if err := prefs.SetLegacyEndpoint(on); err != nil {
				fileLogger.Warn("failed to persist endpoint fallback", "err", err)
			}
		},
	})

	pollEvery := time.Duration(r.config.Client.PollIntervalSeconds) * time.Second
	manager := jobs.NewManager(r.jobsAPI, fileLogger, pollEvery)

	tuiCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var push <-chan services.PushEvent
	if !cmd.Bool("no-push") {
		listener := services.NewPushListener(r.config.Server.BaseURL, fileLogger)
		go func() {
			if err := listener.Run(tuiCtx); err != nil {
				fileLogger.Warn("push channel closed", "err", err)
			}
		}()
		push = listener.Events()
	}

	model := ui.NewModel(tuiCtx, ui.Deps{
		Engine:      eng,
		Jobs:        manager,
		Library:     r.library,
		System:      r.system,
		Prefs:       prefs,
		History:     history,
		Translator:  r.translator,
		Push:        push,
		Logger:      fileLogger,
		Debounce:    time.Duration(r.config.Client.DebounceMillis) * time.Millisecond,
		PollEvery:   pollEvery,
		RenderBatch: r.config.Client.RenderBatch,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
