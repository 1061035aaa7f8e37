package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fernandodimas/myfoil-tui/internal/engine"
	"github.com/fernandodimas/myfoil-tui/internal/formatter"
	"github.com/fernandodimas/myfoil-tui/internal/models"
	"github.com/fernandodimas/myfoil-tui/internal/shared"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

// filtersFromFlags builds the engine filter set from the shared CLI
// filter flags.
func filtersFromFlags(cmd *cli.Command, query string) engine.Filters {
	return engine.Filters{
		Query:         query,
		Genre:         cmd.String("genre"),
		Tag:           cmd.String("tag"),
		MissingBase:   cmd.Bool("missing"),
		PendingUpdate: cmd.Bool("pending"),
		PendingDLC:    cmd.Bool("dlc"),
		Redundant:     cmd.Bool("redundant"),
	}
}

// newEngine builds a one-shot library engine for CLI commands. The CLI
// never persists the legacy fallback; one process, one decision.
func (r *Runner) newEngine(sortSpec string) (*engine.Engine, error) {
	spec, err := engine.ParseSortSpec(sortSpec)
	if err != nil {
		return nil, err
	}
	eng := engine.New(engine.Opts{
		Library: r.library,
		Logger:  r.logger,
		PerPage: r.config.Client.PerPage,
	})
	eng.SetSort(spec)
	return eng, nil
}

// collectGames loads games through the engine: active filters go through
// the server search, otherwise pages load until done (or just one page).
func (r *Runner) collectGames(ctx context.Context, eng *engine.Engine, filters engine.Filters, page int, all bool) (engine.Snapshot, error) {
	if err := eng.LoadIgnorePrefs(ctx); err != nil {
		r.logger.Warn("failed to load ignore preferences", "err", err)
	}

	if filters.Active() {
		eng.SetQuery(filters.Query)
		eng.SetGenre(filters.Genre)
		eng.SetTag(filters.Tag)
		switch {
		case filters.MissingBase:
			eng.SetStatusFilter(engine.FilterMissingBase)
		case filters.PendingUpdate:
			eng.SetStatusFilter(engine.FilterPendingUpdate)
		case filters.PendingDLC:
			eng.SetStatusFilter(engine.FilterPendingDLC)
		case filters.Redundant:
			eng.SetStatusFilter(engine.FilterRedundant)
		}

		snap, err := eng.SearchServer(ctx, 1)
		if err != nil {
			return engine.Snapshot{}, err
		}
		for all && snap.Cursor.HasNext {
			if snap, err = eng.SearchServer(ctx, eng.NextPage()); err != nil {
				return engine.Snapshot{}, err
			}
		}
		return snap, nil
	}

	snap, err := eng.LoadPage(ctx, page, true)
	if err != nil {
		return engine.Snapshot{}, err
	}
	for all && snap.Cursor.HasNext {
		if snap, err = eng.LoadPage(ctx, eng.NextPage(), false); err != nil {
			return engine.Snapshot{}, err
		}
	}
	return snap, nil
}

// LibraryList prints the library as a table.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	eng, err := r.newEngine(cmd.String("sort"))
	if err != nil {
		return err
	}

	snap, err := r.collectGames(ctx, eng, filtersFromFlags(cmd, ""), int(cmd.Int("page")), cmd.Bool("all"))
	if err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(snap.Filtered, true)
	}

	r.renderGamesTable(snap.Filtered)
	r.writePlainln("%d of %d games", len(snap.Filtered), snap.Count)
	return nil
}

// LibrarySearch runs a server-side search and prints the matches.
func (r *Runner) LibrarySearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	filters := filtersFromFlags(cmd, query)
	if !filters.Active() {
		return fmt.Errorf("%w: a query or filter is required", shared.ErrMissingArgument)
	}

	eng, err := r.newEngine("name-asc")
	if err != nil {
		return err
	}
	snap, err := r.collectGames(ctx, eng, filters, 1, true)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(snap.Filtered, true)
	}

	r.renderGamesTable(snap.Filtered)
	r.writePlainln("%d matches", snap.Count)
	return nil
}

// LibraryExport writes the whole (filtered) library to CSV, Markdown or
// plain text.
func (r *Runner) LibraryExport(ctx context.Context, cmd *cli.Command) error {
	eng, err := r.newEngine(cmd.String("sort"))
	if err != nil {
		return err
	}
	snap, err := r.collectGames(ctx, eng, filtersFromFlags(cmd, ""), 1, true)
	if err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}

	var data []byte
	switch format := cmd.String("format"); format {
	case "csv":
		data, err = formatter.ExportToCSV(snap.Filtered)
	case "md", "markdown":
		data, err = formatter.ExportToMarkdown("Game Library", snap.Filtered)
	case "txt", "text":
		data, err = formatter.ExportToText(snap.Filtered)
	default:
		return fmt.Errorf("%w: format %q (want csv, md or txt)", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		r.logger.Info("library exported", "path", path, "games", len(snap.Filtered))
		return nil
	}
	return r.writePlain("%s", data)
}

// Info prints one game's full detail.
func (r *Runner) Info(ctx context.Context, cmd *cli.Command) error {
	titleID := cmd.StringArg("title-id")
	if titleID == "" {
		return fmt.Errorf("%w: title id", shared.ErrMissingArgument)
	}

	game, err := r.library.AppInfo(ctx, titleID)
	if err != nil {
		return fmt.Errorf("failed to fetch title: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(game, true)
	}

	r.writePlain("%s\n", game.Name)
	r.writePlain("  %s · %s · %s\n", game.ID, formatter.SizeLabel(game),
		formatter.FormatDateDisplay(game.EffectiveReleaseDate()))
	if game.DisplayVersion != "" {
		r.writePlain("  Version: %s\n", game.DisplayVersion)
	}
	if len(game.Category) > 0 {
		r.writePlain("  Genres: %s\n", strings.Join(game.Category, ", "))
	}

	if len(game.Updates) > 0 {
		r.writePlain("\nUpdates:\n")
		for _, u := range game.Updates {
			mark := " "
			if u.Owned {
				mark = "✓"
			}
			r.writePlain("  %s v%d (%s)\n", mark, u.Version, formatter.FormatDateDisplay(u.ReleaseDate))
		}
	}
	if len(game.DLCs) > 0 {
		r.writePlain("\nDLC:\n")
		for _, d := range game.DLCs {
			mark := " "
			if d.Owned {
				mark = "✓"
			}
			r.writePlain("  %s %s (%s)\n", mark, d.Name, d.AppID)
		}
	}
	if len(game.Files) > 0 {
		r.writePlain("\nFiles:\n")
		for _, f := range game.Files {
			r.writePlain("  %s  %s\n", f.Filename, f.SizeFormatted)
		}
	}
	return nil
}

func (r *Runner) renderGamesTable(games []models.Game) {
	t := table.NewWriter()
	t.SetOutputMirror(r.output)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"", "ID", "Name", "Size", "Release"})
	for i := range games {
		g := &games[i]
		t.AppendRow(table.Row{
			statusGlyph(g.StatusColor),
			g.ID,
			g.Name,
			formatter.SizeLabel(g),
			formatter.FormatDateDisplay(g.EffectiveReleaseDate()),
		})
	}
	t.Render()
}

// statusGlyph is the plain-text status marker for table output.
func statusGlyph(color string) string {
	switch color {
	case models.StatusGreen:
		return "✓"
	case models.StatusOrange:
		return "!"
	default:
		return "?"
	}
}
