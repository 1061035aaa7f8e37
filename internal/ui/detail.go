package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fernandodimas/myfoil-tui/internal/formatter"
	"github.com/fernandodimas/myfoil-tui/internal/models"
	"github.com/fernandodimas/myfoil-tui/internal/services"
)

// detailRow is one selectable line in the detail view: an update or a DLC.
type detailRow struct {
	kind    string // "update" or "dlc"
	itemID  string // stringified version or app id
	label   string
	owned   bool
	ignored bool
}

// detailRows flattens the selected game's updates and DLCs into the
// navigable row list, in display order.
func (m *Model) detailRows() []detailRow {
	if m.detail == nil {
		return nil
	}
	g := m.detail
	ignores := m.engine.Ignores()

	var rows []detailRow
	for _, u := range g.Updates {
		rows = append(rows, detailRow{
			kind:    "update",
			itemID:  strconv.Itoa(u.Version),
			label:   fmt.Sprintf("%s v%d (%s)", m.tr("Update"), u.Version, formatter.FormatDateDisplay(u.ReleaseDate)),
			owned:   u.Owned,
			ignored: ignores.UpdateIgnored(g.ID, u.Version),
		})
	}
	for _, d := range g.DLCs {
		rows = append(rows, detailRow{
			kind:    "dlc",
			itemID:  d.AppID,
			label:   fmt.Sprintf("%s %s", m.tr("DLC"), d.Name),
			owned:   d.Owned,
			ignored: ignores.DLCIgnored(g.ID, d.AppID),
		})
	}
	return rows
}

func (m *Model) detailRowCount() int {
	return len(m.detailRows())
}

// toggleSelectedIgnore flips the ignore flag on the selected update or
// DLC. Owned items have nothing to ignore.
func (m *Model) toggleSelectedIgnore() tea.Cmd {
	rows := m.detailRows()
	if m.detailCursor >= len(rows) || m.detail == nil {
		return nil
	}
	row := rows[m.detailCursor]
	if row.owned {
		return m.toasts.Push(ToastInfo, m.tr("already owned"))
	}

	req := services.IgnoreRequest{Type: row.kind, ItemID: row.itemID, Ignored: !row.ignored}
	m.applySnapshot(m.engine.ToggleIgnore(m.ctx, m.detail.ID, req))

	msg := m.tr("ignored")
	if row.ignored {
		msg = m.tr("unignored")
	}
	return m.toasts.Push(ToastSuccess, row.label+" "+msg)
}

func (m *Model) renderDetail() string {
	if m.detail == nil {
		return styles.dim.Render(m.tr("loading") + "...")
	}
	g := m.detail

	var b strings.Builder
	b.WriteString(styles.title.Render(g.Name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s · %s · %s\n",
		statusDot(g.StatusColor), g.ID, formatter.SizeLabel(g),
		formatter.FormatDateDisplay(g.EffectiveReleaseDate())))
	if g.DisplayVersion != "" {
		b.WriteString(styles.dim.Render(m.tr("version")+": "+g.DisplayVersion) + "\n")
	}
	if len(g.Category) > 0 {
		b.WriteString(styles.dim.Render(m.tr("genres")+": "+strings.Join(g.Category, ", ")) + "\n")
	}
	if status := formatter.ClassifyRelease(g.EffectiveReleaseDate(), time.Now()); status == formatter.ReleaseUpcoming {
		b.WriteString(styles.warn.Render(status.String()) + "\n")
	}

	rows := m.detailRows()
	if len(rows) > 0 {
		b.WriteString("\n" + styles.title.Render(m.tr("Updates and DLC")) + "\n")
		for i, row := range rows {
			var marker string
			switch {
			case row.owned:
				marker = styles.ok.Render("✓ ")
			case row.ignored:
				marker = styles.dim.Render("– ")
			default:
				marker = styles.warn.Render("○ ")
			}
			line := marker + row.label
			if row.ignored {
				line += styles.dim.Render(" (" + m.tr("ignored") + ")")
			}
			if i == m.detailCursor {
				line = styles.selected.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}

	if len(g.Files) > 0 {
		b.WriteString("\n" + styles.title.Render(m.tr("Files")) + "\n")
		for _, f := range g.Files {
			b.WriteString(fmt.Sprintf("  %s  %s\n", f.Filename, styles.dim.Render(f.SizeFormatted)))
		}
	}
	return b.String()
}

func (m *Model) renderJobs() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(m.tr("Background Jobs")))
	b.WriteString("\n")

	if db := m.jobsSnap.TitleDB; db != nil {
		line := m.tr("titledb") + ": " + db.LoadedTitlesFile
		if db.IsFetching {
			line += " " + styles.warn.Render("("+m.tr("updating")+"...)")
		} else if db.UpdateAvailable {
			line += " " + styles.warn.Render("("+m.tr("update available")+")")
		}
		if db.LastError != "" {
			line += " " + styles.err.Render(db.LastError)
		}
		b.WriteString(styles.dim.Render(line) + "\n")
	}

	b.WriteString("\n" + styles.title.Render(m.tr("Active")) + "\n")
	if len(m.jobsSnap.Active) == 0 {
		b.WriteString(styles.dim.Render(m.tr("no active jobs")) + "\n")
	}
	for i, j := range m.jobsSnap.Active {
		line := fmt.Sprintf("%s %s %.0f%%", j.Type, j.Status, j.Progress.Percent)
		if j.Progress.Total > 0 {
			line += fmt.Sprintf(" (%d/%d)", j.Progress.Current, j.Progress.Total)
		}
		if j.Progress.Message != "" {
			line += " " + styles.dim.Render(j.Progress.Message)
		}
		if j.IsStuck {
			line += " " + styles.err.Render(m.tr("stuck"))
		}
		if m.cancelArmed == j.ID {
			line += " " + styles.err.Render(m.tr("press x again to cancel"))
		}
		if i == m.jobsCursor {
			line = styles.selected.Render(line)
		}
		b.WriteString(line + "\n")
		b.WriteString(m.progress.ViewAs(j.Progress.Percent/100) + "\n")
	}

	b.WriteString("\n" + styles.title.Render(m.tr("Recent")) + "\n")
	if len(m.jobsSnap.History) == 0 {
		b.WriteString(styles.dim.Render(m.tr("no finished jobs")) + "\n")
	}
	for _, j := range m.jobsSnap.History {
		var mark string
		switch j.Status {
		case models.JobCompleted:
			mark = styles.ok.Render("✓")
		default:
			mark = styles.err.Render("✗")
		}
		line := fmt.Sprintf("%s %s", mark, j.Type)
		if j.CompletedAt != "" {
			line += " " + styles.dim.Render(j.CompletedAt)
		}
		if j.Error != "" {
			line += " " + styles.err.Render(j.Error)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
