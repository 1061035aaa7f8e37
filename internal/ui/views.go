package ui

import (
	"fmt"
	"strings"

	"github.com/fernandodimas/myfoil-tui/internal/engine"
	"github.com/fernandodimas/myfoil-tui/internal/formatter"
	"github.com/fernandodimas/myfoil-tui/internal/models"
	"github.com/mattn/go-runewidth"
)

// ViewMode selects how the library list is rendered.
type ViewMode int

const (
	CardMode ViewMode = iota
	IconMode
	ListMode
)

// RenderBatch is the default for how many further items become visible
// each time the cursor reaches the end of the rendered window. Keeps
// redraw cost flat no matter how many pages are loaded. Overridable via
// the render_batch config key.
const RenderBatch = 30

// ParseViewMode parses a persisted mode name, defaulting to card view.
func ParseViewMode(s string) ViewMode {
	switch s {
	case "icon":
		return IconMode
	case "list":
		return ListMode
	default:
		return CardMode
	}
}

func (v ViewMode) String() string {
	switch v {
	case IconMode:
		return "icon"
	case ListMode:
		return "list"
	default:
		return "card"
	}
}

// next cycles card -> icon -> list -> card.
func (v ViewMode) next() ViewMode {
	switch v {
	case CardMode:
		return IconMode
	case IconMode:
		return ListMode
	default:
		return CardMode
	}
}

// columns returns how many grid columns the mode uses at the given
// terminal width and zoom level. Card and list modes are single-column.
func (v ViewMode) columns(width, zoom int) int {
	if v != IconMode {
		return 1
	}
	cell := iconCellWidth(zoom)
	cols := width / cell
	if cols < 1 {
		cols = 1
	}
	return cols
}

// iconCellWidth grows with zoom so fewer, wider cells fit per row.
func iconCellWidth(zoom int) int {
	return 12 + zoom*4
}

// visibleCount is the render-window invariant: never more than the
// current limit, never more than exists.
func visibleCount(limit, total int) int {
	if limit < total {
		return limit
	}
	return total
}

// renderLibrary renders the visible window of the filtered list in the
// current mode with the cursor row highlighted.
func (m *Model) renderLibrary() string {
	games := m.snap.Filtered
	n := visibleCount(m.renderLimit, len(games))
	if n == 0 {
		return styles.dim.Render("No games match.")
	}
	window := games[:n]

	var body string
	switch m.mode {
	case IconMode:
		body = m.renderIconGrid(window)
	case ListMode:
		body = m.renderListRows(window)
	default:
		body = m.renderCards(window)
	}

	if n < len(games) || m.snap.Cursor.HasNext {
		body += "\n" + styles.dim.Render(fmt.Sprintf("… %d of %d shown", n, m.snap.Count))
	}
	return body
}

func (m *Model) renderCards(window []models.Game) string {
	var b strings.Builder
	for i := range window {
		g := &window[i]
		line := fmt.Sprintf("%s %s", statusDot(g.StatusColor), g.Name)
		meta := fmt.Sprintf("   %s · %s · %s",
			g.ID, formatter.SizeLabel(g), formatter.FormatDateDisplay(g.EffectiveReleaseDate()))
		if m.zoom >= 3 && g.DisplayVersion != "" {
			meta += " · v" + g.DisplayVersion
		}
		if m.zoom >= 4 && len(g.Category) > 0 {
			meta += " · " + strings.Join(g.Category, ", ")
		}
		block := line + "\n" + styles.dim.Render(meta)
		if i == m.cursor {
			block = styles.selected.Render(line) + "\n" + styles.dim.Render(meta)
		}
		b.WriteString(block)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderIconGrid(window []models.Game) string {
	cols := m.mode.columns(m.width, m.zoom)
	cell := iconCellWidth(m.zoom)

	var b strings.Builder
	for i := range window {
		g := &window[i]
		name := runewidth.Truncate(g.Name, cell-3, "…")
		entry := fmt.Sprintf("%s %-*s", statusDot(g.StatusColor), cell-2, name)
		if i == m.cursor {
			entry = styles.selected.Render(entry)
		}
		b.WriteString(entry)
		if (i+1)%cols == 0 {
			b.WriteString("\n")
		}
	}
	if len(window)%cols != 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderListRows(window []models.Game) string {
	var b strings.Builder
	for i := range window {
		g := &window[i]
		row := fmt.Sprintf("%s %-40.40s %-18s %10s  %s",
			statusDot(g.StatusColor), g.Name, g.ID,
			formatter.SizeLabel(g), formatter.FormatDateDisplay(g.EffectiveReleaseDate()))
		if i == m.cursor {
			row = styles.selected.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

// renderHeader shows the count, filters, sort and the job activity
// indicator.
func (m *Model) renderHeader() string {
	title := styles.title.Render(m.tr("Library"))

	parts := []string{fmt.Sprintf("%d %s", m.snap.Count, m.tr("games"))}
	if m.snap.Filters.Query != "" {
		parts = append(parts, fmt.Sprintf("%s: %q", m.tr("search"), m.snap.Filters.Query))
	}
	if m.snap.Filters.Genre != "" {
		parts = append(parts, m.tr("genre")+": "+m.snap.Filters.Genre)
	}
	if m.snap.Filters.Tag != "" {
		parts = append(parts, m.tr("tag")+": "+m.snap.Filters.Tag)
	}
	if name := statusFilterName(m.snap.Filters); name != "" {
		parts = append(parts, m.tr(name))
	}
	parts = append(parts, m.tr("sort")+": "+m.snap.Sort.String(), m.tr("view")+": "+m.mode.String())
	if m.jobsSnap.HasActive {
		parts = append(parts, styles.warn.Render("⟳ "+m.tr("jobs running")))
	}
	if m.snap.Legacy {
		parts = append(parts, styles.dim.Render(m.tr("legacy endpoint")))
	}
	return title + "\n" + styles.help.Render(strings.Join(parts, " · "))
}

func statusFilterName(f engine.Filters) string {
	switch f.StatusFilter() {
	case engine.FilterMissingBase:
		return "missing base"
	case engine.FilterPendingUpdate:
		return "pending updates"
	case engine.FilterPendingDLC:
		return "pending DLC"
	case engine.FilterRedundant:
		return "redundant"
	}
	return ""
}
