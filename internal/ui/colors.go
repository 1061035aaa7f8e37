package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fernandodimas/myfoil-tui/internal/models"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	help     lipgloss.Style
	selected lipgloss.Style
	dim      lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:    NewBold(t).MarginBottom(1),
		ok:       NewBold(s),
		err:      NewBold(e),
		warn:     NewStyle(w),
		help:     NewEm(h),
		selected: lipgloss.NewStyle().Reverse(true),
		dim:      NewStyle(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// statusDot renders the colored ownership indicator for a game.
func statusDot(color string) string {
	switch color {
	case models.StatusGreen:
		return styles.ok.Render("●")
	case models.StatusOrange:
		return styles.warn.Render("●")
	default:
		return styles.dim.Render("●")
	}
}
