// package formatter provides display formatting for dates and sizes plus
// library exports to CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fernandodimas/myfoil-tui/internal/models"
)

// ReleaseStatus classifies a release date relative to today.
type ReleaseStatus int

const (
	ReleaseUnknown ReleaseStatus = iota
	ReleaseUpcoming
	ReleaseOut
)

func (s ReleaseStatus) String() string {
	switch s {
	case ReleaseUpcoming:
		return "Coming Soon"
	case ReleaseOut:
		return "Released"
	default:
		return "Unknown"
	}
}

var (
	isoDateRegex     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	compactDateRegex = regexp.MustCompile(`^\d{8}$`)
)

// Date layouts the server and titledb sources have been seen to emit.
var looseDateLayouts = []string{"2006/01/02", "02/01/2006", "01/02/2006", "20060102"}

// NormalizeDate converts any of the date shapes found in the wild
// (YYYY-MM-DD, YYYYMMDD, YYYY/MM/DD, DD/MM/YYYY, MM/DD/YYYY) to canonical
// YYYY-MM-DD. Unrecognized input is returned unchanged; empty input stays
// empty.
func NormalizeDate(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	if isoDateRegex.MatchString(s) {
		return s
	}

	if compactDateRegex.MatchString(s) {
		return fmt.Sprintf("%s-%s-%s", s[:4], s[4:6], s[6:8])
	}

	for _, layout := range looseDateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.Format("2006-01-02")
		}
	}

	return s
}

// FormatDateDisplay renders a date in DD/MM/YYYY for display. Input in any
// shape NormalizeDate accepts. Unparseable input falls back to "--".
func FormatDateDisplay(input string) string {
	normalized := NormalizeDate(input)
	parsed, err := time.Parse("2006-01-02", normalized)
	if err != nil {
		return "--"
	}
	return parsed.Format("02/01/2006")
}

// ClassifyRelease reports whether a date lies in the future relative to
// now. Comparison is on the compact digit string, matching how the web UI
// compares release dates.
func ClassifyRelease(input string, now time.Time) ReleaseStatus {
	digits := strings.ReplaceAll(NormalizeDate(input), "-", "")
	if len(digits) < 8 {
		return ReleaseUnknown
	}
	digits = digits[:8]
	if _, err := strconv.Atoi(digits); err != nil {
		return ReleaseUnknown
	}

	today := now.Format("20060102")
	if digits > today {
		return ReleaseUpcoming
	}
	return ReleaseOut
}

// FormatSize renders a byte count for display, used when the server omits
// size_formatted. Zero renders as "--".
func FormatSize(size int64) string {
	if size <= 0 {
		return "--"
	}
	return humanize.Bytes(uint64(size))
}

// SizeLabel prefers the server's preformatted size, falling back to a
// locally formatted one.
func SizeLabel(g *models.Game) string {
	if g.SizeFormatted != "" {
		return g.SizeFormatted
	}
	return FormatSize(g.Size)
}

// ExportToCSV converts a game list to CSV with columns: ID, Name, Version, Size, Status, Genres, Release
func ExportToCSV(games []models.Game) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Version", "Size", "Status", "Genres", "Release"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i := range games {
		g := &games[i]
		record := []string{
			g.ID,
			g.Name,
			g.DisplayVersion,
			SizeLabel(g),
			g.StatusColor,
			strings.Join(g.Category, ";"),
			NormalizeDate(g.EffectiveReleaseDate()),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a game list to a Markdown table.
func ExportToMarkdown(title string, games []models.Game) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Games**: %d\n\n", len(games)))

	buf.WriteString("| ID | Name | Version | Size | Status | Release |\n")
	buf.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for i := range games {
		g := &games[i]
		buf.WriteString(fmt.Sprintf("| %s | %s | v%s | %s | %s | %s |\n",
			g.ID,
			strings.ReplaceAll(g.Name, "|", "\\|"),
			g.DisplayVersion,
			SizeLabel(g),
			g.StatusColor,
			FormatDateDisplay(g.EffectiveReleaseDate()),
		))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a game list to plain text, one game per line.
func ExportToText(games []models.Game) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Games: %d\n\n", len(games)))
	for i := range games {
		g := &games[i]
		name := g.Name
		if name == "" {
			name = "Unknown"
		}
		buf.WriteString(fmt.Sprintf("%s  %s  v%s  [%s]\n", g.ID, name, g.DisplayVersion, SizeLabel(g)))
	}

	return buf.Bytes(), nil
}
