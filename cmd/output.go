package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

var (
	highlightColor = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	subduedColor   = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	okColor        = lipgloss.AdaptiveColor{Light: "#1F8F4E", Dark: "#3FD17F"}
	errorColor     = lipgloss.AdaptiveColor{Light: "#C0262D", Dark: "#FF5F67"}

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(highlightColor).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	okStyle     = lipgloss.NewStyle().Foreground(okColor)
	errorStyle  = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	keyStyle    = lipgloss.NewStyle().Foreground(subduedColor)
)

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(subduedColor)).
		Wrap(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// printPairs writes aligned key/value lines.
func printPairs(w io.Writer, pairs [][2]string) {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}
	for _, p := range pairs {
		fmt.Fprintf(w, "%s  %s\n", keyStyle.Width(width).Render(p[0]), p[1])
	}
}

func printOK(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, okStyle.Render(fmt.Sprintf(format, args...)))
}

// PrintError writes err the way every command reports failures.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("error:"), err.Error())
}

func formatSize(n int64) string {
	if n < 0 {
		return "-"
	}
	return humanize.IBytes(uint64(n))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func formatUnix(sec int64) string {
	if sec <= 0 {
		return "-"
	}
	return formatTime(time.Unix(sec, 0))
}

func formatFlag(v int) string {
	switch v {
	case 1:
		return okStyle.Render("yes")
	case 0:
		return "no"
	}
	return keyStyle.Render("unknown")
}
