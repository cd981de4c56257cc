package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// overlay is a modal drawn over the page.
type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
)

const ansiReset = "\x1b[0m"

// drawOver centers box on a dimmed copy of page. Page rows under the box
// keep the text to its left and right.
func drawOver(page, box string, width, height int) string {
	rows := strings.Split(page, "\n")
	for i, row := range rows {
		rows[i] = overlayDimStyle.Render(ansi.Strip(row))
	}

	boxWidth, boxHeight := lipgloss.Size(box)
	top := max((height-boxHeight)/2, 1)
	left := max((width-boxWidth)/2, 1)

	for i, line := range strings.Split(box, "\n") {
		y := top + i
		if y >= len(rows) {
			break
		}
		bg := rows[y]
		bgWidth := lipgloss.Width(bg)

		prefix := ansi.Truncate(bg, left, "")
		if pad := left - lipgloss.Width(prefix); pad > 0 {
			prefix += strings.Repeat(" ", pad)
		}
		suffix := ""
		if end := left + lipgloss.Width(line); end < bgWidth {
			suffix = ansi.Cut(bg, end, bgWidth)
		}
		rows[y] = prefix + ansiReset + line + ansiReset + suffix
	}
	return strings.Join(rows, "\n")
}
