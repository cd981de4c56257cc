package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	keys  []helpKey
}

type helpKey struct {
	key  string
	desc string
}

var helpSections = []helpSection{
	{
		title: "Global",
		keys: []helpKey{
			{"Ctrl+q", "Quit"},
			{"Ctrl+h", "Toggle help"},
			{"Tab", "Cycle focus: key, value, data, log"},
		},
	},
	{
		title: "Actions",
		keys: []helpKey{
			{"Ctrl+s", "Save value under key"},
			{"Ctrl+g", "Load key into value"},
			{"Ctrl+d", "Delete key"},
			{"Ctrl+l", "Reload data list"},
			{"Ctrl+t", "Run all tests"},
			{"Ctrl+r", "Reload user info"},
			{"Ctrl+k", "Clear log"},
		},
	},
	{
		title: "Data List",
		keys: []helpKey{
			{"j/k ↑/↓", "Navigate rows"},
			{"Enter", "Copy row into inputs"},
			{"x", "Delete row"},
		},
	},
	{
		title: "Log",
		keys: []helpKey{
			{"j/k ↑/↓", "Scroll"},
			{"PgUp/PgDn", "Scroll a page"},
			{"g", "Jump to newest"},
		},
	},
}

// renderHelp renders the help overlay content.
func renderHelp(width int) string {
	maxWidth := 60
	if width-4 < maxWidth {
		maxWidth = width - 4
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	title := overlayTitleStyle.Render("Keyboard Shortcuts")
	sections := make([]string, 0, len(helpSections)*4+3)
	sections = append(sections, title)

	for _, sec := range helpSections {
		header := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Render(sec.title)
		sections = append(sections, "", header)

		for _, k := range sec.keys {
			keyCol := lipgloss.NewStyle().
				Width(14).
				Foreground(colorWhite).
				Bold(true).
				Render(k.key)
			descCol := lipgloss.NewStyle().
				Foreground(colorDim).
				Render(k.desc)
			sections = append(sections, "  "+keyCol+descCol)
		}
	}

	sections = append(sections, "", lipgloss.NewStyle().Foreground(colorDim).Render("Press Esc or Ctrl+h to close"))

	content := strings.Join(sections, "\n")
	return overlayStyle.Width(maxWidth).Render(content)
}
