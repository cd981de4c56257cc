package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(m *Model, width int) string {
	if m.flash != "" {
		if m.flashErr {
			return renderErrorBar(m.flash, width)
		}
		return renderFlashBar(m.flash, width)
	}

	left := " " + getKeyHints(m)

	right := ""
	if m.running > 0 {
		right = lipgloss.NewStyle().Foreground(colorYellow).Render("Working...") + " "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func getKeyHints(m *Model) string {
	if m.activeOverlay != overlayNone {
		return keyHint("Esc", "close")
	}

	base := keyHint("Ctrl+q", "quit") + "  " + keyHint("Ctrl+h", "help") + "  " + keyHint("Tab", "focus")

	switch m.focus {
	case focusKey, focusValue:
		return base + "  " + keyHint("Ctrl+s", "set") + "  " + keyHint("Ctrl+g", "get") + "  " +
			keyHint("Ctrl+d", "delete") + "  " + keyHint("Ctrl+l", "list") + "  " +
			keyHint("Ctrl+t", "tests")
	case focusData:
		return base + "  " + keyHint("j/k", "navigate") + "  " + keyHint("Enter", "edit") + "  " +
			keyHint("x", "delete row")
	case focusLog:
		return base + "  " + keyHint("j/k", "scroll") + "  " + keyHint("g", "newest") + "  " +
			keyHint("Ctrl+k", "clear")
	}
	return base
}

func keyHint(k, desc string) string {
	if k == "" {
		return hintStyle.Render(desc)
	}
	return keyStyle.Render(k) + " " + hintStyle.Render(desc)
}

func renderErrorBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorRed).
		Width(width).
		Render(" " + msg)
}

func renderFlashBar(msg string, width int) string {
	return statusBarStyle.
		Width(width).
		Render(" " + lipgloss.NewStyle().Foreground(colorGreen).Render(msg))
}
