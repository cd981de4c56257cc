package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kruzic-io/kruzic/internal/models"
)

const appTitle = "Kružić SDK Demo"

func renderHeader(status models.Status, info Info, busy bool, width int) string {
	dot := renderIndicator(status.Indicator)
	title := lipgloss.NewStyle().Bold(true).Render(appTitle)

	text := status.Text
	if text == "" {
		text = "Connecting..."
	}
	caption := lipgloss.NewStyle().Foreground(colorDim).Render(text)
	if busy {
		caption += lipgloss.NewStyle().Foreground(colorYellow).Render(" …")
	}

	left := fmt.Sprintf(" %s %s  %s", dot, title, caption)
	right := renderConnection(info) + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return headerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func renderIndicator(ind models.Indicator) string {
	switch ind {
	case models.IndicatorOK:
		return dotOKStyle.Render("●")
	case models.IndicatorError:
		return dotErrorStyle.Render("●")
	default:
		return dotPendingStyle.Render("●")
	}
}

func renderConnection(info Info) string {
	var parts []string
	if info.Username != "" {
		parts = append(parts, "@"+info.Username)
	} else if info.DeviceID != "" {
		parts = append(parts, "device "+shortID(info.DeviceID))
	}
	if info.Address != "" {
		parts = append(parts, info.Address)
	}
	return lipgloss.NewStyle().Foreground(colorDim).Render(strings.Join(parts, " · "))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
