package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/kruzic-io/kruzic/internal/models"
)

// LogViewer is the read-only demo log. The newest entry is on top.
type LogViewer struct {
	entries  []models.LogEntry
	viewport viewport.Model
	width    int
	height   int
}

// NewLogViewer creates an empty log viewer.
func NewLogViewer() *LogViewer {
	vp := viewport.New(80, 24)
	return &LogViewer{
		viewport: vp,
	}
}

// SetSize updates dimensions.
func (l *LogViewer) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.viewport.Width = width
	l.viewport.Height = height
	l.render()
}

// Prepend adds entry on top. A reader scrolled down keeps their place.
func (l *LogViewer) Prepend(entry models.LogEntry) {
	l.entries = append([]models.LogEntry{entry}, l.entries...)
	atTop := l.viewport.AtTop()
	offset := l.viewport.YOffset
	l.render()
	if !atTop {
		l.viewport.SetYOffset(offset + 1)
	}
}

// Clear removes every entry.
func (l *LogViewer) Clear() {
	l.entries = nil
	l.render()
	l.viewport.GotoTop()
}

// Entries returns the entries, newest first.
func (l *LogViewer) Entries() []models.LogEntry {
	return l.entries
}

// ScrollUp scrolls towards newer entries.
func (l *LogViewer) ScrollUp() {
	l.viewport.LineUp(1)
}

// ScrollDown scrolls towards older entries.
func (l *LogViewer) ScrollDown() {
	l.viewport.LineDown(1)
}

// PageUp scrolls half a page towards newer entries.
func (l *LogViewer) PageUp() {
	l.viewport.HalfViewUp()
}

// PageDown scrolls half a page towards older entries.
func (l *LogViewer) PageDown() {
	l.viewport.HalfViewDown()
}

// GotoNewest scrolls back to the top.
func (l *LogViewer) GotoNewest() {
	l.viewport.GotoTop()
}

// View renders the viewport.
func (l *LogViewer) View() string {
	return l.viewport.View()
}

func (l *LogViewer) render() {
	lines := make([]string, len(l.entries))
	for i, e := range l.entries {
		lines[i] = renderLogEntry(e, l.width)
	}
	l.viewport.SetContent(strings.Join(lines, "\n"))
}

func renderLogEntry(e models.LogEntry, width int) string {
	line := logTimeStyle.Render(e.Clock()) + " " + logKindStyle(e.Kind).Render("["+string(e.Kind)+"]") + " " + e.Message
	if width > 0 {
		line = ansi.Truncate(line, width, "…")
	}
	return line
}

func logKindStyle(kind models.LogKind) lipgloss.Style {
	switch kind {
	case models.LogSuccess:
		return logSuccessStyle
	case models.LogError:
		return logErrorStyle
	default:
		return logCallStyle
	}
}
