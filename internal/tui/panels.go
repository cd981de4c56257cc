package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// storageShare is the part of the width given to the storage panel (user,
// inputs and saved data); the log panel takes the rest.
const storageShare = 0.45

const minPanelWidth = 24

// leftChromeLines is the number of storage panel lines above the data rows:
// user section (4 + blank), inputs (2 + blank), data header.
const leftChromeLines = 9

// pageLayout holds the outer sizes of the two panels between the header
// and the status bar.
type pageLayout struct {
	storageWidth int
	logWidth     int
	bodyHeight   int
}

func newPageLayout(width, height int) pageLayout {
	usable := width - 1 // separator column
	storage := max(int(float64(usable)*storageShare), minPanelWidth)
	return pageLayout{
		storageWidth: storage,
		logWidth:     max(usable-storage, minPanelWidth),
		bodyHeight:   max(height-2, 3),
	}
}

// Inner sizes exclude the rounded border.
func (l pageLayout) innerHeight() int  { return max(l.bodyHeight-2, 1) }
func (l pageLayout) storageInner() int { return max(l.storageWidth-2, 1) }
func (l pageLayout) logInner() int     { return max(l.logWidth-2, 1) }

// inputWidth is the room a text input has after its label.
func (l pageLayout) inputWidth() int {
	return max(l.storageInner()-inputLabelStyle.GetWidth()-1, 1)
}

// dataRows is how many saved-data rows fit under the user section and the
// inputs.
func (l pageLayout) dataRows() int {
	return max(l.innerHeight()-leftChromeLines, 1)
}

// renderBody draws the storage and log panels side by side. The border of
// whichever side holds focus is highlighted.
func renderBody(storage, log string, l pageLayout, logFocused bool) string {
	storageBorder, logBorder := focusedBorderStyle, unfocusedBorderStyle
	if logFocused {
		storageBorder, logBorder = unfocusedBorderStyle, focusedBorderStyle
	}

	h := l.innerHeight()
	left := storageBorder.Width(l.storageInner()).Height(h).Render(clip(storage, l.storageInner(), h))
	right := logBorder.Width(l.logInner()).Height(h).Render(clip(log, l.logInner(), h))

	sep := strings.TrimSuffix(strings.Repeat("│\n", lipgloss.Height(left)), "\n")
	return lipgloss.JoinHorizontal(lipgloss.Top, left, separatorStyle.Render(sep), right)
}

// clip cuts content to at most height lines of width cells.
func clip(content string, width, height int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "")
	}
	return strings.Join(lines, "\n")
}
