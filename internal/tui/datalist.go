package tui

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/kruzic-io/kruzic/internal/models"
)

// DataList is the saved-data component of the left panel. Each row is
// "key: value" with a delete control on the selected row.
type DataList struct {
	items        []models.DataItem
	cursor       int
	scrollOffset int
	height       int
}

// NewDataList creates an empty data list.
func NewDataList() *DataList {
	return &DataList{}
}

// SetItems replaces the rows. The cursor stays on the same key when it
// survived the refresh.
func (dl *DataList) SetItems(items []models.DataItem) {
	selected := ""
	if item, ok := dl.Selected(); ok {
		selected = item.Key
	}

	dl.items = items
	dl.cursor = 0
	for i, item := range items {
		if item.Key == selected {
			dl.cursor = i
			break
		}
	}
	dl.ensureVisible()
}

// SetHeight sets the visible height.
func (dl *DataList) SetHeight(h int) {
	dl.height = h
	dl.ensureVisible()
}

// Len returns the number of rows.
func (dl *DataList) Len() int {
	return len(dl.items)
}

// Selected returns the row under the cursor.
func (dl *DataList) Selected() (models.DataItem, bool) {
	if dl.cursor < 0 || dl.cursor >= len(dl.items) {
		return models.DataItem{}, false
	}
	return dl.items[dl.cursor], true
}

// MoveUp moves the cursor up.
func (dl *DataList) MoveUp() {
	if dl.cursor > 0 {
		dl.cursor--
		dl.ensureVisible()
	}
}

// MoveDown moves the cursor down.
func (dl *DataList) MoveDown() {
	if dl.cursor < len(dl.items)-1 {
		dl.cursor++
		dl.ensureVisible()
	}
}

func (dl *DataList) ensureVisible() {
	if dl.height <= 0 {
		return
	}
	if dl.cursor < dl.scrollOffset {
		dl.scrollOffset = dl.cursor
	}
	if dl.cursor >= dl.scrollOffset+dl.height {
		dl.scrollOffset = dl.cursor - dl.height + 1
	}
	if maxOffset := len(dl.items) - dl.height; dl.scrollOffset > maxOffset {
		dl.scrollOffset = max(maxOffset, 0)
	}
}

// View renders the visible rows. focused controls whether the cursor row
// is highlighted.
func (dl *DataList) View(width int, focused bool) string {
	if len(dl.items) == 0 {
		return placeholderStyle.Render(models.NoDataPlaceholder)
	}

	end := len(dl.items)
	if dl.height > 0 && dl.scrollOffset+dl.height < end {
		end = dl.scrollOffset + dl.height
	}

	lines := make([]string, 0, end-dl.scrollOffset)
	for i := dl.scrollOffset; i < end; i++ {
		lines = append(lines, dl.renderRow(dl.items[i], width, focused && i == dl.cursor))
	}
	return strings.Join(lines, "\n")
}

func (dl *DataList) renderRow(item models.DataItem, width int, selected bool) string {
	control := ""
	if selected {
		control = " " + dataDeleteStyle.Render("×")
	}
	room := width - lipgloss.Width(control)
	if room < 1 {
		room = 1
	}

	row := dataKeyStyle.Render(displayKey(item.Key)) + ": " + dataValueStyle.Render(item.DisplayValue())
	row = ansi.Truncate(row, room, "…")

	if !selected {
		return row
	}
	gap := room - lipgloss.Width(row)
	if gap < 0 {
		gap = 0
	}
	return selectedItemStyle.Render(row + strings.Repeat(" ", gap) + control)
}

// displayKey keeps a key on one row: keys holding control characters are
// shown quoted and escaped.
func displayKey(key string) string {
	if strings.IndexFunc(key, unicode.IsControl) >= 0 {
		return strconv.Quote(key)
	}
	return key
}
