package tui

import (
	"github.com/kruzic-io/kruzic/internal/dispatcher"
	"github.com/kruzic-io/kruzic/internal/models"
)

// UserMsg replaces the identity panel.
type UserMsg struct {
	User models.UserView
}

// StatusMsg updates the connectivity indicator and its caption.
type StatusMsg struct {
	Status models.Status
}

// DataMsg replaces the data list.
type DataMsg struct {
	Items []models.DataItem
}

// ValueMsg writes a fetched value into the value input.
type ValueMsg struct {
	Value string
}

// LogMsg adds one entry to the top of the log panel.
type LogMsg struct {
	Entry models.LogEntry
}

// ClearLogMsg empties the log panel.
type ClearLogMsg struct{}

// actionDoneMsg signals that a dispatched action returned.
type actionDoneMsg struct{}

// TestsFinishedMsg carries the outcome of a test run.
type TestsFinishedMsg struct {
	Report dispatcher.TestReport
}

// clearFlashMsg hides the status bar flash it was scheduled for.
type clearFlashMsg struct {
	seq int
}
