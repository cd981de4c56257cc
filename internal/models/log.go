// Package models contains shared data structures used across the application.
package models

import (
	"fmt"
	"time"
)

// LogKind classifies a demo log line.
type LogKind string

// Log kinds, in the order an operation normally produces them.
const (
	LogCall    LogKind = "call"
	LogSuccess LogKind = "success"
	LogError   LogKind = "error"
)

// LogEntry is one line of the demo log panel. Entries are never mutated
// after creation; the panel shows them newest first.
type LogEntry struct {
	Time    time.Time
	Kind    LogKind
	Message string
}

// NewLogEntry creates a log entry stamped with t.
func NewLogEntry(t time.Time, kind LogKind, msg string) LogEntry {
	return LogEntry{Time: t, Kind: kind, Message: msg}
}

// Clock returns the wall-clock time of the entry as shown in the panel.
func (e LogEntry) Clock() string {
	return e.Time.Local().Format("15:04:05")
}

// String renders the entry as "15:04:05 [kind] message".
func (e LogEntry) String() string {
	return fmt.Sprintf("%s [%s] %s", e.Clock(), e.Kind, e.Message)
}
