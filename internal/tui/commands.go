package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kruzic-io/kruzic/internal/dispatcher"
)

// actionCmd runs op off the update loop. The dispatcher reports progress
// through the program, so the command only signals completion.
func actionCmd(ctx context.Context, op func(context.Context)) tea.Cmd {
	return func() tea.Msg {
		op(ctx)
		return actionDoneMsg{}
	}
}

func initCmd(ctx context.Context, s *dispatcher.Session) tea.Cmd {
	return actionCmd(ctx, s.Init)
}

func refreshUserCmd(ctx context.Context, s *dispatcher.Session) tea.Cmd {
	return actionCmd(ctx, s.RefreshUser)
}

func refreshDataCmd(ctx context.Context, s *dispatcher.Session) tea.Cmd {
	return actionCmd(ctx, s.RefreshData)
}

func setDataCmd(ctx context.Context, s *dispatcher.Session, key, value string) tea.Cmd {
	return actionCmd(ctx, func(ctx context.Context) { s.SetData(ctx, key, value) })
}

func getDataCmd(ctx context.Context, s *dispatcher.Session, key string) tea.Cmd {
	return actionCmd(ctx, func(ctx context.Context) { s.GetData(ctx, key) })
}

func deleteDataCmd(ctx context.Context, s *dispatcher.Session, key string) tea.Cmd {
	return actionCmd(ctx, func(ctx context.Context) { s.DeleteData(ctx, key) })
}

func deleteItemCmd(ctx context.Context, s *dispatcher.Session, key string) tea.Cmd {
	return actionCmd(ctx, func(ctx context.Context) { s.DeleteItem(ctx, key) })
}

// clearLogCmd clears the log off the update loop: the view sends its
// message through the program, which Update must not wait on.
func clearLogCmd(s *dispatcher.Session) tea.Cmd {
	return func() tea.Msg {
		s.ClearLog()
		return actionDoneMsg{}
	}
}

func runTestsCmd(ctx context.Context, s *dispatcher.Session) tea.Cmd {
	return func() tea.Msg {
		return TestsFinishedMsg{Report: s.RunTests(ctx)}
	}
}

func clearFlashAfter(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearFlashMsg{seq: seq}
	})
}

// testSummary is the status bar text for a finished test run.
func testSummary(r dispatcher.TestReport) string {
	if r.Err != nil {
		return "Tests aborted: " + r.Err.Error()
	}
	return fmt.Sprintf("Tests: %d passed, %d failed", r.Passed, r.Failed)
}
