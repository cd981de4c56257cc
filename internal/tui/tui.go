// Package tui implements the interactive demo page for Kružić.
package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/kruzic-io/kruzic/internal/dispatcher"
	"github.com/kruzic-io/kruzic/internal/models"
	"github.com/kruzic-io/kruzic/internal/sdk"
)

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// programView is the dispatcher.View of the TUI. Every update becomes a
// message for the running program.
type programView struct {
	send func(tea.Msg)
}

var _ dispatcher.View = (*programView)(nil)

func (v *programView) ShowUser(u models.UserView)   { v.send(UserMsg{User: u}) }
func (v *programView) ShowStatus(s models.Status)   { v.send(StatusMsg{Status: s}) }
func (v *programView) ShowData(d []models.DataItem) { v.send(DataMsg{Items: d}) }
func (v *programView) ShowValue(s string)           { v.send(ValueMsg{Value: s}) }
func (v *programView) AppendLog(e models.LogEntry)  { v.send(LogMsg{Entry: e}) }
func (v *programView) ClearLog()                    { v.send(ClearLogMsg{}) }

// Info describes the connection shown in the header.
type Info struct {
	Address  string
	DeviceID string
	Username string
}

// Run launches the demo page on top of client and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, client sdk.Client, info Info, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ref := &programRef{}
	session := dispatcher.New(client, &programView{send: ref.Send}, dispatcher.WithLogger(logger))
	model := NewModel(ctx, cancel, session, info)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	// Store program reference for goroutine sends
	ref.Set(p)
	defer ref.Clear()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
