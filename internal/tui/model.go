package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kruzic-io/kruzic/internal/dispatcher"
	"github.com/kruzic-io/kruzic/internal/models"
)

// Focus targets, in Tab order.
const (
	focusKey = iota
	focusValue
	focusData
	focusLog
	focusCount
)

// Minimum terminal size.
const (
	minWidth  = 80
	minHeight = 24
)

const flashDuration = 5 * time.Second

// Model is the root Bubbletea model for the demo page.
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	session *dispatcher.Session
	info    Info

	// Views owned by the dispatcher
	user   models.UserView
	status models.Status

	// UI state
	focus         int
	activeOverlay overlay
	width         int
	height        int

	// Status display
	flash    string
	flashErr bool
	flashSeq int
	running  int

	// Child components
	keyInput   textinput.Model
	valueInput textinput.Model
	dataList   *DataList
	logViewer  *LogViewer
}

// NewModel creates the initial model. cancel is called on quit so that
// in-flight calls are abandoned.
func NewModel(ctx context.Context, cancel context.CancelFunc, session *dispatcher.Session, info Info) Model {
	keyInput := textinput.New()
	keyInput.Placeholder = "key"
	keyInput.Prompt = ""
	keyInput.Focus()

	valueInput := textinput.New()
	valueInput.Placeholder = `value or JSON, e.g. {"score": 10}`
	valueInput.Prompt = ""

	return Model{
		ctx:        ctx,
		cancel:     cancel,
		session:    session,
		info:       info,
		keyInput:   keyInput,
		valueInput: valueInput,
		dataList:   NewDataList(),
		logViewer:  NewLogViewer(),
		running:    1,
	}
}

// Init starts the ready handshake. NewModel already counts it as running.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		initCmd(m.ctx, m.session),
	)
}

// dispatch wraps an action command so the busy counter stays accurate.
// It must be called from Update, which owns the counter.
func (m *Model) dispatch(cmd tea.Cmd) tea.Cmd {
	m.running++
	return cmd
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateDimensions()
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd

	// ── Dispatcher views ──────────────────────────────────────────
	case UserMsg:
		m.user = msg.User
		return m, nil

	case StatusMsg:
		m.status = msg.Status
		return m, nil

	case DataMsg:
		m.dataList.SetItems(msg.Items)
		return m, nil

	case ValueMsg:
		m.valueInput.SetValue(msg.Value)
		m.valueInput.CursorEnd()
		return m, nil

	case LogMsg:
		m.logViewer.Prepend(msg.Entry)
		return m, nil

	case ClearLogMsg:
		m.logViewer.Clear()
		return m, nil

	// ── Action completion ─────────────────────────────────────────
	case actionDoneMsg:
		m.running--
		return m, nil

	case TestsFinishedMsg:
		m.running--
		return m, m.showFlash(testSummary(msg.Report), !msg.Report.OK())

	case clearFlashMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
			m.flashErr = false
		}
		return m, nil
	}

	// Cursor blink and other internal input messages
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.keyInput, cmd = m.keyInput.Update(msg)
	cmds = append(cmds, cmd)
	m.valueInput, cmd = m.valueInput.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) showFlash(text string, isErr bool) tea.Cmd {
	m.flashSeq++
	m.flash = text
	m.flashErr = isErr
	return clearFlashAfter(m.flashSeq, flashDuration)
}

// handleKey processes key events.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Overlay captures everything except quit
	if m.activeOverlay != overlayNone {
		return m.handleOverlayKey(msg)
	}

	// Global shortcuts (always work)
	switch {
	case key.Matches(msg, globalKeys.Quit):
		return m.doQuit()

	case key.Matches(msg, globalKeys.Help):
		m.activeOverlay = overlayHelp
		return nil

	case key.Matches(msg, globalKeys.Tab):
		m.setFocus((m.focus + 1) % focusCount)
		return nil

	case msg.Type == tea.KeyShiftTab:
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return nil
	}

	if cmd, ok := m.handleActionKey(msg); ok {
		return cmd
	}

	switch m.focus {
	case focusKey:
		var cmd tea.Cmd
		m.keyInput, cmd = m.keyInput.Update(msg)
		return cmd
	case focusValue:
		var cmd tea.Cmd
		m.valueInput, cmd = m.valueInput.Update(msg)
		return cmd
	case focusData:
		return m.handleDataListKey(msg)
	case focusLog:
		return m.handleLogKey(msg)
	}
	return nil
}

// handleActionKey maps the action shortcuts to dispatcher operations. The
// inputs are read here, on the update loop, so a slow call never sees
// later edits.
func (m *Model) handleActionKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, actionKeys.Set):
		return m.dispatch(setDataCmd(m.ctx, m.session, m.keyInput.Value(), m.valueInput.Value())), true
	case key.Matches(msg, actionKeys.Get):
		return m.dispatch(getDataCmd(m.ctx, m.session, m.keyInput.Value())), true
	case key.Matches(msg, actionKeys.Delete):
		return m.dispatch(deleteDataCmd(m.ctx, m.session, m.keyInput.Value())), true
	case key.Matches(msg, actionKeys.List):
		return m.dispatch(refreshDataCmd(m.ctx, m.session)), true
	case key.Matches(msg, actionKeys.Test):
		return m.dispatch(runTestsCmd(m.ctx, m.session)), true
	case key.Matches(msg, actionKeys.RefreshUser):
		return m.dispatch(refreshUserCmd(m.ctx, m.session)), true
	case key.Matches(msg, actionKeys.ClearLog):
		return m.dispatch(clearLogCmd(m.session)), true
	}
	return nil, false
}

func (m *Model) handleDataListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, dataListKeys.Up):
		m.dataList.MoveUp()
	case key.Matches(msg, dataListKeys.Down):
		m.dataList.MoveDown()
	case key.Matches(msg, dataListKeys.Load):
		if item, ok := m.dataList.Selected(); ok {
			m.keyInput.SetValue(item.Key)
			m.valueInput.SetValue(dispatcher.FormatValue(item.Value))
			m.setFocus(focusValue)
		}
	case key.Matches(msg, dataListKeys.Delete):
		if item, ok := m.dataList.Selected(); ok {
			return m.dispatch(deleteItemCmd(m.ctx, m.session, item.Key))
		}
	}
	return nil
}

func (m *Model) handleLogKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, logKeys.Up):
		m.logViewer.ScrollUp()
	case key.Matches(msg, logKeys.Down):
		m.logViewer.ScrollDown()
	case key.Matches(msg, logKeys.PageUp):
		m.logViewer.PageUp()
	case key.Matches(msg, logKeys.PageDown):
		m.logViewer.PageDown()
	case key.Matches(msg, logKeys.Top):
		m.logViewer.GotoNewest()
	}
	return nil
}

func (m *Model) handleOverlayKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, globalKeys.Quit):
		return m.doQuit()
	case msg.Type == tea.KeyEscape, key.Matches(msg, globalKeys.Help):
		m.activeOverlay = overlayNone
	}
	return nil
}

func (m *Model) setFocus(f int) {
	m.focus = f
	m.keyInput.Blur()
	m.valueInput.Blur()
	switch f {
	case focusKey:
		m.keyInput.Focus()
	case focusValue:
		m.valueInput.Focus()
	}
}

func (m *Model) doQuit() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	return tea.Quit
}

func (m *Model) updateDimensions() {
	layout := newPageLayout(m.width, m.height)
	m.keyInput.Width = layout.inputWidth()
	m.valueInput.Width = layout.inputWidth()
	m.dataList.SetHeight(layout.dataRows())
	m.logViewer.SetSize(layout.logInner(), layout.innerHeight())
}

// ── View ─────────────────────────────────────────────────────────

// View renders the TUI.
func (m Model) View() string {
	// Minimum size check
	if m.width < minWidth || m.height < minHeight {
		sizeStr := fmt.Sprintf("%dx%d", m.width, m.height)
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(colorYellow).
			Render(lipgloss.JoinVertical(lipgloss.Center,
				"Terminal too small",
				lipgloss.NewStyle().Foreground(colorDim).Render(
					fmt.Sprintf("Need %dx%d, have ", minWidth, minHeight)+lipgloss.NewStyle().Bold(true).Render(sizeStr),
				),
			))
	}

	layout := newPageLayout(m.width, m.height)

	header := renderHeader(m.status, m.info, m.running > 0, m.width)
	body := renderBody(m.renderStoragePanel(layout.storageInner()), m.logViewer.View(), layout, m.focus == focusLog)
	statusBar := renderStatusBar(&m, m.width)

	view := lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)

	if m.activeOverlay == overlayHelp {
		return drawOver(view, renderHelp(m.width), m.width, m.height)
	}
	return view
}

func (m Model) renderStoragePanel(width int) string {
	var b strings.Builder

	b.WriteString(sectionHeaderStyle.Render("User"))
	b.WriteString("\n")
	b.WriteString(renderField("Signed in", m.user.SignedInText()))
	b.WriteString(renderField("User ID", m.user.UserIDText()))
	b.WriteString(renderField("Name", m.user.DisplayNameText()))
	b.WriteString("\n")

	b.WriteString(m.renderInput("Key", m.keyInput, m.focus == focusKey))
	b.WriteString(m.renderInput("Value", m.valueInput, m.focus == focusValue))
	b.WriteString("\n")

	header := "Data"
	if n := m.dataList.Len(); n > 0 {
		header = fmt.Sprintf("Data (%d)", n)
	}
	b.WriteString(sectionHeaderStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(m.dataList.View(width, m.focus == focusData))

	return b.String()
}

func renderField(label, value string) string {
	return fieldLabelStyle.Render(label) + fieldValueStyle.Render(value) + "\n"
}

func (m Model) renderInput(label string, input textinput.Model, focused bool) string {
	style := inputLabelStyle
	if focused {
		style = focusedLabelStyle
	}
	return style.Render(label) + " " + input.View() + "\n"
}
