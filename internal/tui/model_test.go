package tui

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kruzic-io/kruzic/internal/daemon/server/servertest"
	"github.com/kruzic-io/kruzic/internal/dispatcher"
	"github.com/kruzic-io/kruzic/internal/models"
	"github.com/kruzic-io/kruzic/internal/sdk"
)

const testDevice = "device-tui-0001"

// msgSink collects the messages the dispatcher would send to the program.
type msgSink struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *msgSink) add(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func (s *msgSink) drain() []tea.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.msgs
	s.msgs = nil
	return out
}

type harness struct {
	t        *testing.T
	m        Model
	sink     *msgSink
	ctx      context.Context
	platform *servertest.Platform
	client   sdk.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	platform := servertest.Start(t)
	client := platform.Client(testDevice)

	sink := &msgSink{}
	session := dispatcher.New(client, &programView{send: sink.add})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := &harness{
		t:        t,
		m:        NewModel(ctx, cancel, session, Info{Address: "bufnet", DeviceID: testDevice}),
		sink:     sink,
		ctx:      ctx,
		platform: platform,
		client:   client,
	}
	h.update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

func (h *harness) update(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

// run executes an action command synchronously, then feeds the view
// updates and the completion message back through Update.
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	require.NotNil(h.t, cmd)
	done := cmd()
	for _, msg := range h.sink.drain() {
		h.update(msg)
	}
	h.update(done)
}

func (h *harness) press(k tea.KeyType) tea.Cmd {
	return h.update(tea.KeyMsg{Type: k})
}

func (h *harness) typeText(s string) {
	h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) init() {
	h.t.Helper()
	h.run(initCmd(h.ctx, h.m.session))
}

func (h *harness) stored(key string) (string, bool) {
	h.t.Helper()
	raw, ok, err := h.platform.Store.Get(context.Background(), "device:"+testDevice, key)
	require.NoError(h.t, err)
	return string(raw), ok
}

func (h *harness) logMessages() []string {
	entries := h.m.logViewer.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func TestInitShowsUserAndData(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.client.SetData(context.Background(), "score", 10.0))

	assert.Equal(t, 1, h.m.running)
	h.init()

	assert.Equal(t, 0, h.m.running)
	assert.False(t, h.m.user.SignedIn)
	assert.Equal(t, "null", h.m.user.UserIDText())
	assert.Equal(t, models.IndicatorOK, h.m.status.Indicator)
	assert.Equal(t, dispatcher.StatusConnected, h.m.status.Text)
	assert.Equal(t, 1, h.m.dataList.Len())

	msgs := h.logMessages()
	require.NotEmpty(t, msgs)
	assert.Equal(t, "Initializing SDK...", msgs[len(msgs)-1])
	assert.Equal(t, "listData() = [score]", msgs[0])
}

func TestSetReadsInputsAtKeyPress(t *testing.T) {
	h := newHarness(t)

	h.typeText("score")
	h.press(tea.KeyTab)
	h.typeText("10")
	cmd := h.press(tea.KeyCtrlS)
	assert.Equal(t, 2, h.m.running)

	// Edits after the key press do not reach the pending call.
	h.typeText("0")
	h.run(cmd)

	raw, ok := h.stored("score")
	require.True(t, ok)
	assert.Equal(t, "10", raw)
	assert.Contains(t, h.logMessages(), "Saved: score")
	assert.Equal(t, 1, h.m.dataList.Len())
}

func TestGetWritesValueInput(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.client.SetData(context.Background(), "profile", map[string]any{"level": 3.0}))

	h.typeText("profile")
	h.run(h.press(tea.KeyCtrlG))

	assert.Equal(t, `{"level":3}`, h.m.valueInput.Value())
}

func TestMissingKeyLogsError(t *testing.T) {
	h := newHarness(t)

	h.run(h.press(tea.KeyCtrlD))

	entries := h.m.logViewer.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.LogError, entries[0].Kind)
	assert.Equal(t, "Key is required", entries[0].Message)
}

func TestDataRowDelete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.client.SetData(ctx, "a", "first"))
	require.NoError(t, h.client.SetData(ctx, "b", "second"))
	h.run(h.press(tea.KeyCtrlL))
	require.Equal(t, 2, h.m.dataList.Len())

	h.press(tea.KeyTab)
	h.press(tea.KeyTab)
	require.Equal(t, focusData, h.m.focus)
	h.typeText("j")
	h.run(h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}))

	_, ok := h.stored("b")
	assert.False(t, ok)
	_, ok = h.stored("a")
	assert.True(t, ok)
	assert.Equal(t, 1, h.m.dataList.Len())
	assert.Contains(t, h.logMessages(), `Deleted key "b"`)
}

func TestEnterCopiesRowIntoInputs(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.client.SetData(context.Background(), "name", "Igrač"))
	h.run(h.press(tea.KeyCtrlL))

	h.press(tea.KeyTab)
	h.press(tea.KeyTab)
	h.press(tea.KeyEnter)

	assert.Equal(t, "name", h.m.keyInput.Value())
	assert.Equal(t, "Igrač", h.m.valueInput.Value())
	assert.Equal(t, focusValue, h.m.focus)
}

func TestClearLog(t *testing.T) {
	h := newHarness(t)
	h.init()
	require.NotEmpty(t, h.m.logViewer.Entries())

	h.run(h.press(tea.KeyCtrlK))
	assert.Empty(t, h.m.logViewer.Entries())
	assert.Equal(t, 0, h.m.running)
}

func TestClearLogInRunningProgram(t *testing.T) {
	platform := servertest.Start(t)
	ref := &programRef{}
	session := dispatcher.New(platform.Client(testDevice), &programView{send: ref.Send})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(
		NewModel(ctx, cancel, session, Info{Address: "bufnet", DeviceID: testDevice}),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
	)
	ref.Set(p)
	defer ref.Clear()

	done := make(chan error, 1)
	go func() {
		_, err := p.Run()
		done <- err
	}()
	go func() {
		p.Send(tea.KeyMsg{Type: tea.KeyCtrlK})
		p.Send(tea.KeyMsg{Type: tea.KeyCtrlQ})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("program did not quit after clearing the log")
	}
}

func TestRunTestsFlash(t *testing.T) {
	h := newHarness(t)

	h.run(h.press(tea.KeyCtrlT))

	assert.Equal(t, "Tests: 4 passed, 0 failed", h.m.flash)
	assert.False(t, h.m.flashErr)
	assert.Contains(t, h.logMessages(), "All tests finished!")

	h.update(clearFlashMsg{seq: h.m.flashSeq - 1})
	assert.NotEmpty(t, h.m.flash)
	h.update(clearFlashMsg{seq: h.m.flashSeq})
	assert.Empty(t, h.m.flash)
}

func TestFocusCycle(t *testing.T) {
	h := newHarness(t)

	want := []int{focusValue, focusData, focusLog, focusKey}
	for _, f := range want {
		h.press(tea.KeyTab)
		assert.Equal(t, f, h.m.focus)
	}
	assert.True(t, h.m.keyInput.Focused())
	assert.False(t, h.m.valueInput.Focused())

	h.press(tea.KeyShiftTab)
	assert.Equal(t, focusLog, h.m.focus)
	assert.False(t, h.m.keyInput.Focused())
}

func TestHelpOverlay(t *testing.T) {
	h := newHarness(t)

	h.press(tea.KeyCtrlH)
	assert.Equal(t, overlayHelp, h.m.activeOverlay)
	assert.Contains(t, h.m.View(), "Keyboard Shortcuts")

	// Action keys are swallowed while the overlay is open.
	assert.Nil(t, h.press(tea.KeyCtrlL))

	h.press(tea.KeyEscape)
	assert.Equal(t, overlayNone, h.m.activeOverlay)
}

func TestQuitCancelsCalls(t *testing.T) {
	h := newHarness(t)

	cmd := h.press(tea.KeyCtrlQ)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Error(t, h.ctx.Err())
}

func TestView(t *testing.T) {
	h := newHarness(t)

	view := h.m.View()
	assert.Contains(t, view, appTitle)
	assert.Contains(t, view, "Connecting...")
	assert.Contains(t, view, "Signed in")
	assert.Contains(t, view, models.NoDataPlaceholder)

	h.update(tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.True(t, strings.Contains(h.m.View(), "Terminal too small"))
}
