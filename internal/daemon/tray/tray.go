package tray

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/getlantern/systray"
)

//go:embed icon.png
var iconData []byte

const refreshInterval = 5 * time.Second

var (
	state     DaemonState
	onStart   func()
	onExit    func()
	portItem  *systray.MenuItem
	statsItem *systray.MenuItem
	quitItem  *systray.MenuItem
	stopCh    = make(chan struct{})
)

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStartFn is called when the tray is ready (launch the servers here).
// onExitFn is called when the tray exits (cleanup here).
func Run(s DaemonState, onStartFn, onExitFn func()) {
	state = s
	onStart = onStartFn
	onExit = onExitFn
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func onReady() {
	systray.SetTemplateIcon(iconData, iconData)
	systray.SetTooltip("Kružić platform")

	header := systray.AddMenuItem("Kružić Platform", "")
	header.Disable()

	portItem = systray.AddMenuItem("Starting...", "")
	portItem.Disable()
	statsItem = systray.AddMenuItem("", "")
	statsItem.Disable()

	systray.AddSeparator()
	quitItem = systray.AddMenuItem("Quit", "Shut down the Kružić platform daemon")

	if onStart != nil {
		onStart()
	}

	refresh()
	go loop()
}

func onQuit() {
	close(stopCh)
	if onExit != nil {
		onExit()
	}
}

func loop() {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			refresh()
		case <-quitItem.ClickedCh:
			if state != nil {
				state.RequestShutdown()
			}
		}
	}
}

func refresh() {
	if state == nil {
		return
	}
	portItem.SetTitle(fmt.Sprintf("Running on port: %d", state.Port()))
	statsItem.SetTitle(formatStats(state.PlayerCount(), state.ReadyCount()))
	systray.SetTooltip(formatTooltip(state.Port(), state.PlayerCount()))
}

func formatStats(players int, ready int64) string {
	return fmt.Sprintf("%d players, %d ready calls", players, ready)
}

func formatTooltip(port, players int) string {
	return fmt.Sprintf("Kružić platform on :%d (%d players)", port, players)
}
