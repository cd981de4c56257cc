package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kruzic-io/kruzic/internal/buildinfo"
	"github.com/kruzic-io/kruzic/internal/config"
	"github.com/kruzic-io/kruzic/internal/daemon/identity"
	"github.com/kruzic-io/kruzic/internal/daemon/server"
	"github.com/kruzic-io/kruzic/internal/daemon/store"
	"github.com/kruzic-io/kruzic/internal/daemon/telemetry"
	"github.com/kruzic-io/kruzic/internal/daemon/tray"
	"github.com/kruzic-io/kruzic/internal/daemon/watcher"
	"github.com/kruzic-io/kruzic/internal/models"
)

func runDaemon(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	logger, err := newLogger(settings.Logging.Level, verboseFlag)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Ensure global directory exists
	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}

	// Check if daemon is already running
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("daemon already running on port %d (PID %d)", info.Port, info.PID)
	}

	if foregroundFlag {
		logger.Info("running in foreground mode (no system tray)")
		return runForeground(cmd.Context(), settings, logger)
	}
	logger.Info("running in background mode (with system tray)")
	return runWithTray(settings, logger)
}

// runForeground runs the daemon without a system tray, blocking on signals.
func runForeground(ctx context.Context, settings *models.Settings, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := startDaemon(ctx, settings, logger)
	if err != nil {
		return err
	}
	defer d.close()

	return d.serve(ctx)
}

// runWithTray runs the daemon with a system tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func runWithTray(settings *models.Settings, logger *zap.Logger) error {
	var (
		d        *daemon
		srv      atomic.Pointer[server.Server]
		cancel   context.CancelFunc
		done     = make(chan struct{})
		startErr error
	)

	onStart := func() {
		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())

		var err error
		d, err = startDaemon(ctx, settings, logger)
		if err != nil {
			startErr = err
			close(done)
			tray.Quit()
			return
		}
		srv.Store(d.srv)

		// Serve in background
		go func() {
			defer close(done)
			if err := d.serve(ctx); err != nil {
				logger.Error("server error", zap.Error(err))
			}
			tray.Quit()
		}()

		// Handle OS signals: quit tray on SIGINT/SIGTERM
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			select {
			case sig := <-sigCh:
				logger.Info("received signal, shutting down", zap.Stringer("signal", sig))
				tray.Quit()
			case <-ctx.Done():
			}
		}()
	}

	onExit := func() {
		if cancel == nil {
			return
		}
		cancel()
		<-done
		if d != nil {
			d.close()
		}
	}

	// The tray needs its state before the server exists, so it reads
	// through a pointer filled in by onStart.
	tray.Run(&lazyDaemonState{srv: &srv}, onStart, onExit)
	return startErr
}

// lazyDaemonState defers to the server once onStart has created it.
type lazyDaemonState struct {
	srv *atomic.Pointer[server.Server]
}

func (l *lazyDaemonState) Port() int {
	if s := l.srv.Load(); s != nil {
		return s.Port()
	}
	return 0
}

func (l *lazyDaemonState) PlayerCount() int {
	if s := l.srv.Load(); s != nil {
		return s.PlayerCount()
	}
	return 0
}

func (l *lazyDaemonState) ReadyCount() int64 {
	if s := l.srv.Load(); s != nil {
		return s.ReadyCount()
	}
	return 0
}

func (l *lazyDaemonState) RequestShutdown() {
	if s := l.srv.Load(); s != nil {
		s.RequestShutdown()
	}
}

// daemon is one running kruzicd instance and everything it owns.
type daemon struct {
	logger    *zap.Logger
	store     store.Store
	players   *identity.Directory
	telemetry telemetry.Sink
	watcher   *watcher.Watcher
	srv       *server.Server
	published bool
}

// startDaemon opens storage, loads identity, binds the listeners and
// publishes daemon.yaml. On error everything opened so far is closed.
func startDaemon(ctx context.Context, settings *models.Settings, logger *zap.Logger) (d *daemon, err error) {
	d = &daemon{logger: logger}
	defer func() {
		if err != nil {
			d.close()
			d = nil
		}
	}()

	cfg := settings.Daemon
	if cfg.Store.Backend == models.BackendSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Store.SQLitePath), 0755); err != nil {
			return d, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	if d.store, err = store.Open(ctx, cfg.Store, logger.Named("store")); err != nil {
		return d, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}

	key, err := config.LoadOrCreateSigningKey()
	if err != nil {
		return d, err
	}
	playersPath, err := config.GlobalPlayersFile()
	if err != nil {
		return d, err
	}
	if d.players, err = identity.OpenDirectory(playersPath, logger.Named("identity")); err != nil {
		return d, fmt.Errorf("failed to load players: %w", err)
	}

	if d.telemetry, err = telemetry.New(cfg.Telemetry, buildinfo.Version, logger.Named("telemetry")); err != nil {
		return d, err
	}

	d.srv, err = server.New(server.Options{
		Host:      cfg.Host,
		Port:      cfg.Port,
		HTTPPort:  cfg.HTTPPort,
		Store:     d.store,
		Players:   d.players,
		Tokens:    identity.NewTokens(key, cfg.TokenTTL),
		Telemetry: d.telemetry,
		Logger:    logger,
	})
	if err != nil {
		return d, fmt.Errorf("failed to create server: %w", err)
	}
	if err := d.srv.Listen(ctx); err != nil {
		return d, err
	}

	globalDir, err := config.GlobalDir()
	if err != nil {
		return d, err
	}
	if w, err := watcher.New(globalDir, logger); err != nil {
		logger.Warn("file watching disabled", zap.Error(err))
	} else if err := w.Start(); err != nil {
		logger.Warn("file watching disabled", zap.Error(err))
		w.Stop()
	} else {
		d.watcher = w
	}

	info := models.NewDaemonInfo(cfg.Host, d.srv.Port(), d.srv.HTTPPort(), os.Getpid(), cfg.Store.Backend)
	if err := config.SaveDaemonInfo(info); err != nil {
		return d, fmt.Errorf("failed to write daemon info: %w", err)
	}
	d.published = true

	logger.Info("daemon started",
		zap.String("version", buildinfo.Version),
		zap.String("host", cfg.Host),
		zap.Int("port", info.Port),
		zap.Int("http_port", info.HTTPPort),
		zap.String("store", cfg.Store.Backend),
		zap.Int("players", d.players.Len()),
	)
	return d, nil
}

// serve runs the server and the reload loop until ctx is cancelled.
func (d *daemon) serve(ctx context.Context) error {
	if d.watcher != nil {
		go d.watchLoop(ctx)
	}
	err := d.srv.Serve(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (d *daemon) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-d.watcher.Events():
			if !ok {
				return
			}
			switch ev.Type {
			case watcher.EventPlayersChanged:
				// Reload logs its own failures and keeps the old list.
				_ = d.players.Reload()
			case watcher.EventSettingsChanged:
				d.logger.Info("settings changed; restart the daemon to apply them", zap.String("path", ev.Path))
			}
		}
	}
}

// close releases everything the daemon opened, in reverse order.
func (d *daemon) close() {
	if d.published {
		if err := config.RemoveDaemonInfo(); err != nil {
			d.logger.Warn("failed to remove daemon info", zap.Error(err))
		}
	}
	if d.watcher != nil {
		d.watcher.Stop()
	}
	if d.srv != nil {
		d.srv.Stop()
	}
	if d.telemetry != nil {
		if err := d.telemetry.Close(); err != nil {
			d.logger.Warn("failed to flush telemetry", zap.Error(err))
		}
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			d.logger.Warn("failed to close store", zap.Error(err))
		}
	}
	d.logger.Info("daemon stopped")
}
