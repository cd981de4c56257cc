package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kruzic-io/kruzic/internal/models"
)

func useTempHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)
	return dir
}

func TestGlobalDirHonoursEnv(t *testing.T) {
	dir := useTempHome(t)

	got, err := GlobalDir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	path, err := GlobalSessionFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, SessionFileName), path)
}

func TestLoadSettingsDefaults(t *testing.T) {
	useTempHome(t)

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, models.BackendMemory, s.Daemon.Store.Backend)
	assert.Equal(t, 24*time.Hour, s.Daemon.TokenTTL)
	assert.Equal(t, "localhost", s.Daemon.Host)
}

func TestSaveAndLoadSettings(t *testing.T) {
	useTempHome(t)

	s := models.NewSettings()
	s.Daemon.Store.Backend = models.BackendSQLite
	s.Daemon.Port = 7411
	s.Platform.Address = "localhost:7411"
	require.NoError(t, SaveSettings(s))

	loaded, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, models.BackendSQLite, loaded.Daemon.Store.Backend)
	assert.Equal(t, 7411, loaded.Daemon.Port)
	assert.Equal(t, "localhost:7411", loaded.Platform.Address)
}

func TestPartialSettingsKeepDefaults(t *testing.T) {
	dir := useTempHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte("daemon:\n  port: 9000\n"), 0644))

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, 9000, s.Daemon.Port)
	assert.Equal(t, models.BackendMemory, s.Daemon.Store.Backend)
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Settings)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*models.Settings) {}},
		{name: "unknown backend", mutate: func(s *models.Settings) { s.Daemon.Store.Backend = "etcd" }, wantErr: true},
		{name: "redis without addr", mutate: func(s *models.Settings) { s.Daemon.Store.Backend = models.BackendRedis }, wantErr: true},
		{name: "redis with addr", mutate: func(s *models.Settings) {
			s.Daemon.Store.Backend = models.BackendRedis
			s.Daemon.Store.RedisAddr = "localhost:6379"
		}},
		{name: "http disabled", mutate: func(s *models.Settings) { s.Daemon.HTTPPort = -1 }},
		{name: "bad http port", mutate: func(s *models.Settings) { s.Daemon.HTTPPort = -5 }, wantErr: true},
		{name: "bad level", mutate: func(s *models.Settings) { s.Logging.Level = "trace" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := models.NewSettings()
			tt.mutate(s)
			err := ValidateSettings(s)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadSessionGeneratesStableDeviceID(t *testing.T) {
	useTempHome(t)

	first, err := LoadSession()
	require.NoError(t, err)
	require.NotEmpty(t, first.DeviceID)
	assert.False(t, first.SignedIn())

	second, err := LoadSession()
	require.NoError(t, err)
	assert.Equal(t, first.DeviceID, second.DeviceID)
}

func TestSignInAndOutSession(t *testing.T) {
	useTempHome(t)

	s, err := LoadSession()
	require.NoError(t, err)
	require.NoError(t, SignInSession(s, "igrac", "tok"))

	loaded, err := LoadSession()
	require.NoError(t, err)
	assert.True(t, loaded.SignedIn())
	assert.Equal(t, "igrac", loaded.Username)
	require.NotNil(t, loaded.SignedInAt)

	require.NoError(t, SignOutSession(loaded))
	again, err := LoadSession()
	require.NoError(t, err)
	assert.False(t, again.SignedIn())
	assert.Equal(t, s.DeviceID, again.DeviceID)
}

func TestLoadOrCreateDirectory(t *testing.T) {
	dir := useTempHome(t)
	path := filepath.Join(dir, PlayersFileName)

	created, err := LoadOrCreateDirectory(path)
	require.NoError(t, err)
	require.Len(t, created.Players, 1)
	assert.True(t, FileExists(path))

	loaded, err := LoadOrCreateDirectory(path)
	require.NoError(t, err)
	assert.Equal(t, created.Players[0].ID, loaded.Players[0].ID)
}

func TestLoadDirectoryRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PlayersFileName)
	body := "players:\n  - {id: a, username: x}\n  - {id: b, username: x}\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	_, err := LoadDirectory(path)
	assert.ErrorContains(t, err, "duplicate username")
}

func TestSigningKeyIsPersisted(t *testing.T) {
	useTempHome(t)

	first, err := LoadOrCreateSigningKey()
	require.NoError(t, err)
	assert.Len(t, first, 32)

	second, err := LoadOrCreateSigningKey()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDaemonInfoRoundTrip(t *testing.T) {
	useTempHome(t)

	info, err := LoadDaemonInfo()
	require.NoError(t, err)
	assert.Nil(t, info)

	require.NoError(t, SaveDaemonInfo(models.NewDaemonInfo("localhost", 7411, 7412, os.Getpid(), models.BackendMemory)))

	running, loaded, err := IsDaemonRunning()
	require.NoError(t, err)
	assert.True(t, running)
	assert.Equal(t, 7412, loaded.HTTPPort)

	require.NoError(t, RemoveDaemonInfo())
	require.NoError(t, RemoveDaemonInfo())
}

func TestSaveDaemonInfoNeedsPort(t *testing.T) {
	useTempHome(t)

	assert.Error(t, SaveDaemonInfo(nil))
	assert.Error(t, SaveDaemonInfo(models.NewDaemonInfo("localhost", 0, -1, os.Getpid(), models.BackendMemory)))

	info, err := LoadDaemonInfo()
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestStaleDaemonInfoIsRemoved(t *testing.T) {
	useTempHome(t)
	require.NoError(t, SaveDaemonInfo(models.NewDaemonInfo("localhost", 7411, -1, 0, models.BackendMemory)))

	running, stale, err := IsDaemonRunning()
	require.NoError(t, err)
	assert.False(t, running)
	require.NotNil(t, stale)
	assert.Equal(t, 7411, stale.Port)

	info, err := LoadDaemonInfo()
	require.NoError(t, err)
	assert.Nil(t, info)
}
