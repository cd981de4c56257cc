package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserViewText(t *testing.T) {
	var anon UserView
	assert.Equal(t, "null", anon.UserIDText())
	assert.Equal(t, "null", anon.DisplayNameText())
	assert.Equal(t, "no", anon.SignedInText())

	id, name := "p-1", "Igrač"
	user := UserView{SignedIn: true, UserID: &id, DisplayName: &name}
	assert.Equal(t, "p-1", user.UserIDText())
	assert.Equal(t, "Igrač", user.DisplayNameText())
	assert.Equal(t, "yes", user.SignedInText())

	empty := ""
	assert.Equal(t, "null", UserView{UserID: &empty}.UserIDText())
}

func TestEncodeValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "string", in: "a<b>", want: `"a<b>"`},
		{name: "number", in: float64(42), want: "42"},
		{name: "nil", in: nil, want: "null"},
		{name: "object", in: map[string]any{"lvl": float64(3)}, want: `{"lvl":3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeValue(tt.in))
		})
	}
	assert.Contains(t, EncodeValue(make(chan int)), "0x")
	assert.Equal(t, `[1,"x"]`, DataItem{Key: "k", Value: []any{float64(1), "x"}}.DisplayValue())
}

func TestLogEntryString(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 5, 7, 0, time.Local)
	e := NewLogEntry(at, LogError, "getData failed")
	assert.Equal(t, "09:05:07", e.Clock())
	assert.Equal(t, "09:05:07 [error] getData failed", e.String())
}

func TestNewDaemonInfo(t *testing.T) {
	info := NewDaemonInfo("localhost", 7411, -1, 99, BackendRedis)
	assert.Equal(t, 1, info.Version)
	assert.Equal(t, -1, info.HTTPPort)
	assert.Equal(t, BackendRedis, info.Backend)
	assert.WithinDuration(t, time.Now(), info.StartedAt, time.Minute)
	assert.Equal(t, "localhost:7411", info.Address())
	assert.Empty(t, info.AdminURL())

	info.HTTPPort = 7412
	assert.Equal(t, "http://localhost:7412/admin/health", info.AdminURL())

	v6 := NewDaemonInfo("::1", 7411, 0, 99, BackendMemory)
	assert.Equal(t, "[::1]:7411", v6.Address())
}

func TestDirectoryLookup(t *testing.T) {
	dir := &Directory{Players: []*Player{{ID: "a", Username: "ana"}, {ID: "b", Username: "bruno"}}}
	assert.Equal(t, "bruno", dir.FindByID("b").Username)
	assert.Equal(t, "a", dir.FindByUsername("ana").ID)
	assert.Nil(t, dir.FindByID("c"))
	assert.Nil(t, dir.FindByUsername("cvijeta"))
}

func TestSessionSignedIn(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.SignedIn())
	assert.False(t, (&Session{DeviceID: "d"}).SignedIn())
	assert.True(t, (&Session{DeviceID: "d", Token: "t"}).SignedIn())
}
