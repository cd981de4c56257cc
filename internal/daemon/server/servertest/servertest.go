// Package servertest runs an in-process platform daemon for tests.
package servertest

import (
	"context"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"github.com/kruzic-io/kruzic/internal/daemon/identity"
	"github.com/kruzic-io/kruzic/internal/daemon/server"
	"github.com/kruzic-io/kruzic/internal/daemon/store"
	"github.com/kruzic-io/kruzic/internal/models"
	"github.com/kruzic-io/kruzic/internal/sdk"
)

// Player is the single player every test platform knows.
var Player = models.Player{ID: "player-1", Username: "igrac", Name: "Igrač"}

// Platform is a running in-process daemon.
type Platform struct {
	Server *server.Server
	Store  *store.Memory
	Tokens *identity.Tokens

	lis *bufconn.Listener
	t   *testing.T
}

// Start serves a platform backed by an in-memory store over bufconn. It is
// stopped when the test ends.
func Start(t *testing.T) *Platform {
	t.Helper()

	players := identity.NewDirectory(&models.Directory{
		Version: 1,
		Players: []*models.Player{{ID: Player.ID, Username: Player.Username, Name: Player.Name}},
	})
	tokens := identity.NewTokens([]byte("servertest-signing-key-0123456789"), time.Hour)
	mem := store.NewMemory()

	srv, err := server.New(server.Options{
		Store:   mem,
		Players: players,
		Tokens:  tokens,
	})
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}

	lis := bufconn.Listen(1 << 20)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.ServeGRPC(lis)
	}()
	t.Cleanup(func() {
		srv.Stop()
		<-done
	})

	return &Platform{Server: srv, Store: mem, Tokens: tokens, lis: lis, t: t}
}

// DialOption connects a gRPC client to the platform.
func (p *Platform) DialOption() grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return p.lis.DialContext(ctx)
	})
}

// Client dials an anonymous SDK client with the given device id.
func (p *Platform) Client(deviceID string) *sdk.GRPCClient {
	return p.dial(deviceID, "")
}

// SignedInClient dials an SDK client carrying a token for Player.
func (p *Platform) SignedInClient(deviceID string) *sdk.GRPCClient {
	p.t.Helper()
	token, err := p.Tokens.Issue(Player.ID)
	if err != nil {
		p.t.Fatalf("issue token: %v", err)
	}
	return p.dial(deviceID, token)
}

func (p *Platform) dial(deviceID, token string) *sdk.GRPCClient {
	p.t.Helper()
	client, err := sdk.Dial(sdk.Options{
		Address:     "passthrough:///bufnet",
		DeviceID:    deviceID,
		Token:       token,
		DialOptions: []grpc.DialOption{p.DialOption()},
	})
	if err != nil {
		p.t.Fatalf("sdk.Dial: %v", err)
	}
	p.t.Cleanup(func() { _ = client.Close() })
	return client
}

// HTTP serves the daemon's HTTP surface on an httptest server.
func (p *Platform) HTTP() *httptest.Server {
	ts := httptest.NewServer(p.Server.Handler())
	p.t.Cleanup(ts.Close)
	return ts
}
