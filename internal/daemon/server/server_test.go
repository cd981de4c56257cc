package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/kruzic-io/kruzic/internal/daemon/server/servertest"
	"github.com/kruzic-io/kruzic/internal/sdk"
)

func TestIdentityProjection(t *testing.T) {
	ctx := context.Background()
	p := servertest.Start(t)

	anon := p.Client("dev-1")
	signedIn, err := anon.IsSignedIn(ctx)
	require.NoError(t, err)
	assert.False(t, signedIn)
	id, err := anon.GetUserID(ctx)
	require.NoError(t, err)
	assert.Nil(t, id)
	details, err := anon.GetUserDetails(ctx)
	require.NoError(t, err)
	assert.Nil(t, details)

	player := p.SignedInClient("dev-1")
	signedIn, err = player.IsSignedIn(ctx)
	require.NoError(t, err)
	assert.True(t, signedIn)
	id, err = player.GetUserID(ctx)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, servertest.Player.ID, *id)
	details, err = player.GetUserDetails(ctx)
	require.NoError(t, err)
	assert.Equal(t, &sdk.UserDetails{Name: "Igrač"}, details)
}

func TestStorageIsNamespacedByCaller(t *testing.T) {
	ctx := context.Background()
	p := servertest.Start(t)

	a := p.Client("dev-a")
	b := p.Client("dev-b")
	player := p.SignedInClient("dev-a")

	require.NoError(t, a.SetData(ctx, "score", 10.0))
	require.NoError(t, player.SetData(ctx, "score", 99.0))

	v, err := b.GetData(ctx, "score")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = a.GetData(ctx, "score")
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)

	v, err = player.GetData(ctx, "score")
	require.NoError(t, err)
	assert.Equal(t, 99.0, v)

	snap, err := p.Store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Contains(t, snap, "device:dev-a")
	assert.Contains(t, snap, "player:"+servertest.Player.ID)
}

func TestAnonymousWithoutDeviceIsRejected(t *testing.T) {
	p := servertest.Start(t)
	_, err := p.Client("").ListData(context.Background())
	require.Error(t, err)
	assert.True(t, sdk.IsCode(err, codes.InvalidArgument))
}

func TestDataLifecycle(t *testing.T) {
	ctx := context.Background()
	c := servertest.Start(t).Client("dev-1")

	value := map[string]any{"broj": 42.0, "tekst": "test", "lista": []any{1.0, "dva", nil}}
	require.NoError(t, c.SetData(ctx, "b", value))
	require.NoError(t, c.SetData(ctx, "a", "plain"))

	got, err := c.GetData(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, value, got)

	keys, err := c.ListData(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, c.DeleteData(ctx, "b"))
	require.NoError(t, c.DeleteData(ctx, "b"))
	got, err = c.GetData(ctx, "b")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = c.GetData(ctx, "")
	assert.True(t, sdk.IsCode(err, codes.InvalidArgument))
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	p := servertest.Start(t)
	c := p.Client("dev-1")

	token, err := c.SignIn(ctx, servertest.Player.Username)
	require.NoError(t, err)
	id, err := p.Tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, servertest.Player.ID, id)

	_, err = c.SignIn(ctx, "nobody")
	require.Error(t, err)
	assert.True(t, sdk.IsCode(err, codes.NotFound))
	assert.Equal(t, `unknown player "nobody"`, err.Error())
}

func do(t *testing.T, method, url, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestFaultInjection(t *testing.T) {
	ctx := context.Background()
	p := servertest.Start(t)
	ts := p.HTTP()
	c := p.Client("dev-1")

	code, _ := do(t, http.MethodPost, ts.URL+"/admin/fault/SetData", `{"message":"disk on fire"}`)
	require.Equal(t, http.StatusOK, code)

	err := c.SetData(ctx, "k", 1.0)
	require.Error(t, err)
	assert.True(t, sdk.IsCode(err, codes.Unavailable))
	assert.Equal(t, "disk on fire", err.Error())

	// Other methods are unaffected.
	_, err = c.ListData(ctx)
	require.NoError(t, err)

	code, body := do(t, http.MethodGet, ts.URL+"/admin/faults", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "disk on fire")

	code, _ = do(t, http.MethodDelete, ts.URL+"/admin/fault/SetData", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, c.SetData(ctx, "k", 1.0))

	code, _ = do(t, http.MethodDelete, ts.URL+"/admin/fault/SetData", "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = do(t, http.MethodPost, ts.URL+"/admin/fault/Nope", `{}`)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = do(t, http.MethodPost, ts.URL+"/admin/fault/GetData", `not json`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAdminStateAndReset(t *testing.T) {
	ctx := context.Background()
	p := servertest.Start(t)
	ts := p.HTTP()
	c := p.Client("dev-1")

	require.NoError(t, c.SetData(ctx, "k", map[string]any{"x": 1.0}))

	code, body := do(t, http.MethodGet, ts.URL+"/admin/state", "")
	require.Equal(t, http.StatusOK, code)
	var state struct {
		Players    int                                   `json:"players"`
		Namespaces map[string]map[string]json.RawMessage `json:"namespaces"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &state))
	assert.Equal(t, 1, state.Players)
	require.Contains(t, state.Namespaces, "device:dev-1")
	assert.JSONEq(t, `{"x":1}`, string(state.Namespaces["device:dev-1"]["k"]))

	code, _ = do(t, http.MethodPost, ts.URL+"/admin/reset", "")
	require.Equal(t, http.StatusOK, code)
	keys, err := c.ListData(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	code, body = do(t, http.MethodGet, ts.URL+"/admin/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestMetricsEndpoint(t *testing.T) {
	ctx := context.Background()
	p := servertest.Start(t)
	ts := p.HTTP()
	c := p.Client("dev-1")

	_, err := c.ListData(ctx)
	require.NoError(t, err)

	code, body := do(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `kruzic_platform_calls_total{code="OK",method="ListData"} 1`)
}
