package sdk_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kruzic-io/kruzic/internal/daemon/server/servertest"
	"github.com/kruzic-io/kruzic/internal/sdk"
)

func TestReadyIsFireAndForget(t *testing.T) {
	p := servertest.Start(t)
	c := p.Client("dev-1")

	c.Ready()
	// Close waits for the background notification.
	require.NoError(t, c.Close())
	assert.Equal(t, int64(1), p.Server.ReadyCount())
}

func TestSetDataAcceptsTypedValues(t *testing.T) {
	ctx := context.Background()
	c := servertest.Start(t).Client("dev-1")

	type save struct {
		Level int      `json:"level"`
		Items []string `json:"items"`
	}
	require.NoError(t, c.SetData(ctx, "save", save{Level: 3, Items: []string{"mač"}}))

	got, err := c.GetData(ctx, "save")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"level": 3.0, "items": []any{"mač"}}, got)

	require.NoError(t, c.SetData(ctx, "nil", nil))
	got, err = c.GetData(ctx, "nil")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSetDataRejectsUnserializable(t *testing.T) {
	c := servertest.Start(t).Client("dev-1")
	err := c.SetData(context.Background(), "ch", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not JSON-serializable")
}

func TestDialRequiresAddress(t *testing.T) {
	_, err := sdk.Dial(sdk.Options{})
	assert.Error(t, err)
}

func TestErrorIsBareMessage(t *testing.T) {
	err := &sdk.Error{Code: codes.Unavailable, Message: "platform down"}
	assert.Equal(t, "platform down", err.Error())
	assert.True(t, sdk.IsCode(err, codes.Unavailable))
	assert.True(t, sdk.IsCode(errors.Join(errors.New("ctx"), err), codes.Unavailable))
	assert.False(t, sdk.IsCode(errors.New("plain"), codes.Unavailable))
	assert.False(t, sdk.IsCode(status.Error(codes.Unavailable, "raw"), codes.Unavailable))
}
