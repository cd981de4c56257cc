package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kruzic-io/kruzic/internal/models"
)

func TestNewWithoutKeyIsNop(t *testing.T) {
	sink, err := New(models.TelemetryConfig{}, "dev", nil)
	require.NoError(t, err)
	assert.IsType(t, Nop{}, sink)
	sink.Capture("device:x", "GetData", "OK")
	assert.NoError(t, sink.Close())
}
