package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFaultRegistry(t *testing.T) {
	fr := NewFaultRegistry()
	assert.Nil(t, fr.Check("GetData"))

	fr.Set("GetData", Fault{})
	f := fr.Check("GetData")
	if assert.NotNil(t, f) {
		assert.Equal(t, "injected fault", f.Message)
		assert.Equal(t, 1.0, f.Rate)
	}
	assert.Nil(t, fr.Check("SetData"))

	assert.True(t, fr.Remove("GetData"))
	assert.False(t, fr.Remove("GetData"))

	fr.Set("A", Fault{Message: "a"})
	fr.Set("B", Fault{Message: "b"})
	assert.Len(t, fr.All(), 2)
	fr.Reset()
	assert.Empty(t, fr.All())
}
