package wlkit

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapVersion(t *testing.T) {
	assert.Equal(t, uint32(3), capVersion(7, 3))
	assert.Equal(t, uint32(2), capVersion(2, 3))
	assert.Equal(t, uint32(1), capVersion(1, 1))
}

func TestMissingOptionalGlobalsReportErrMissingGlobal(t *testing.T) {
	env := &Environment{}

	_, err := env.Xdg()
	assert.True(t, errors.Is(err, ErrMissingGlobal))
	_, err = env.LayerShell()
	assert.True(t, errors.Is(err, ErrMissingGlobal))
	_, err = env.ForeignToplevels()
	assert.True(t, errors.Is(err, ErrMissingGlobal))

	assert.False(t, env.HasXdg())
	assert.False(t, env.HasLayerShell())
	assert.False(t, env.HasForeignToplevels())
}

func TestConnectLive(t *testing.T) {
	if os.Getenv("WAYLAND_DISPLAY") == "" {
		t.Skipf("no Wayland compositor available")
	}

	env, err := Connect(Options{})
	require.NoError(t, err)
	defer env.Close()

	require.NoError(t, env.Roundtrip())

	assert.NotNil(t, env.Compositor())
	assert.NotNil(t, env.Shm())
	assert.NotEmpty(t, env.Outputs().Outputs(), "a live compositor has at least one output")
}
