package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, "wayland-0", cfg.Display.Name)
	require.Equal(t, "seat0", cfg.Seat.Name)
	require.ElementsMatch(t, []string{"argb8888", "xrgb8888"}, cfg.Shm.Formats)
	require.Equal(t, DefaultParallelConnections, cfg.Server.MaxConnections)
}

func TestLoadParsesYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
display:
  name: wayland-2
seat:
  name: main-seat
  pointer: true
  keyboard: true
shm:
  formats: [argb8888]
outputs:
  - name: eDP-1
    width: 1920
    height: 1080
    scale: 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "wayland-2", cfg.Display.Name)
	require.Equal(t, "main-seat", cfg.Seat.Name)
	require.True(t, cfg.Seat.Pointer)
	require.True(t, cfg.Seat.Keyboard)
	require.False(t, cfg.Seat.Touch)
	require.Len(t, cfg.Outputs, 1)
	require.Equal(t, int32(1920), cfg.Outputs[0].Width)
}

func TestWaylandDisplayEnvOverridesDefault(t *testing.T) {
	t.Setenv("WAYLAND_DISPLAY", "wayland-test")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "wayland-test", cfg.Display.Name)
}
