package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesSpecFallback(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 44100, cfg.Audio.SampleRate)
	assert.Equal(t, 2, cfg.Audio.Channels)
	assert.Equal(t, 256, cfg.Audio.BufferSize)
	assert.Len(t, cfg.LED.Controllers, 4)
	assert.Equal(t, 2000, cfg.Effects.ParticleLimit)
}

func TestLoadMissingPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMergesOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "auravis.toml")

	contents := `
[audio]
gain = 2.5
device_name = "vb-cable"

[led]
fps = 30
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.Audio.Gain)
	assert.Equal(t, "vb-cable", cfg.Audio.DeviceName)
	assert.Equal(t, 30, cfg.LED.FPS)
	// Fields the file omitted keep their defaults.
	assert.Equal(t, 44100, cfg.Audio.SampleRate)
	assert.Len(t, cfg.LED.Controllers, 4)
}

func TestSimulatorControllersCoverAllUniverses(t *testing.T) {
	ctrls := Simulator()
	require.Len(t, ctrls, 1)
	assert.Equal(t, 128, ctrls[0].Universes)
	assert.Equal(t, "127.0.0.1:6454", ctrls[0].Address)
}
