package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgander/auravis/internal/artnet"
	"github.com/kgander/auravis/internal/config"
	"github.com/kgander/auravis/internal/effects"
	"github.com/kgander/auravis/internal/mapper"
	"github.com/kgander/auravis/internal/state"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()

	shared := state.New()
	engine := effects.NewEngine()

	m := mapper.New()
	emitter, err := artnet.NewEmitter(m, config.Simulator())
	require.NoError(t, err)
	t.Cleanup(func() { _ = emitter.Close() })

	return New(shared, engine, emitter, config.Default(), func(pcm []float64) {})
}

func TestSetEffectByNameDelegatesToEngine(t *testing.T) {
	c := newTestController(t)

	require.NoError(t, c.SetEffectByName("Heartbeat"))

	var spectrum state.Spectrum
	for i := 0; i < 60 && c.engine.GetStats().Transitioning; i++ {
		c.engine.Render(spectrum)
	}

	idx, name := c.GetCurrentEffect()
	assert.Equal(t, 3, idx)
	assert.Equal(t, "Heartbeat", name)
}

func TestSetCustomColorClampsToUnitRange(t *testing.T) {
	c := newTestController(t)

	c.SetCustomColor(-1, 0.5, 2)

	got := c.GetCustomColor()
	assert.Equal(t, [3]float64{0, 0.5, 1}, got)
}

func TestSetLEDBrightnessClamps(t *testing.T) {
	c := newTestController(t)

	c.SetLEDBrightness(2)
	assert.Equal(t, 1.0, c.GetLEDBrightness())

	c.SetLEDBrightness(-1)
	assert.Equal(t, 0.0, c.GetLEDBrightness())
}

func TestTestLEDPatternRendersImmediateFrame(t *testing.T) {
	c := newTestController(t)

	require.NoError(t, c.TestLEDPattern("Flames"))

	frame := c.GetCurrentFrame()
	assert.Len(t, frame, state.FrameBytes)
}

func TestSystemRestartAllClearsRunFlagsAndResetsEngine(t *testing.T) {
	c := newTestController(t)

	c.shared.SetLEDRunning(true)
	require.NoError(t, c.SetEffectByName("Rain"))

	require.NoError(t, c.SystemRestartAll())

	assert.False(t, c.shared.LEDRunning())
	assert.False(t, c.shared.AudioRunning())
}

func TestSystemSetConfigMergesOntoActiveConfig(t *testing.T) {
	c := newTestController(t)

	err := c.SystemSetConfig([]byte(`{"audio":{"gain":2.5},"led":{"brightness":0.5}}`))
	require.NoError(t, err)

	assert.InDelta(t, 2.5, c.shared.Gain(), 1e-9)
	assert.InDelta(t, 0.5, c.shared.Brightness(), 1e-9)
	assert.InDelta(t, 2.5, c.SystemGetConfig().Audio.Gain, 1e-9)
}

func TestSystemGetStatusReportsUptimeAndStats(t *testing.T) {
	c := newTestController(t)

	status := c.SystemGetStatus()
	assert.GreaterOrEqual(t, status.UptimeSeconds, 0.0)
	assert.Equal(t, 8, status.EffectStats.TotalEffects)
	assert.NotEmpty(t, status.AsOf)
}
