package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgander/auravis/internal/state"
)

func TestNewEngineHasEightEffectsStartingAtZero(t *testing.T) {
	e := NewEngine()

	assert.Equal(t, 8, len(AvailableEffects()))
	assert.Equal(t, 0, e.CurrentEffect())
	assert.False(t, e.GetStats().Transitioning)
}

func TestSetEffectRejectsOutOfRangeAndNoOpsOnEqual(t *testing.T) {
	e := NewEngine()

	require.NoError(t, e.SetEffect(2))

	// SpectrumBars supports transitions, so let the cross-fade to 2 finish
	// before checking which effect is current.
	var spectrum state.Spectrum
	for i := 0; i < 60 && e.GetStats().Transitioning; i++ {
		e.Render(spectrum)
	}

	err := e.SetEffect(99)
	assert.Error(t, err)
	assert.Equal(t, 2, e.CurrentEffect())

	require.NoError(t, e.SetEffect(2))
	assert.False(t, e.GetStats().Transitioning)
}

func TestSetEffectByNameIsCaseInsensitive(t *testing.T) {
	e := NewEngine()

	require.NoError(t, e.SetEffectByName("rain"))

	stats := e.GetStats()
	assert.True(t, stats.Transitioning || stats.CurrentEffectName == "Rain")
}

func TestRenderFillsFullFrameEveryCall(t *testing.T) {
	e := NewEngine()

	var spectrum state.Spectrum

	frame := e.Render(spectrum)
	assert.Len(t, frame, state.FrameBytes)
}

func TestTransitionConvergesWithinFiftyTicksAndBlendsToTarget(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.SetEffect(5)) // current SpectrumBars supports transitions -> cross-fade to Rain begins

	var spectrum state.Spectrum

	for i := 0; i < 60; i++ {
		e.Render(spectrum)

		if !e.GetStats().Transitioning {
			break
		}
	}

	assert.False(t, e.GetStats().Transitioning)
	assert.Equal(t, 5, e.CurrentEffect())
}

func TestSetColorModeNormalizesUnknownToRainbow(t *testing.T) {
	e := NewEngine()

	e.SetColorMode(state.ColorMode("not-a-mode"))
	assert.Equal(t, state.ColorRainbow, e.ColorMode())
}

func TestApplyingColorModeTwiceIsIdempotent(t *testing.T) {
	e := NewEngine()

	e.SetColorMode(state.ColorRainbow)
	first := e.ColorMode()

	e.SetColorMode(state.ColorRainbow)
	second := e.ColorMode()

	assert.Equal(t, first, second)
}

func TestResetAllTwiceProducesSameState(t *testing.T) {
	e := NewEngine()

	var spectrum state.Spectrum
	spectrum[4] = 1.0
	e.Render(spectrum)

	e.ResetAll()
	statsOnce := e.GetStats()

	e.ResetAll()
	statsTwice := e.GetStats()

	assert.Equal(t, statsOnce, statsTwice)
}

func TestBlendFramesInterpolatesLinearly(t *testing.T) {
	var from, to, dst state.Frame
	from[0] = 0
	to[0] = 200

	blendFrames(&dst, &from, &to, 0.5)
	assert.Equal(t, byte(100), dst[0])

	blendFrames(&dst, &from, &to, 0)
	assert.Equal(t, byte(0), dst[0])

	blendFrames(&dst, &from, &to, 1)
	assert.Equal(t, byte(200), dst[0])
}
