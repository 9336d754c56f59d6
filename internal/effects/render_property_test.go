package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/kgander/auravis/internal/state"
)

// TestEveryEffectRenderFillsExactFrameSize implements spec §8's
// universally-quantified property: for every spectrum of length 64,
// effect.render fills exactly 49,152 bytes, every byte in [0, 255].
func TestEveryEffectRenderFillsExactFrameSize(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var spectrum state.Spectrum
		for i := range spectrum {
			spectrum[i] = rapid.Float64Range(0, 1).Draw(rt, "band")
		}

		color := state.ColorConfig{Mode: state.ColorRainbow}

		for _, newEffect := range allEffectConstructors() {
			eff := newEffect()

			var frame state.Frame
			eff.Render(spectrum, color, &frame)

			assert.Len(rt, frame, state.FrameBytes)
		}
	})
}

func allEffectConstructors() []func() Effect {
	return []func() Effect{
		func() Effect { return newSpectrumBars() },
		func() Effect { return newCircularWave() },
		func() Effect { return newParticleSystem() },
		func() Effect { return newHeartbeat() },
		func() Effect { return newStarfall() },
		func() Effect { return newRain() },
		func() Effect { return newFlames() },
		func() Effect { return newApplaudimetre() },
	}
}

func TestSilenceProducesAllBlackSpectrumBarsFrame(t *testing.T) {
	eff := newSpectrumBars()

	var spectrum state.Spectrum
	var frame state.Frame

	eff.Render(spectrum, state.ColorConfig{Mode: state.ColorRainbow}, &frame)

	for _, v := range frame {
		assert.Equal(t, byte(0), v)
	}
}

func TestParticleSystemNeverExceedsTwoThousandParticles(t *testing.T) {
	eff := newParticleSystem()

	var spectrum state.Spectrum
	spectrum[0], spectrum[1], spectrum[2] = 1, 1, 1 // bass band is [0,8)

	color := state.ColorConfig{Mode: state.ColorRainbow}

	var frame state.Frame
	for i := 0; i < 5000; i++ {
		eff.Render(spectrum, color, &frame)
		assert.LessOrEqual(t, len(eff.particles), maxParticles)
	}
}

func TestFlamesTemperatureBufferStaysWithinUnitRange(t *testing.T) {
	eff := newFlames()

	var spectrum state.Spectrum
	for i := range spectrum {
		spectrum[i] = 1.0
	}

	color := state.ColorConfig{Mode: state.ColorFire}

	var frame state.Frame
	for i := 0; i < 50; i++ {
		eff.Render(spectrum, color, &frame)
	}

	var temperature [state.FrameWidth * state.FrameHeight]float64
	eff.rasterize(&temperature)

	for _, v := range temperature {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}
