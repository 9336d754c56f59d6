package spectrum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/kgander/auravis/internal/state"
)

func TestSilenceYieldsAllZeroSpectrum(t *testing.T) {
	a := New()
	pcm := make([]float64, 1024)

	got := a.Analyze(pcm)

	assert.Equal(t, state.Spectrum{}, got)
}

func TestShortBufferIsZeroPadded(t *testing.T) {
	a := New()
	pcm := make([]float64, 32)
	for i := range pcm {
		pcm[i] = 0.8
	}

	got := a.Analyze(pcm)

	for i, v := range got {
		assert.GreaterOrEqualf(t, v, 0.0, "band %d below 0", i)
		assert.LessOrEqualf(t, v, 1.0, "band %d above 1", i)
	}
}

func TestSaturatedInputNeverExceedsOne(t *testing.T) {
	a := New()
	pcm := make([]float64, 2048)
	for i := range pcm {
		if i%2 == 0 {
			pcm[i] = 1
		} else {
			pcm[i] = -1
		}
	}

	got := a.Analyze(pcm)

	for i, v := range got {
		assert.LessOrEqualf(t, v, 1.0, "band %d exceeds 1.0", i)
	}
}

func TestBelowNoiseFloorYieldsZeroSpectrum(t *testing.T) {
	a := New()
	pcm := make([]float64, 1024)
	for i := range pcm {
		pcm[i] = 1e-5
	}

	got := a.Analyze(pcm)

	assert.Equal(t, state.Spectrum{}, got)
}

// TestSixtyFourBandsAlwaysInRange is the property from spec §8: for every
// input buffer of length >= 1024, the analyzer returns exactly 64 values
// each in [0, 1].
func TestSixtyFourBandsAlwaysInRange(t *testing.T) {
	a := New()

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1024, 4096).Draw(rt, "n")
		pcm := make([]float64, n)

		for i := range pcm {
			pcm[i] = rapid.Float64Range(-1, 1).Draw(rt, "sample")
		}

		got := a.Analyze(pcm)

		assert.Len(rt, got, state.SpectrumBands)

		for i, v := range got {
			assert.False(rt, math.IsNaN(v), "band %d is NaN", i)
			assert.GreaterOrEqual(rt, v, 0.0)
			assert.LessOrEqual(rt, v, 1.0)
		}
	})
}

func TestAnalyzerIsStatelessBetweenCalls(t *testing.T) {
	a := New()
	pcm := make([]float64, 1024)
	for i := range pcm {
		pcm[i] = 0.5
	}

	first := a.Analyze(pcm)
	// An unrelated call in between must not perturb subsequent results.
	_ = a.Analyze(make([]float64, 1024))
	second := a.Analyze(pcm)

	assert.Equal(t, first, second)
}
