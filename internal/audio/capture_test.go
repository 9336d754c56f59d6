package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDownmixAveragesChannelsArithmetically(t *testing.T) {
	in := []int32{1 << 30, 1 << 29, 1 << 30, 1 << 29} // 2 frames, 2 channels
	out := make([]float64, 2)

	downmix(in, 2, out)

	assert.InDelta(t, 0.375, out[0], 1e-6)
	assert.InDelta(t, 0.375, out[1], 1e-6)
}

func TestMeanAndPeakAbsOnSilence(t *testing.T) {
	buf := make([]float64, 256)

	mean, peak := meanAndPeakAbs(buf)
	assert.Zero(t, mean)
	assert.Zero(t, peak)
}

func TestMeanAndPeakAbsTracksLargestMagnitude(t *testing.T) {
	buf := []float64{0.1, -0.9, 0.2}

	mean, peak := meanAndPeakAbs(buf)
	assert.InDelta(t, 0.4, mean, 1e-9)
	assert.InDelta(t, 0.9, peak, 1e-9)
}
