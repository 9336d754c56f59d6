package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kgander/auravis/internal/effects"
	"github.com/kgander/auravis/internal/spectrum"
	"github.com/kgander/auravis/internal/state"
)

func TestOnAudioBufferWritesSpectrumAndFrame(t *testing.T) {
	shared := state.New()
	pipeline := NewRenderPipeline(shared, spectrum.New(), effects.NewEngine())

	pcm := make([]float64, 1024)
	for i := range pcm {
		pcm[i] = 0.5
	}

	pipeline.OnAudioBuffer(pcm)

	frame := shared.Frame()
	assert.Len(t, frame, state.FrameBytes)
}

func TestOnAudioBufferAppliesGain(t *testing.T) {
	shared := state.New()
	shared.SetGain(0)
	pipeline := NewRenderPipeline(shared, spectrum.New(), effects.NewEngine())

	pcm := make([]float64, 1024)
	for i := range pcm {
		pcm[i] = 1.0
	}

	pipeline.OnAudioBuffer(pcm)

	sp := shared.Spectrum()
	for _, v := range sp {
		assert.Zero(t, v)
	}
}
