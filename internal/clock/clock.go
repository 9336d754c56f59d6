// Package clock coordinates the three cooperating loops of spec §4.7:
// the audio callback (driven by the capture device, single writer of
// spectrum and frame), the 60Hz Art-Net emitter loop, and the 60Hz/30Hz
// preview fan-out loops. Cancellation follows spec §5: a boolean run
// flag per subsystem, checked at every iteration, with in-flight work
// allowed to finish before exit.
package clock

import (
	"context"
	"time"

	"github.com/kgander/auravis/internal/artnet"
	"github.com/kgander/auravis/internal/effects"
	"github.com/kgander/auravis/internal/logging"
	"github.com/kgander/auravis/internal/spectrum"
	"github.com/kgander/auravis/internal/state"
)

var log = logging.For("clock")

// EmitterRate is the target Art-Net emission period: 60Hz (spec §4.4).
const EmitterRate = time.Second / 60

// PreviewUDPRate is the target UDP preview sender period: 60Hz (spec §4.5).
const PreviewUDPRate = time.Second / 60

// PreviewWSRate is the target WebSocket preview producer period: 30Hz
// (spec §4.6).
const PreviewWSRate = time.Second / 30

// RenderPipeline wires the audio callback to the spectrum analyzer, the
// effect engine, and the shared state cells. It is the single writer of
// both spectrum and frame (spec §4.7).
type RenderPipeline struct {
	shared   *state.Shared
	analyzer *spectrum.Analyzer
	engine   *effects.Engine
}

// NewRenderPipeline builds a pipeline over the given shared state,
// analyzer and effect engine.
func NewRenderPipeline(shared *state.Shared, analyzer *spectrum.Analyzer, engine *effects.Engine) *RenderPipeline {
	return &RenderPipeline{shared: shared, analyzer: analyzer, engine: engine}
}

// OnAudioBuffer is the audio Sink: it runs the FFT, writes the
// spectrum, and synchronously renders the current effect into the
// frame cell.
func (p *RenderPipeline) OnAudioBuffer(pcm []float64) {
	gain := p.shared.Gain()

	if gain != 1.0 {
		boosted := make([]float64, len(pcm))
		for i, v := range pcm {
			boosted[i] = v * gain
		}

		pcm = boosted
	}

	sp := p.analyzer.Analyze(pcm)
	p.shared.SetSpectrum(sp)

	frame := p.engine.Render(sp)
	p.shared.SetFrame(frame)
}

// EmitterLoop reads the frame cell at EmitterRate and transmits all 128
// Art-Net universes. Best-effort: missed ticks drop one frame rather
// than queuing (spec §4.4, §5).
func EmitterLoop(ctx context.Context, shared *state.Shared, emitter *artnet.Emitter, runFlag func() bool) {
	ticker := time.NewTicker(EmitterRate)
	defer ticker.Stop()

	log.Info("emitter loop started")

	for {
		select {
		case <-ctx.Done():
			log.Info("emitter loop stopping")

			return
		case <-ticker.C:
			if !runFlag() {
				continue
			}

			emitter.EmitFrame(shared.Frame())
		}
	}
}
