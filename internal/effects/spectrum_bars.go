package effects

import (
	"math"

	"github.com/kgander/auravis/internal/state"
)

// spectrumBars renders 32 symmetric vertical bars mirrored around column
// 64, each driven by one spectrum band with asymmetric smoothing and a
// decaying peak-hold mark (spec §4.3).
type spectrumBars struct {
	smoothed [32]float64
	peak     [32]float64
	t        float64
}

func newSpectrumBars() *spectrumBars {
	return &spectrumBars{}
}

func (e *spectrumBars) Name() string        { return "SpectrumBars" }
func (e *spectrumBars) Description() string  { return "32 symmetric vertical bars mirrored around center" }
func (e *spectrumBars) SupportsTransitions() bool { return true }

func (e *spectrumBars) Reset() {
	e.smoothed = [32]float64{}
	e.peak = [32]float64{}
	e.t = 0
}

const (
	barAttack      = 0.6
	barRelease     = 0.15
	barPeakDecay   = 0.02
	barHeightScale = 120.0
	barColumnWidth = 2 // 32 bars mirrored across 64 columns per half
)

func (e *spectrumBars) Render(spectrum state.Spectrum, color state.ColorConfig, frame *state.Frame) {
	bass, mid, high := bandSummary(spectrum)
	e.t += 1.0 + 0.2*(bass+mid+high)/3

	for i := 0; i < 32; i++ {
		band := spectrum[i]

		if band > e.smoothed[i] {
			e.smoothed[i] += (band - e.smoothed[i]) * barAttack
		} else {
			e.smoothed[i] += (band - e.smoothed[i]) * barRelease
		}

		if e.smoothed[i] > e.peak[i] {
			e.peak[i] = e.smoothed[i]
		} else {
			e.peak[i] -= barPeakDecay
			if e.peak[i] < 0 {
				e.peak[i] = 0
			}
		}

		height := int(math.Pow(e.smoothed[i], 0.6) * barHeightScale)
		peakHeight := e.peak[i] * barHeightScale

		hue := float64(i)/32 + e.t*0.002
		r, g, b := modeColor(color, hue, e.t)

		darken := 1.0
		if i%4 == 0 {
			darken = 0.7
		}

		for leftCol := i * barColumnWidth; leftCol < i*barColumnWidth+barColumnWidth; leftCol++ {
			e.drawBar(frame, leftCol, height, peakHeight, r*darken, g*darken, b*darken)

			mirrored := 64 + leftCol
			e.drawBar(frame, mirrored, height, peakHeight, r*darken, g*darken, b*darken)
		}
	}
}

func (e *spectrumBars) drawBar(frame *state.Frame, col, height int, peakHeight, r, g, b float64) {
	top := state.FrameHeight - height
	if top < 0 {
		top = 0
	}

	for y := top; y < state.FrameHeight; y++ {
		rr, gg, bb := r, g, b
		if y == state.FrameHeight/2 {
			rr, gg, bb = clamp01(r*1.3), clamp01(g*1.3), clamp01(b*1.3)
		}

		setPixel(frame, col, y, rr, gg, bb)
	}

	if peakHeight > 5 {
		peakY := state.FrameHeight - int(peakHeight)
		setPixel(frame, col, peakY, 1, 1, 1)
	}
}
