package effects

import (
	"math"

	"github.com/kgander/auravis/internal/state"
)

// circularWave renders polar waves radiating from the frame center,
// combining three sine waves of the radial distance driven by bass, mid
// and high energy (spec §4.3).
type circularWave struct {
	t float64
}

func newCircularWave() *circularWave {
	return &circularWave{}
}

func (e *circularWave) Name() string        { return "CircularWave" }
func (e *circularWave) Description() string  { return "Polar waves radiating from the frame center" }
func (e *circularWave) SupportsTransitions() bool { return true }
func (e *circularWave) Reset()               { e.t = 0 }

var waveFrequencies = [3]float64{20, 10, 5}
var wavePhaseVelocities = [3]float64{8, 4, 2}
var waveWeights = [3]float64{0.4, 0.3, 0.3}

func (e *circularWave) Render(spectrum state.Spectrum, color state.ColorConfig, frame *state.Frame) {
	bass, mid, high := bandSummary(spectrum)
	e.t += 1.0 + 0.3*(bass+mid+high)/3

	energies := [3]float64{bass, mid, high}
	const cx, cy = 64.0, 64.0

	for y := 0; y < state.FrameHeight; y++ {
		for x := 0; x < state.FrameWidth; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			dist := math.Sqrt(dx*dx + dy*dy)
			angle := math.Atan2(dy, dx)

			wave := 0.0
			for i := 0; i < 3; i++ {
				phaseVel := wavePhaseVelocities[i] * (1 + 3*bass)
				wave += waveWeights[i] * math.Sin(dist/waveFrequencies[i]-e.t*0.05*phaseVel)
			}

			intensity := clamp01((wave+1)/2*(0.3+0.7*(energies[0]+energies[1]+energies[2])/3))

			hue := mod(angle/(2*math.Pi)+e.t*0.002, 1)
			r, g, b := modeColor(color, hue, e.t)

			setPixel(frame, x, y, r*intensity, g*intensity, b*intensity)
		}
	}
}
