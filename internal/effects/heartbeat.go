package effects

import (
	"math"

	"github.com/kgander/auravis/internal/state"
)

type pulseRing struct {
	radius    float64
	life      float64
	intensity float64
}

// heartbeat renders a central heart shape that pulses at an
// audio-driven BPM, spawning an expanding pulse ring on each beat (spec
// §4.3). It draws no sparkles and no radial flash.
type heartbeat struct {
	t         float64
	nextBeat  float64
	beatPhase int
	rings     []pulseRing
	rng       *xorshift
}

func newHeartbeat() *heartbeat {
	return &heartbeat{rng: newXorshift(), nextBeat: 20}
}

func (e *heartbeat) Name() string        { return "Heartbeat" }
func (e *heartbeat) Description() string  { return "Pulsing heart shape driven by audio BPM" }
func (e *heartbeat) SupportsTransitions() bool { return true }

func (e *heartbeat) Reset() {
	e.t = 0
	e.nextBeat = 20
	e.beatPhase = 0
	e.rings = nil
}

func (e *heartbeat) Render(spectrum state.Spectrum, color state.ColorConfig, frame *state.Frame) {
	bass, mid, high := bandSummary(spectrum)
	totalEnergy := (bass + mid + high) / 3

	e.t++

	bpm := 40 + 100*totalEnergy
	ticksPerBeat := 60 * 60 / bpm // 60fps, 60s/min

	beatIntensity := 1.0

	if e.t >= e.nextBeat {
		e.beatPhase = (e.beatPhase + 1) % 2
		if e.beatPhase == 0 {
			e.nextBeat = e.t + ticksPerBeat*0.6 // double-beat: short gap then long gap
		} else {
			e.nextBeat = e.t + ticksPerBeat*0.2
		}

		e.rings = append(e.rings, pulseRing{radius: 5, life: 1.0, intensity: 1.0})

		if totalEnergy > 0.6 {
			beatIntensity = 1.3
		}
	}

	scale := (15 + 25*totalEnergy) * beatIntensity

	e.updateRings(totalEnergy)
	e.drawHeart(scale, color, frame)
	e.drawRings(color, frame)
}

func (e *heartbeat) updateRings(totalEnergy float64) {
	out := e.rings[:0]

	for _, r := range e.rings {
		r.radius += 2 + 3*totalEnergy
		r.life -= 0.02
		r.intensity *= 0.98

		if r.life > 0 && r.radius < 100 {
			out = append(out, r)
		}
	}

	e.rings = out
}

func (e *heartbeat) drawHeart(scale float64, color state.ColorConfig, frame *state.Frame) {
	r, g, b := modeColor(color, 0.95, e.t)

	const cx, cy = 64.0, 60.0

	for py := 0; py < state.FrameHeight; py++ {
		for px := 0; px < state.FrameWidth; px++ {
			x := (float64(px) - cx) / scale
			y := -(float64(py) - cy) / scale

			lhs := math.Pow(x*x+y*y-1, 3) - x*x*y*y*y
			if lhs <= 0 {
				setPixel(frame, px, py, r, g, b)
			}
		}
	}
}

func (e *heartbeat) drawRings(color state.ColorConfig, frame *state.Frame) {
	r, g, b := modeColor(color, 0.95, e.t)

	const cx, cy = 64.0, 60.0

	for _, ring := range e.rings {
		steps := int(ring.radius * 6)
		if steps < 8 {
			steps = 8
		}

		for i := 0; i < steps; i++ {
			angle := 2 * math.Pi * float64(i) / float64(steps)
			x := int(cx + ring.radius*math.Cos(angle))
			y := int(cy + ring.radius*math.Sin(angle))

			addPixel(frame, x, y, r*ring.intensity, g*ring.intensity, b*ring.intensity)
		}
	}
}
