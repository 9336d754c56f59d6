package effects

import (
	"math"

	"github.com/kgander/auravis/internal/state"
)

const maxDrops = 200

type raindrop struct {
	x, y   float64
	length float64
	speed  float64
}

// rain spawns falling drops whose count and speed scale with total audio
// energy, with a sinusoidal wind shift and ground-impact splashes (spec
// §4.3).
type rain struct {
	drops    []raindrop
	windT    float64
	rng      *xorshift
}

func newRain() *rain {
	return &rain{rng: newXorshift()}
}

func (e *rain) Name() string        { return "Rain" }
func (e *rain) Description() string  { return "Falling rain with wind shift and ground splashes" }
func (e *rain) SupportsTransitions() bool { return true }

func (e *rain) Reset() {
	e.drops = nil
	e.windT = 0
}

func (e *rain) Render(spectrum state.Spectrum, color state.ColorConfig, frame *state.Frame) {
	bass, mid, high := bandSummary(spectrum)
	totalEnergy := (bass + mid + high) / 3

	e.windT += 0.05
	wind := math.Sin(e.windT) * mid * 3

	e.spawn(totalEnergy)
	e.update(wind, totalEnergy, color, frame)
}

func (e *rain) spawn(totalEnergy float64) {
	toSpawn := int(1 + totalEnergy*8)

	for i := 0; i < toSpawn && len(e.drops) < maxDrops; i++ {
		e.drops = append(e.drops, raindrop{
			x:      e.rng.floatRange(0, state.FrameWidth),
			y:      -e.rng.floatRange(0, 10),
			length: e.rng.floatRange(3, 12),
			speed:  e.rng.floatRange(2, 4),
		})
	}
}

func (e *rain) update(wind, totalEnergy float64, color state.ColorConfig, frame *state.Frame) {
	r, g, b := modeColor(color, 0.55, e.windT*100)

	out := e.drops[:0]

	for i := range e.drops {
		d := &e.drops[i]

		d.x += wind * 0.1
		d.y += d.speed * (1 + totalEnergy)

		if d.y > state.FrameHeight-1 {
			e.drawSplash(int(d.x), totalEnergy, r, g, b, frame)
			continue
		}

		for seg := 0; seg < int(d.length); seg++ {
			setPixel(frame, int(d.x), int(d.y)-seg, r, g, b)
		}

		out = append(out, *d)
	}

	e.drops = out
}

func (e *rain) drawSplash(x int, totalEnergy float64, r, g, b float64, frame *state.Frame) {
	width := int(2 + 6*totalEnergy)

	for dx := -width; dx <= width; dx++ {
		fade := 1 - abs(float64(dx))/float64(width+1)
		setPixel(frame, x+dx, state.FrameHeight-1, r*fade, g*fade, b*fade)
	}
}
