package effects

import (
	"math"

	"github.com/kgander/auravis/internal/state"
)

const (
	flamesBaseMax = 300
	flamesEnergyMax = 200
)

type flameParticle struct {
	x, y   float64
	vy     float64
	temp   float64
	radius float64
	age    float64
}

// flames is a heat-based particle field: particles spawn at the bottom
// row, rise and cool, and are rasterized into a temperature buffer by
// max-blending, then mapped to color by the current mode (spec §4.3).
type flames struct {
	particles []flameParticle
	smoothed  float64
	rng       *xorshift
}

func newFlames() *flames {
	return &flames{rng: newXorshift()}
}

func (e *flames) Name() string        { return "Flames" }
func (e *flames) Description() string  { return "Heat-particle flame field" }
func (e *flames) SupportsTransitions() bool { return true }

func (e *flames) Reset() {
	e.particles = nil
	e.smoothed = 0
}

func (e *flames) Render(spectrum state.Spectrum, color state.ColorConfig, frame *state.Frame) {
	bass, mid, high := bandSummary(spectrum)
	soundIntensity := (bass + mid + high) / 3

	e.smoothed += (soundIntensity - e.smoothed) * 0.2

	e.spawn(soundIntensity)
	e.update(soundIntensity)

	var temperature [state.FrameWidth * state.FrameHeight]float64
	e.rasterize(&temperature)
	e.paint(&temperature, color, frame)
}

func (e *flames) spawn(soundIntensity float64) {
	ceiling := flamesBaseMax + int(flamesEnergyMax*soundIntensity)

	base := int(2 + 15*e.smoothed)
	for i := 0; i < base && len(e.particles) < ceiling; i++ {
		x := e.rng.floatRange(0, state.FrameWidth)
		centerProximity := 1 - abs(x-64)/64

		e.particles = append(e.particles, flameParticle{
			x:      x,
			y:      state.FrameHeight - 1,
			vy:     -e.rng.floatRange(0.5, 1.5),
			temp:   0.5 + 0.5*centerProximity,
			radius: e.rng.floatRange(2, 5),
		})
	}

	if soundIntensity > 0.3 {
		sparks := int((soundIntensity - 0.3) * 20)
		for i := 0; i < sparks && len(e.particles) < ceiling; i++ {
			x := e.rng.floatRange(0, state.FrameWidth)

			e.particles = append(e.particles, flameParticle{
				x:      x,
				y:      state.FrameHeight - 1,
				vy:     -e.rng.floatRange(1, 2.5),
				temp:   e.rng.floatRange(0.7, 1.0),
				radius: e.rng.floatRange(1, 3),
			})
		}
	}
}

func (e *flames) update(soundIntensity float64) {
	out := e.particles[:0]

	for i := range e.particles {
		p := &e.particles[i]

		p.vy -= 0.15 + 0.1*soundIntensity
		p.y += p.vy
		p.age++

		cooling := coolingRate(p.age)
		p.temp *= 1 - cooling
		p.radius *= 0.99

		if p.y < 0 || p.temp < 0.02 || p.radius < 0.5 {
			continue
		}

		out = append(out, *p)
	}

	e.particles = out
}

func coolingRate(age float64) float64 {
	rate := 0.01 + age*0.0005
	if rate > 0.15 {
		return 0.15
	}

	return rate
}

func (e *flames) rasterize(temperature *[state.FrameWidth * state.FrameHeight]float64) {
	for _, p := range e.particles {
		cx, cy := int(p.x), int(p.y)
		r := int(p.radius) + 1

		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				x, y := cx+dx, cy+dy
				if x < 0 || x >= state.FrameWidth || y < 0 || y >= state.FrameHeight {
					continue
				}

				dist := math.Sqrt(float64(dx*dx + dy*dy))
				if dist > p.radius {
					continue
				}

				attenuation := 1 - dist/p.radius
				contribution := clamp01(p.temp * attenuation)

				idx := y*state.FrameWidth + x
				if contribution > temperature[idx] {
					temperature[idx] = contribution
				}
			}
		}
	}
}

func (e *flames) paint(temperature *[state.FrameWidth * state.FrameHeight]float64, color state.ColorConfig, frame *state.Frame) {
	for y := 0; y < state.FrameHeight; y++ {
		for x := 0; x < state.FrameWidth; x++ {
			temp := clamp01(temperature[y*state.FrameWidth+x])
			if temp <= 0 {
				continue
			}

			r, g, b := flameColor(temp, color)
			setPixel(frame, x, y, r, g, b)
		}
	}
}

// flameColor maps a [0,1] temperature to color. In fire/rainbow-default
// modes it follows a blackbody-like ramp (red -> orange -> yellow -> white);
// other modes defer to modeColor with temperature driving the hue cursor.
func flameColor(temp float64, color state.ColorConfig) (r, g, b float64) {
	if color.Mode.Normalize() == state.ColorFire || color.Mode.Normalize() == state.ColorRainbow {
		r = clamp01(temp * 2)
		g = clamp01(temp*temp - 0.2)
		b = clamp01(temp*temp*temp - 0.5)

		return r, g, b
	}

	return modeColor(color, temp, temp*10)
}
