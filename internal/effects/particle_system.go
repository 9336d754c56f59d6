package effects

import "github.com/kgander/auravis/internal/state"

const maxParticles = 2000

type particle struct {
	x, y       float64
	vx, vy     float64
	life       float64
	r, g, b    float64
	large      bool
}

// particleSystem seeds and advances up to 2,000 particles driven by the
// audio summary bands, evicting dead or out-of-frame particles every
// tick (spec §4.3).
type particleSystem struct {
	particles []particle
	rng       *xorshift
}

func newParticleSystem() *particleSystem {
	return &particleSystem{rng: newXorshift()}
}

func (e *particleSystem) Name() string        { return "ParticleSystem" }
func (e *particleSystem) Description() string  { return "Audio-reactive particle swarm" }
func (e *particleSystem) SupportsTransitions() bool { return true }

func (e *particleSystem) Reset() {
	e.particles = e.particles[:0]
}

func (e *particleSystem) Render(spectrum state.Spectrum, color state.ColorConfig, frame *state.Frame) {
	bass, mid, high := bandSummary(spectrum)
	totalEnergy := (bass + mid + high) / 3

	e.spawn(bass, mid, high)
	e.update(totalEnergy)
	e.draw(color, frame)
}

func (e *particleSystem) spawn(bass, mid, high float64) {
	var toSpawn int

	if len(e.particles) < 100 {
		toSpawn = 2
	} else {
		fromBass := int(bass * 20)
		fromMid := int(mid * 10)
		fromHigh := int(high * 5)
		toSpawn = fromBass + fromMid + fromHigh
	}

	dominant := 0 // 0=bass, 1=mid, 2=high
	if mid > bass && mid >= high {
		dominant = 1
	} else if high > bass && high > mid {
		dominant = 2
	}

	for i := 0; i < toSpawn && len(e.particles) < maxParticles; i++ {
		idx := len(e.particles)
		category := (idx + dominant) % 3

		p := particle{
			x:     e.rng.floatRange(0, state.FrameWidth),
			y:     state.FrameHeight + e.rng.floatRange(0, 5),
			vx:    e.rng.floatRange(-1, 1),
			vy:    e.rng.floatRange(-4, -1),
			life:  1.0,
			large: idx%3 == 0,
		}

		switch category {
		case 0:
			p.r, p.g, p.b = 1, 0.2, 0.2
		case 1:
			p.r, p.g, p.b = 0.2, 1, 0.3
		default:
			p.r, p.g, p.b = 0.3, 0.4, 1
		}

		e.particles = append(e.particles, p)
	}
}

func (e *particleSystem) update(totalEnergy float64) {
	out := e.particles[:0]

	for _, p := range e.particles {
		p.x += p.vx
		p.y += p.vy
		p.vy += 0.3 - 0.2*totalEnergy
		p.vx *= 0.97 - 0.02*totalEnergy
		p.vy *= 0.97 - 0.02*totalEnergy
		p.life -= 0.02 - 0.01*totalEnergy

		if p.life <= 0 {
			continue
		}

		if p.x < -5 || p.x >= state.FrameWidth+5 || p.y < -5 || p.y >= state.FrameHeight+5 {
			continue
		}

		out = append(out, p)
	}

	e.particles = out
}

func (e *particleSystem) draw(color state.ColorConfig, frame *state.Frame) {
	for _, p := range e.particles {
		x, y := int(p.x), int(p.y)
		brightness := p.life

		addPixel(frame, x, y, p.r*brightness, p.g*brightness, p.b*brightness)

		if p.large {
			half := brightness * 0.5
			addPixel(frame, x-1, y, p.r*half, p.g*half, p.b*half)
			addPixel(frame, x+1, y, p.r*half, p.g*half, p.b*half)
			addPixel(frame, x, y-1, p.r*half, p.g*half, p.b*half)
			addPixel(frame, x, y+1, p.r*half, p.g*half, p.b*half)
		}
	}
}
