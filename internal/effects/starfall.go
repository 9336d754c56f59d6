package effects

import "github.com/kgander/auravis/internal/state"

const maxTrailPoints = 40

type trailPoint struct{ x, y float64 }

type shootingStar struct {
	x, y       float64
	vx, vy     float64
	temp       float64 // stellar temperature, drives color
	trail      []trailPoint
	age        float64
	maxAge     float64
}

// starfall spawns shooting stars from the top/sides at an audio-rate
// interval, advancing them with gentle friction, a weak gravitational
// term and turbulence (spec §4.3).
type starfall struct {
	stars       []shootingStar
	ticksToNext float64
	rng         *xorshift
}

func newStarfall() *starfall {
	return &starfall{rng: newXorshift(), ticksToNext: 20}
}

func (e *starfall) Name() string        { return "Starfall" }
func (e *starfall) Description() string  { return "Shooting stars with turbulent trails" }
func (e *starfall) SupportsTransitions() bool { return true }

func (e *starfall) Reset() {
	e.stars = nil
	e.ticksToNext = 20
}

func (e *starfall) Render(spectrum state.Spectrum, color state.ColorConfig, frame *state.Frame) {
	bass, mid, high := bandSummary(spectrum)
	totalEnergy := (bass + mid + high) / 3

	e.spawn(totalEnergy)
	e.update(totalEnergy)
	e.draw(color, frame)
}

func (e *starfall) spawn(totalEnergy float64) {
	e.ticksToNext--
	if e.ticksToNext > 0 {
		return
	}

	interval := 45 - 37*totalEnergy // 8..45 ticks
	if interval < 8 {
		interval = 8
	}

	e.ticksToNext = interval

	star := shootingStar{
		x:      e.rng.floatRange(-60, 188),
		y:      -10,
		vx:     e.rng.floatRange(-2, 2),
		vy:     e.rng.floatRange(2, 5),
		temp:   e.rng.floatRange(0.4, 1.0),
		maxAge: e.rng.floatRange(80, 200),
	}

	e.stars = append(e.stars, star)

	if totalEnergy > 0.85 && e.rng.float64() < 0.1 {
		for i := 0; i < 8; i++ {
			e.stars = append(e.stars, shootingStar{
				x:      e.rng.floatRange(-60, 188),
				y:      -10,
				vx:     e.rng.floatRange(-3, 3),
				vy:     e.rng.floatRange(3, 7),
				temp:   e.rng.floatRange(0.4, 1.0),
				maxAge: e.rng.floatRange(40, 100),
			})
		}
	}
}

func (e *starfall) update(totalEnergy float64) {
	out := e.stars[:0]

	for i := range e.stars {
		s := &e.stars[i]

		s.trail = append(s.trail, trailPoint{s.x, s.y})
		if len(s.trail) > maxTrailPoints {
			s.trail = s.trail[1:]
		}

		s.vx *= 0.995
		s.vy += 0.02 // weak gravity
		s.vx += e.rng.floatRange(-0.1, 0.1) * (1 + totalEnergy)

		s.x += s.vx
		s.y += s.vy
		s.age++

		if s.age > s.maxAge {
			continue
		}

		if s.x < -60 || s.x > 188 || s.y < -60 || s.y > 188 {
			continue
		}

		out = append(out, *s)
	}

	e.stars = out
}

func (e *starfall) draw(color state.ColorConfig, frame *state.Frame) {
	for _, s := range e.stars {
		r, g, b := starColor(s.temp, color)

		for i, p := range s.trail {
			fade := float64(i+1) / float64(len(s.trail))
			addPixel(frame, int(p.x), int(p.y), r*fade*0.5, g*fade*0.5, b*fade*0.5)
		}

		setPixel(frame, int(s.x), int(s.y), r, g, b)
	}
}

// starColor maps stellar temperature to a blackbody-ish hue, then
// defers to the process-wide color mode the same as other effects.
func starColor(temp float64, color state.ColorConfig) (r, g, b float64) {
	return modeColor(color, 0.6-0.2*temp, temp*100)
}
