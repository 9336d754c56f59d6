package effects

import (
	"math"

	"github.com/kgander/auravis/internal/state"
)

const (
	applaudimetreSensitivity = 2.5
	applaudimetreAttack      = 0.3
	applaudimetreRelease     = 0.88
	applaudimetreHistoryLen  = 60
	applaudimetrePeakHoldTicks = 180 // 3 seconds at 60fps
	applaudimetreColLo       = 40
	applaudimetreColHi       = 88
)

// applaudimetre is a vertical applause meter centered on columns 40-88,
// with an adaptive gain that keeps the recent mean near 0.5, a
// peak-hold/decay marker, and a spark-particle accent (spec §4.3).
type applaudimetre struct {
	smoothed   float64
	gain       float64
	history    [applaudimetreHistoryLen]float64
	historyIdx int

	peak         float64
	peakHoldLeft int

	tick int
	rng  *xorshift
}

func newApplaudimetre() *applaudimetre {
	return &applaudimetre{gain: 1.0, rng: newXorshift()}
}

func (e *applaudimetre) Name() string        { return "Applaudimetre" }
func (e *applaudimetre) Description() string  { return "Vertical applause meter with adaptive gain" }
func (e *applaudimetre) SupportsTransitions() bool { return true }

func (e *applaudimetre) Reset() {
	e.smoothed = 0
	e.gain = 1.0
	e.history = [applaudimetreHistoryLen]float64{}
	e.historyIdx = 0
	e.peak = 0
	e.peakHoldLeft = 0
	e.tick = 0
}

func (e *applaudimetre) Render(spectrum state.Spectrum, color state.ColorConfig, frame *state.Frame) {
	bass, mid, high := bandSummary(spectrum)
	e.tick++

	level := (bass*0.6 + mid*0.3 + high*0.1) * applaudimetreSensitivity

	e.history[e.historyIdx%applaudimetreHistoryLen] = level
	e.historyIdx++

	recentMean := e.recentMean()
	if recentMean > 0.001 {
		target := 0.5 / recentMean
		e.gain += (target - e.gain) * 0.05
	}

	if e.gain < 0.1 {
		e.gain = 0.1
	}

	if e.gain > 10 {
		e.gain = 10
	}

	gained := clamp01(level * e.gain)
	level = math.Pow(gained, 0.65)

	if level > e.smoothed {
		e.smoothed = e.smoothed*applaudimetreAttack + level*(1-applaudimetreAttack)
	} else {
		e.smoothed = e.smoothed*applaudimetreRelease + level*(1-applaudimetreRelease)
	}

	if e.smoothed > e.peak {
		e.peak = e.smoothed
		e.peakHoldLeft = applaudimetrePeakHoldTicks
	} else if e.peakHoldLeft > 0 {
		e.peakHoldLeft--
	} else {
		e.peak -= 0.01
		if e.peak < 0 {
			e.peak = 0
		}
	}

	e.draw(color, frame)
}

func (e *applaudimetre) recentMean() float64 {
	sum := 0.0
	for _, v := range e.history {
		sum += v
	}

	return sum / applaudimetreHistoryLen
}

func (e *applaudimetre) draw(color state.ColorConfig, frame *state.Frame) {
	r, g, b := modeColor(color, 0.3, float64(e.tick))

	height := int(e.smoothed * float64(state.FrameHeight))
	centerCol := (applaudimetreColLo + applaudimetreColHi) / 2

	for y := state.FrameHeight - height; y < state.FrameHeight; y++ {
		for x := applaudimetreColLo; x < applaudimetreColHi; x++ {
			glow := 1 - abs(float64(x-centerCol))/float64(centerCol-applaudimetreColLo)
			setPixel(frame, x, y, r*glow, g*glow, b*glow)
		}
	}

	peakY := state.FrameHeight - int(e.peak*float64(state.FrameHeight))
	if (e.tick/15)%2 == 0 {
		for x := applaudimetreColLo; x < applaudimetreColHi; x++ {
			setPixel(frame, x, peakY, 1, 1, 1)
		}
	}

	for gy := 0; gy < state.FrameHeight; gy += 16 {
		setPixel(frame, applaudimetreColLo-2, gy, 0.3, 0.3, 0.3)
		setPixel(frame, applaudimetreColHi+1, gy, 0.3, 0.3, 0.3)
	}

	frameBrightness := e.smoothed
	setPixel(frame, applaudimetreColLo-3, state.FrameHeight/2, frameBrightness, frameBrightness, frameBrightness)
	setPixel(frame, applaudimetreColHi+2, state.FrameHeight/2, frameBrightness, frameBrightness, frameBrightness)

	if e.smoothed > 0.7 && e.rng.float64() < e.smoothed*0.3 {
		sx := applaudimetreColLo + e.rng.intn(applaudimetreColHi-applaudimetreColLo)
		sy := state.FrameHeight - height - e.rng.intn(10)
		addPixel(frame, sx, sy, 1, 1, 1)
	}
}
