package effects

import (
	"math"

	"github.com/kgander/auravis/internal/state"
)

// hsvToRGB converts an HSV triple (each in [0,1]) to an RGB triple in
// [0,1], grounded in the retrieved original source's hsv_to_rgb helper.
func hsvToRGB(h, s, v float64) (r, g, b float64) {
	c := v * s
	hh := h * 6
	x := c * (1 - abs(mod(hh, 2)-1))
	m := v - c

	switch int(hh) {
	case 0:
		r, g, b = c, x, 0
	case 1:
		r, g, b = x, c, 0
	case 2:
		r, g, b = 0, c, x
	case 3:
		r, g, b = 0, x, c
	case 4:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return r + m, g + m, b + m
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}

func mod(v, m float64) float64 {
	r := v
	for r >= m {
		r -= m
	}

	for r < 0 {
		r += m
	}

	return r
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}

// modeColor resolves the process-wide color config into a concrete RGB
// triple for a given hue cursor in [0,1), following spec §4.3: rainbow
// rotates hue with time; fire/ocean/sunset use fixed hue ranges; custom
// applies the configured color with a temporal modulation factor.
func modeColor(cfg state.ColorConfig, hue, t float64) (r, g, b float64) {
	switch cfg.Mode.Normalize() {
	case state.ColorFire:
		return hsvToRGB(0.0+mod(hue, 1)*0.08, 1.0, 1.0)
	case state.ColorOcean:
		return hsvToRGB(0.5+mod(hue, 1)*0.12, 0.9, 1.0)
	case state.ColorSunset:
		return hsvToRGB(0.02+mod(hue, 1)*0.08, 0.85, 1.0)
	case state.ColorCustom:
		mod13 := 0.7 + 0.3*((math.Sin(t*0.05)+1)/2)

		return clamp01(cfg.Custom[0] * mod13), clamp01(cfg.Custom[1] * mod13), clamp01(cfg.Custom[2] * mod13)
	default:
		return hsvToRGB(mod(hue, 1), 1.0, 1.0)
	}
}

// setPixel writes an RGB triple (each in [0,1]) into frame at (x, y),
// clamping the channel values; coordinates outside the frame are ignored.
func setPixel(frame *state.Frame, x, y int, r, g, b float64) {
	if x < 0 || x >= state.FrameWidth || y < 0 || y >= state.FrameHeight {
		return
	}

	idx := (y*state.FrameWidth + x) * 3
	frame[idx] = toByte(r)
	frame[idx+1] = toByte(g)
	frame[idx+2] = toByte(b)
}

// addPixel additively blends an RGB triple into the existing pixel at
// (x, y), saturating each channel at 255 (spec §4.3 ParticleSystem).
func addPixel(frame *state.Frame, x, y int, r, g, b float64) {
	if x < 0 || x >= state.FrameWidth || y < 0 || y >= state.FrameHeight {
		return
	}

	idx := (y*state.FrameWidth + x) * 3
	frame[idx] = addByte(frame[idx], r)
	frame[idx+1] = addByte(frame[idx+1], g)
	frame[idx+2] = addByte(frame[idx+2], b)
}

func addByte(existing byte, v float64) byte {
	sum := float64(existing) + v*255
	if sum > 255 {
		sum = 255
	}

	if sum < 0 {
		sum = 0
	}

	return byte(sum)
}

func toByte(v float64) byte {
	v = clamp01(v)

	return byte(v * 255)
}

// bandSummary computes the bass/mid/high audio summary bands shared by
// every effect (spec §4.3: bass = mean(0..8), mid = mean(8..24), high =
// mean(24..64)).
func bandSummary(spectrum state.Spectrum) (bass, mid, high float64) {
	bass = meanRange(spectrum, 0, 8)
	mid = meanRange(spectrum, 8, 24)
	high = meanRange(spectrum, 24, 64)

	return bass, mid, high
}

func meanRange(spectrum state.Spectrum, lo, hi int) float64 {
	sum := 0.0
	for i := lo; i < hi; i++ {
		sum += spectrum[i]
	}

	return sum / float64(hi-lo)
}
