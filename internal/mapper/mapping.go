// Package mapper implements the bit-exact pixel-to-physical mapping of
// spec §4.4: a 128x128 raster frame onto 64 serpentine LED strips spread
// across 128 DMX universes. Per spec §9 ("precompute per-LED (x, y) tables
// once at startup; the emitter path is then a flat memcpy pattern"), every
// (universe, dmx-slot) -> (x, y) pair is computed once in New and the
// per-frame path is a tight copy loop.
package mapper

import (
	"github.com/kgander/auravis/internal/state"
)

const (
	// Quarters is the number of Art-Net controllers / raster quadrants.
	Quarters = 4
	// BandsPerQuarter is the number of physical LED strips per quarter.
	BandsPerQuarter = 16
	// UniversesPerFrame is the total DMX universes emitted per frame.
	UniversesPerFrame = Quarters * BandsPerQuarter * 2

	// stripLEDs is the number of addressable pixels on one physical strip.
	stripLEDs = 259
	// universeZeroLEDs and universeOneLEDs split a strip's 259 LEDs across
	// its two universes (170 + 89 = 259), per spec §4.4.
	universeZeroLEDs = 170
	universeOneLEDs  = 89
)

// pixelCoord is a single precomputed (x, y) sample point.
type pixelCoord struct{ x, y int }

// UniverseID returns the universe number for quarter q, band b, half h, per
// spec §4.4 / §6: q*32 + b*2 + h.
func UniverseID(quarter, band, half int) int {
	return quarter*32 + band*2 + half
}

// Mapper holds the precomputed pixel tables and entity bookkeeping for all
// 128 universes.
type Mapper struct {
	leds    [UniversesPerFrame][]pixelCoord
	configs [UniversesPerFrame]*UniverseConfig
}

// New precomputes the full serpentine mapping. It never fails: the
// topology is fixed by the installation's wiring, not by runtime input.
func New() *Mapper {
	m := &Mapper{}

	var nextEntity uint16

	for q := 0; q < Quarters; q++ {
		for b := 0; b < BandsPerQuarter; b++ {
			colUp := q*32 + b*2
			colDown := colUp + 1

			u0 := UniverseID(q, b, 0)
			u1 := UniverseID(q, b, 1)

			leds0 := buildUniverseZero(colUp, colDown)
			leds1 := buildUniverseOne(colDown)

			m.leds[u0] = leds0
			m.leds[u1] = leds1

			m.configs[u0] = NewUniverseConfig(uint8(u0 % 256)) //nolint:gosec
			m.configs[u0].AddRange(nextEntity, nextEntity+uint16(len(leds0))-1, 0)
			nextEntity += uint16(len(leds0))

			m.configs[u1] = NewUniverseConfig(uint8(u1 % 256)) //nolint:gosec
			m.configs[u1].AddRange(nextEntity, nextEntity+uint16(len(leds1))-1, 0)
			nextEntity += uint16(len(leds1))
		}
	}

	return m
}

// buildUniverseZero implements spec §4.4's universe-offset-0 table: the
// first 130 slots climb col_up bottom-to-top, the next 40 slots start
// col_down's descent top-to-bottom.
func buildUniverseZero(colUp, colDown int) []pixelCoord {
	leds := make([]pixelCoord, 0, universeZeroLEDs)

	for led := 0; led < 130; led++ {
		y := 127 - (led * state.FrameHeight / 130)
		y = clampInt(y, 0, 127)
		leds = append(leds, pixelCoord{x: colUp, y: y})
	}

	for led := 0; led < 40; led++ {
		y := led * state.FrameHeight / 129
		y = clampInt(y, 0, 127)
		leds = append(leds, pixelCoord{x: colDown, y: y})
	}

	return leds
}

// buildUniverseOne implements spec §4.4's universe-offset-1 table: the
// remaining 89 slots of col_down's descent, led indices 40..128 inclusive.
func buildUniverseOne(colDown int) []pixelCoord {
	leds := make([]pixelCoord, 0, universeOneLEDs)

	for led := 40; led < 129; led++ {
		y := led * state.FrameHeight / 129
		y = clampInt(y, 0, 127)
		leds = append(leds, pixelCoord{x: colDown, y: y})
	}

	return leds
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DMXForUniverse samples the frame through the precomputed table for
// universe and returns a 512-byte DMX payload with trailing bytes left
// zero, per spec §4.4.
func (m *Mapper) DMXForUniverse(frame *state.Frame, universe int) [512]byte {
	var dmx [512]byte

	for i, px := range m.leds[universe] {
		idx := (px.y*state.FrameWidth + px.x) * 3
		dmx[i*3] = frame[idx]
		dmx[i*3+1] = frame[idx+1]
		dmx[i*3+2] = frame[idx+2]
	}

	return dmx
}

// Entities returns the Entity values the given universe's payload encodes:
// one per precomputed LED slot, in the entity-id range registered for that
// universe by New.
func (m *Mapper) Entities(frame *state.Frame, universe int) []Entity {
	cfg := m.configs[universe]
	leds := m.leds[universe]

	entities := make([]Entity, len(leds))

	var start uint16
	if len(cfg.ranges) > 0 {
		start = cfg.ranges[0].EntityStart
	}

	for i, px := range leds {
		idx := (px.y*state.FrameWidth + px.x) * 3
		entities[i] = NewEntity(start+uint16(i), frame[idx], frame[idx+1], frame[idx+2])
	}

	return entities
}

// UniverseConfig returns the registered sextet-position bookkeeping for
// universe, primarily for tests of spec §8's monotonicity property.
func (m *Mapper) UniverseConfig(universe int) *UniverseConfig {
	return m.configs[universe]
}

// ApplyPostProcessing is the hook point spec §9 leaves optional: gamma
// correction, brightness scaling, and color temperature are not applied in
// the render path. Nothing in this module calls it: setting it to a non-nil
// function has no effect, and the emitter sends each mapped DMX payload
// unchanged.
var ApplyPostProcessing func(dmx *[512]byte, brightness, gamma, colorTemperature float64)
