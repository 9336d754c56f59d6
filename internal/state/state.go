// Package state holds the shared mutable cells described in spec §3 and
// §5: the current spectrum, the current frame, run flags, gain, brightness,
// and the process-wide color configuration. Every cell is guarded by a
// short critical section; no cell is ever held across I/O, and readers
// always observe a complete value from some past write (no torn frames).
package state

import (
	"sync"
)

// FrameWidth, FrameHeight and FrameBytes describe the 128x128 RGB raster
// produced each render tick (spec §3).
const (
	FrameWidth  = 128
	FrameHeight = 128
	FrameBytes  = FrameWidth * FrameHeight * 3
)

// SpectrumBands is the number of perceptually weighted magnitude bands
// produced by the spectrum analyzer each audio callback (spec §4.2).
const SpectrumBands = 64

// ColorMode is one of the five color configuration tags in spec §3.
type ColorMode string

const (
	ColorRainbow ColorMode = "rainbow"
	ColorFire    ColorMode = "fire"
	ColorOcean   ColorMode = "ocean"
	ColorSunset  ColorMode = "sunset"
	ColorCustom  ColorMode = "custom"
)

// Normalize maps any unrecognized mode tag to "rainbow" on read, per
// spec §4.3's set_color_mode contract.
func (m ColorMode) Normalize() ColorMode {
	switch m {
	case ColorRainbow, ColorFire, ColorOcean, ColorSunset, ColorCustom:
		return m
	default:
		return ColorRainbow
	}
}

// ColorConfig is the small, copy-on-read value every effect reads once per
// render (spec §4.3, §9 "process-wide color config").
type ColorConfig struct {
	Mode   ColorMode
	Custom [3]float64 // r, g, b in [0, 1]
}

// Frame is a 128x128 row-major RGB raster.
type Frame [FrameBytes]byte

// Spectrum is the 64-band magnitude spectrum.
type Spectrum [SpectrumBands]float64

// Shared is the process-wide shared-state block. Zero value is usable: an
// all-black frame, an all-zero spectrum, an empty color mode (read back as
// rainbow), gain/brightness of 0, and every run flag false. New sets gain
// and brightness to 1.0.
type Shared struct {
	mu       sync.RWMutex
	spectrum Spectrum
	frame    Frame
	color    ColorConfig

	gain       float64
	brightness float64

	audioRunning bool
	ledRunning   bool
}

// New returns a Shared with the defaults spec.md implies: gain 1.0,
// brightness 1.0, rainbow color mode, all-black frame, all-zero spectrum.
func New() *Shared {
	return &Shared{
		color:      ColorConfig{Mode: ColorRainbow},
		gain:       1.0,
		brightness: 1.0,
	}
}

// Spectrum returns a copy of the current spectrum. Safe for concurrent use.
func (s *Shared) Spectrum() Spectrum {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.spectrum
}

// SetSpectrum fully replaces the spectrum cell. Only the audio callback
// thread is expected to call this (single-writer discipline, spec §3).
func (s *Shared) SetSpectrum(sp Spectrum) {
	s.mu.Lock()
	s.spectrum = sp
	s.mu.Unlock()
}

// Frame returns a copy of the current frame. Safe for concurrent use; the
// copy happens under the lock so callers never observe a torn frame.
func (s *Shared) Frame() Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.frame
}

// SetFrame fully replaces the frame cell. Only the render thread is
// expected to call this (single-writer discipline, spec §3).
func (s *Shared) SetFrame(f Frame) {
	s.mu.Lock()
	s.frame = f
	s.mu.Unlock()
}

// ColorConfig returns a copy of the current color configuration, with the
// mode normalized per spec §4.3.
func (s *Shared) ColorConfig() ColorConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cc := s.color
	cc.Mode = cc.Mode.Normalize()

	return cc
}

// SetColorMode writes the process-wide mode. Unknown modes are stored
// as-is and normalized to "rainbow" on read, per spec §4.3.
func (s *Shared) SetColorMode(mode ColorMode) {
	s.mu.Lock()
	s.color.Mode = mode
	s.mu.Unlock()
}

// SetCustomColor writes the process-wide custom color. Callers are
// expected to have already clamped r, g, b to [0, 1] (spec §4.3).
func (s *Shared) SetCustomColor(r, g, b float64) {
	s.mu.Lock()
	s.color.Custom = [3]float64{r, g, b}
	s.mu.Unlock()
}

// Gain returns the current audio input gain multiplier.
func (s *Shared) Gain() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.gain
}

// SetGain sets the audio input gain multiplier.
func (s *Shared) SetGain(g float64) {
	s.mu.Lock()
	s.gain = g
	s.mu.Unlock()
}

// Brightness returns the current LED output brightness multiplier.
func (s *Shared) Brightness() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.brightness
}

// SetBrightness sets the current LED output brightness multiplier.
func (s *Shared) SetBrightness(b float64) {
	s.mu.Lock()
	s.brightness = b
	s.mu.Unlock()
}

// AudioRunning reports whether audio capture is currently requested to run.
func (s *Shared) AudioRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.audioRunning
}

// SetAudioRunning sets the audio-capture run flag (spec §5 cancellation).
func (s *Shared) SetAudioRunning(running bool) {
	s.mu.Lock()
	s.audioRunning = running
	s.mu.Unlock()
}

// LEDRunning reports whether LED output is currently requested to run.
func (s *Shared) LEDRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledRunning
}

// SetLEDRunning sets the LED-output run flag (spec §5 cancellation).
func (s *Shared) SetLEDRunning(running bool) {
	s.mu.Lock()
	s.ledRunning = running
	s.mu.Unlock()
}
