// Package effects implements the fixed eight-effect registry of spec
// §4.3: SpectrumBars, CircularWave, ParticleSystem, Heartbeat, Starfall,
// Rain, Flames and Applaudimetre, plus the Engine that cross-fades
// between them. Grounded in the retrieved original source's
// effects/mod.rs EffectEngine, reworked into a Go interface with
// explicit dispatch rather than trait objects.
package effects

import (
	"fmt"
	"strings"
	"sync"

	"github.com/kgander/auravis/internal/logging"
	"github.com/kgander/auravis/internal/state"
)

var log = logging.For("effects")

// Effect is the uniform contract every renderer satisfies (spec §4.3).
// Render treats frame as pre-allocated write-only output.
type Effect interface {
	Render(spectrum state.Spectrum, color state.ColorConfig, frame *state.Frame)
	Name() string
	Description() string
	Reset()
	SupportsTransitions() bool
}

// transitionStep is the per-call cross-fade advance: ~50 render ticks to
// complete a switch at 60fps (spec §4.3, original source comment).
const transitionStep = 0.02

// Engine owns the ordered effect registry and the current cross-fade
// state. All engine operations are expected to run on the single render
// thread (spec §5: "the Effect Engine is single-threaded internally").
type Engine struct {
	mu sync.Mutex

	effects []Effect
	current int

	transitioning bool
	target        int
	progress      float64

	color state.ColorConfig
}

// NewEngine builds the fixed eight-effect registry in spec order.
func NewEngine() *Engine {
	return &Engine{
		effects: []Effect{
			newSpectrumBars(),
			newCircularWave(),
			newParticleSystem(),
			newHeartbeat(),
			newStarfall(),
			newRain(),
			newFlames(),
			newApplaudimetre(),
		},
		color: state.ColorConfig{Mode: state.ColorRainbow},
	}
}

// AvailableEffects returns the fixed effect names in registry order.
func AvailableEffects() []string {
	return []string{
		"SpectrumBars", "CircularWave", "ParticleSystem", "Heartbeat",
		"Starfall", "Rain", "Flames", "Applaudimetre",
	}
}

// Render produces a 128x128 RGB frame from spectrum. During a transition
// it renders both the current and target effects into scratch buffers
// and linearly blends them per channel, advancing progress by
// transitionStep per call and finalizing the switch once progress >= 1.
func (e *Engine) Render(spectrum state.Spectrum) state.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()

	var frame state.Frame

	if !e.transitioning {
		e.effects[e.current].Render(spectrum, e.color, &frame)

		return frame
	}

	var from, to state.Frame
	e.effects[e.current].Render(spectrum, e.color, &from)
	e.effects[e.target].Render(spectrum, e.color, &to)

	blendFrames(&frame, &from, &to, e.progress)

	e.progress += transitionStep
	if e.progress >= 1.0 {
		e.current = e.target
		e.transitioning = false
		e.progress = 0
	}

	return frame
}

// blendFrames linearly interpolates every channel of every pixel between
// from and to by ratio, clamped to [0, 1] (spec §4.3).
func blendFrames(dst, from, to *state.Frame, ratio float64) {
	ratio = clamp01(ratio)
	inv := 1 - ratio

	for i := range dst {
		dst[i] = byte(float64(from[i])*inv + float64(to[i])*ratio)
	}
}

// SetEffect switches the active effect. If the current effect declares
// transition support, it begins a cross-fade; otherwise it switches
// immediately. Out-of-range index is an error; equal index is a no-op.
func (e *Engine) SetEffect(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.effects) {
		return fmt.Errorf("effects: index %d out of range [0,%d)", index, len(e.effects))
	}

	if index == e.current {
		return nil
	}

	if e.effects[e.current].SupportsTransitions() && !e.transitioning {
		e.transitioning = true
		e.target = index
		e.progress = 0
	} else {
		e.current = index
		e.transitioning = false
		e.progress = 0
	}

	return nil
}

// SetEffectByName resolves a case-insensitive effect name to an index
// and delegates to SetEffect.
func (e *Engine) SetEffectByName(name string) error {
	names := AvailableEffects()
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return e.SetEffect(i)
		}
	}

	return fmt.Errorf("effects: unknown effect name %q", name)
}

// CurrentEffect returns the active (or transition-source) effect index.
func (e *Engine) CurrentEffect() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.current
}

// CurrentEffectName returns the active effect's name.
func (e *Engine) CurrentEffectName() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.effects[e.current].Name()
}

// SetColorMode writes the process-wide color config mode and propagates
// it to every effect's private copy via the shared color cell read each
// render; unknown modes normalize to "rainbow" on read.
func (e *Engine) SetColorMode(mode state.ColorMode) {
	e.mu.Lock()
	e.color.Mode = mode
	e.mu.Unlock()

	log.Info("color mode changed", "mode", mode)
}

// ColorMode returns the current color mode, normalized.
func (e *Engine) ColorMode() state.ColorMode {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.color.Mode.Normalize()
}

// SetCustomColor writes the process-wide custom color. Inputs are
// expected to already be validated to [0, 1] by the caller (spec §4.3).
func (e *Engine) SetCustomColor(r, g, b float64) {
	e.mu.Lock()
	e.color.Custom = [3]float64{r, g, b}
	e.mu.Unlock()

	log.Info("custom color changed", "r", r, "g", g, "b", b)
}

// CustomColor returns the current custom color.
func (e *Engine) CustomColor() [3]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.color.Custom
}

// Stats is the snapshot reported by get_effect_stats (spec §6).
type Stats struct {
	CurrentEffect      int
	CurrentEffectName  string
	TotalEffects       int
	Transitioning      bool
	TransitionProgress float64
	ColorMode          state.ColorMode
	CustomColor        [3]float64
}

// GetStats returns a snapshot of the engine's state.
func (e *Engine) GetStats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Stats{
		CurrentEffect:      e.current,
		CurrentEffectName:  e.effects[e.current].Name(),
		TotalEffects:       len(e.effects),
		Transitioning:      e.transitioning,
		TransitionProgress: e.progress,
		ColorMode:          e.color.Mode.Normalize(),
		CustomColor:        e.color.Custom,
	}
}

// ResetAll invokes every effect's reset contract; used on system
// restart (spec §4.3).
func (e *Engine) ResetAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, eff := range e.effects {
		eff.Reset()
	}

	e.transitioning = false
	e.progress = 0

	log.Info("reset all effects")
}
