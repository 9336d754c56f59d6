// Package control implements the shell-invoked control surface of spec
// §6: one method per operation, each a thin, validated wrapper over the
// audio engine, effect engine, Art-Net emitter and shared state. Grounded
// in the teacher's config/command-dispatch idiom (a single struct owning
// every subsystem handle, methods returning plain Go errors rather than
// process exit codes — exit codes are explicitly out of scope per spec §6).
package control

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/kgander/auravis/internal/artnet"
	"github.com/kgander/auravis/internal/audio"
	"github.com/kgander/auravis/internal/config"
	"github.com/kgander/auravis/internal/effects"
	"github.com/kgander/auravis/internal/logging"
	"github.com/kgander/auravis/internal/state"
)

var log = logging.For("control")

// audioEngine abstracts audio.Engine's lifecycle so the Controller can
// be constructed before a capture device is known to exist
// (start_audio_capture opens one on demand).
type audioEngine interface {
	Start() error
	Stop() error
	DeviceName() string
}

// Controller owns every subsystem handle reachable from the control
// surface (spec §6). audio is nil until start_audio_capture succeeds.
type Controller struct {
	shared  *state.Shared
	engine  *effects.Engine
	emitter *artnet.Emitter
	cfg     config.Config

	audio audioEngine

	newAudioEngine func(params audio.Params, sink audio.Sink, onError audio.ErrorFunc) (*audio.Engine, error)
	onAudioBuffer  func(pcm []float64)

	startedAt time.Time
}

// New builds a Controller over the given shared state, effect engine,
// Art-Net emitter and configuration. onAudioBuffer is the render
// pipeline's Sink (clock.RenderPipeline.OnAudioBuffer).
func New(shared *state.Shared, engine *effects.Engine, emitter *artnet.Emitter, cfg config.Config, onAudioBuffer func(pcm []float64)) *Controller {
	return &Controller{
		shared:         shared,
		engine:         engine,
		emitter:        emitter,
		cfg:            cfg,
		onAudioBuffer:  onAudioBuffer,
		newAudioEngine: audio.NewEngine,
		startedAt:      startTime(),
	}
}

// startTime is a seam so tests can avoid depending on wall-clock time;
// production always takes the real clock.
var startTime = time.Now

// GetAudioDevices lists every usable PortAudio input device.
func (c *Controller) GetAudioDevices() ([]audio.Device, error) {
	return audio.ListDevices()
}

// StartAudioCapture opens (if needed) and starts the capture engine
// against deviceName ("" selects the configured/preferred default).
func (c *Controller) StartAudioCapture(deviceName string) error {
	if c.audio != nil {
		return nil
	}

	if deviceName == "" {
		deviceName = c.cfg.Audio.DeviceName
	}

	params := audio.Params{
		DeviceName: deviceName,
		SampleRate: float64(c.cfg.Audio.SampleRate),
		Channels:   c.cfg.Audio.Channels,
		BufferSize: c.cfg.Audio.BufferSize,
	}

	eng, err := c.newAudioEngine(params, c.onAudioBuffer, func(err error) {
		log.Error("audio capture error", "err", err)
	})
	if err != nil {
		return fmt.Errorf("control: start_audio_capture: %w", err)
	}

	if err := eng.Start(); err != nil {
		return fmt.Errorf("control: start_audio_capture: %w", err)
	}

	c.audio = eng
	c.shared.SetAudioRunning(true)

	return nil
}

// StopAudioCapture halts and releases the capture engine.
func (c *Controller) StopAudioCapture() error {
	c.shared.SetAudioRunning(false)

	if c.audio == nil {
		return nil
	}

	err := c.audio.Stop()
	c.audio = nil

	if err != nil {
		return fmt.Errorf("control: stop_audio_capture: %w", err)
	}

	return nil
}

// GetCurrentSpectrum returns the most recent 64-band spectrum.
func (c *Controller) GetCurrentSpectrum() state.Spectrum {
	return c.shared.Spectrum()
}

// SetAudioGain sets the input gain multiplier.
func (c *Controller) SetAudioGain(gain float64) {
	c.shared.SetGain(gain)
}

// GetAudioGain returns the current input gain multiplier.
func (c *Controller) GetAudioGain() float64 {
	return c.shared.Gain()
}

// GetAvailableEffects lists the fixed effect names in registry order.
func (c *Controller) GetAvailableEffects() []string {
	return effects.AvailableEffects()
}

// SetEffect switches to the effect at index (cross-fading if the
// current effect supports it).
func (c *Controller) SetEffect(index int) error {
	return c.engine.SetEffect(index)
}

// SetEffectByName resolves name case-insensitively and switches to it.
func (c *Controller) SetEffectByName(name string) error {
	return c.engine.SetEffectByName(name)
}

// GetCurrentEffect returns the active effect's index and name.
func (c *Controller) GetCurrentEffect() (int, string) {
	stats := c.engine.GetStats()

	return stats.CurrentEffect, stats.CurrentEffectName
}

// SetColorMode writes the process-wide color mode.
func (c *Controller) SetColorMode(mode string) {
	c.engine.SetColorMode(state.ColorMode(mode))
}

// GetColorMode returns the current (normalized) color mode.
func (c *Controller) GetColorMode() state.ColorMode {
	return c.engine.ColorMode()
}

// SetCustomColor writes the process-wide custom color, clamping each
// channel to [0, 1] (spec §4.3 leaves validation to the caller).
func (c *Controller) SetCustomColor(r, g, b float64) {
	c.engine.SetCustomColor(clamp01(r), clamp01(g), clamp01(b))
}

// GetCustomColor returns the current custom color.
func (c *Controller) GetCustomColor() [3]float64 {
	return c.engine.CustomColor()
}

// StartLEDOutput enables the Art-Net emission run flag. mode is
// reserved for future output targets (production/simulator selection
// happens at NewEmitter construction time, per spec §4.4).
func (c *Controller) StartLEDOutput(mode string) error {
	log.Info("starting LED output", "mode", mode)
	c.shared.SetLEDRunning(true)

	return nil
}

// StopLEDOutput disables the Art-Net emission run flag.
func (c *Controller) StopLEDOutput() error {
	c.shared.SetLEDRunning(false)

	return nil
}

// SetLEDBrightness sets the output brightness multiplier.
func (c *Controller) SetLEDBrightness(brightness float64) {
	c.shared.SetBrightness(clamp01(brightness))
}

// GetLEDBrightness returns the current output brightness multiplier.
func (c *Controller) GetLEDBrightness() float64 {
	return c.shared.Brightness()
}

// TestLEDPattern switches to a named effect and immediately renders it
// from silence into the frame cell, running any cross-fade to completion
// first, for bench-testing a physical run without audio input.
func (c *Controller) TestLEDPattern(name string) error {
	if err := c.engine.SetEffectByName(name); err != nil {
		return fmt.Errorf("control: test_led_pattern: %w", err)
	}

	var silence state.Spectrum

	frame := c.engine.Render(silence)
	for c.engine.GetStats().Transitioning {
		frame = c.engine.Render(silence)
	}

	c.shared.SetFrame(frame)

	return nil
}

// GetLEDControllers reports the configured Art-Net controller targets.
func (c *Controller) GetLEDControllers() []config.Controller {
	return c.cfg.LED.Controllers
}

// GetCurrentFrame returns the most recently rendered frame.
func (c *Controller) GetCurrentFrame() state.Frame {
	return c.shared.Frame()
}

// GetEffectStats returns the effect engine's current snapshot.
func (c *Controller) GetEffectStats() effects.Stats {
	return c.engine.GetStats()
}

// SystemStatus is the payload for system_get_status (spec §6).
type SystemStatus struct {
	AsOf          string        `json:"as_of"`
	UptimeSeconds float64       `json:"uptime_seconds"`
	AudioRunning  bool          `json:"audio_running"`
	AudioDevice   string        `json:"audio_device"`
	LEDRunning    bool          `json:"led_running"`
	EffectStats   effects.Stats `json:"effect_stats"`
	ArtnetStats   artnet.Stats  `json:"artnet_stats"`
}

// SystemGetStatus reports a combined process health snapshot. AsOf is
// stamped with the configured strftime(3) pattern (spec §6
// [performance] table), matching the teacher's timestamp_format
// convention for outbound packet logging (tq.go).
func (c *Controller) SystemGetStatus() SystemStatus {
	deviceName := ""
	if c.audio != nil {
		deviceName = c.audio.DeviceName()
	}

	asOf, err := strftime.Format(c.cfg.Performance.TimestampFormat, time.Now())
	if err != nil {
		log.Error("invalid timestamp_format, falling back to RFC3339", "err", err)
		asOf = time.Now().Format(time.RFC3339)
	}

	return SystemStatus{
		AsOf:          asOf,
		UptimeSeconds: time.Since(c.startedAt).Seconds(),
		AudioRunning:  c.shared.AudioRunning(),
		AudioDevice:   deviceName,
		LEDRunning:    c.shared.LEDRunning(),
		EffectStats:   c.engine.GetStats(),
		ArtnetStats:   c.emitter.Stats(),
	}
}

// SystemRestartAll stops audio capture, resets every effect, and clears
// both run flags, per spec §4.3's reset_all contract.
func (c *Controller) SystemRestartAll() error {
	if err := c.StopAudioCapture(); err != nil {
		log.Error("restart: stop_audio_capture failed", "err", err)
	}

	c.shared.SetLEDRunning(false)
	c.engine.ResetAll()

	log.Info("system restarted")

	return nil
}

// SystemGetConfig returns the active configuration.
func (c *Controller) SystemGetConfig() config.Config {
	return c.cfg
}

// SystemSetConfig merges a JSON document onto the active configuration.
// Fields the document omits keep their current value.
func (c *Controller) SystemSetConfig(doc []byte) error {
	cfg := c.cfg

	if err := json.Unmarshal(doc, &cfg); err != nil {
		return fmt.Errorf("control: system_set_config: %w", err)
	}

	c.cfg = cfg
	c.shared.SetGain(cfg.Audio.Gain)
	c.shared.SetBrightness(cfg.LED.Brightness)

	return nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
