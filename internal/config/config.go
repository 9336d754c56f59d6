// Package config loads the TOML configuration described in spec §6,
// falling back to embedded defaults for anything the file omits.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Audio mirrors spec.md §6's [audio] table.
type Audio struct {
	SampleRate int     `toml:"sample_rate"`
	BufferSize int     `toml:"buffer_size"`
	Channels   int     `toml:"channels"`
	DeviceName string  `toml:"device_name"`
	Gain       float64 `toml:"gain"`
	NoiseFloor float64 `toml:"noise_floor"`
}

// Controller is one Art-Net destination, either a production quarter or
// the simulator target.
type Controller struct {
	Name      string `toml:"name"`
	Address   string `toml:"address"`
	Universes int    `toml:"universes"`
}

// LED mirrors spec.md §6's [led] table.
type LED struct {
	Controllers      []Controller `toml:"controllers"`
	FPS              int          `toml:"fps"`
	Brightness       float64      `toml:"brightness"`
	GammaCorrection  float64      `toml:"gamma_correction"`
	ColorTemperature float64      `toml:"color_temperature"`
}

// Effects mirrors spec.md §6's [effects] table.
type Effects struct {
	SmoothingFactor float64 `toml:"smoothing_factor"`
	BassBoost       float64 `toml:"bass_boost"`
	MidBoost        float64 `toml:"mid_boost"`
	HighBoost       float64 `toml:"high_boost"`
	ParticleLimit   int     `toml:"particle_limit"`
	WaveSpeed       float64 `toml:"wave_speed"`
}

// Performance mirrors spec.md §6's [performance] table.
type Performance struct {
	ThreadPoolSize  int     `toml:"thread_pool_size"`
	FrameSkip       int     `toml:"frame_skip"`
	AdaptiveQuality bool    `toml:"adaptive_quality"`
	MaxCPUPercent   float64 `toml:"max_cpu_percent"`

	// TimestampFormat is an strftime(3) pattern used to stamp
	// system_get_status snapshots, matching the teacher's
	// save_audio_config_p.timestamp_format convention (tq.go).
	TimestampFormat string `toml:"timestamp_format"`
}

// Config is the full, flattened configuration.
type Config struct {
	Audio       Audio       `toml:"audio"`
	LED         LED         `toml:"led"`
	Effects     Effects     `toml:"effects"`
	Performance Performance `toml:"performance"`
}

// Default returns the embedded default configuration, matching spec.md's
// §4.1 fallback (44.1 kHz / 2 channels / 256-sample buffer) and the
// production four-quarter Art-Net layout of §4.4.
func Default() Config {
	return Config{
		Audio: Audio{
			SampleRate: 44100,
			BufferSize: 256,
			Channels:   2,
			DeviceName: "",
			Gain:       1.0,
			NoiseFloor: 1e-4,
		},
		LED: LED{
			Controllers: []Controller{
				{Name: "quarter-0", Address: "192.168.1.45:6454", Universes: 32},
				{Name: "quarter-1", Address: "192.168.1.46:6454", Universes: 32},
				{Name: "quarter-2", Address: "192.168.1.47:6454", Universes: 32},
				{Name: "quarter-3", Address: "192.168.1.48:6454", Universes: 32},
			},
			FPS:              60,
			Brightness:       1.0,
			GammaCorrection:  1.0,
			ColorTemperature: 6500,
		},
		Effects: Effects{
			SmoothingFactor: 0.6,
			BassBoost:       1.0,
			MidBoost:        1.0,
			HighBoost:       1.0,
			ParticleLimit:   2000,
			WaveSpeed:       1.0,
		},
		Performance: Performance{
			ThreadPoolSize:  4,
			FrameSkip:       0,
			AdaptiveQuality: false,
			MaxCPUPercent:   80,
			TimestampFormat: "%Y-%m-%d %H:%M:%S",
		},
	}
}

// Simulator returns the alternate "simulator" target from spec.md §4.4:
// all universes directed to localhost.
func Simulator() []Controller {
	return []Controller{
		{Name: "simulator", Address: "127.0.0.1:6454", Universes: 128},
	}
}

// Load reads a TOML file at path, merging it onto Default() so that any
// field the file omits keeps its embedded default value.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}

	return cfg, nil
}
