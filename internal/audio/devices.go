package audio

import (
	"fmt"
	"strings"

	"github.com/gordonklaus/portaudio"
)

// Device is a trimmed view of a portaudio.DeviceInfo exposed to the
// control surface's get_audio_devices operation (spec §6).
type Device struct {
	Index      int
	Name       string
	MaxInputs  int
	SampleRate float64
}

// preferredNames lists substrings, in priority order, that mark a
// virtual cable / loopback device as the preferred capture source when
// no explicit device_name is configured.
var preferredNames = []string{"vb-audio", "vb-cable", "cable", "voicemeeter", "loopback", "monitor"}

// ListDevices enumerates every portaudio host device with at least one
// input channel.
func ListDevices() ([]Device, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("audio: enumerate devices: %w", err)
	}

	devices := make([]Device, 0, len(infos))

	for i, info := range infos {
		if info.MaxInputChannels <= 0 {
			continue
		}

		devices = append(devices, Device{
			Index:      i,
			Name:       info.Name,
			MaxInputs:  info.MaxInputChannels,
			SampleRate: info.DefaultSampleRate,
		})
	}

	return devices, nil
}

// SelectDevice resolves a configured device name to a concrete
// portaudio.DeviceInfo. An empty name falls back to the first device
// whose name matches one of preferredNames, then to the system default
// input device.
func SelectDevice(name string) (*portaudio.DeviceInfo, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("audio: enumerate devices: %w", err)
	}

	if name != "" {
		for _, info := range infos {
			if info.MaxInputChannels > 0 && strings.EqualFold(info.Name, name) {
				return info, nil
			}
		}

		for _, info := range infos {
			if info.MaxInputChannels > 0 && strings.Contains(strings.ToLower(info.Name), strings.ToLower(name)) {
				return info, nil
			}
		}

		return nil, fmt.Errorf("audio: no input device matching %q", name)
	}

	for _, preferred := range preferredNames {
		for _, info := range infos {
			if info.MaxInputChannels > 0 && strings.Contains(strings.ToLower(info.Name), preferred) {
				return info, nil
			}
		}
	}

	def, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, fmt.Errorf("audio: no default input device: %w", err)
	}

	return def, nil
}
