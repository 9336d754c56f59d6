// Package audio captures PCM from the selected input device, downmixes
// to mono, gates on a noise floor, and hands the result to a sink
// callback. Grounded in the retrieved rayboyd-audio-engine's PortAudio
// engine (pre-allocated buffers, runtime.LockOSThread in the callback,
// error surfaced rather than panicking) and reworked around spec §4.1's
// downmix/gating contract instead of that engine's FFT/WAV pipeline.
package audio

import (
	"fmt"
	"math"
	"runtime"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"

	"github.com/kgander/auravis/internal/logging"
)

var log = logging.For("audio")

const (
	noiseFloorMean = 1e-4
	noiseFloorPeak = 1e-3
	sampleZeroFloor = 5e-4
)

// Sink receives a mono PCM buffer once per callback. buf is reused
// between calls; implementations must not retain it.
type Sink func(buf []float64)

// ErrorFunc is the error callback passed to NewEngine. The Engine stores
// it but never calls it: Start and Stop return their errors to the
// caller, and the stream callback has no failure path, so a device
// disconnect or stream error is not reported through it.
type ErrorFunc func(err error)

// Engine owns one open PortAudio input stream.
type Engine struct {
	stream *portaudio.Stream

	deviceName string
	sampleRate float64
	channels   int
	bufferSize int

	monoBuf  []float64
	rawBuf   []int32

	sink    Sink
	onError ErrorFunc

	running atomic.Bool
}

// Params configures the capture stream, falling back to spec §4.1's
// defaults (44.1kHz / 2ch / 256-sample buffer) for any zero field.
type Params struct {
	DeviceName string
	SampleRate float64
	Channels   int
	BufferSize int
}

// NewEngine opens (but does not start) a capture stream against the
// selected device.
func NewEngine(params Params, sink Sink, onError ErrorFunc) (*Engine, error) {
	if params.SampleRate == 0 {
		params.SampleRate = 44100
	}

	if params.Channels == 0 {
		params.Channels = 2
	}

	if params.BufferSize == 0 {
		params.BufferSize = 256
	}

	device, err := SelectDevice(params.DeviceName)
	if err != nil {
		return nil, err
	}

	channels := params.Channels
	if device.MaxInputChannels < channels {
		channels = device.MaxInputChannels
	}

	e := &Engine{
		deviceName: device.Name,
		sampleRate: params.SampleRate,
		channels:   channels,
		bufferSize: params.BufferSize,
		monoBuf:    make([]float64, params.BufferSize),
		rawBuf:     make([]int32, params.BufferSize*channels),
		sink:       sink,
		onError:    onError,
	}

	streamParams := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: channels,
			Device:   device,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      params.SampleRate,
		FramesPerBuffer: params.BufferSize,
	}

	stream, err := portaudio.OpenStream(streamParams, e.callback)
	if err != nil {
		return nil, fmt.Errorf("audio: open stream on %q: %w", device.Name, err)
	}

	e.stream = stream

	return e, nil
}

// Start begins capture.
func (e *Engine) Start() error {
	if err := e.stream.Start(); err != nil {
		return fmt.Errorf("audio: start stream: %w", err)
	}

	e.running.Store(true)
	log.Info("capture started", "device", e.deviceName, "rate", e.sampleRate, "channels", e.channels, "buffer", e.bufferSize)

	return nil
}

// Stop halts capture and closes the stream.
func (e *Engine) Stop() error {
	e.running.Store(false)

	if err := e.stream.Stop(); err != nil {
		return fmt.Errorf("audio: stop stream: %w", err)
	}

	return e.stream.Close()
}

// DeviceName reports the currently open device's name.
func (e *Engine) DeviceName() string { return e.deviceName }

// callback is the hot-path PortAudio handler: downmix to mono, gate on
// the noise floor, and forward to the sink (spec §4.1).
func (e *Engine) callback(in []int32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !e.running.Load() {
		return
	}

	copy(e.rawBuf, in)
	downmix(e.rawBuf, e.channels, e.monoBuf)

	mean, peak := meanAndPeakAbs(e.monoBuf)

	if mean <= noiseFloorMean && peak <= noiseFloorPeak {
		for i := range e.monoBuf {
			e.monoBuf[i] = 0
		}

		e.sink(e.monoBuf)

		return
	}

	for i, v := range e.monoBuf {
		if math.Abs(v) < sampleZeroFloor {
			e.monoBuf[i] = 0
		}
	}

	e.sink(e.monoBuf)
}

// downmix folds interleaved int32 PCM into a mono float64 buffer by
// arithmetic mean across channels, normalized to [-1, 1].
func downmix(in []int32, channels int, out []float64) {
	const scale = 1.0 / float64(1<<31)

	for frame := range out {
		var sum float64

		for ch := 0; ch < channels; ch++ {
			idx := frame*channels + ch
			if idx >= len(in) {
				continue
			}

			sum += float64(in[idx]) * scale
		}

		out[frame] = sum / float64(channels)
	}
}

func meanAndPeakAbs(buf []float64) (mean, peak float64) {
	sum := 0.0

	for _, v := range buf {
		a := math.Abs(v)
		sum += a

		if a > peak {
			peak = a
		}
	}

	if len(buf) > 0 {
		mean = sum / float64(len(buf))
	}

	return mean, peak
}
