// Package spectrum turns a raw PCM buffer into the 64-band magnitude
// spectrum consumed by the effect engine (spec §4.2).
//
// The algorithm is bit-for-bit grounded in the retrieved original Rust
// source (apps/backend/src/fft.rs): windowed 1024-point real FFT, 64
// contiguous band slices over the lower quarter of bins, perceptual
// weighting, spatial smoothing, adaptive normalization, and interior
// hole-fill. The FFT itself is computed with gonum's real-input transform
// (grounded in the retrieved audio-analyzer and audio-engine examples,
// both of which lean on gonum.org/v1/gonum/dsp/fourier for real-time
// spectral analysis) rather than a hand-rolled Cooley-Tukey.
package spectrum

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/kgander/auravis/internal/state"
)

const (
	fftSize     = 1024
	usefulBins  = fftSize / 4 // lower quarter of bins, per spec §4.2 step 4
	noiseFloor  = 1e-3        // spec §4.2 step 1
	binFloor    = 1e-3        // spec §4.2 step 4, per-bin inclusion threshold
	minThresh   = 0.05        // spec §4.2 step 7
)

// Analyzer is stateless between buffers (spec §4.2): it owns only the
// precomputed Hann window and the FFT plan, both of which are read-only
// after construction and therefore safe for concurrent use.
type Analyzer struct {
	window []float64
	fft    *fourier.FFT
}

// New constructs an Analyzer. The FFT plan and Hann window are fixed at
// fftSize = 1024 samples, per spec §4.2.
func New() *Analyzer {
	window := make([]float64, fftSize)
	for i := range window {
		// Hann window: 0.5 * (1 - cos(2*pi*i/(N-1))).
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize-1)))
	}

	return &Analyzer{
		window: window,
		fft:    fourier.NewFFT(fftSize),
	}
}

// Analyze implements spec §4.2 exactly: input is an arbitrary-length mono
// PCM buffer, output is exactly 64 non-negative floats each clamped to
// [0, 1].
func (a *Analyzer) Analyze(pcm []float64) state.Spectrum {
	var out state.Spectrum

	if len(pcm) == 0 {
		return out
	}

	var meanAbs float64
	for _, v := range pcm {
		meanAbs += math.Abs(v)
	}
	meanAbs /= float64(len(pcm))

	if meanAbs < noiseFloor {
		return out
	}

	windowed := make([]float64, fftSize)
	n := len(pcm)
	if n > fftSize {
		n = fftSize
	}

	for i := 0; i < n; i++ {
		windowed[i] = pcm[i] * a.window[i]
	}
	// Remaining samples (if pcm shorter than fftSize) stay zero-padded.

	coeffs := a.fft.Coefficients(nil, windowed)

	var raw [state.SpectrumBands]float64
	for band := 0; band < state.SpectrumBands; band++ {
		start := band * usefulBins / state.SpectrumBands
		end := (band + 1) * usefulBins / state.SpectrumBands

		if start >= end {
			continue
		}

		var sum float64
		var count int
		for j := start; j < end; j++ {
			mag := cabs(coeffs[j])
			if mag > binFloor {
				sum += mag
				count++
			}
		}

		if count > 0 {
			raw[band] = math.Sqrt(sum/float64(count)) * 0.25
		}
	}

	applyPerceptualWeighting(&raw)

	smoothed := spatialSmooth(&raw)

	normalizeAdaptive(&smoothed)

	fillHoles(&smoothed)

	for i, v := range smoothed {
		out[i] = clamp01(v)
	}

	return out
}

func cabs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// applyPerceptualWeighting implements spec §4.2 step 5.
func applyPerceptualWeighting(bands *[state.SpectrumBands]float64) {
	for i := range bands {
		switch {
		case i < 8:
			bands[i] *= 1.5
		case i < 16:
			bands[i] *= 1.3
		case i < 32:
			bands[i] *= 1.1
		default:
			bands[i] *= 0.9
		}
	}
}

// spatialSmooth implements spec §4.2 step 6: weighted mean with center
// weight 0.6 and neighbor weights 0.2/offset for offsets 1 and 2.
func spatialSmooth(bands *[state.SpectrumBands]float64) [state.SpectrumBands]float64 {
	var out [state.SpectrumBands]float64

	for i := range bands {
		sum := bands[i] * 0.6
		weight := 0.6

		for offset := 1; offset <= 2; offset++ {
			nw := 0.2 / float64(offset)

			if i-offset >= 0 {
				sum += bands[i-offset] * nw
				weight += nw
			}
			if i+offset < state.SpectrumBands {
				sum += bands[i+offset] * nw
				weight += nw
			}
		}

		out[i] = sum / weight
	}

	return out
}

// normalizeAdaptive implements spec §4.2 step 7.
func normalizeAdaptive(bands *[state.SpectrumBands]float64) {
	var max, sum float64
	for _, v := range bands {
		if v > max {
			max = v
		}
		sum += v
	}
	avg := sum / float64(state.SpectrumBands)

	if max > minThresh {
		normFactor := 1.0 / max
		dynamicFactor := avg / max
		dynamicFactor = clampRange(dynamicFactor, 0.3, 1.0)

		exponent := 0.7 + dynamicFactor*0.3

		for i, v := range bands {
			scaled := v * normFactor * 0.25
			bands[i] = math.Min(math.Pow(scaled, exponent), 1.0)
		}
	} else {
		for i, v := range bands {
			bands[i] = math.Min(v*5.0, 0.05)
		}
	}
}

// fillHoles implements spec §4.2 step 8.
func fillHoles(bands *[state.SpectrumBands]float64) {
	for i := 1; i < state.SpectrumBands-1; i++ {
		if bands[i] == 0 && bands[i-1] > 0 && bands[i+1] > 0 {
			bands[i] = (bands[i-1] + bands[i+1]) * 0.5
		}
	}
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
