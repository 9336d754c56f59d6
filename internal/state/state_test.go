package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	s := New()

	assert.Equal(t, Spectrum{}, s.Spectrum())
	assert.Equal(t, Frame{}, s.Frame())
	assert.Equal(t, ColorRainbow, s.ColorConfig().Mode)
	assert.Equal(t, 1.0, s.Gain())
	assert.Equal(t, 1.0, s.Brightness())
	assert.False(t, s.AudioRunning())
	assert.False(t, s.LEDRunning())
}

func TestColorModeNormalizesUnknownToRainbow(t *testing.T) {
	s := New()
	s.SetColorMode(ColorMode("nonsense"))

	assert.Equal(t, ColorRainbow, s.ColorConfig().Mode)
}

func TestSetColorModeTwiceIsIdempotent(t *testing.T) {
	s := New()
	s.SetColorMode(ColorFire)
	first := s.ColorConfig()
	s.SetColorMode(ColorFire)
	second := s.ColorConfig()

	assert.Equal(t, first, second)
}

func TestFrameReadIsACopy(t *testing.T) {
	s := New()
	var f Frame
	f[0] = 42
	s.SetFrame(f)

	got := s.Frame()
	got[0] = 7

	assert.Equal(t, byte(42), s.Frame()[0])
}

func TestConcurrentReadsAndWritesDoNotRace(t *testing.T) {
	s := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func(i int) {
			defer wg.Done()
			var f Frame
			f[0] = byte(i)
			s.SetFrame(f)
		}(i)

		go func() {
			defer wg.Done()
			_ = s.Frame()
			_ = s.Spectrum()
			_ = s.ColorConfig()
		}()
	}

	wg.Wait()
}
