package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgander/auravis/internal/state"
)

func whiteFrameWith(x, y int, r, g, b byte) *state.Frame {
	var f state.Frame
	for i := 0; i < len(f); i += 3 {
		f[i], f[i+1], f[i+2] = 255, 255, 255
	}

	idx := (y*state.FrameWidth + x) * 3
	f[idx], f[idx+1], f[idx+2] = r, g, b

	return &f
}

func TestUniverseIDFormula(t *testing.T) {
	assert.Equal(t, 0, UniverseID(0, 0, 0))
	assert.Equal(t, 1, UniverseID(0, 0, 1))
	assert.Equal(t, 32, UniverseID(1, 0, 0))
	assert.Equal(t, 127, UniverseID(3, 15, 1))
}

func TestEveryQuarterBandHalfProducesExactlyOneUniverse(t *testing.T) {
	seen := map[int]bool{}

	for q := 0; q < Quarters; q++ {
		for b := 0; b < BandsPerQuarter; b++ {
			for h := 0; h < 2; h++ {
				u := UniverseID(q, b, h)
				require.False(t, seen[u], "universe %d generated twice", u)
				seen[u] = true
			}
		}
	}

	assert.Len(t, seen, UniversesPerFrame)
	assert.Equal(t, 128, UniversesPerFrame)
}

// TestMappingBitExactness reproduces spec §8 scenario 5 exactly.
func TestMappingBitExactness(t *testing.T) {
	m := New()
	frame := whiteFrameWith(0, 0, 10, 20, 30)

	u0 := UniverseID(0, 0, 0)
	dmx := m.DMXForUniverse(frame, u0)

	// The first LED of col_up (led=0) samples y=127, a white pixel: DMX bytes 0..2.
	assert.Equal(t, [3]byte{255, 255, 255}, [3]byte{dmx[0], dmx[1], dmx[2]})

	// (10,20,30) lands at led=129 of col_up, DMX offset 387..389:
	// led 129 samples y = 127 - (129*128/130) = 0, pixel (0,0).
	assert.Equal(t, [3]byte{10, 20, 30}, [3]byte{dmx[387], dmx[388], dmx[389]})

	// Pixel (x=col_down=1, y=0) is white, e.g. offset 3*130 = 390.
	assert.Equal(t, [3]byte{255, 255, 255}, [3]byte{dmx[390], dmx[391], dmx[392]})
}

func TestSilenceMapsToAllZeroUniverseZero(t *testing.T) {
	m := New()
	var frame state.Frame

	dmx := m.DMXForUniverse(&frame, 0)

	var zero [512]byte
	assert.Equal(t, zero, dmx)
}

func TestTrailingDMXBytesAreZero(t *testing.T) {
	m := New()
	var frame state.Frame
	for i := range frame {
		frame[i] = 200
	}

	u1 := UniverseID(0, 0, 1) // universe offset 1 only uses 89*3 = 267 bytes
	dmx := m.DMXForUniverse(&frame, u1)

	for i := 267; i < 512; i++ {
		assert.Equalf(t, byte(0), dmx[i], "trailing byte %d not zero", i)
	}
}

func TestEntityRoundTrip(t *testing.T) {
	e := NewEntity(1234, 255, 128, 64)
	sextet := e.ToSextet()

	assert.Equal(t, [6]byte{210, 4, 255, 128, 64, 0}, sextet)

	restored, ok := EntityFromSextet(sextet[:])
	require.True(t, ok)
	assert.Equal(t, e, restored)
}

func TestGetSextetPositionIsMonotone(t *testing.T) {
	cfg := NewUniverseConfig(0)
	cfg.AddRange(1, 170, 0)
	cfg.AddRange(200, 370, 170)

	pos, ok := cfg.GetSextetPosition(1)
	require.True(t, ok)
	assert.Equal(t, uint16(0), pos)

	pos, ok = cfg.GetSextetPosition(170)
	require.True(t, ok)
	assert.Equal(t, uint16(169), pos)

	pos, ok = cfg.GetSextetPosition(200)
	require.True(t, ok)
	assert.Equal(t, uint16(170), pos)

	pos, ok = cfg.GetSextetPosition(370)
	require.True(t, ok)
	assert.Equal(t, uint16(340), pos)

	_, ok = cfg.GetSextetPosition(171)
	assert.False(t, ok)

	for k := 0; k <= 169; k++ {
		pos, ok := cfg.GetSextetPosition(uint16(1 + k))
		require.True(t, ok)
		assert.Equal(t, uint16(k), pos)
	}
}
