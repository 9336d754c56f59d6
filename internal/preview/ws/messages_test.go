package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kgander/auravis/internal/state"
)

func TestDownscaleProducesSixtyFourSquare(t *testing.T) {
	var frame state.Frame
	frame[0], frame[1], frame[2] = 5, 6, 7

	out := downscale(&frame)
	assert.Len(t, out, previewWidth*previewHeight*3)
	assert.Equal(t, []byte{5, 6, 7}, out[:3])
}

func TestParseRGBTripleAcceptsValidValues(t *testing.T) {
	r, g, b, ok := parseRGBTriple("0.1,0.2,0.3")
	assert.True(t, ok)
	assert.InDelta(t, 0.1, r, 1e-9)
	assert.InDelta(t, 0.2, g, 1e-9)
	assert.InDelta(t, 0.3, b, 1e-9)
}

func TestParseRGBTripleRejectsOutOfRange(t *testing.T) {
	_, _, _, ok := parseRGBTriple("1.5,0,0")
	assert.False(t, ok)
}

func TestParseRGBTripleRejectsMalformed(t *testing.T) {
	_, _, _, ok := parseRGBTriple("not,a,color")
	assert.False(t, ok)

	_, _, _, ok = parseRGBTriple("0.1,0.2")
	assert.False(t, ok)
}
