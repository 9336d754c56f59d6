package udp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kgander/auravis/internal/state"
)

func TestDownscaleFrameProducesSixtyFourSquareStride2(t *testing.T) {
	var frame state.Frame
	frame[0], frame[1], frame[2] = 10, 20, 30 // pixel (0,0)

	out := downscaleFrame(&frame)
	assert.Len(t, out, previewWidth*previewHeight*3)
	assert.Equal(t, []byte{10, 20, 30}, out[:3])
}

func TestBuildFramePayloadHeader(t *testing.T) {
	pixels := make([]byte, previewWidth*previewHeight*3)
	payload := buildFramePayload(pixels)

	assert.Equal(t, byte(previewWidth), payload[0])
	assert.Equal(t, byte(0), payload[1])
	assert.Equal(t, byte(rgbFormat), payload[4])
	assert.Len(t, payload, 5+len(pixels))
}

func TestBuildSpectrumPayloadHeader(t *testing.T) {
	var spectrum state.Spectrum
	payload := buildSpectrumPayload(spectrum)

	assert.Equal(t, byte(64), payload[0])
	assert.Len(t, payload, 2+64*4)
}
