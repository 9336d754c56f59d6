package ws

import (
	"strconv"
	"strings"

	"github.com/kgander/auravis/internal/state"
)

const (
	previewWidth  = 64
	previewHeight = 64
)

// outboundMessage is the JSON shape of both frame and spectrum
// broadcasts (spec §4.6): {"type": "...", "data": [...]}.
type outboundMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// inboundMessage covers both {"type":"effect","id":N} and
// {"type":"param","name":"...","value":"..."}.
type inboundMessage struct {
	Type  string `json:"type"`
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// downscale samples the 128x128 frame down to a 64x64 RGB byte array
// by stride-2 nearest-neighbor sampling (spec §4.6).
func downscale(frame *state.Frame) []byte {
	out := make([]byte, previewWidth*previewHeight*3)

	for y := 0; y < previewHeight; y++ {
		for x := 0; x < previewWidth; x++ {
			srcIdx := (y*2*state.FrameWidth + x*2) * 3
			dstIdx := (y*previewWidth + x) * 3

			out[dstIdx] = frame[srcIdx]
			out[dstIdx+1] = frame[srcIdx+1]
			out[dstIdx+2] = frame[srcIdx+2]
		}
	}

	return out
}

// parseRGBTriple parses a "r,g,b" string with floats in [0, 1] (spec §4.6).
func parseRGBTriple(value string) (r, g, b float64, ok bool) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}

	values := make([]float64, 3)

	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, 0, 0, false
		}

		if v < 0 || v > 1 {
			return 0, 0, 0, false
		}

		values[i] = v
	}

	return values[0], values[1], values[2], true
}
