package udp

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCommandSetEffectMatchesSpecScenario6(t *testing.T) {
	payload := []byte{0x01, 0x05, 0x00, 0x00, 0x00}

	cmd, err := DecodeCommand(payload)
	require.NoError(t, err)
	assert.Equal(t, CommandSetEffect, cmd.Kind)
	assert.Equal(t, uint32(5), cmd.EffectID)
}

func TestDecodeCommandSetColorMode(t *testing.T) {
	payload := append([]byte{0x02}, []byte("fire")...)

	cmd, err := DecodeCommand(payload)
	require.NoError(t, err)
	assert.Equal(t, "fire", cmd.ColorMode)
}

func TestDecodeCommandSetCustomColor(t *testing.T) {
	payload := make([]byte, 13)
	payload[0] = 0x03
	binary.LittleEndian.PutUint32(payload[1:5], floatBits(0.1))
	binary.LittleEndian.PutUint32(payload[5:9], floatBits(0.2))
	binary.LittleEndian.PutUint32(payload[9:13], floatBits(0.3))

	cmd, err := DecodeCommand(payload)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, cmd.R, 1e-6)
	assert.InDelta(t, 0.2, cmd.G, 1e-6)
	assert.InDelta(t, 0.3, cmd.B, 1e-6)
}

func TestDecodeCommandSetParameter(t *testing.T) {
	payload := []byte{0x04}
	payload = appendLenPrefixed(payload, "customColor")
	payload = appendLenPrefixed(payload, "0.1,0.2,0.3")

	cmd, err := DecodeCommand(payload)
	require.NoError(t, err)
	assert.Equal(t, "customColor", cmd.ParamName)
	assert.Equal(t, "0.1,0.2,0.3", cmd.ParamValue)
}

func TestDecodeCommandRejectsUnknownKind(t *testing.T) {
	_, err := DecodeCommand([]byte{0xFF})
	assert.Error(t, err)
}

func TestDecodeCommandRejectsTruncatedSetEffect(t *testing.T) {
	_, err := DecodeCommand([]byte{0x01, 0x01})
	assert.Error(t, err)
}

func floatBits(v float32) uint32 {
	return math.Float32bits(v)
}

func appendLenPrefixed(buf []byte, s string) []byte {
	lenBuf := make([]byte, 2)
	binary.LittleEndian.PutUint16(lenBuf, uint16(len(s)))

	buf = append(buf, lenBuf...)

	return append(buf, s...)
}
