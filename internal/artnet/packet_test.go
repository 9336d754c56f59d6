package artnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSilenceHeaderMatchesSpecScenario1(t *testing.T) {
	var dmx [512]byte
	pkt := EncodePacket(0, dmx)

	want := []byte{
		0x41, 0x72, 0x74, 0x2D, 0x4E, 0x65, 0x74, 0x00,
		0x00, 0x50, 0x00, 0x0E, 0x00, 0x00, 0x00, 0x00,
		0x02, 0x00,
	}

	assert.Equal(t, want, pkt[:headerSize])

	var zero [512]byte
	assert.Equal(t, zero, dmx)
	assert.Equal(t, zero[:], pkt[headerSize:])
}

func TestUniverseIsLittleEndian(t *testing.T) {
	var dmx [512]byte
	pkt := EncodePacket(0x0102, dmx)

	assert.Equal(t, byte(0x02), pkt[14])
	assert.Equal(t, byte(0x01), pkt[15])
}

func TestPacketLengthIsFixed(t *testing.T) {
	var dmx [512]byte
	pkt := EncodePacket(5, dmx)

	assert.Len(t, pkt, headerSize+512)
}

func TestDMXPayloadIsCopiedVerbatim(t *testing.T) {
	var dmx [512]byte
	dmx[0] = 10
	dmx[1] = 20
	dmx[511] = 99

	pkt := EncodePacket(1, dmx)

	assert.Equal(t, byte(10), pkt[headerSize])
	assert.Equal(t, byte(20), pkt[headerSize+1])
	assert.Equal(t, byte(99), pkt[headerSize+511])
}
