// Package artnet builds and emits Art-Net DMX packets for the 128
// universes of spec §4.4, grounded in the retrieved original source's
// ArtNetClient::create_artnet_packet (BC216-compatible header) and
// cross-checked against the retrieved bbernstein-lacylights-go/-test
// Art-Net service and receiver, which use the same 18-byte header shape.
package artnet

const (
	// Port is the standard Art-Net UDP port.
	Port = 6454

	headerSize  = 18
	dmxSize     = 512
	packetSize  = headerSize + dmxSize
	protocolVer = 14
	opCodeDMX   = 0x5000
)

var magic = [8]byte{'A', 'r', 't', '-', 'N', 'e', 't', 0}

// EncodePacket builds the exact 18-byte-header + 512-byte-DMX Art-Net
// packet described in spec §4.4: magic "Art-Net\0", OpCode 0x5000
// little-endian, protocol version 14, sequence 0, physical 0, universe
// little-endian u16, length 512 big-endian.
func EncodePacket(universe uint16, dmx [512]byte) [packetSize]byte {
	var pkt [packetSize]byte

	copy(pkt[0:8], magic[:])
	pkt[8] = byte(opCodeDMX & 0xFF)        // OpCode LSB
	pkt[9] = byte((opCodeDMX >> 8) & 0xFF) // OpCode MSB
	pkt[10] = 0                            // ProtVer MSB
	pkt[11] = protocolVer                  // ProtVer LSB
	pkt[12] = 0                            // Sequence
	pkt[13] = 0                            // Physical
	pkt[14] = byte(universe & 0xFF)        // Universe LSB
	pkt[15] = byte(universe >> 8)          // Universe MSB
	pkt[16] = byte(dmxSize >> 8)           // Length MSB (big-endian 512)
	pkt[17] = byte(dmxSize & 0xFF)         // Length LSB

	copy(pkt[headerSize:], dmx[:])

	return pkt
}
