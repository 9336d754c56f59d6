// Package udp implements the UDP preview protocol of spec §4.5: a
// 12-byte header framing protocol carrying frame/spectrum broadcasts and
// inbound control commands, fragmented above 1460 bytes and optionally
// gzip-compressed. Grounded in the retrieved original source's preview
// server (content-hash dedup, forced keyframes, WouldBlock skip) and in
// the teacher's socket-handling idiom (non-blocking reads, short idle
// sleeps polling a run flag).
package udp

import (
	"encoding/binary"
	"fmt"
)

// Type is the one-byte packet type tag.
type Type byte

const (
	TypeConnect             Type = 0x01
	TypeDisconnect          Type = 0x02
	TypePing                Type = 0x03
	TypePong                Type = 0x04
	TypeAck                 Type = 0x05
	TypeCommand             Type = 0x10
	TypeFrameData           Type = 0x20
	TypeFrameDataCompressed Type = 0x21
	TypeSpectrumData        Type = 0x30
)

// Flags are the one-byte flag bits.
type Flags byte

const (
	FlagCompressed Flags = 0x01
	FlagFragmented Flags = 0x02
	FlagLastFrag   Flags = 0x04
	FlagRequiresAck Flags = 0x08
)

const headerSize = 12

// MaxPayload is the largest payload that fits in a single unfragmented
// packet (spec §4.5/§6).
const MaxPayload = 1460

// Packet is one decoded UDP preview protocol frame.
type Packet struct {
	Type           Type
	Flags          Flags
	Sequence       uint32
	FragmentID     uint16
	FragmentCount  uint16
	Payload        []byte
}

// Encode serializes p into its wire form: 12-byte little-endian header
// followed by the payload, bit-exact with spec scenario 3.
func (p Packet) Encode() []byte {
	buf := make([]byte, headerSize+len(p.Payload))

	buf[0] = byte(p.Type)
	buf[1] = byte(p.Flags)
	binary.LittleEndian.PutUint32(buf[2:6], p.Sequence)
	binary.LittleEndian.PutUint16(buf[6:8], p.FragmentID)
	binary.LittleEndian.PutUint16(buf[8:10], p.FragmentCount)
	binary.LittleEndian.PutUint16(buf[10:12], uint16(len(p.Payload)))
	copy(buf[headerSize:], p.Payload)

	return buf
}

// Decode parses the wire form produced by Encode. Malformed packets
// (too short, payload-length mismatch) are reported as errors so the
// caller can log-and-drop per spec §7.
func Decode(buf []byte) (Packet, error) {
	if len(buf) < headerSize {
		return Packet{}, fmt.Errorf("udp: packet too short: %d bytes", len(buf))
	}

	length := binary.LittleEndian.Uint16(buf[10:12])
	if len(buf) != headerSize+int(length) {
		return Packet{}, fmt.Errorf("udp: payload length mismatch: header says %d, got %d", length, len(buf)-headerSize)
	}

	payload := make([]byte, length)
	copy(payload, buf[headerSize:])

	return Packet{
		Type:          Type(buf[0]),
		Flags:         Flags(buf[1]),
		Sequence:      binary.LittleEndian.Uint32(buf[2:6]),
		FragmentID:    binary.LittleEndian.Uint16(buf[6:8]),
		FragmentCount: binary.LittleEndian.Uint16(buf[8:10]),
		Payload:       payload,
	}, nil
}
