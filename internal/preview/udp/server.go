package udp

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"hash/fnv"
	"math"
	"net"
	"time"

	"github.com/kgander/auravis/internal/effects"
	"github.com/kgander/auravis/internal/logging"
	"github.com/kgander/auravis/internal/state"
)

var log = logging.For("preview-udp")

// socketBufferSize is the SO_SNDBUF/SO_RCVBUF target (spec §5).
const socketBufferSize = 1 << 20

// keyframeInterval forces a full frame/spectrum broadcast every Nth
// tick regardless of the content-hash dedup decision (spec §4.5).
const keyframeInterval = 60

const (
	previewWidth  = 64
	previewHeight = 64
	rgbFormat     = 1
)

// Server binds the UDP preview protocol listener and runs the receiver
// and sender loops (spec §4.5).
type Server struct {
	conn    *net.UDPConn
	clients *clientTable
	shared  *state.Shared
	engine  *effects.Engine

	lastFrameHash    uint64
	lastSpectrumHash uint64
	tick             int
}

// NewServer binds 0.0.0.0:8081 and tunes the socket's kernel buffers.
func NewServer(shared *state.Shared, engine *effects.Engine) (*Server, error) {
	addr := &net.UDPAddr{IP: net.IPv4zero, Port: 8081}

	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		return nil, err
	}

	if err := tuneSocketBuffers(conn, socketBufferSize); err != nil {
		log.Warn("could not tune socket buffers", "err", err)
	}

	return &Server{
		conn:    conn,
		clients: newClientTable(),
		shared:  shared,
		engine:  engine,
	}, nil
}

// Close releases the listening socket.
func (s *Server) Close() error {
	return s.conn.Close()
}

// ReceiveLoop runs the non-blocking receive side: short idle sleeps
// polling the run flag, per spec §5's cancellation strategy for
// blocking-I/O subsystems.
func (s *Server) ReceiveLoop(running func() bool) {
	buf := make([]byte, 65536)

	for running() {
		if err := s.conn.SetReadDeadline(time.Now().Add(10 * time.Millisecond)); err != nil {
			log.Error("set read deadline", "err", err)

			return
		}

		n, addr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}

			continue
		}

		s.handlePacket(buf[:n], addr)
	}
}

func (s *Server) handlePacket(raw []byte, addr *net.UDPAddr) {
	pkt, err := Decode(raw)
	if err != nil {
		log.Debug("dropping malformed packet", "err", err, "from", addr)

		return
	}

	switch pkt.Type {
	case TypeConnect:
		compressionEnabled := pkt.Flags&FlagCompressed != 0
		s.clients.Upsert(addr, compressionEnabled)
		s.send(addr, Packet{Type: TypeAck, Sequence: pkt.Sequence})

	case TypeDisconnect:
		s.clients.Evict(addr)

	case TypePing:
		s.clients.Touch(addr)
		s.send(addr, Packet{Type: TypePong, Sequence: pkt.Sequence})

	case TypeCommand:
		s.applyCommand(pkt.Payload)

	default:
		log.Debug("dropping unexpected packet type", "type", pkt.Type, "from", addr)
	}
}

func (s *Server) applyCommand(payload []byte) {
	cmd, err := DecodeCommand(payload)
	if err != nil {
		log.Debug("dropping invalid command", "err", err)

		return
	}

	switch cmd.Kind {
	case CommandSetEffect:
		if err := s.engine.SetEffect(int(cmd.EffectID)); err != nil {
			log.Debug("set_effect rejected", "err", err)
		}

	case CommandSetColorMode:
		s.engine.SetColorMode(state.ColorMode(cmd.ColorMode))

	case CommandSetCustomColor:
		s.engine.SetCustomColor(clampFloat(cmd.R), clampFloat(cmd.G), clampFloat(cmd.B))

	case CommandSetParameter:
		log.Debug("set_parameter", "name", cmd.ParamName, "value", cmd.ParamValue)
	}
}

func clampFloat(v float32) float64 {
	f := float64(v)
	if f < 0 {
		return 0
	}

	if f > 1 {
		return 1
	}

	return f
}

func (s *Server) send(addr *net.UDPAddr, pkt Packet) {
	if _, err := s.conn.WriteToUDP(pkt.Encode(), addr); err != nil {
		log.Debug("send would-block or failed, skipping", "err", err, "to", addr)
	}
}

// SenderLoop runs the ~60Hz broadcast side of spec §4.5: evict stale
// clients, snapshot frame/spectrum, downscale, optionally compress,
// fragment if oversize, and fan out, skipping any client that would
// block.
func (s *Server) SenderLoop(running func() bool) {
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	evictTicker := time.NewTicker(30 * time.Second)
	defer evictTicker.Stop()

	for running() {
		select {
		case <-evictTicker.C:
			if n := s.clients.EvictStale(); n > 0 {
				log.Info("evicted stale preview clients", "count", n)
			}
		case <-ticker.C:
			s.tick++
			s.broadcastTick()
		}
	}
}

func (s *Server) broadcastTick() {
	clients := s.clients.Snapshot()
	if len(clients) == 0 {
		return
	}

	frame := s.shared.Frame()
	spectrum := s.shared.Spectrum()

	frameHash := fnvHash(frame[:])
	spectrumHash := fnvHashFloats(spectrum[:])

	forceKeyframe := s.tick%keyframeInterval == 0
	unchanged := !forceKeyframe && frameHash == s.lastFrameHash && spectrumHash == s.lastSpectrumHash

	s.lastFrameHash = frameHash
	s.lastSpectrumHash = spectrumHash

	if unchanged {
		return
	}

	downscaled := downscaleFrame(&frame)
	framePayload := buildFramePayload(downscaled)
	spectrumPayload := buildSpectrumPayload(spectrum)

	for _, c := range clients {
		addr, err := net.ResolveUDPAddr("udp4", c.addr)
		if err != nil {
			continue
		}

		s.sendFrame(addr, c, framePayload)
		s.sendSpectrum(addr, spectrumPayload)
	}
}

func (s *Server) sendFrame(addr *net.UDPAddr, c client, payload []byte) {
	packetType := TypeFrameData
	var flags Flags

	if c.compressionEnabled && len(payload) > 1024 {
		compressed, ok := gzipCompress(payload)
		if ok && len(compressed) < len(payload)*3/4 {
			payload = compressed
			packetType = TypeFrameDataCompressed
			flags |= FlagCompressed
		}
	}

	seq := s.clients.NextSequence(c.addr)

	if len(payload) <= MaxPayload {
		s.send(addr, Packet{Type: packetType, Flags: flags, Sequence: seq, FragmentCount: 1, Payload: payload})

		return
	}

	fragments := fragment(payload, MaxPayload)
	for i, chunk := range fragments {
		fragFlags := flags | FlagFragmented
		if i == len(fragments)-1 {
			fragFlags |= FlagLastFrag
		}

		s.send(addr, Packet{
			Type:          packetType,
			Flags:         fragFlags,
			Sequence:      seq,
			FragmentID:    uint16(i),
			FragmentCount: uint16(len(fragments)),
			Payload:       chunk,
		})
	}
}

func (s *Server) sendSpectrum(addr *net.UDPAddr, payload []byte) {
	seq := s.clients.NextSequence(addr.String())
	s.send(addr, Packet{Type: TypeSpectrumData, Sequence: seq, FragmentCount: 1, Payload: payload})
}

// downscaleFrame samples the 128x128 frame down to 64x64 by
// nearest-neighbor stride-2 sampling (spec §4.5 step 3).
func downscaleFrame(frame *state.Frame) []byte {
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

// buildFramePayload prepends the FrameData header: u16 width, u16
// height, u8 format (1 = RGB) (spec §4.5 step 4).
func buildFramePayload(pixels []byte) []byte {
	buf := make([]byte, 5+len(pixels))
	binary.LittleEndian.PutUint16(buf[0:2], previewWidth)
	binary.LittleEndian.PutUint16(buf[2:4], previewHeight)
	buf[4] = rgbFormat
	copy(buf[5:], pixels)

	return buf
}

// buildSpectrumPayload builds SpectrumData: u16 band_count then
// band_count x f32 (spec §4.5 step 7).
func buildSpectrumPayload(spectrum state.Spectrum) []byte {
	buf := make([]byte, 2+len(spectrum)*4)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(len(spectrum)))

	for i, v := range spectrum {
		bits := math.Float32bits(float32(v))
		binary.LittleEndian.PutUint32(buf[2+i*4:2+i*4+4], bits)
	}

	return buf
}

func fragment(payload []byte, chunkSize int) [][]byte {
	var chunks [][]byte

	for i := 0; i < len(payload); i += chunkSize {
		end := i + chunkSize
		if end > len(payload) {
			end = len(payload)
		}

		chunks = append(chunks, payload[i:end])
	}

	return chunks
}

func gzipCompress(payload []byte) ([]byte, bool) {
	var buf bytes.Buffer

	w := gzip.NewWriter(&buf)
	if _, err := w.Write(payload); err != nil {
		return nil, false
	}

	if err := w.Close(); err != nil {
		return nil, false
	}

	return buf.Bytes(), true
}

func fnvHash(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)

	return h.Sum64()
}

func fnvHashFloats(spectrum []float64) uint64 {
	buf := make([]byte, len(spectrum)*8)

	for i, v := range spectrum {
		binary.LittleEndian.PutUint64(buf[i*8:i*8+8], math.Float64bits(v))
	}

	return fnvHash(buf)
}
