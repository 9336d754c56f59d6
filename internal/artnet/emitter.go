package artnet

import (
	"fmt"
	"net"
	"sync/atomic"

	"github.com/kgander/auravis/internal/config"
	"github.com/kgander/auravis/internal/logging"
	"github.com/kgander/auravis/internal/mapper"
	"github.com/kgander/auravis/internal/state"
)

var log = logging.For("artnet")

// Stats are the counters the control surface reports via
// get_effect_stats / system_get_status (spec §2.4).
type Stats struct {
	FramesEmitted   uint64
	UniversesSent   uint64
	SendErrors      uint64
	InvariantErrors uint64
}

// controllerConn is one open UDP "connection" (really a bound destination
// socket) to an Art-Net controller, covering some contiguous run of
// universes.
type controllerConn struct {
	name      string
	conn      *net.UDPConn
	universes []int // universes this controller is responsible for
}

// Emitter converts each frame into 128 Art-Net DMX packets and emits them
// blind (no retries, no acknowledgment), per spec §4.4.
type Emitter struct {
	mapper      *mapper.Mapper
	controllers []controllerConn

	framesEmitted   atomic.Uint64
	universesSent   atomic.Uint64
	sendErrors      atomic.Uint64
	invariantErrors atomic.Uint64
}

// NewEmitter dials a UDP socket to each configured controller. Controllers
// are assigned contiguous universe ranges in the order given, matching
// spec §4.4's four-quarter, 32-universes-each layout.
func NewEmitter(m *mapper.Mapper, controllers []config.Controller) (*Emitter, error) {
	e := &Emitter{mapper: m}

	universe := 0
	for _, c := range controllers {
		addr, err := net.ResolveUDPAddr("udp4", c.Address)
		if err != nil {
			return nil, fmt.Errorf("artnet: resolve %s (%s): %w", c.Name, c.Address, err)
		}

		conn, err := net.DialUDP("udp4", nil, addr)
		if err != nil {
			return nil, fmt.Errorf("artnet: dial %s (%s): %w", c.Name, c.Address, err)
		}

		universes := make([]int, 0, c.Universes)
		for i := 0; i < c.Universes; i++ {
			universes = append(universes, universe)
			universe++
		}

		e.controllers = append(e.controllers, controllerConn{
			name:      c.Name,
			conn:      conn,
			universes: universes,
		})
	}

	return e, nil
}

// Close releases the controller sockets.
func (e *Emitter) Close() error {
	var firstErr error

	for _, c := range e.controllers {
		if err := c.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// EmitFrame maps frame onto the 128 universes and transmits all of them,
// per spec §4.4 / §8: exactly one universe numbered q*32+b*2+h per frame,
// 128 universes total. Emission is best-effort; a controller send error is
// counted but never aborts the remaining universes (spec §7).
func (e *Emitter) EmitFrame(frame state.Frame) {
	if len(frame) != state.FrameBytes {
		e.invariantErrors.Add(1)
		log.Error("refusing to transmit: frame size mismatch", "got", len(frame), "want", state.FrameBytes)

		return
	}

	for _, c := range e.controllers {
		for _, universe := range c.universes {
			dmx := e.mapper.DMXForUniverse(&frame, universe)
			pkt := EncodePacket(uint16(universe), dmx) //nolint:gosec

			if _, err := c.conn.Write(pkt[:]); err != nil {
				e.sendErrors.Add(1)

				continue
			}

			e.universesSent.Add(1)
		}
	}

	e.framesEmitted.Add(1)
}

// Stats returns a snapshot of the emitter's counters.
func (e *Emitter) Stats() Stats {
	return Stats{
		FramesEmitted:   e.framesEmitted.Load(),
		UniversesSent:   e.universesSent.Load(),
		SendErrors:      e.sendErrors.Load(),
		InvariantErrors: e.invariantErrors.Load(),
	}
}
