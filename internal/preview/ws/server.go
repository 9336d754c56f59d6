// Package ws implements the WebSocket preview protocol of spec §4.6: a
// 30Hz JSON producer per connection streaming a downscaled frame and
// the current spectrum, plus inbound effect/parameter commands.
// Grounded in the pack's widespread gorilla/websocket dependency
// (bbernstein-lacylights-go/-test, tphakala-birdnet-go) and the
// teacher's logging/run-flag idiom.
package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kgander/auravis/internal/effects"
	"github.com/kgander/auravis/internal/logging"
	"github.com/kgander/auravis/internal/state"
)

var log = logging.For("preview-ws")

const producerRate = time.Second / 30

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 65536,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server binds 0.0.0.0:8080 and accepts WebSocket upgrades (spec §4.6).
type Server struct {
	shared *state.Shared
	engine *effects.Engine
	http   *http.Server
}

// NewServer constructs a Server. Call Serve to start accepting.
func NewServer(shared *state.Shared, engine *effects.Engine) *Server {
	s := &Server{shared: shared, engine: engine}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleUpgrade)

	s.http = &http.Server{
		Addr:    "0.0.0.0:8080",
		Handler: mux,
	}

	return s
}

// Serve binds the listening socket and blocks, accepting WebSocket
// connections until the server is closed. It returns any bind or serve
// error other than http.ErrServerClosed; a bind failure is reported only
// here, not by NewServer.
func (s *Server) Serve() error {
	log.Info("websocket preview listening", "addr", s.http.Addr)

	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Close shuts down the HTTP listener.
func (s *Server) Close() error {
	return s.http.Close()
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug("websocket upgrade failed", "err", err)

		return
	}

	go s.serveConn(conn)
}

func (s *Server) serveConn(conn *websocket.Conn) {
	defer conn.Close()

	done := make(chan struct{})

	go s.readLoop(conn, done)
	s.produceLoop(conn, done)
}

// readLoop handles inbound {type:"effect",id} and
// {type:"param",name,value} messages until the connection closes.
func (s *Server) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		s.applyInbound(raw)
	}
}

func (s *Server) applyInbound(raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Debug("dropping malformed websocket message", "err", err)

		return
	}

	switch msg.Type {
	case "effect":
		if err := s.engine.SetEffect(msg.ID); err != nil {
			log.Debug("set_effect rejected", "err", err)
		}

	case "param":
		s.applyParam(msg.Name, msg.Value)

	default:
		log.Debug("dropping unknown websocket message type", "type", msg.Type)
	}
}

func (s *Server) applyParam(name string, value string) {
	switch name {
	case "colorMode":
		s.engine.SetColorMode(state.ColorMode(value))

	case "customColor":
		r, g, b, ok := parseRGBTriple(value)
		if !ok {
			log.Debug("dropping malformed customColor value", "value", value)

			return
		}

		s.engine.SetCustomColor(r, g, b)

	default:
		log.Debug("dropping unknown param name", "name", name)
	}
}

// produceLoop emits frame/spectrum messages at producerRate until done
// fires (the read side observed the connection close).
func (s *Server) produceLoop(conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(producerRate)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := s.writeFrame(conn); err != nil {
				return
			}

			if err := s.writeSpectrum(conn); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeFrame(conn *websocket.Conn) error {
	frame := s.shared.Frame()
	downscaled := downscale(&frame)

	return conn.WriteJSON(outboundMessage{Type: "frame", Data: downscaled})
}

func (s *Server) writeSpectrum(conn *websocket.Conn) error {
	spectrum := s.shared.Spectrum()

	values := make([]float64, len(spectrum))
	copy(values, spectrum[:])

	return conn.WriteJSON(outboundMessage{Type: "spectrum", Data: values})
}
