// Package discovery announces the UDP and WebSocket preview services
// over mDNS/DNS-SD, adapted from the teacher's dns_sd.go (same
// github.com/brutella/dnssd responder, generalized to two concurrently
// announced services instead of one KISS-TNC service).
package discovery

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"

	"github.com/kgander/auravis/internal/logging"
)

var log = logging.For("discovery")

const (
	udpServiceType = "_auravis-preview-udp._udp"
	wsServiceType  = "_auravis-preview-ws._tcp"
)

// Announcer holds one mDNS responder advertising both preview services.
type Announcer struct {
	responder dnssd.Responder
	cancel    context.CancelFunc
}

// Start announces the UDP preview service on udpPort and the WebSocket
// preview service on wsPort under name, and begins responding to mDNS
// queries in the background.
func Start(name string, udpPort, wsPort int) (*Announcer, error) {
	responder, err := dnssd.NewResponder()
	if err != nil {
		return nil, fmt.Errorf("discovery: new responder: %w", err)
	}

	if err := addService(responder, name, udpServiceType, udpPort); err != nil {
		return nil, err
	}

	if err := addService(responder, name, wsServiceType, wsPort); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := responder.Respond(ctx); err != nil && ctx.Err() == nil {
			log.Error("mDNS responder stopped", "err", err)
		}
	}()

	log.Info("announcing preview services", "name", name, "udp_port", udpPort, "ws_port", wsPort)

	return &Announcer{responder: responder, cancel: cancel}, nil
}

func addService(responder dnssd.Responder, name, serviceType string, port int) error {
	cfg := dnssd.Config{
		Name: name,
		Type: serviceType,
		Port: port,
	}

	svc, err := dnssd.NewService(cfg)
	if err != nil {
		return fmt.Errorf("discovery: new service %s: %w", serviceType, err)
	}

	if _, err := responder.Add(svc); err != nil {
		return fmt.Errorf("discovery: add service %s: %w", serviceType, err)
	}

	return nil
}

// Stop halts the mDNS responder.
func (a *Announcer) Stop() {
	a.cancel()
}
