package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgander/auravis/internal/effects"
	"github.com/kgander/auravis/internal/state"
)

func TestServeConnStreamsFrameAndSpectrumMessages(t *testing.T) {
	shared := state.New()
	engine := effects.NewEngine()
	s := &Server{shared: shared, engine: engine}

	ts := httptest.NewServer(http.HandlerFunc(s.handleUpgrade))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var gotFrame, gotSpectrum bool

	for i := 0; i < 10 && !(gotFrame && gotSpectrum); i++ {
		var msg outboundMessage

		if err := conn.ReadJSON(&msg); err != nil {
			break
		}

		switch msg.Type {
		case "frame":
			gotFrame = true
		case "spectrum":
			gotSpectrum = true
		}
	}

	assert.True(t, gotFrame)
	assert.True(t, gotSpectrum)
}

func TestApplyInboundSetsEffectAndColorMode(t *testing.T) {
	shared := state.New()
	engine := effects.NewEngine()
	s := &Server{shared: shared, engine: engine}

	s.applyInbound([]byte(`{"type":"effect","id":3}`))

	var spectrum state.Spectrum
	for i := 0; i < 60 && engine.GetStats().Transitioning; i++ {
		engine.Render(spectrum)
	}

	assert.Equal(t, 3, engine.CurrentEffect())

	s.applyInbound([]byte(`{"type":"param","name":"colorMode","value":"fire"}`))
	assert.Equal(t, state.ColorFire, engine.ColorMode())
}
