// Package testhelpers provides common utilities for testing the egg race
// server.
//
// It spins up a full server stack (hub, game session, router) on an
// httptest server and wraps WebSocket clients with helpers for sending
// intents and waiting on specific game events, to keep the integration
// tests readable.
package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"eggrace/internal/game"
	"eggrace/internal/server"
)

// Envelope mirrors the outbound wire format with the payload left raw so
// each test decodes only the events it cares about.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// StartGameServer boots the full stack on an httptest server. The
// turn-advance delay is shortened so tests do not wait on animation
// pauses. Everything is torn down via t.Cleanup.
func StartGameServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := server.NewConfig()
	cfg.AllowedOrigins = []string{"*"}
	cfg.TurnAdvanceDelay = 25 * time.Millisecond

	hub := server.NewHub()
	session := game.NewSession(hub, game.WithTurnDelay(cfg.TurnAdvanceDelay))
	hub.BindSession(session)
	go hub.Run()

	ts := httptest.NewServer(server.NewRouter(hub, cfg))

	t.Cleanup(func() {
		ts.Close()
		if err := hub.Shutdown(2 * time.Second); err != nil {
			t.Logf("hub shutdown: %v", err)
		}
	})

	return ts
}

// WSClient is one connected test player.
type WSClient struct {
	t    *testing.T
	Conn *websocket.Conn
}

// ConnectWebSocket opens a WebSocket connection to the test server's /ws
// endpoint, failing the test on any dial error.
func ConnectWebSocket(t *testing.T, ts *httptest.Server) *WSClient {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{ts.URL}}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	client := &WSClient{t: t, Conn: conn}
	t.Cleanup(client.Close)
	return client
}

// SendIntent writes one intent envelope to the server.
func (c *WSClient) SendIntent(intentType string, data any) {
	c.t.Helper()

	msg := map[string]any{"type": intentType}
	if data != nil {
		msg["data"] = data
	}
	if err := c.Conn.WriteJSON(msg); err != nil {
		c.t.Fatalf("Failed to send %s intent: %v", intentType, err)
	}
}

// WaitFor reads events until one with the given name arrives, skipping
// everything else, and returns its raw payload. The test fails if the
// event does not arrive within the timeout.
func (c *WSClient) WaitFor(event string, timeout time.Duration) json.RawMessage {
	c.t.Helper()

	deadline := time.Now().Add(timeout)
	if err := c.Conn.SetReadDeadline(deadline); err != nil {
		c.t.Fatalf("Failed to set read deadline: %v", err)
	}

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			c.t.Fatalf("Waiting for %q event: %v", event, err)
		}

		var envelope Envelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			c.t.Fatalf("Received malformed envelope %q: %v", raw, err)
		}
		if envelope.Event == event {
			return envelope.Data
		}
	}
}

// DecodeInto unmarshals a raw payload into target, failing the test on
// error.
func (c *WSClient) DecodeInto(raw json.RawMessage, target any) {
	c.t.Helper()
	if err := json.Unmarshal(raw, target); err != nil {
		c.t.Fatalf("Failed to decode payload %q: %v", raw, err)
	}
}

// Close closes the underlying connection; safe to call more than once.
func (c *WSClient) Close() {
	_ = c.Conn.Close()
}
