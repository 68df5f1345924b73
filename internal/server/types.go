// Package server defines the wire envelopes exchanged with clients and
// shared connection helpers.
package server

import (
	"encoding/json"
	"strings"
)

// Intent names accepted from clients. Joining is implicit in the WebSocket
// upgrade and leaving is implicit in the connection closing.
const (
	IntentRegisterProfile = "registerProfile"
	IntentStartGame       = "startGame"
	IntentRollDice        = "rollDice"
	IntentStopAndMove     = "stopAndMove"
)

// Intent is the inbound JSON envelope: a type tag plus an optional payload
// decoded per intent.
type Intent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ProfileData is the payload of a registerProfile intent.
type ProfileData struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	Avatar string `json:"avatar"`
}

// Envelope is the outbound JSON envelope wrapping every game event.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
