// Package server exposes HTTP handlers, including the WebSocket upgrade
// that seats a new player, and the health check.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"eggrace/internal/game"
)

// WebSocketHandler returns the handler for WebSocket upgrade requests.
// A successful upgrade allocates the next free seat in the game room and
// greets the connection with an awaitProfile event; when the room is full
// the connection receives roomFull and is closed immediately.
func WebSocketHandler(hub *Hub, cfg *Config) http.HandlerFunc {
	checker := newOriginChecker(cfg.AllowedOrigins)
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checker.check,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("WebSocket upgrade failed")
			return
		}

		id := uuid.NewString()
		suggestedName, err := hub.Session().Join(id)
		if err != nil {
			if errors.Is(err, game.ErrRoomFull) {
				rejectFullRoom(conn, r.RemoteAddr)
			}
			return
		}

		client := NewClient(conn, hub, id, r.RemoteAddr, cfg)

		// Register the client with the hub; the hub launches the pump
		// goroutines and only then is the greeting deliverable.
		client.hub.register <- client
		hub.SendTo(id, game.EventAwaitProfile, game.AwaitProfilePayload{SuggestedName: suggestedName})
	}
}

// rejectFullRoom tells a connection the room is at capacity and closes it.
func rejectFullRoom(conn *websocket.Conn, addr string) {
	log.Info().Str("addr", addr).Msg("rejecting connection, room is full")

	payload, err := json.Marshal(Envelope{Event: game.EventRoomFull})
	if err == nil {
		if werr := conn.WriteMessage(websocket.TextMessage, payload); werr != nil && !isExpectedCloseError(werr) {
			log.Warn().Err(werr).Str("addr", addr).Msg("error writing roomFull message")
		}
	}

	if cerr := conn.Close(); cerr != nil && !isExpectedCloseError(cerr) {
		log.Warn().Err(cerr).Str("addr", addr).Msg("error closing rejected connection")
	}
}

// HealthHandler provides a simple health check endpoint that returns
// server status as plain text.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "Egg race server is running!")
}
