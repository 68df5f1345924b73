// Package server manages individual WebSocket clients, handling read/write
// pumps, intent decoding, rate limiting, and lifecycle control for each
// connection.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Client represents one WebSocket connection, which is also one seat in
// the game room. It manages the connection state, the buffered send
// channel drained by writePump, and the per-connection rate limiter.
type Client struct {
	id             string
	conn           *websocket.Conn
	send           chan []byte
	hub            *Hub
	addr           string
	closed         bool
	maxMessageSize int64
	rateLimiter    *rateLimiter
}

// NewClient creates a new Client for an upgraded connection. The id is the
// player identity the game session knows the connection by.
func NewClient(conn *websocket.Conn, hub *Hub, id, addr string, cfg *Config) *Client {
	if conn != nil {
		conn.SetReadLimit(cfg.MaxMessageSize)
	}

	return &Client{
		id:             id,
		conn:           conn,
		send:           make(chan []byte, 256),
		hub:            hub,
		addr:           addr,
		closed:         false,
		maxMessageSize: cfg.MaxMessageSize,
		rateLimiter:    newRateLimiter(cfg.RateLimitBurst, cfg.RateLimitInterval),
	}
}

// setupReadConnection configures read deadlines and pong handler for the WebSocket connection
func (c *Client) setupReadConnection() {
	if err := c.conn.SetReadDeadline(time.Now().Add(60 * time.Second)); err != nil {
		log.Error().Err(err).Str("addr", c.addr).Msg("error setting initial read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		if err := c.conn.SetReadDeadline(time.Now().Add(60 * time.Second)); err != nil {
			log.Error().Err(err).Str("addr", c.addr).Msg("error setting read deadline in pong handler")
		}
		return nil
	})
}

// handleReadError logs appropriate error messages based on the error type
// and returns true if the read loop should break
func (c *Client) handleReadError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, websocket.ErrReadLimit) {
		log.Warn().Str("addr", c.addr).Int64("limit", c.maxMessageSize).Msg("message exceeded maximum size")
		return true
	}

	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure) {
		log.Info().Str("addr", c.addr).Err(err).Msg("client disconnected")
		return true
	}

	if errors.Is(err, io.EOF) || isExpectedCloseError(err) {
		log.Info().Str("addr", c.addr).Err(err).Msg("client connection closed")
		return true
	}

	if websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseMessageTooBig) {
		log.Warn().Str("addr", c.addr).Err(err).Msg("unexpected WebSocket error")
		return true
	}

	log.Warn().Str("addr", c.addr).Err(err).Msg("WebSocket read error")
	return true
}

// checkRateLimit verifies if the client has exceeded rate limits
// and returns true if the intent should be processed
func (c *Client) checkRateLimit() bool {
	if c.rateLimiter != nil && !c.rateLimiter.allow() {
		log.Warn().Str("addr", c.addr).Msg("rate limit exceeded; discarding intent")
		return false
	}
	return true
}

// handleIntent decodes one inbound envelope and dispatches it into the
// game session. Rule violations are rejected silently toward the room:
// no state change, no broadcast, only a debug log entry on the server.
func (c *Client) handleIntent(raw []byte) {
	var intent Intent
	if err := json.Unmarshal(raw, &intent); err != nil {
		log.Debug().Str("addr", c.addr).Err(err).Msg("discarding malformed intent")
		return
	}

	var err error
	switch intent.Type {
	case IntentRegisterProfile:
		var profile ProfileData
		if len(intent.Data) > 0 {
			if uerr := json.Unmarshal(intent.Data, &profile); uerr != nil {
				log.Debug().Str("addr", c.addr).Err(uerr).Msg("discarding malformed profile")
				return
			}
		}
		err = c.hub.session.RegisterProfile(c.id, profile.Name, profile.Color, profile.Avatar)

	case IntentStartGame:
		err = c.hub.session.StartGame(c.id)

	case IntentRollDice:
		err = c.hub.session.RollDice(c.id)

	case IntentStopAndMove:
		err = c.hub.session.StopAndMove(c.id)

	default:
		log.Debug().Str("addr", c.addr).Str("type", intent.Type).Msg("unknown intent type")
		return
	}

	if err != nil {
		log.Debug().Str("player", c.id).Str("intent", intent.Type).Err(err).Msg("intent rejected")
	}
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.ctx.Done():
		}
		c.hub.session.Disconnect(c.id)
		if err := c.conn.Close(); err != nil {
			if !isExpectedCloseError(err) {
				log.Error().Err(err).Str("addr", c.addr).Msg("error closing connection in readPump")
			}
		}
	}()

	c.setupReadConnection()

	for {
		_, rawMessage, err := c.conn.ReadMessage()
		if err != nil {
			if c.handleReadError(err) {
				break
			}
			continue
		}

		if !c.checkRateLimit() {
			continue
		}

		c.handleIntent(rawMessage)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for c.processWriteEvent(ticker) {
	}
}

// processWriteEvent waits for the next write event and returns false when
// the pump should stop processing.
func (c *Client) processWriteEvent(ticker *time.Ticker) bool {
	select {
	case message, ok := <-c.send:
		return c.handleMessage(message, ok)
	case <-ticker.C:
		return c.handlePing()
	}
}

// closeConnection safely closes the WebSocket connection with proper error handling
func (c *Client) closeConnection() {
	if err := c.conn.Close(); err != nil {
		// Only log unexpected connection close errors
		if !isExpectedCloseError(err) {
			log.Error().Err(err).Str("addr", c.addr).Msg("error closing connection in writePump")
		}
	}
}

// handleMessage processes outgoing messages and returns false if the connection should be closed
func (c *Client) handleMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		log.Error().Err(err).Str("addr", c.addr).Msg("error setting write deadline")
		return false
	}

	if !ok {
		return c.writeCloseMessage()
	}

	return c.writeTextMessage(message)
}

// writeCloseMessage sends a close message to the client
func (c *Client) writeCloseMessage() bool {
	if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
		if !isExpectedCloseError(err) {
			log.Error().Err(err).Str("addr", c.addr).Msg("error writing close message")
		}
	}
	return false
}

// writeTextMessage writes a single event frame. Events are never coalesced
// into one frame: clients rely on one JSON envelope per message.
func (c *Client) writeTextMessage(message []byte) bool {
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		if !isExpectedCloseError(err) {
			log.Error().Err(err).Str("addr", c.addr).Msg("error writing message")
		}
		return false
	}
	return true
}

// handlePing sends a ping message to keep the connection alive
func (c *Client) handlePing() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		log.Error().Err(err).Str("addr", c.addr).Msg("error setting write deadline for ping")
		return false
	}
	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		if !isExpectedCloseError(err) {
			log.Error().Err(err).Str("addr", c.addr).Msg("error writing ping message")
		}
		return false
	}
	return true
}
