// Package server coordinates client registration, game event fan-out, and
// connection cleanup via the Hub type.
package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"eggrace/internal/game"
)

// outboundMessage is one serialized event queued for delivery. An empty
// target means every connected client receives it.
type outboundMessage struct {
	targetID string
	payload  []byte
}

// Hub manages all WebSocket client connections and delivers game events to
// them. It maintains client registration/unregistration and ensures
// thread-safe operations through mutex protection.
//
// Hub implements game.Emitter, so the game session publishes through it
// without knowing about sockets.
type Hub struct {
	session *game.Session

	clients    map[*Client]bool
	byID       map[string]*Client
	outbound   chan outboundMessage
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewHub creates and initializes a new Hub instance with all necessary
// channels and client maps. Bind a game session with BindSession before
// calling Run.
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[*Client]bool),
		byID:       make(map[string]*Client),
		outbound:   make(chan outboundMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// BindSession attaches the game session the hub dispatches intents into.
// Must be called once, before Run.
func (h *Hub) BindSession(s *game.Session) {
	h.session = s
}

// Session returns the bound game session.
func (h *Hub) Session() *game.Session {
	return h.session
}

// Broadcast implements game.Emitter by queueing an event for every client.
func (h *Hub) Broadcast(event string, payload any) {
	h.send("", event, payload)
}

// SendTo implements game.Emitter by queueing an event for one client.
func (h *Hub) SendTo(playerID string, event string, payload any) {
	h.send(playerID, event, payload)
}

func (h *Hub) send(targetID, event string, payload any) {
	data, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to marshal event")
		return
	}

	select {
	case h.outbound <- outboundMessage{targetID: targetID, payload: data}:
	case <-h.ctx.Done():
	}
}

func (h *Hub) safeSend(client *Client, message []byte) bool {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic in safeSend")
		}
	}()

	// Hold the lock during the entire send operation to prevent race conditions
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	// Check if client is still registered and not closed
	_, exists := h.clients[client]
	if !exists || client.closed {
		return false
	}

	// Try to send the message (channel might be closed, so we need to recover from panic)
	select {
	case client.send <- message:
		return true
	default:
		return false
	}
}

// Run starts the hub's main event loop, handling client registration,
// unregistration, and event delivery. This method should be called in a
// separate goroutine as it runs indefinitely.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownClients()
			return

		case client := <-h.register:
			if client == nil {
				log.Warn().Msg("received nil client registration; skipping")
				continue
			}

			h.mutex.Lock()
			client.closed = false
			h.clients[client] = true
			h.byID[client.id] = client
			clientCount := len(h.clients)
			h.mutex.Unlock()
			log.Info().Str("addr", client.addr).Int("clients", clientCount).Msg("client registered")

			h.wg.Add(2)
			go func() {
				defer h.wg.Done()
				client.writePump()
			}()
			go func() {
				defer h.wg.Done()
				client.readPump()
			}()

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				delete(h.byID, client.id)
				client.closed = true
				clientCount := len(h.clients)
				h.mutex.Unlock()
				// Close the channel after releasing the lock
				close(client.send)
				log.Info().Str("addr", client.addr).Int("clients", clientCount).Msg("client unregistered")
			} else {
				h.mutex.Unlock()
			}

		case msg := <-h.outbound:
			h.deliver(msg)
		}
	}
}

// deliver routes one queued event to its target client, or to everyone
// when no target is set, and drops clients whose send buffers are full.
func (h *Hub) deliver(msg outboundMessage) {
	targets := h.targetSnapshot(msg.targetID)

	var clientsToRemove []*Client
	for _, client := range targets {
		if !h.safeSend(client, msg.payload) {
			clientsToRemove = append(clientsToRemove, client)
		}
	}

	h.removeFailedClients(clientsToRemove)
}

// targetSnapshot returns a thread-safe snapshot of the delivery targets.
func (h *Hub) targetSnapshot(targetID string) []*Client {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if targetID != "" {
		if client, ok := h.byID[targetID]; ok {
			return []*Client{client}
		}
		return nil
	}

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	return clients
}

// removeFailedClients removes clients that failed to receive messages and closes their channels
func (h *Hub) removeFailedClients(clientsToRemove []*Client) {
	if len(clientsToRemove) == 0 {
		return
	}

	h.mutex.Lock()
	var channelsToClose []chan []byte
	for _, client := range clientsToRemove {
		if _, exists := h.clients[client]; exists {
			delete(h.clients, client)
			delete(h.byID, client.id)
			client.closed = true
			channelsToClose = append(channelsToClose, client.send)
			log.Warn().Str("addr", client.addr).Msg("client removed due to full send buffer")
		}
	}
	h.mutex.Unlock()

	// Close channels after releasing the lock
	for _, ch := range channelsToClose {
		close(ch)
	}
}

// shutdownClients gracefully closes all active client connections
func (h *Hub) shutdownClients() {
	log.Info().Msg("shutting down all client connections")

	h.mutex.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mutex.Unlock()

	// Close all client connections
	for _, client := range clients {
		if client.conn != nil {
			if err := client.conn.Close(); err != nil {
				if !isExpectedCloseError(err) {
					log.Error().Err(err).Str("addr", client.addr).Msg("error closing client connection")
				}
			}
		}
	}

	log.Info().Int("clients", len(clients)).Msg("closed client connections")
}

// Shutdown initiates graceful shutdown of the hub and waits for all
// goroutines to complete. It returns after all client connections are
// closed and goroutines have finished, or when the timeout is reached.
func (h *Hub) Shutdown(timeout time.Duration) error {
	log.Info().Msg("initiating hub shutdown")

	// Signal shutdown
	h.cancel()

	// Wait for Run() to complete
	<-h.done

	// Wait for all client goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("hub shutdown completed")
		return nil
	case <-time.After(timeout):
		log.Warn().Msg("hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
