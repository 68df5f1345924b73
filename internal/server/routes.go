// Package server wires HTTP handlers into a chi router for the egg race
// application.
package server

import "github.com/go-chi/chi/v5"

// NewRouter configures and returns the application router with handlers
// for the health check and the WebSocket endpoint.
func NewRouter(hub *Hub, cfg *Config) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/", HealthHandler)
	r.Get("/ws", WebSocketHandler(hub, cfg))
	return r
}
