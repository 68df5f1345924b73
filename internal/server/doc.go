// Package server implements the transport layer of the egg race server:
// WebSocket upgrades, per-connection read/write pumps, the hub that fans
// game events out to every client, origin policy, and rate limiting.
//
// The package owns no game rules. Incoming intents are decoded and handed
// to the game session; outbound events arrive through the hub's Emitter
// implementation and are delivered verbatim.
package server
