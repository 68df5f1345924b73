// Package game implements the authoritative state of the egg race board
// game: seating, turn rotation, the per-turn dice state machine, circular
// board movement with lap detection, the shared egg card economy, and
// final scoring.
//
// All mutation goes through Session, which applies one intent at a time
// and publishes outbound events through an Emitter supplied by the
// transport layer. Nothing outside this package touches game state.
package game
