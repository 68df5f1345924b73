package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addTestClient(h *Hub, id string) *Client {
	c := &Client{id: id, addr: "test:" + id, send: make(chan []byte, 1)}
	h.clients[c] = true
	h.byID[id] = c
	return c
}

func TestTargetSnapshot(t *testing.T) {
	h := NewHub()
	a := addTestClient(h, "a")
	addTestClient(h, "b")

	assert.Len(t, h.targetSnapshot(""), 2, "no target means every client")

	targeted := h.targetSnapshot("a")
	require.Len(t, targeted, 1)
	assert.Same(t, a, targeted[0])

	assert.Empty(t, h.targetSnapshot("missing"))
}

func TestDeliverBroadcastReachesAllClients(t *testing.T) {
	h := NewHub()
	a := addTestClient(h, "a")
	b := addTestClient(h, "b")

	h.deliver(outboundMessage{payload: []byte(`{"event":"gameState"}`)})

	assert.Len(t, a.send, 1)
	assert.Len(t, b.send, 1)
}

func TestDeliverTargetedReachesOnlyTarget(t *testing.T) {
	h := NewHub()
	a := addTestClient(h, "a")
	b := addTestClient(h, "b")

	h.deliver(outboundMessage{targetID: "b", payload: []byte(`{"event":"playerInfo"}`)})

	assert.Empty(t, a.send)
	assert.Len(t, b.send, 1)
}

func TestDeliverDropsClientWithFullBuffer(t *testing.T) {
	h := NewHub()
	a := addTestClient(h, "a")
	a.send <- []byte("stale") // fill the buffer so the next send fails

	h.deliver(outboundMessage{payload: []byte(`{"event":"gameState"}`)})

	assert.NotContains(t, h.clients, a)
	assert.NotContains(t, h.byID, "a")
	assert.True(t, a.closed)
}

func TestSafeSendToUnregisteredClient(t *testing.T) {
	h := NewHub()
	c := &Client{id: "x", send: make(chan []byte, 1)}

	assert.False(t, h.safeSend(c, []byte("hello")))
}
