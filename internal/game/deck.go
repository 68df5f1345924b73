// Package game provides the egg card deck: a shuffled 20-card subset of a
// 24-card pool, consumed strictly front to back.
package game

import "math/rand"

// deck holds the remaining egg cards in draw order.
type deck struct {
	cards []int
}

// newDeck builds the full pool of four copies of each value 1..6, shuffles
// it, and permanently discards the first four cards. The remaining twenty
// form the draw order for the whole game; the deck never regrows.
func newDeck(rng *rand.Rand) *deck {
	pool := make([]int, 0, deckPoolSize)
	for v := 1; v <= 6; v++ {
		for i := 0; i < copiesPerValue; i++ {
			pool = append(pool, v)
		}
	}

	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	return &deck{cards: pool[deckDiscard:]}
}

// draw removes and returns the front card. The second return value is
// false once the deck is empty.
func (d *deck) draw() (int, bool) {
	if len(d.cards) == 0 {
		return 0, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// remaining reports how many cards are still in the deck, excluding any
// face-up card held outside it.
func (d *deck) remaining() int {
	if d == nil {
		return 0
	}
	return len(d.cards)
}
