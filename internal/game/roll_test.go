package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollStateBustsOnlyAboveThreshold(t *testing.T) {
	tests := []struct {
		name       string
		dice       []int
		wantBusted bool
	}{
		{"single low die", []int{3}, false},
		{"exactly the threshold", []int{3, 4}, false},
		{"one past the threshold", []int{4, 4}, true},
		{"three dice under", []int{2, 2, 3}, false},
		{"busts on the third die", []int{2, 2, 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRollState("p1")
			busted := false
			for _, die := range tt.dice {
				busted = r.add(die)
			}

			assert.Equal(t, tt.wantBusted, busted)
			assert.Equal(t, tt.wantBusted, r.busted)
			// busted implies finished
			if r.busted {
				assert.True(t, r.finished)
			}
			assert.Equal(t, r.sum > BustThreshold, r.busted)
		})
	}
}

func TestRollStateDiceCap(t *testing.T) {
	r := newRollState("p1")
	for i := 0; i < MaxDicePerTurn; i++ {
		assert.True(t, r.canRoll())
		r.add(1)
	}

	assert.False(t, r.canRoll(), "roll must become unavailable after three dice")
	assert.False(t, r.busted)
	assert.False(t, r.finished, "hitting the cap must not finish the turn; stop does")
	assert.Len(t, r.dice, MaxDicePerTurn)
}

func TestRollStateDistance(t *testing.T) {
	r := newRollState("p1")
	r.add(2)
	r.add(3)

	assert.Equal(t, 10, r.distance(), "distance is sum times dice count")
}
