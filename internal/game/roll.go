package game

// rollState is the ephemeral per-turn dice state. It is created fresh at
// every turn boundary and destroyed when the turn ends.
//
// Invariants: sum > BustThreshold implies busted implies finished, and the
// dice slice never grows past MaxDicePerTurn.
type rollState struct {
	playerID string
	dice     []int
	sum      int
	busted   bool
	finished bool
}

func newRollState(playerID string) *rollState {
	return &rollState{playerID: playerID}
}

// canRoll reports whether another die may be thrown.
func (r *rollState) canRoll() bool {
	return !r.finished && len(r.dice) < MaxDicePerTurn
}

// add records one die result and returns true when the roll busts.
func (r *rollState) add(die int) bool {
	r.dice = append(r.dice, die)
	r.sum += die
	if r.sum > BustThreshold {
		r.busted = true
		r.finished = true
	}
	return r.busted
}

// distance is the board displacement earned by stopping now. Multi-die
// rolls are rewarded disproportionately: the sum is multiplied by the
// number of dice thrown.
func (r *rollState) distance() int {
	return r.sum * len(r.dice)
}
