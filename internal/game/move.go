package game

// moveSteps walks a position forward one cell at a time, wrapping modulo
// the board size, and reports whether cell 0 was passed through or landed
// on at any step. Counting crossings per step (rather than comparing start
// and end cells) keeps lap detection correct even for distances larger
// than a full board.
func moveSteps(pos, distance int) (newPos int, crossedLap bool) {
	for step := 0; step < distance; step++ {
		pos = (pos + 1) % BoardSize
		if pos == 0 {
			crossedLap = true
		}
	}
	return pos, crossedLap
}
