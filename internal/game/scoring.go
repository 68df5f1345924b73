package game

import "sort"

// rankPlayers orders players for the end-of-game table: descending final
// score, then descending egg card count, then ascending seat. Seats are
// unique, so the ordering is total and two players never compare equal.
func rankPlayers(players []*Player) []*Player {
	ranked := make([]*Player, len(players))
	copy(ranked, players)

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.finalScore() != b.finalScore() {
			return a.finalScore() > b.finalScore()
		}
		if a.EggsCount != b.EggsCount {
			return a.EggsCount > b.EggsCount
		}
		return a.Seat < b.Seat
	})

	return ranked
}

// standings converts a ranked player list into the game-over table.
func standings(ranked []*Player) []FinalStanding {
	table := make([]FinalStanding, 0, len(ranked))
	for _, p := range ranked {
		table = append(table, FinalStanding{
			ID:         p.ID,
			Name:       p.Name,
			Color:      p.Color,
			Avatar:     p.Avatar,
			EggsTotal:  p.EggsTotal,
			EggsCount:  p.EggsCount,
			Bonus:      p.Bonus,
			FinalScore: p.finalScore(),
		})
	}
	return table
}
