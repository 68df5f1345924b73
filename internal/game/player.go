// Package game defines the player model and the roster view shared with
// clients.
package game

// Game rule constants. BoardSize counts cells 0..20, with cell 0 acting as
// the start/finish raft.
const (
	BoardSize      = 21
	MaxDicePerTurn = 3
	MinPlayers     = 2
	MaxPlayers     = 4
	BustThreshold  = 7
	BonusValue     = 7

	copiesPerValue = 4
	deckPoolSize   = 24
	deckDiscard    = 4
)

// palette is the fixed set of player colors. Each active player holds a
// unique entry.
var palette = []string{"red", "green", "blue", "yellow"}

// Player is one seated participant. Players are owned by the Session and
// mutated only while it holds its lock.
type Player struct {
	ID        string
	Name      string
	Avatar    string
	Color     string
	Seat      int // 1-based, assigned at join, never reassigned
	Position  int // 0..BoardSize-1, 0 is the raft
	EggsTotal int
	EggsCount int
	Bonus     int
}

// finalScore is the player's score at game end.
func (p *Player) finalScore() int {
	return p.EggsTotal + p.Bonus
}

// view produces the client-facing snapshot of the player.
func (p *Player) view() PlayerView {
	return PlayerView{
		ID:        p.ID,
		Name:      p.Name,
		Avatar:    p.Avatar,
		Color:     p.Color,
		Index:     p.Seat,
		Position:  p.Position,
		EggsTotal: p.EggsTotal,
		EggsCount: p.EggsCount,
		Bonus:     p.Bonus,
	}
}

// pickColor resolves a requested color against the colors already in use.
// An empty or taken request falls back to the first free palette entry,
// and the first palette color when everything is taken.
func pickColor(requested string, used map[string]bool) string {
	if requested != "" && !used[requested] {
		return requested
	}
	for _, c := range palette {
		if !used[c] {
			return c
		}
	}
	return palette[0]
}
