// Package game declares the outbound event names and payload shapes the
// coordinator publishes. Each payload carries every field an observer
// needs to re-render without querying state separately.
package game

// Event names on the wire.
const (
	EventAwaitProfile = "awaitProfile"
	EventRoomFull     = "roomFull"
	EventPlayerInfo   = "playerInfo"
	EventPlayerList   = "playerList"
	EventReadyToStart = "readyToStart"
	EventGameStarted  = "gameStarted"
	EventGameState    = "gameState"
	EventTurnChanged  = "turnChanged"
	EventRollResult   = "rollResult"
	EventMoveResolved = "moveResolved"
	EventBonusReady   = "bonus7Ready"
	EventBonusTaken   = "bonus7Taken"
	EventGameOver     = "gameOver"
	EventForcedStop   = "forcedStop"
)

// Game-over reasons.
const (
	ReasonBonusClaimed        = "bonus7"
	ReasonInsufficientPlayers = "insufficientPlayers"
)

// Emitter delivers outbound events to connected clients. The transport
// layer implements it; the Session never touches sockets directly.
type Emitter interface {
	// Broadcast sends an event to every connected client.
	Broadcast(event string, payload any)
	// SendTo sends an event to a single client by player id.
	SendTo(playerID string, event string, payload any)
}

// PlayerView is the public snapshot of one player.
type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Color     string `json:"color"`
	Index     int    `json:"index"`
	Position  int    `json:"position"`
	EggsTotal int    `json:"eggsTotal"`
	EggsCount int    `json:"eggsCount"`
	Bonus     int    `json:"bonus7"`
}

// AwaitProfilePayload greets a freshly seated connection.
type AwaitProfilePayload struct {
	SuggestedName string `json:"suggestedName"`
}

// PlayerInfoPayload confirms a completed registration to the registrant.
type PlayerInfoPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Index     int    `json:"index"`
	EggsTotal int    `json:"eggsTotal"`
	EggsCount int    `json:"eggsCount"`
	Bonus     int    `json:"bonus7"`
}

// ReadyToStartPayload announces that the room may begin and who holds the
// host seat.
type ReadyToStartPayload struct {
	HostID string `json:"hostId"`
}

// GameStartedPayload announces a fresh game.
type GameStartedPayload struct {
	BoardSize     int  `json:"boardSize"`
	FaceUpCard    *int `json:"faceUpCard"`
	RemainingEggs int  `json:"remainingEggs"`
}

// GameStatePayload is the full session snapshot broadcast after every
// mutation.
type GameStatePayload struct {
	GameStarted     bool         `json:"gameStarted"`
	CurrentPlayerID string       `json:"currentPlayerId"`
	Players         []PlayerView `json:"players"`
	BoardSize       int          `json:"boardSize"`
	FaceUpCard      *int         `json:"faceUpCard"`
	RemainingEggs   int          `json:"remainingEggs"`
	Bonus7Available bool         `json:"bonus7Available"`
}

// TurnChangedPayload identifies the new current player.
type TurnChangedPayload struct {
	CurrentPlayerID   string `json:"currentPlayerId"`
	CurrentPlayerName string `json:"currentPlayerName"`
}

// RollResultPayload reports one die throw and the running turn state.
type RollResultPayload struct {
	PlayerID string `json:"playerId"`
	Dice     []int  `json:"dice"`
	Sum      int    `json:"sum"`
	Busted   bool   `json:"busted"`
}

// MoveResolvedPayload reports a finished move: displacement, landing cell,
// lap outcome, and the resulting egg economy.
type MoveResolvedPayload struct {
	PlayerID        string `json:"playerId"`
	Distance        int    `json:"distance"`
	NewPosition     int    `json:"newPosition"`
	CrossedLap      bool   `json:"crossedLap"`
	EggAward        *int   `json:"eggAward"`
	NewFaceUpCard   *int   `json:"newFaceUpCard"`
	RemainingEggs   int    `json:"remainingEggs"`
	Bonus7Available bool   `json:"bonus7Available"`
}

// BonusTakenPayload names the player who claimed the 7-point bonus.
type BonusTakenPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// FinalStanding is one row of the ranked end-of-game table.
type FinalStanding struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Avatar     string `json:"avatar"`
	EggsTotal  int    `json:"eggsTotal"`
	EggsCount  int    `json:"eggsCount"`
	Bonus      int    `json:"bonus7"`
	FinalScore int    `json:"finalScore"`
}

// GameOverPayload carries the final ranking and the winner.
type GameOverPayload struct {
	Reason     string          `json:"reason"`
	Players    []FinalStanding `json:"players"`
	WinnerID   string          `json:"winnerId"`
	WinnerName string          `json:"winnerName"`
}

// ForcedStopPayload explains an abnormal termination.
type ForcedStopPayload struct {
	Reason string `json:"reason"`
}
