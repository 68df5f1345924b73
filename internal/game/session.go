// Package game implements Session, the coordinator that owns all shared
// game state and processes player intents one at a time.
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Precondition failures returned by Session intents. The transport layer
// rejects these silently: no state change, no broadcast.
var (
	ErrRoomFull         = errors.New("room is full")
	ErrUnknownPlayer    = errors.New("unknown player")
	ErrNotStarted       = errors.New("game not started")
	ErrInProgress       = errors.New("game already in progress")
	ErrNotHost          = errors.New("only the host can start the game")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrNotYourTurn      = errors.New("not this player's turn")
	ErrTurnResolved     = errors.New("turn already resolved")
	ErrRollLimit        = errors.New("dice limit reached this turn")
	ErrNoDiceRolled     = errors.New("no dice rolled yet")
)

const defaultTurnDelay = 800 * time.Millisecond

// Session is the single game room. All fields are guarded by mu; every
// exported method takes the lock for its whole duration so intents apply
// atomically and in arrival order.
type Session struct {
	mu      sync.Mutex
	emitter Emitter

	rng       *rand.Rand
	rollDie   func() int
	turnDelay time.Duration
	schedule  func(time.Duration, func()) (cancel func())

	players  []*Player // seating order, fixed at join time
	nextSeat int

	started   bool
	currentID string
	roll      *rollState

	// resolving marks the window between a finished turn and the deferred
	// advance firing; all roll/stop intents are rejected while it is set.
	resolving     bool
	cancelAdvance func()

	deck           *deck
	faceUp         *int
	bonusAvailable bool
	bonusWinnerID  string
}

// Option customizes a Session.
type Option func(*Session)

// WithRand sets the random source used for deck shuffles and, unless
// overridden by WithRoller, die throws.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithRoller replaces the die throw function. The function must return
// values in [1,6].
func WithRoller(roll func() int) Option {
	return func(s *Session) { s.rollDie = roll }
}

// WithTurnDelay sets the pause between a resolved turn and the next
// turn-changed announcement, giving clients time to animate the outcome.
func WithTurnDelay(d time.Duration) Option {
	return func(s *Session) { s.turnDelay = d }
}

// WithScheduler overrides how deferred turn advances are scheduled. The
// scheduler must run fn after d and return a cancel function.
func WithScheduler(schedule func(d time.Duration, fn func()) (cancel func())) Option {
	return func(s *Session) { s.schedule = schedule }
}

// NewSession creates a lobby-state session that publishes events through
// the given emitter.
func NewSession(emitter Emitter, opts ...Option) *Session {
	s := &Session{
		emitter:   emitter,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		turnDelay: defaultTurnDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rollDie == nil {
		s.rollDie = func() int { return s.rng.Intn(6) + 1 }
	}
	if s.schedule == nil {
		s.schedule = func(d time.Duration, fn func()) func() {
			t := time.AfterFunc(d, fn)
			return func() { t.Stop() }
		}
	}
	return s
}

// Join allocates the next seat for a new connection and returns the
// suggested display name for it. ErrRoomFull is returned when all four
// seats are taken.
func (s *Session) Join(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.players) >= MaxPlayers {
		return "", ErrRoomFull
	}

	s.nextSeat++
	p := &Player{ID: id, Seat: s.nextSeat}
	s.players = append(s.players, p)

	log.Info().Str("player", id).Int("seat", p.Seat).Msg("player joined")
	return fmt.Sprintf("Player %d", p.Seat), nil
}

// RegisterProfile records a player's display name, avatar, and color. The
// color is deconflicted against the fixed palette; a blank name falls back
// to the suggested "Player N". The registrant receives playerInfo, the
// room receives the updated player list, and readyToStart is announced
// whenever the lobby holds a startable player count.
func (s *Session) RegisterProfile(id, name, color, avatar string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.playerByID(id)
	if p == nil {
		return ErrUnknownPlayer
	}

	used := make(map[string]bool, len(s.players))
	for _, other := range s.players {
		if other.ID != id && other.Color != "" {
			used[other.Color] = true
		}
	}

	p.Name = strings.TrimSpace(name)
	if p.Name == "" {
		p.Name = fmt.Sprintf("Player %d", p.Seat)
	}
	p.Avatar = avatar
	p.Color = pickColor(color, used)

	s.emitter.SendTo(id, EventPlayerInfo, PlayerInfoPayload{
		ID:        p.ID,
		Name:      p.Name,
		Avatar:    p.Avatar,
		Index:     p.Seat,
		EggsTotal: p.EggsTotal,
		EggsCount: p.EggsCount,
		Bonus:     p.Bonus,
	})
	s.emitter.Broadcast(EventPlayerList, s.views())

	if !s.started && len(s.players) >= MinPlayers && len(s.players) <= MaxPlayers {
		s.emitter.Broadcast(EventReadyToStart, ReadyToStartPayload{HostID: s.players[0].ID})
	}
	return nil
}

// StartGame begins a fresh game. Only the host (the first remaining seat)
// may start, the room must hold 2-4 players, and no game may be active.
// Starting rebuilds the deck, flips the first face-up card, and zeroes
// every per-player counter and position.
func (s *Session) StartGame(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrInProgress
	}
	if len(s.players) < MinPlayers {
		return ErrNotEnoughPlayers
	}
	if s.players[0].ID != id {
		return ErrNotHost
	}

	s.stopPendingAdvance()
	s.started = true
	s.currentID = ""
	s.roll = nil
	s.bonusAvailable = false
	s.bonusWinnerID = ""

	s.deck = newDeck(s.rng)
	s.faceUp = s.drawFaceUp()

	for _, p := range s.players {
		p.Position = 0
		p.EggsTotal = 0
		p.EggsCount = 0
		p.Bonus = 0
	}

	log.Info().Str("host", id).Int("players", len(s.players)).Msg("game started")
	s.emitter.Broadcast(EventGameStarted, GameStartedPayload{
		BoardSize:     BoardSize,
		FaceUpCard:    s.faceUp,
		RemainingEggs: s.remainingEggs(),
	})

	s.advanceTurn()
	return nil
}

// RollDice throws one die for the current player. A running sum above the
// bust threshold ends the turn immediately: the player returns to the raft
// and loses all progress made this turn.
func (s *Session) RollDice(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTurn(id); err != nil {
		return err
	}
	if !s.roll.canRoll() {
		return ErrRollLimit
	}

	die := s.rollDie()
	busted := s.roll.add(die)

	log.Debug().Str("player", id).Int("die", die).Int("sum", s.roll.sum).Bool("busted", busted).Msg("die rolled")
	s.emitter.Broadcast(EventRollResult, RollResultPayload{
		PlayerID: id,
		Dice:     append([]int(nil), s.roll.dice...),
		Sum:      s.roll.sum,
		Busted:   busted,
	})

	if busted {
		s.playerByID(id).Position = 0
		s.broadcastState()
		s.scheduleAdvance()
	}
	return nil
}

// StopAndMove banks the current roll and moves the player. The distance is
// the dice sum multiplied by the number of dice thrown; completing a lap
// awards the face-up egg card, or the 7-point bonus once the egg economy
// is exhausted, which ends the game on the spot.
func (s *Session) StopAndMove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTurn(id); err != nil {
		return err
	}
	if len(s.roll.dice) == 0 {
		return ErrNoDiceRolled
	}

	s.roll.finished = true
	p := s.playerByID(id)
	distance := s.roll.distance()

	newPos, crossed := moveSteps(p.Position, distance)
	p.Position = newPos

	var eggAward *int
	if crossed {
		switch {
		case s.faceUp != nil:
			award := *s.faceUp
			eggAward = &award
			p.EggsTotal += award
			p.EggsCount++

			s.faceUp = s.drawFaceUp()
			if s.faceUp == nil && s.deck.remaining() == 0 {
				s.bonusAvailable = true
				s.emitter.Broadcast(EventBonusReady, struct{}{})
			}

		case s.bonusAvailable:
			s.bonusAvailable = false
			s.bonusWinnerID = p.ID
			p.Bonus += BonusValue

			s.emitter.Broadcast(EventBonusTaken, BonusTakenPayload{
				PlayerID:   p.ID,
				PlayerName: p.Name,
			})
			s.endGame(ReasonBonusClaimed)
			return nil
		}
	}

	log.Debug().Str("player", id).Int("distance", distance).Int("position", newPos).Bool("lap", crossed).Msg("move resolved")
	s.emitter.Broadcast(EventMoveResolved, MoveResolvedPayload{
		PlayerID:        p.ID,
		Distance:        distance,
		NewPosition:     newPos,
		CrossedLap:      crossed,
		EggAward:        eggAward,
		NewFaceUpCard:   s.faceUp,
		RemainingEggs:   s.remainingEggs(),
		Bonus7Available: s.bonusAvailable,
	})

	s.broadcastState()
	s.scheduleAdvance()
	return nil
}

// Disconnect removes a player's seat. Dropping below the minimum player
// count force-ends an active game; a departing current player advances the
// turn immediately.
func (s *Session) Disconnect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}

	wasCurrent := id == s.currentID
	s.players = append(s.players[:idx], s.players[idx+1:]...)
	log.Info().Str("player", id).Int("remaining", len(s.players)).Msg("player left")

	if s.started && len(s.players) < MinPlayers {
		s.stopPendingAdvance()
		s.started = false
		s.currentID = ""
		s.roll = nil
		s.emitter.Broadcast(EventForcedStop, ForcedStopPayload{Reason: ReasonInsufficientPlayers})
		s.broadcastState()
		return
	}

	s.emitter.Broadcast(EventPlayerList, s.views())

	if !s.started {
		if len(s.players) >= MinPlayers {
			s.emitter.Broadcast(EventReadyToStart, ReadyToStartPayload{HostID: s.players[0].ID})
		}
		return
	}

	if wasCurrent {
		s.stopPendingAdvance()
		s.advanceTurn()
	} else {
		s.broadcastState()
	}
}

// checkTurn validates a roll or stop intent against the turn state. The
// resolving window is checked before player identity so stray intents are
// rejected while the just-finished turn waits for its deferred advance.
func (s *Session) checkTurn(id string) error {
	if !s.started {
		return ErrNotStarted
	}
	if s.resolving {
		return ErrTurnResolved
	}
	if id != s.currentID || s.roll == nil || s.roll.playerID != id {
		return ErrNotYourTurn
	}
	if s.roll.finished {
		return ErrTurnResolved
	}
	return nil
}

// advanceTurn selects the next current player in seating order, wrapping,
// and installs a fresh roll state. Below the minimum player count or when
// no game is active it clears the current player and suspends turns.
func (s *Session) advanceTurn() {
	if !s.started || len(s.players) < MinPlayers {
		s.currentID = ""
		s.roll = nil
		s.broadcastState()
		return
	}

	if s.currentID == "" {
		s.currentID = s.players[0].ID
	} else if idx := s.indexOf(s.currentID); idx < 0 {
		// The current seat departed; fall back to the first remaining one.
		s.currentID = s.players[0].ID
	} else {
		s.currentID = s.players[(idx+1)%len(s.players)].ID
	}

	s.roll = newRollState(s.currentID)

	cur := s.playerByID(s.currentID)
	s.emitter.Broadcast(EventTurnChanged, TurnChangedPayload{
		CurrentPlayerID:   s.currentID,
		CurrentPlayerName: cur.Name,
	})
	s.broadcastState()
}

// scheduleAdvance defers the next turn so clients can animate the roll or
// move outcome first. The turn is marked resolving for the whole window.
func (s *Session) scheduleAdvance() {
	s.stopPendingAdvance()
	s.resolving = true
	s.cancelAdvance = s.schedule(s.turnDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.resolving {
			return
		}
		s.resolving = false
		s.cancelAdvance = nil
		s.advanceTurn()
	})
}

// stopPendingAdvance cancels any scheduled turn advance and clears the
// resolving window.
func (s *Session) stopPendingAdvance() {
	if s.cancelAdvance != nil {
		s.cancelAdvance()
		s.cancelAdvance = nil
	}
	s.resolving = false
}

// endGame finalizes scores, announces the ranked table and winner, and
// returns the session to its restartable ended state. The roster survives
// until the next StartGame.
func (s *Session) endGame(reason string) {
	s.started = false
	s.stopPendingAdvance()

	ranked := rankPlayers(s.players)
	payload := GameOverPayload{
		Reason:  reason,
		Players: standings(ranked),
	}
	if len(ranked) > 0 {
		payload.WinnerID = ranked[0].ID
		payload.WinnerName = ranked[0].Name
	}

	log.Info().Str("reason", reason).Str("winner", payload.WinnerID).Msg("game over")
	s.emitter.Broadcast(EventGameOver, payload)

	s.currentID = ""
	s.roll = nil
	s.broadcastState()
}

// drawFaceUp refills the face-up slot from the deck, or leaves it empty
// when the deck is exhausted.
func (s *Session) drawFaceUp() *int {
	if card, ok := s.deck.draw(); ok {
		return &card
	}
	return nil
}

// remainingEggs counts cards still in play: the deck plus the face-up
// card, when present.
func (s *Session) remainingEggs() int {
	n := s.deck.remaining()
	if s.faceUp != nil {
		n++
	}
	return n
}

func (s *Session) broadcastState() {
	s.emitter.Broadcast(EventGameState, GameStatePayload{
		GameStarted:     s.started,
		CurrentPlayerID: s.currentID,
		Players:         s.views(),
		BoardSize:       BoardSize,
		FaceUpCard:      s.faceUp,
		RemainingEggs:   s.remainingEggs(),
		Bonus7Available: s.bonusAvailable,
	})
}

func (s *Session) views() []PlayerView {
	views := make([]PlayerView, 0, len(s.players))
	for _, p := range s.players {
		views = append(views, p.view())
	}
	return views
}

func (s *Session) indexOf(id string) int {
	for i, p := range s.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) playerByID(id string) *Player {
	if idx := s.indexOf(id); idx >= 0 {
		return s.players[idx]
	}
	return nil
}
