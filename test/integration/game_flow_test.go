package integration

import (
	"fmt"
	"testing"
	"time"

	"eggrace/internal/game"
	"eggrace/test/testhelpers"
)

const eventTimeout = 3 * time.Second

// TestTwoPlayerGameFlow walks the happy path end to end over real
// WebSocket connections: seating, registration, host start, one roll, and
// one banked move, with the turn passing to the second player.
func TestTwoPlayerGameFlow(t *testing.T) {
	ts := testhelpers.StartGameServer(t)

	ann := testhelpers.ConnectWebSocket(t, ts)
	var greeting game.AwaitProfilePayload
	ann.DecodeInto(ann.WaitFor(game.EventAwaitProfile, eventTimeout), &greeting)
	if greeting.SuggestedName != "Player 1" {
		t.Errorf("Expected suggested name Player 1, got %q", greeting.SuggestedName)
	}

	ben := testhelpers.ConnectWebSocket(t, ts)
	ben.WaitFor(game.EventAwaitProfile, eventTimeout)

	ann.SendIntent("registerProfile", map[string]string{"name": "Ann", "color": "red"})
	var annInfo game.PlayerInfoPayload
	ann.DecodeInto(ann.WaitFor(game.EventPlayerInfo, eventTimeout), &annInfo)
	if annInfo.Index != 1 {
		t.Errorf("Expected Ann in seat 1, got %d", annInfo.Index)
	}

	ben.SendIntent("registerProfile", map[string]string{"name": "Ben", "color": "red"})
	var benInfo game.PlayerInfoPayload
	ben.DecodeInto(ben.WaitFor(game.EventPlayerInfo, eventTimeout), &benInfo)

	var ready game.ReadyToStartPayload
	ann.DecodeInto(ann.WaitFor(game.EventReadyToStart, eventTimeout), &ready)
	if ready.HostID != annInfo.ID {
		t.Errorf("Expected Ann (%s) as host, got %s", annInfo.ID, ready.HostID)
	}

	// A non-host start is rejected silently; the host start goes through.
	ben.SendIntent("startGame", nil)
	ann.SendIntent("startGame", nil)

	var started game.GameStartedPayload
	ann.DecodeInto(ann.WaitFor(game.EventGameStarted, eventTimeout), &started)
	if started.BoardSize != game.BoardSize {
		t.Errorf("Expected board size %d, got %d", game.BoardSize, started.BoardSize)
	}
	if started.RemainingEggs != 20 {
		t.Errorf("Expected 20 egg cards in play, got %d", started.RemainingEggs)
	}

	var turn game.TurnChangedPayload
	ben.DecodeInto(ben.WaitFor(game.EventTurnChanged, eventTimeout), &turn)
	if turn.CurrentPlayerID != annInfo.ID {
		t.Errorf("Expected first turn for Ann (%s), got %s", annInfo.ID, turn.CurrentPlayerID)
	}

	// A single die can never exceed the bust threshold.
	ann.SendIntent("rollDice", nil)
	var roll game.RollResultPayload
	ben.DecodeInto(ben.WaitFor(game.EventRollResult, eventTimeout), &roll)
	if roll.Busted {
		t.Error("A first die must never bust")
	}
	if len(roll.Dice) != 1 || roll.Sum < 1 || roll.Sum > 6 {
		t.Errorf("Unexpected roll result: dice=%v sum=%d", roll.Dice, roll.Sum)
	}

	ann.SendIntent("stopAndMove", nil)
	var move game.MoveResolvedPayload
	ben.DecodeInto(ben.WaitFor(game.EventMoveResolved, eventTimeout), &move)
	if move.Distance != roll.Sum {
		t.Errorf("Expected distance %d for a single die, got %d", roll.Sum, move.Distance)
	}
	if move.NewPosition != move.Distance {
		t.Errorf("Expected position %d from the raft, got %d", move.Distance, move.NewPosition)
	}
	if move.CrossedLap {
		t.Error("A single-die opening move cannot complete a lap")
	}

	// After the short resolve pause, the turn passes to Ben.
	ben.DecodeInto(ben.WaitFor(game.EventTurnChanged, eventTimeout), &turn)
	if turn.CurrentPlayerID != benInfo.ID {
		t.Errorf("Expected second turn for Ben (%s), got %s", benInfo.ID, turn.CurrentPlayerID)
	}
}

func TestFifthConnectionIsRejected(t *testing.T) {
	ts := testhelpers.StartGameServer(t)

	for i := 0; i < 4; i++ {
		c := testhelpers.ConnectWebSocket(t, ts)
		c.WaitFor(game.EventAwaitProfile, eventTimeout)
	}

	fifth := testhelpers.ConnectWebSocket(t, ts)
	fifth.WaitFor(game.EventRoomFull, eventTimeout)
}

func TestDisconnectMidGameForcesStop(t *testing.T) {
	ts := testhelpers.StartGameServer(t)

	ann := testhelpers.ConnectWebSocket(t, ts)
	ann.WaitFor(game.EventAwaitProfile, eventTimeout)
	ben := testhelpers.ConnectWebSocket(t, ts)
	ben.WaitFor(game.EventAwaitProfile, eventTimeout)

	ann.SendIntent("registerProfile", map[string]string{"name": "Ann"})
	ben.SendIntent("registerProfile", map[string]string{"name": "Ben"})
	ann.WaitFor(game.EventReadyToStart, eventTimeout)

	ann.SendIntent("startGame", nil)
	ann.WaitFor(game.EventGameStarted, eventTimeout)

	ben.Close()

	var stop game.ForcedStopPayload
	ann.DecodeInto(ann.WaitFor(game.EventForcedStop, eventTimeout), &stop)
	if stop.Reason != game.ReasonInsufficientPlayers {
		t.Errorf("Expected reason %q, got %q", game.ReasonInsufficientPlayers, stop.Reason)
	}
}

func TestColorsStayUniqueAcrossSeats(t *testing.T) {
	ts := testhelpers.StartGameServer(t)

	clients := make([]*testhelpers.WSClient, 0, 3)
	for i := 0; i < 3; i++ {
		c := testhelpers.ConnectWebSocket(t, ts)
		c.WaitFor(game.EventAwaitProfile, eventTimeout)
		clients = append(clients, c)
	}

	seen := make(map[string]string)
	for i, c := range clients {
		c.SendIntent("registerProfile", map[string]string{
			"name":  fmt.Sprintf("P%d", i+1),
			"color": "blue", // everyone asks for the same color
		})
		c.WaitFor(game.EventPlayerInfo, eventTimeout)
	}

	// The final playerList on the last client carries all three colors.
	var list []game.PlayerView
	last := clients[len(clients)-1]
	last.DecodeInto(last.WaitFor(game.EventPlayerList, eventTimeout), &list)
	if len(list) != 3 {
		t.Fatalf("Expected 3 players in the list, got %d", len(list))
	}
	for _, p := range list {
		if p.Color == "" {
			t.Errorf("Player %s has no color assigned", p.Name)
			continue
		}
		if other, dup := seen[p.Color]; dup {
			t.Errorf("Color %s assigned to both %s and %s", p.Color, other, p.Name)
		}
		seen[p.Color] = p.Name
	}
}
