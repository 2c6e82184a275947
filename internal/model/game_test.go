package model

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/benbeisheim/chessrules-backend/internal/testutil"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
)

func newSeatedGame(t *testing.T) *Game {
	t.Helper()
	g := NewGame("game-1")
	color, err := g.AddPlayer("alice")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, color, PlayerColorWhite)
	color, err = g.AddPlayer("bob")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, color, PlayerColorBlack)
	return g
}

func mustPlace(t *testing.T, g *Game, playerID string, kind PieceType, color PlayerColor, square string) PieceView {
	t.Helper()
	view, err := g.PlacePiece(playerID, WSPlacement{Type: kind, Color: color, Square: square})
	testutil.AssertNoError(t, err, "place %s %s on %s", color, kind, square)
	return view
}

func TestGameAddPlayer(t *testing.T) {
	g := newSeatedGame(t)

	// rejoining keeps the seat
	color, err := g.AddPlayer("alice")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, color, PlayerColorWhite)

	_, err = g.AddPlayer("carol")
	testutil.AssertErrorIs(t, err, ErrGameFull)
	testutil.AssertFalse(t, g.CanSpectate())
	testutil.AssertTrue(t, g.IsPlayerInGame("bob"))
	testutil.AssertFalse(t, g.IsPlayerInGame("carol"))
	testutil.AssertFalse(t, g.IsPlayerInGame(""))
}

func TestGamePlacePiece(t *testing.T) {
	g := newSeatedGame(t)

	view := mustPlace(t, g, "alice", Rook, PlayerColorWhite, "a1")
	testutil.AssertEqual(t, view.Square, "A1")
	testutil.AssertEqual(t, view.Type, Rook)
	testutil.AssertTrue(t, view.Alive)

	tests := []struct {
		name      string
		player    string
		placement WSPlacement
		wantErr   error
	}{
		{name: "spectator", player: "carol", placement: WSPlacement{Type: Rook, Color: PlayerColorWhite, Square: "B1"}, wantErr: ErrNotInGame},
		{name: "occupied", player: "bob", placement: WSPlacement{Type: Pawn, Color: PlayerColorBlack, Square: "A1"}, wantErr: ErrSquareOccupied},
		{name: "off the board", player: "bob", placement: WSPlacement{Type: Pawn, Color: PlayerColorBlack, Square: "I9"}, wantErr: ErrBadCoordinates},
		{name: "unknown kind", player: "bob", placement: WSPlacement{Type: "dragon", Color: PlayerColorBlack, Square: "B1"}, wantErr: ErrUnsupportedPiece},
		{name: "unknown color", player: "bob", placement: WSPlacement{Type: Pawn, Color: "green", Square: "B1"}, wantErr: ErrUnsupportedPiece},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.PlacePiece(tt.player, tt.placement)
			testutil.AssertErrorIs(t, err, tt.wantErr)
		})
	}

	state := g.GetState()
	testutil.AssertEqual(t, state.Board[7][0].ID, view.ID)
	testutil.AssertEqual(t, len(g.pieces), 1)
}

func TestGameMakeMove(t *testing.T) {
	g := newSeatedGame(t)
	rook := mustPlace(t, g, "alice", Rook, PlayerColorWhite, "A1")
	pawn := mustPlace(t, g, "bob", Pawn, PlayerColorBlack, "A7")

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name    string
			player  string
			move    WSMove
			wantErr error
		}{
			{name: "not seated", player: "carol", move: WSMove{From: "A1", To: "A5"}, wantErr: ErrNotInGame},
			{name: "other side", player: "bob", move: WSMove{From: "A1", To: "A5"}, wantErr: ErrNotYourPiece},
			{name: "empty square", player: "alice", move: WSMove{From: "B1", To: "B5"}, wantErr: ErrNotFound},
			{name: "bad square", player: "alice", move: WSMove{From: "A1", To: "A0"}, wantErr: ErrBadCoordinates},
			{name: "illegal", player: "alice", move: WSMove{From: "A1", To: "B2"}, wantErr: ErrIllegalMove},
			{name: "rook promotion", player: "alice", move: WSMove{From: "A1", To: "A5", Promotion: Rook}, wantErr: ErrPromotion},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				testutil.AssertErrorIs(t, g.MakeMove(tt.player, tt.move), tt.wantErr)
			})
		}
	})

	// turn order is not enforced
	testutil.AssertNoError(t, g.MakeMove("bob", WSMove{From: "A7", To: "A6"}))
	testutil.AssertNoError(t, g.MakeMove("bob", WSMove{From: "A6", To: "A5"}))
	state := g.GetState()
	testutil.AssertEqual(t, state.Sound, "move")
	testutil.AssertEqual(t, state.LastMove.Notation, "a5")

	testutil.AssertNoError(t, g.MakeMove("alice", WSMove{From: "A1", To: "A5"}))
	state = g.GetState()
	testutil.AssertEqual(t, state.Sound, "capture")
	testutil.AssertEqual(t, state.LastMove.Notation, "Rxa5")
	testutil.AssertEqual(t, state.LastMove.CapturedPiece.ID, pawn.ID)
	testutil.AssertEqual(t, len(state.CapturedPieces.Black), 1)
	testutil.AssertEqual(t, len(state.CapturedPieces.White), 0)
	testutil.AssertFalse(t, state.CapturedPieces.Black[0].Alive)

	located, err := g.LocatePiece(pawn.ID)
	testutil.AssertErrorIs(t, err, ErrNotFound)
	testutil.AssertFalse(t, located.Alive)

	located, err = g.LocatePiece(rook.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, located.Square, "A5")

	_, err = g.LocatePiece("no-such-piece")
	testutil.AssertErrorIs(t, err, ErrNotFound)
}

func TestGamePromotion(t *testing.T) {
	g := newSeatedGame(t)
	pawn := mustPlace(t, g, "alice", Pawn, PlayerColorWhite, "B7")
	mustPlace(t, g, "bob", Knight, PlayerColorBlack, "C8")

	testutil.AssertNoError(t, g.MakeMove("alice", WSMove{From: "B7", To: "C8", Promotion: Rook}))

	state := g.GetState()
	testutil.AssertEqual(t, state.Sound, "promote")
	testutil.AssertEqual(t, state.LastMove.Notation, "bxc8=R")
	testutil.AssertEqual(t, state.LastMove.Piece.Type, Rook)

	located, err := g.LocatePiece(pawn.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, located.Type, Rook)
	testutil.AssertEqual(t, located.Square, "C8")
}

func TestGameRejectedMoveKeepsState(t *testing.T) {
	g := newSeatedGame(t)
	mustPlace(t, g, "alice", Pawn, PlayerColorWhite, "E2")
	mustPlace(t, g, "alice", Knight, PlayerColorWhite, "E3")

	before := g.GetState()
	testutil.AssertErrorIs(t, g.MakeMove("alice", WSMove{From: "E2", To: "E3"}), ErrIllegalMove)
	testutil.AssertErrorIs(t, g.MakeMove("alice", WSMove{From: "E2", To: "E5"}), ErrIllegalMove)
	testutil.AssertEqual(t, g.GetState(), before)
}

// stateConn decodes every game state written to it and flags overlapping writes.
type stateConn struct {
	mu      sync.Mutex
	writing atomic.Bool
	overlap atomic.Bool
	states  []GameState
}

func (c *stateConn) WriteJSON(v interface{}) error {
	if !c.writing.CompareAndSwap(false, true) {
		c.overlap.Store(true)
	}
	defer c.writing.Store(false)

	msg := v.(ws.Message)
	c.mu.Lock()
	defer c.mu.Unlock()
	if msg.Type == ws.MessageTypeGameState {
		var state GameState
		if err := json.Unmarshal(msg.Payload, &state); err != nil {
			return err
		}
		c.states = append(c.states, state)
	}
	return nil
}

func countPieces(state GameState) int {
	n := 0
	for _, row := range state.Board {
		for _, p := range row {
			if p != nil {
				n++
			}
		}
	}
	return n
}

func TestGameBroadcastsStatesInOrder(t *testing.T) {
	g := newSeatedGame(t)
	conn := &stateConn{}
	client := ws.NewClient(conn)
	testutil.AssertNoError(t, g.RegisterConnection("alice", client))

	for _, col := range Cols {
		for _, row := range Rows {
			mustPlace(t, g, "alice", Pawn, PlayerColorWhite, col+row)
		}
	}
	client.Close()

	testutil.AssertFalse(t, conn.overlap.Load(), "concurrent writes on one connection")
	testutil.AssertEqual(t, len(conn.states), 65)
	for i, state := range conn.states {
		testutil.AssertEqual(t, countPieces(state), i, "state %d", i)
	}
}

func TestGameConnections(t *testing.T) {
	g := newSeatedGame(t)
	first := ws.NewClient(&stateConn{})
	defer first.Close()
	second := ws.NewClient(&stateConn{})
	defer second.Close()

	testutil.AssertNoError(t, g.RegisterConnection("alice", first))
	testutil.AssertErrorIs(t, g.RegisterConnection("alice", second), ErrAlreadyConnected)
	testutil.AssertErrorIs(t, g.RegisterConnection("carol", second), ErrNotInGame)

	// only the registered client can unregister itself
	g.UnregisterConnection("alice", second)
	testutil.AssertErrorIs(t, g.RegisterConnection("alice", second), ErrAlreadyConnected)
	g.UnregisterConnection("alice", first)
	testutil.AssertNoError(t, g.RegisterConnection("alice", second))
}

func TestGameDropsClosedClient(t *testing.T) {
	g := newSeatedGame(t)
	conn := &stateConn{}
	client := ws.NewClient(conn)
	testutil.AssertNoError(t, g.RegisterConnection("bob", client))
	client.Close()

	mustPlace(t, g, "bob", Rook, PlayerColorBlack, "H8")
	g.connections.mu.Lock()
	_, stillThere := g.connections.clients["bob"]
	g.connections.mu.Unlock()
	testutil.AssertFalse(t, stillThere, "closed client kept after a broadcast")
	testutil.AssertEqual(t, len(conn.states), 1)
}
