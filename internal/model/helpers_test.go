package model

import (
	"testing"

	"github.com/benbeisheim/chessrules-backend/internal/testutil"
)

func mustSquare(t *testing.T, b *Board, notation string) *Square {
	t.Helper()
	sq, err := b.SquareByNotation(notation)
	testutil.AssertNoError(t, err, "square %s", notation)
	return sq
}

// placePiece creates a piece and puts it on square; an empty square leaves it off the board.
func placePiece(t *testing.T, b *Board, kind PieceType, color PlayerColor, square string) *Piece {
	t.Helper()
	p, err := NewPiece(b, kind, color)
	testutil.AssertNoError(t, err, "new %s %s", color, kind)
	if square != "" {
		testutil.AssertNoError(t, b.Place(p, mustSquare(t, b, square)), "place on %s", square)
	}
	return p
}

// assertBoardConsistent checks that every live piece stands on exactly one
// square, that square points back at it, and captured pieces are off the board.
func assertBoardConsistent(t *testing.T, b *Board, pieces ...*Piece) {
	t.Helper()
	seen := make(map[*Piece]int)
	for y := range b.squares {
		for _, sq := range b.squares[y] {
			p := sq.Occupant()
			if p == nil {
				continue
			}
			seen[p]++
			if !p.IsAlive() {
				t.Errorf("captured %s still stands on %s", p, sq)
			}
			if pos, err := b.PositionOf(p); err != nil || pos != sq {
				t.Errorf("PositionOf(%s) = %v, %v; want %s", p, pos, err, sq)
			}
		}
	}
	for p, n := range seen {
		if n != 1 {
			t.Errorf("%s occupies %d squares", p, n)
		}
	}
	for _, p := range pieces {
		if !p.IsAlive() {
			if _, err := b.PositionOf(p); err == nil {
				t.Errorf("captured %s still has a position", p)
			}
		}
	}
	testutil.AssertEqual(t, len(b.positions), len(seen), "index size")
}
