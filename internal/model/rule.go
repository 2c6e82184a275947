package model

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// MovementRule decides whether a piece kind may move between two squares.
// The set of rules is closed: every implementation lives in this file.
type MovementRule interface {
	Kind() PieceType
	// Allows reports whether the move is legal. It must not change any state,
	// rule state is committed by the board once the move is applied.
	Allows(from, to *Square, isCapture bool, b *Board) bool
	sealed()
}

type (
	RookRule   struct{}
	KnightRule struct{}
	BishopRule struct{}
	QueenRule  struct{}
	KingRule   struct{}
)

// PawnRule is the only stateful rule: the double step is allowed only while
// this particular pawn has not moved.
type PawnRule struct {
	color    PlayerColor
	hasMoved bool
}

func newRule(kind PieceType, color PlayerColor) (MovementRule, error) {
	switch kind {
	case Rook:
		return RookRule{}, nil
	case Pawn:
		return &PawnRule{color: color}, nil
	case Knight:
		return KnightRule{}, nil
	case Bishop:
		return BishopRule{}, nil
	case Queen:
		return QueenRule{}, nil
	case King:
		return KingRule{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedPiece, kind)
}

// commitRule records that a move made under rule has been applied.
func commitRule(rule MovementRule) {
	switch r := rule.(type) {
	case *PawnRule:
		r.hasMoved = true
	case RookRule, KnightRule, BishopRule, QueenRule, KingRule:
	}
}

func (RookRule) Kind() PieceType   { return Rook }
func (KnightRule) Kind() PieceType { return Knight }
func (BishopRule) Kind() PieceType { return Bishop }
func (QueenRule) Kind() PieceType  { return Queen }
func (KingRule) Kind() PieceType   { return King }
func (*PawnRule) Kind() PieceType  { return Pawn }

func (RookRule) sealed()   {}
func (KnightRule) sealed() {}
func (BishopRule) sealed() {}
func (QueenRule) sealed()  {}
func (KingRule) sealed()   {}
func (*PawnRule) sealed()  {}

func (RookRule) Allows(from, to *Square, isCapture bool, b *Board) bool {
	dx, dy := delta(from, to)
	// exactly one axis changes
	if (dx == 0) == (dy == 0) {
		return false
	}
	return b.pathIsClear(from, to, isCapture)
}

func (BishopRule) Allows(from, to *Square, isCapture bool, b *Board) bool {
	dx, dy := delta(from, to)
	if dx == 0 || abs(dx) != abs(dy) {
		return false
	}
	return b.pathIsClear(from, to, isCapture)
}

func (QueenRule) Allows(from, to *Square, isCapture bool, b *Board) bool {
	return RookRule{}.Allows(from, to, isCapture, b) || BishopRule{}.Allows(from, to, isCapture, b)
}

func (KnightRule) Allows(from, to *Square, _ bool, _ *Board) bool {
	dx, dy := delta(from, to)
	dx, dy = abs(dx), abs(dy)
	return (dx == 1 && dy == 2) || (dx == 2 && dy == 1)
}

func (KingRule) Allows(from, to *Square, _ bool, _ *Board) bool {
	dx, dy := delta(from, to)
	return max(abs(dx), abs(dy)) == 1
}

// Allows accepts a straight advance of one square, or two before the first
// move, and a one square diagonal step when capturing. White advances toward
// row 8, black toward row 1. Blocking squares are not checked.
func (r *PawnRule) Allows(from, to *Square, isCapture bool, _ *Board) bool {
	dx, dy := delta(from, to)
	forward := -dy
	if r.color == PlayerColorBlack {
		forward = dy
	}
	if forward <= 0 {
		return false
	}
	if isCapture {
		return abs(dx) == 1 && forward == 1
	}
	if dx != 0 {
		return false
	}
	return forward == 1 || (forward == 2 && !r.hasMoved)
}

func (r *PawnRule) HasMoved() bool {
	return r.hasMoved
}

func delta(from, to *Square) (int, int) {
	a, b := from.Coordinates(), to.Coordinates()
	return b.X - a.X, b.Y - a.Y
}

func sign[T constraints.Signed](x T) T {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
