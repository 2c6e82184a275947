package model

import (
	"fmt"

	"github.com/google/uuid"
)

type PieceType string

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// PawnPromoteCandidates lists the piece types a pawn may be promoted to.
var PawnPromoteCandidates = []PieceType{Rook}

// Piece is a unit on a Board. It never stores its own square: the board is
// the only source of truth for occupancy, see Position.
type Piece struct {
	ID    string
	color PlayerColor
	rule  MovementRule
	alive bool
	board *Board
}

// NewPiece creates a live piece of the given kind and color bound to b.
// The piece is not on the board until it is placed with Board.Place.
func NewPiece(b *Board, kind PieceType, color PlayerColor) (*Piece, error) {
	if !color.valid() {
		return nil, fmt.Errorf("%w: color %q", ErrUnsupportedPiece, color)
	}
	rule, err := newRule(kind, color)
	if err != nil {
		return nil, err
	}
	return &Piece{
		ID:    uuid.New().String(),
		color: color,
		rule:  rule,
		alive: true,
		board: b,
	}, nil
}

func (p *Piece) Color() PlayerColor {
	return p.color
}

func (p *Piece) Kind() PieceType {
	return p.rule.Kind()
}

func (p *Piece) Rule() MovementRule {
	return p.rule
}

// IsAlive reports false once the piece has been captured.
func (p *Piece) IsAlive() bool {
	return p.alive
}

// Position asks the owning board which square currently holds the piece.
func (p *Piece) Position() (*Square, error) {
	return p.board.PositionOf(p)
}

func (p *Piece) capture() {
	p.alive = false
}

func (p *Piece) checkPromotion(kind PieceType) error {
	if _, ok := p.rule.(*PawnRule); !ok {
		return fmt.Errorf("%w: only a pawn can be promoted, got %s", ErrPromotion, p.Kind())
	}
	for _, candidate := range PawnPromoteCandidates {
		if candidate == kind {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not allowed for a pawn", ErrPromotion, kind)
}

func (p *Piece) String() string {
	return fmt.Sprintf("%s %s", p.color, p.Kind())
}
