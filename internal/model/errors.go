package model

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove      = errors.New("illegal move")
	ErrCapturedPiece    = errors.New("piece is captured")
	ErrFriendlyCapture  = errors.New("cannot capture a piece of the same side")
	ErrPromotion        = errors.New("promotion not allowed")
	ErrNotFound         = errors.New("piece is captured or was never placed")
	ErrBadCoordinates   = errors.New("no such square")
	ErrSquareOccupied   = errors.New("square is occupied")
	ErrUnsupportedPiece = errors.New("unsupported piece")
	ErrForeignPiece     = errors.New("piece belongs to another board")
)

// MoveError carries the piece and squares of a rejected move. It unwraps to
// one of the sentinel errors above so callers can branch with errors.Is.
type MoveError struct {
	Err   error
	Piece string
	From  string
	To    string
}

func (e *MoveError) Error() string {
	from := e.From
	if from == "" {
		from = "?"
	}
	return fmt.Sprintf("%s %s -> %s: %v", e.Piece, from, e.To, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

func newMoveError(p *Piece, from, to *Square, err error) *MoveError {
	me := &MoveError{Err: err, Piece: p.String()}
	if from != nil {
		me.From = from.String()
	}
	if to != nil {
		me.To = to.String()
	}
	return me
}

var (
	ErrGameFull     = errors.New("game is full")
	ErrNotInGame    = errors.New("player not in game")
	ErrNotYourPiece = errors.New("piece belongs to the other side")

	ErrAlreadyConnected = errors.New("player already connected to this game")
)
