package model

import (
	"fmt"
	"strings"
)

const boardSize = 8

// Cols and Rows follow the storage order of the grid: left to right, top to bottom.
var (
	Cols = [boardSize]string{"A", "B", "C", "D", "E", "F", "G", "H"}
	Rows = [boardSize]string{"8", "7", "6", "5", "4", "3", "2", "1"}
)

// Position is a 0-based grid coordinate. X is the column index, Y is the
// distance from the top of the board, so row "8" is Y 0 and row "1" is Y 7.
type Position struct {
	X int
	Y int
}

func (p Position) inBounds() bool {
	return p.X >= 0 && p.X < boardSize && p.Y >= 0 && p.Y < boardSize
}

func (p Position) getSquareNotation() string {
	return fmt.Sprintf("%c%d", 'A'+p.X, boardSize-p.Y)
}

func (p Position) getFileNotation() string {
	return fmt.Sprintf("%c", 'a'+p.X)
}

// ParsePosition converts a square name such as "A7" (case insensitive) into a Position.
func ParsePosition(notation string) (Position, error) {
	if len(notation) != 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrBadCoordinates, notation)
	}
	notation = strings.ToUpper(notation)
	pos := Position{
		X: int(notation[0] - 'A'),
		Y: boardSize - int(notation[1]-'0'),
	}
	if notation[1] < '1' || notation[1] > '8' || !pos.inBounds() {
		return Position{}, fmt.Errorf("%w: %q", ErrBadCoordinates, notation)
	}
	return pos, nil
}

// Square is one of the 64 fields of a Board. Its coordinates never change,
// only the occupant does, and only through the owning Board.
type Square struct {
	row      string
	col      string
	pos      Position
	occupant *Piece
}

func newSquare(pos Position) *Square {
	return &Square{
		row: Rows[pos.Y],
		col: Cols[pos.X],
		pos: pos,
	}
}

func (s *Square) Row() string {
	return s.row
}

func (s *Square) Col() string {
	return s.col
}

// Coordinates returns the grid position used for distance and direction arithmetic.
func (s *Square) Coordinates() Position {
	return s.pos
}

// Occupant returns the live piece standing on the square, or nil.
func (s *Square) Occupant() *Piece {
	return s.occupant
}

func (s *Square) IsBusy() bool {
	return s.occupant != nil
}

func (s *Square) String() string {
	return s.col + s.row
}
