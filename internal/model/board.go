package model

import "fmt"

// Board owns the 8x8 grid and is the only authority on occupancy. The
// positions index mirrors the grid and is updated in the same step.
//
// A Board is not safe for concurrent use; Game serializes access to it.
type Board struct {
	squares   [boardSize][boardSize]*Square // [Y][X]
	positions map[*Piece]*Square
}

// NewBoard returns a board with all 64 squares empty. No starting position
// is set up, pieces are placed by the caller.
func NewBoard() *Board {
	b := &Board{positions: make(map[*Piece]*Square)}
	for y := 0; y < boardSize; y++ {
		for x := 0; x < boardSize; x++ {
			b.squares[y][x] = newSquare(Position{X: x, Y: y})
		}
	}
	return b
}

// Square looks a square up by its row ("1".."8") and column ("A".."H").
func (b *Board) Square(row, col string) (*Square, error) {
	return b.SquareByNotation(col + row)
}

func (b *Board) SquareByNotation(notation string) (*Square, error) {
	pos, err := ParsePosition(notation)
	if err != nil {
		return nil, err
	}
	return b.squares[pos.Y][pos.X], nil
}

func (b *Board) SquareAt(pos Position) (*Square, error) {
	if !pos.inBounds() {
		return nil, fmt.Errorf("%w: %+v", ErrBadCoordinates, pos)
	}
	return b.squares[pos.Y][pos.X], nil
}

func (b *Board) owns(sq *Square) bool {
	return sq != nil && sq.pos.inBounds() && b.squares[sq.pos.Y][sq.pos.X] == sq
}

// Place puts p on sq during setup. A piece already on the board is lifted
// from its current square first.
func (b *Board) Place(p *Piece, sq *Square) error {
	switch {
	case p.board != b:
		return ErrForeignPiece
	case !b.owns(sq):
		return ErrBadCoordinates
	case !p.alive:
		return fmt.Errorf("%w: %s", ErrCapturedPiece, p)
	case sq.occupant != nil && sq.occupant != p:
		return fmt.Errorf("%w: %s holds %s", ErrSquareOccupied, sq, sq.occupant)
	}
	if old, ok := b.positions[p]; ok {
		old.occupant = nil
	}
	sq.occupant = p
	b.positions[p] = sq
	return nil
}

// PositionOf returns the square holding p, or ErrNotFound when p was
// captured or never placed.
func (b *Board) PositionOf(p *Piece) (*Square, error) {
	if p == nil || p.board != b {
		return nil, ErrNotFound
	}
	sq, ok := b.positions[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return sq, nil
}

// ApplyMove moves p to the target square, capturing an enemy piece standing
// there. Either every check passes and the move is applied in full, or an
// error is returned and the board is left untouched.
func (b *Board) ApplyMove(p *Piece, to *Square) error {
	from, err := b.validateMove(p, to)
	if err != nil {
		return err
	}
	b.commitMove(p, from, to)
	return nil
}

// Promote moves a pawn like ApplyMove and then replaces its rule with kind.
// The promotion is checked before the move, so a rejected promotion changes
// nothing. Reaching the last rank is not required.
func (b *Board) Promote(p *Piece, to *Square, kind PieceType) error {
	if err := p.checkPromotion(kind); err != nil {
		from, _ := b.PositionOf(p)
		return newMoveError(p, from, to, err)
	}
	rule, err := newRule(kind, p.color)
	if err != nil {
		return newMoveError(p, nil, to, err)
	}
	from, err := b.validateMove(p, to)
	if err != nil {
		return err
	}
	b.commitMove(p, from, to)
	p.rule = rule
	return nil
}

func (b *Board) validateMove(p *Piece, to *Square) (*Square, error) {
	if !p.alive {
		return nil, newMoveError(p, nil, to, ErrCapturedPiece)
	}
	from, err := b.PositionOf(p)
	if err != nil {
		return nil, newMoveError(p, nil, to, err)
	}
	if !b.owns(to) {
		return nil, newMoveError(p, from, to, ErrBadCoordinates)
	}
	target := to.occupant
	if !p.rule.Allows(from, to, target != nil, b) {
		return nil, newMoveError(p, from, to, ErrIllegalMove)
	}
	if target != nil && target.color == p.color {
		return nil, newMoveError(p, from, to, ErrFriendlyCapture)
	}
	return from, nil
}

func (b *Board) commitMove(p *Piece, from, to *Square) {
	from.occupant = nil
	if captured := to.occupant; captured != nil {
		captured.capture()
		delete(b.positions, captured)
	}
	to.occupant = p
	b.positions[p] = to
	commitRule(p.rule)
}

// path returns the squares walked from the square after from up to and
// including to. from and to must share a row, a column or a diagonal.
func (b *Board) path(from, to *Square) []*Square {
	dx, dy := delta(from, to)
	step := Position{X: sign(dx), Y: sign(dy)}
	n := max(abs(dx), abs(dy))
	squares := make([]*Square, 0, n)
	pos := from.pos
	for i := 0; i < n; i++ {
		pos = Position{X: pos.X + step.X, Y: pos.Y + step.Y}
		squares = append(squares, b.squares[pos.Y][pos.X])
	}
	return squares
}

// pathIsClear reports whether every square between from and to is empty.
// On a capture the destination is expected to be occupied and is skipped.
func (b *Board) pathIsClear(from, to *Square, isCapture bool) bool {
	squares := b.path(from, to)
	if isCapture && len(squares) > 0 {
		squares = squares[:len(squares)-1]
	}
	for _, sq := range squares {
		if sq.IsBusy() {
			return false
		}
	}
	return true
}

// Occupancy returns a copy of the grid indexed [Y][X].
func (b *Board) Occupancy() [boardSize][boardSize]*Piece {
	var grid [boardSize][boardSize]*Piece
	for y := range b.squares {
		for x, sq := range b.squares[y] {
			grid[y][x] = sq.occupant
		}
	}
	return grid
}

// Pieces returns the live pieces on the board, top row first.
func (b *Board) Pieces() []*Piece {
	pieces := make([]*Piece, 0, len(b.positions))
	for y := range b.squares {
		for _, sq := range b.squares[y] {
			if sq.occupant != nil {
				pieces = append(pieces, sq.occupant)
			}
		}
	}
	return pieces
}
