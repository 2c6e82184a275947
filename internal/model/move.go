package model

// WSMove is a move request as it arrives from a client. Squares use board
// names such as "A7"; a non-empty Promotion turns the move into a promotion.
type WSMove struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Promotion PieceType `json:"promotion"`
}

// WSPlacement asks for a new piece to be put on an empty square.
type WSPlacement struct {
	Type   PieceType   `json:"type"`
	Color  PlayerColor `json:"side"`
	Square string      `json:"square"`
}

type Ply struct {
	Piece         PieceView  `json:"piece"`
	From          string     `json:"from"`
	To            string     `json:"to"`
	CapturedPiece *PieceView `json:"capturedPiece"`
	Promotion     PieceType  `json:"promotion"`
	Notation      string     `json:"notation"`
}

type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  PlayerColor `json:"color"`
}
