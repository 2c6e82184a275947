package model

// Player is a participant waiting in the matchmaking queue.
type Player struct {
	ID    string
	Color PlayerColor
}

type ClientPlayer struct {
	ID    string      `json:"name"`
	Color PlayerColor `json:"color"`
}

// PlayerColor is the side a player sits on and a piece belongs to.
type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

func (c PlayerColor) valid() bool {
	return c == PlayerColorWhite || c == PlayerColorBlack
}

func (c PlayerColor) Opposite() PlayerColor {
	switch c {
	case PlayerColorWhite:
		return PlayerColorBlack
	case PlayerColorBlack:
		return PlayerColorWhite
	}
	return ""
}
