package model

import (
	"fmt"
	"strings"
	"sync"

	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

// GameConnections are the clients watching one game.
type GameConnections struct {
	clients map[string]*ws.Client // playerID -> client
	mu      sync.Mutex
}

// Game hosts one Board for a pair of players and its observers. Every
// operation on the board runs under mu, from validation to the last write.
type Game struct {
	ID          string
	mu          sync.Mutex
	board       *Board
	pieces      map[string]*Piece // piece ID -> piece, captured ones included
	players     Players
	captured    CapturedPieces
	lastMove    *Ply
	sound       string
	connections *GameConnections
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// PieceView is the client facing description of a piece.
type PieceView struct {
	ID       string      `json:"id"`
	Type     PieceType   `json:"type"`
	Color    PlayerColor `json:"color"`
	Square   string      `json:"square,omitempty"`
	HasMoved bool        `json:"hasMoved"`
	Alive    bool        `json:"alive"`
}

type GameState struct {
	Sound          string         `json:"sound"`
	Board          [][]*PieceView `json:"board"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	LastMove       *Ply           `json:"lastMove"`
	Players        Players        `json:"players"`
}

// CapturedPieces lists the pieces each side has lost.
type CapturedPieces struct {
	White []PieceView `json:"white"`
	Black []PieceView `json:"black"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:          id,
		board:       NewBoard(),
		pieces:      make(map[string]*Piece),
		captured:    newCapturedPieces(),
		connections: NewGameConnections(),
	}
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		clients: make(map[string]*ws.Client),
	}
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]PieceView, 0),
		Black: make([]PieceView, 0),
	}
}

func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.isPlayerInGame(playerID) {
		return g.colorOf(playerID), nil
	}
	if g.players.White.ID == "" {
		g.players.White = ClientPlayer{ID: playerID, Color: PlayerColorWhite}
		return PlayerColorWhite, nil
	}
	if g.players.Black.ID == "" {
		g.players.Black = ClientPlayer{ID: playerID, Color: PlayerColorBlack}
		return PlayerColorBlack, nil
	}
	return "", ErrGameFull
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	return g.colorOf(playerID) != ""
}

func (g *Game) colorOf(playerID string) PlayerColor {
	switch {
	case playerID == "":
		return ""
	case g.players.White.ID == playerID:
		return PlayerColorWhite
	case g.players.Black.ID == playerID:
		return PlayerColorBlack
	}
	return ""
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.players.White.ID == "" || g.players.Black.ID == ""
}

// PlacePiece creates a piece and puts it on an empty square. Setting up the
// position is left entirely to the players.
func (g *Game) PlacePiece(playerID string, placement WSPlacement) (PieceView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.isPlayerInGame(playerID) {
		return PieceView{}, ErrNotInGame
	}
	sq, err := g.board.SquareByNotation(placement.Square)
	if err != nil {
		return PieceView{}, err
	}
	piece, err := NewPiece(g.board, placement.Type, placement.Color)
	if err != nil {
		return PieceView{}, err
	}
	if err := g.board.Place(piece, sq); err != nil {
		return PieceView{}, err
	}
	g.pieces[piece.ID] = piece
	log.Debugf("game %s: placed %s on %s", g.ID, piece, sq)

	g.sound = ""
	g.broadcast()
	return g.viewOf(piece), nil
}

// LocatePiece reports where a piece stands. A captured piece is returned
// together with ErrNotFound.
func (g *Game) LocatePiece(pieceID string) (PieceView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	piece, ok := g.pieces[pieceID]
	if !ok {
		return PieceView{}, fmt.Errorf("%w: unknown piece %q", ErrNotFound, pieceID)
	}
	if _, err := g.board.PositionOf(piece); err != nil {
		return g.viewOf(piece), err
	}
	return g.viewOf(piece), nil
}

// MakeMove applies a move for a seated player. Players may only move pieces
// of their own color; whose turn it is does not matter.
func (g *Game) MakeMove(playerID string, move WSMove) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugf("game %s: player %s requests %+v", g.ID, playerID, move)

	color := g.colorOf(playerID)
	if color == "" {
		return ErrNotInGame
	}
	from, err := g.board.SquareByNotation(move.From)
	if err != nil {
		return err
	}
	to, err := g.board.SquareByNotation(move.To)
	if err != nil {
		return err
	}
	piece := from.Occupant()
	if piece == nil {
		return fmt.Errorf("%w: no piece at %s", ErrNotFound, from)
	}
	if piece.Color() != color {
		return fmt.Errorf("%w: %s", ErrNotYourPiece, piece)
	}

	ply := g.makePly(piece, from, to, move.Promotion)
	target := to.Occupant()
	if move.Promotion != "" {
		err = g.board.Promote(piece, to, move.Promotion)
	} else {
		err = g.board.ApplyMove(piece, to)
	}
	if err != nil {
		return err
	}

	g.sound = "move"
	if target != nil {
		g.sound = "capture"
		switch target.Color() {
		case PlayerColorWhite:
			g.captured.White = append(g.captured.White, g.viewOf(target))
		case PlayerColorBlack:
			g.captured.Black = append(g.captured.Black, g.viewOf(target))
		}
	}
	if move.Promotion != "" {
		g.sound = "promote"
	}
	ply.Piece = g.viewOf(piece)
	g.lastMove = &ply

	g.broadcast()
	return nil
}

func (g *Game) makePly(piece *Piece, from, to *Square, promotion PieceType) Ply {
	ply := Ply{
		From:      from.String(),
		To:        to.String(),
		Promotion: promotion,
		Notation:  getNotation(piece, from, to, promotion),
	}
	if target := to.Occupant(); target != nil {
		view := g.viewOf(target)
		ply.CapturedPiece = &view
	}
	return ply
}

func getNotation(piece *Piece, from, to *Square, promotion PieceType) string {
	prefix := piece.Kind().getPieceNotation()
	capture := ""
	fileSpecifier := ""
	if to.IsBusy() {
		capture = "x"
		if piece.Kind() == Pawn {
			fileSpecifier = from.pos.getFileNotation()
		}
	}
	suffix := strings.ToLower(to.pos.getSquareNotation())
	if promotion != "" {
		suffix += "=" + promotion.getPieceNotation()
	}
	return fmt.Sprintf("%s%s%s%s", prefix, fileSpecifier, capture, suffix)
}

func (g *Game) viewOf(p *Piece) PieceView {
	view := PieceView{
		ID:    p.ID,
		Type:  p.Kind(),
		Color: p.Color(),
		Alive: p.IsAlive(),
	}
	if sq, err := g.board.PositionOf(p); err == nil {
		view.Square = sq.String()
	}
	if pawn, ok := p.Rule().(*PawnRule); ok {
		view.HasMoved = pawn.HasMoved()
	}
	return view
}

// snapshot copies the state so it can be read after mu is released.
func (g *Game) snapshot() GameState {
	grid := g.board.Occupancy()
	board := make([][]*PieceView, boardSize)
	for y := range grid {
		board[y] = make([]*PieceView, boardSize)
		for x, p := range grid[y] {
			if p != nil {
				view := g.viewOf(p)
				board[y][x] = &view
			}
		}
	}
	captured := CapturedPieces{
		White: append([]PieceView{}, g.captured.White...),
		Black: append([]PieceView{}, g.captured.Black...),
	}
	var lastMove *Ply
	if g.lastMove != nil {
		ply := *g.lastMove
		lastMove = &ply
	}
	return GameState{
		Sound:          g.sound,
		Board:          board,
		CapturedPieces: captured,
		LastMove:       lastMove,
		Players:        g.players,
	}
}

// RegisterConnection attaches a client to the game and queues the current
// state for it. Seated players may always connect, others only while a seat
// is free. A player holds at most one connection.
func (g *Game) RegisterConnection(playerID string, client *ws.Client) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.isPlayerInGame(playerID) && !g.canSpectate() {
		return fmt.Errorf("%w: not authorized to join this game", ErrNotInGame)
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.clients[playerID]; exists {
		g.connections.mu.Unlock()
		return ErrAlreadyConnected
	}
	g.connections.clients[playerID] = client
	g.connections.mu.Unlock()
	log.Infof("registered connection for player %s in game %s", playerID, g.ID)

	if msg, err := g.stateMessage(); err == nil {
		client.Send(msg)
	}
	return nil
}

// UnregisterConnection detaches client. A newer client registered for the
// same player is left alone.
func (g *Game) UnregisterConnection(playerID string, client *ws.Client) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.clients[playerID]; exists && current == client {
		log.Infof("unregistering connection for player %s", playerID)
		delete(g.connections.clients, playerID)
	}
}

func (g *Game) stateMessage() (ws.Message, error) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, g.snapshot())
	if err != nil {
		log.Errorf("failed to marshal state of game %s: %v", g.ID, err)
	}
	return msg, err
}

// broadcast queues the current state for every client. It runs under g.mu,
// so clients receive states in the order the board changed.
func (g *Game) broadcast() {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	if len(g.connections.clients) == 0 {
		return
	}

	msg, err := g.stateMessage()
	if err != nil {
		return
	}
	for playerID, client := range g.connections.clients {
		if !client.Send(msg) {
			log.Warnf("dropping connection of player %s", playerID)
			delete(g.connections.clients, playerID)
		}
	}
}
