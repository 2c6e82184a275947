package service

import (
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.PlayerColor, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) GameExists(gameID string) bool {
	_, err := gs.gameManager.GetGame(gameID)
	return err == nil
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) error {
	if err := gs.gameManager.MakeMove(gameID, playerID, move); err != nil {
		return fmt.Errorf("move %s-%s: %w", move.From, move.To, err)
	}
	return nil
}

func (gs *GameService) HandlePlacement(gameID string, playerID string, placement model.WSPlacement) (model.PieceView, error) {
	view, err := gs.gameManager.PlacePiece(gameID, playerID, placement)
	if err != nil {
		return model.PieceView{}, fmt.Errorf("place %s on %s: %w", placement.Type, placement.Square, err)
	}
	return view, nil
}

func (gs *GameService) LocatePiece(gameID string, pieceID string) (model.PieceView, error) {
	return gs.gameManager.LocatePiece(gameID, pieceID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, client *ws.Client) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, client)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, client *ws.Client) {
	gs.gameManager.UnregisterConnection(gameID, playerID, client)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	return gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan string) bool {
	return gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
