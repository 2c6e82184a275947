package service

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	mu               sync.RWMutex
	done             chan struct{}
	closeOnce        sync.Once
}

// NewGameManager starts the matchmaking loop, which pairs queued players
// every interval until Close is called.
func NewGameManager(interval time.Duration) *GameManager {
	gm := &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		done:             make(chan struct{}),
	}

	go gm.processMatchmaking(interval)

	return gm
}

func (gm *GameManager) Close() {
	gm.closeOnce.Do(func() { close(gm.done) })
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	log.Debugf("registering matchmaking channel for player %s", playerID)

	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		// remove first so nothing else writes to it, then close
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}

	gm.matchingChannels[playerID] = ch
	return nil
}

// UnregisterMatchmakingChannel removes ch if it is still the channel
// registered for the player and reports whether it did. A channel that was
// replaced by a newer registration leaves the newer one in place.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	// The creator of the channel is responsible for closing it.
	if current, exists := gm.matchingChannels[playerID]; exists && current == ch {
		delete(gm.matchingChannels, playerID)
		return true
	}
	return false
}

func (gm *GameManager) processMatchmaking(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.done:
			return
		case <-ticker.C:
			gm.matchNextPair()
		}
	}
}

// matchNextPair seats the two longest waiting players in a fresh game and
// notifies them on their matchmaking channels.
func (gm *GameManager) matchNextPair() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	player1, player2, ok := gm.queue.GetNextPair()
	if !ok {
		return
	}

	gameID := uuid.New().String()
	game := model.NewGame(gameID)
	p1Color, err := game.AddPlayer(player1.ID)
	if err != nil {
		log.Errorf("adding player %s to game %s: %v", player1.ID, gameID, err)
		return
	}
	p2Color, err := game.AddPlayer(player2.ID)
	if err != nil {
		log.Errorf("adding player %s to game %s: %v", player2.ID, gameID, err)
		return
	}
	gm.games[gameID] = game

	sendEventAndCleanup := func(playerID string, event model.MatchFoundEvent) bool {
		ch, ok := gm.matchingChannels[playerID]
		if !ok {
			return false
		}
		select {
		case ch <- mustJSON(event):
			delete(gm.matchingChannels, playerID)
			close(ch)
			return true
		default:
			log.Warnf("failed to send match found event to player %s", playerID)
			return false
		}
	}

	sentFirst := sendEventAndCleanup(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
	sentSecond := sendEventAndCleanup(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
	if !sentFirst || !sentSecond {
		log.Warnf("not all players of game %s were notified of the match", gameID)
	}
	log.Infof("matched %s and %s in game %s", player1.ID, player2.ID, gameID)
}

func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}

	gm.games[gameID] = model.NewGame(gameID)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.PlayerColor, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

// LeaveMatchmaking drops a waiting player from the queue, for example when
// their matchmaking connection goes away before a match is found.
func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

// Each game locks itself, so the manager only holds its own lock for the lookup.
func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.MakeMove(playerID, move)
}

func (gm *GameManager) PlacePiece(gameID string, playerID string, placement model.WSPlacement) (model.PieceView, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.PieceView{}, err
	}
	return game.PlacePiece(playerID, placement)
}

func (gm *GameManager) LocatePiece(gameID string, pieceID string) (model.PieceView, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.PieceView{}, err
	}
	return game.LocatePiece(pieceID)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, client *ws.Client) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, client)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, client *ws.Client) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, client)
}
