package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established.
// Every write to c goes through one ws.Client, which is drained before the
// handler returns and the connection is released.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID, _ := c.Locals(middleware.LocalWSGameID).(string)
	playerID, _ := c.Locals(middleware.LocalWSPlayerID).(string)

	client := ws.NewClient(c)
	defer client.Close()

	if err := wsc.gameService.RegisterConnection(gameID, playerID, client); err != nil {
		log.Warnf("failed to register connection: %v", err)
		client.Send(ws.ErrorMessage(err))
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, client)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("read error: %v", err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debugf("parse error: %v", err)
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Infof("handle error: %v", err)
			client.Send(ws.ErrorMessage(err))
		}
	}
}

// Successful moves and placements are answered by the game's state broadcast.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("invalid move payload: %w", err)
		}
		return wsc.gameService.HandleMove(gameID, playerID, move)

	case ws.MessageTypePlace:
		var placement model.WSPlacement
		if err := json.Unmarshal(msg.Payload, &placement); err != nil {
			return fmt.Errorf("invalid place payload: %w", err)
		}
		_, err := wsc.gameService.HandlePlacement(gameID, playerID, placement)
		return err

	default:
		return fmt.Errorf("%w: %q", ws.ErrUnknownMessageType, msg.Type)
	}
}

// HandleMatchmaking queues the player and holds the connection open until a
// match is found, then sends the match event and closes. A player who
// disconnects while waiting leaves the queue. A second matchmaking socket for
// the same player takes over the wait from the first.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals(middleware.LocalPlayerID).(string)

	client := ws.NewClient(c)
	defer client.Close()

	ch := make(chan string, 1)
	if err := wsc.gameService.RegisterMatchmakingChannel(playerID, ch); err != nil {
		client.Send(ws.ErrorMessage(err))
		return
	}
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)

	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, model.ErrAlreadyQueued) {
		client.Send(ws.ErrorMessage(err))
		return
	}

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if ok {
			client.Send(ws.Message{Type: ws.MessageTypeMatchFound, Payload: json.RawMessage(event)})
		}
		client.Close()
		// unblocks the reader before the connection is released
		_ = c.Close()
		<-gone
	case <-gone:
		if wsc.gameService.UnregisterMatchmakingChannel(playerID, ch) && wsc.gameService.LeaveMatchmaking(playerID) {
			log.Infof("player %s left matchmaking", playerID)
		}
	}
}
