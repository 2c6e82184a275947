package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// GameLookup reports whether a game with the given id exists.
type GameLookup func(gameID string) bool

// WebSocketUpgrade lets a websocket upgrade through only for an existing game
// and a caller identified by EnsurePlayerID. The ids are copied into locals
// under LocalWSGameID and LocalWSPlayerID because the connection handler
// does not see the request's route params.
func WebSocketUpgrade(gameExists GameLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		gameID := c.Params("gameId")
		switch {
		case gameID == "":
			return fiber.NewError(fiber.StatusBadRequest, "game ID is required")
		case !gameExists(gameID):
			return fiber.NewError(fiber.StatusNotFound, "game not found")
		}

		playerID := PlayerID(c)
		if playerID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "player ID is required")
		}

		c.Locals(LocalWSGameID, gameID)
		c.Locals(LocalWSPlayerID, playerID)
		return c.Next()
	}
}
