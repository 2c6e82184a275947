package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// Locals keys shared by the middlewares and the handlers.
const (
	LocalPlayerID   = "playerID"
	LocalWSGameID   = "wsGameID"
	LocalWSPlayerID = "wsPlayerID"
)

// EnsurePlayerID reads the caller's id from the X-Player-ID header or the
// playerId query parameter. Requests without one are rejected with 401.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if PlayerID(c) != "" {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID", c.Query("playerId"))
		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		c.Locals(LocalPlayerID, playerID)
		return c.Next()
	}
}

// PlayerID returns the id stored by EnsurePlayerID, or "" when absent.
func PlayerID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalPlayerID).(string)
	return id
}
