package controller

import (
	"errors"

	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders errors that escaped a handler as {"error": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
		})
	}
	return errorResponse(c, err)
}

// RegisterRoutes mounts the REST API under /api/game.
func RegisterRoutes(router fiber.Router, gc *GameController) {
	api := router.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gc.JoinMatchmaking)
	gameRoutes.Post("/create", gc.CreateGame)
	gameRoutes.Post("/join/:gameId", gc.JoinGame)
	gameRoutes.Get("/:gameId", gc.GetGameState)
	gameRoutes.Post("/:gameId/pieces", gc.PlacePiece)
	gameRoutes.Get("/:gameId/pieces/:pieceId", gc.GetPiece)
	gameRoutes.Post("/:gameId/move", gc.MakeMove)
}
