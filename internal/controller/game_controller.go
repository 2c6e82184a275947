package controller

import (
	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := middleware.PlayerID(c)
	log.Debugf("player %s joins game %s", playerID, gameID)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := middleware.PlayerID(c)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) PlacePiece(c *fiber.Ctx) error {
	var placement model.WSPlacement
	if err := c.BodyParser(&placement); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid placement body",
		})
	}

	piece, err := gc.gameService.HandlePlacement(c.Params("gameId"), middleware.PlayerID(c), placement)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(piece)
}

func (gc *GameController) GetPiece(c *fiber.Ctx) error {
	piece, err := gc.gameService.LocatePiece(c.Params("gameId"), c.Params("pieceId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(piece)
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.WSMove
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}

	gameID := c.Params("gameId")
	if err := gc.gameService.HandleMove(gameID, middleware.PlayerID(c), move); err != nil {
		log.Infof("rejected move in game %s: %v", gameID, err)
		return errorResponse(c, err)
	}

	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(gameState)
}
