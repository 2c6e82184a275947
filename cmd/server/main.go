package main

import (
	"github.com/benbeisheim/chessrules-backend/internal/config"
	"github.com/benbeisheim/chessrules-backend/internal/controller"
	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gameManager := service.NewGameManager(cfg.MatchmakingInterval)
	defer gameManager.Close()
	gameService := service.NewGameService(gameManager)

	app := fiber.New(fiber.Config{ErrorHandler: controller.ErrorHandler})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	wsController := controller.NewWebSocketController(gameService)
	wsConfig := websocket.Config{
		ReadBufferSize:  cfg.WSBufferSize,
		WriteBufferSize: cfg.WSBufferSize,
		Origins:         cfg.Origins(),
	}

	app.Use("/ws/*", middleware.EnsurePlayerID())
	app.Get("/ws/matchmaking", websocket.New(wsController.HandleMatchmaking, wsConfig))
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(gameService.GameExists), websocket.New(wsController.HandleConnection, wsConfig))

	controller.RegisterRoutes(app, controller.NewGameController(gameService))

	log.Infof("listening on %s", cfg.Addr)
	log.Fatal(app.Listen(cfg.Addr))
}
