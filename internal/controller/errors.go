package controller

import (
	"errors"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrFriendlyCapture),
		errors.Is(err, model.ErrPromotion):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, model.ErrCapturedPiece),
		errors.Is(err, model.ErrSquareOccupied),
		errors.Is(err, model.ErrGameFull),
		errors.Is(err, model.ErrAlreadyQueued),
		errors.Is(err, model.ErrAlreadyConnected),
		errors.Is(err, service.ErrGameExists):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrNotFound),
		errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrBadCoordinates),
		errors.Is(err, model.ErrUnsupportedPiece):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrNotInGame),
		errors.Is(err, model.ErrNotYourPiece):
		return fiber.StatusForbidden
	}
	return fiber.StatusInternalServerError
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
