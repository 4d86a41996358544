package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lromero/cpr-api/internal/application/dto"
	"github.com/lromero/cpr-api/internal/domain"
)

// respondError traduce los errores sentinel del dominio a códigos HTTP.
// Todo lo no reconocido se reporta como 500.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrLotLocked):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LOT_LOCKED", Message: err.Error()})
	case errors.Is(err, domain.ErrLoteNoElegible):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LOT_NOT_ELIGIBLE", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientLotQty):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_QUANTITY", Message: err.Error()})
	case errors.Is(err, domain.ErrContainerScopeMismatch):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SCOPE_MISMATCH", Message: err.Error()})
	case errors.Is(err, domain.ErrStaleState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STALE_STATE", Message: "la OF cambió durante la operación, reintente"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
