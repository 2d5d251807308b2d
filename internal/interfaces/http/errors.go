package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// errorMappings en orden de evaluación; el primero que coincide con errors.Is gana.
var errorMappings = []errorMapping{
	{domain.ErrStorageFailure, fiber.StatusInternalServerError, "STORAGE_FAILURE", "error de almacenamiento"},
	{domain.ErrInvalidMovementType, fiber.StatusBadRequest, "INVALID_MOVEMENT_TYPE", "tipo de movimiento inválido (IN, OUT, TRANSFER, ADJ)"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY", "cantidad inválida para el tipo de movimiento"},
	{domain.ErrMissingWarehouseReference, fiber.StatusBadRequest, "MISSING_WAREHOUSE_REFERENCE", "falta la bodega requerida por el tipo de movimiento"},
	{domain.ErrInvalidTransfer, fiber.StatusBadRequest, "INVALID_TRANSFER", "origen y destino deben ser distintos"},
	{domain.ErrItemNotFound, fiber.StatusNotFound, "ITEM_NOT_FOUND", "ítem no encontrado"},
	{domain.ErrWarehouseNotFound, fiber.StatusNotFound, "WAREHOUSE_NOT_FOUND", "bodega no encontrada"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK", "stock insuficiente"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "datos inválidos"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "el recurso ya existe"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "conflicto con el estado actual"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "no autenticado"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado"},
}

// respondError traduce err a status + dto.ErrorResponse. Los 5xx nunca exponen la causa;
// se registra con el request id.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			if m.status >= fiber.StatusInternalServerError {
				log.Error().Err(err).Str("request_id", GetRequestID(c)).Msg(m.code)
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.message})
		}
	}
	log.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("error no clasificado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// ErrorHandler responde en JSON los errores que llegan a Fiber sin pasar por un handler
// (rutas inexistentes, cuerpos demasiado grandes, panics recuperados).
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "HTTP_ERROR"
			switch fe.Code {
			case fiber.StatusNotFound:
				code = "NOT_FOUND"
			case fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			}
			if fe.Code < fiber.StatusInternalServerError {
				return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
			}
		}
		return respondError(c, log, err)
	}
}
