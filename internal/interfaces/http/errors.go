package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/abs-rental-api/internal/application/dto"
	"github.com/jhoicas/abs-rental-api/internal/domain"
)

// respondError traduce errores de dominio a códigos HTTP con cuerpo dto.ErrorResponse.
func respondError(c *fiber.Ctx, err error) error {
	if ce, ok := domain.AsCapacityError(err); ok {
		return c.Status(fiber.StatusConflict).JSON(dto.CapacityErrorResponse{
			Code:      "INSUFFICIENT_STOCK",
			Message:   ce.Error(),
			Shortages: ce.Shortages,
		})
	}

	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrStageCompleted), errors.Is(err, domain.ErrSignatureRequired),
		errors.Is(err, domain.ErrConflict):
		return fail(c, fiber.StatusConflict, "CONFLICT", err.Error())
	case errors.As(err, &ve):
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return fail(c, fiber.StatusConflict, "EMAIL_EXISTS", "el email ya está registrado")
		}
		return fail(c, fiber.StatusBadRequest, "VALIDATION", ve.Error())
	case errors.Is(err, domain.ErrEmptyCart), errors.Is(err, domain.ErrInvalidInput):
		return fail(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		return fail(c, fiber.StatusConflict, "DUPLICATE", err.Error())
	case domain.IsQuotaExceeded(err):
		return fail(c, fiber.StatusInsufficientStorage, "STORAGE_QUOTA", "almacenamiento sin espacio disponible")
	case errors.Is(err, domain.ErrStorage):
		return fail(c, fiber.StatusServiceUnavailable, "STORAGE", err.Error())
	}
	return fail(c, fiber.StatusInternalServerError, "INTERNAL", err.Error())
}

func fail(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
}
