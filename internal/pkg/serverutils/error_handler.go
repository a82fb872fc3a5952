package serverutils

import (
	"errors"

	"news-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler translates service errors into HTTP responses. Anything not
// explicitly mapped is a 500 with a generic message; internals never leak to
// the client.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
	}

	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrTrackedQueryNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(fiber.StatusNotFound, err.Error()))
	case errors.Is(err, service.ErrSessionAccessDenied):
		return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(fiber.StatusForbidden, err.Error()))
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
}
