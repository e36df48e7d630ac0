package serverutils

import (
	"github.com/gofiber/fiber/v2"

	"tapcard-be/internal/entity"
)

// ErrorHandlerMiddleware maps typed domain errors bubbling out of handlers
// to HTTP statuses. AlreadyProcessed is a success-shaped short circuit, not
// a failure.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		switch entity.KindOf(err) {
		case entity.ErrKindUnauthenticated:
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, err.Error()))
		case entity.ErrKindNotFound:
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(fiber.StatusNotFound, err.Error()))
		case entity.ErrKindForbidden:
			return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(fiber.StatusForbidden, err.Error()))
		case entity.ErrKindSuspended:
			return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(fiber.StatusForbidden, err.Error()))
		case entity.ErrKindIntegrityViolation:
			return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(fiber.StatusConflict, err.Error()))
		case entity.ErrKindAlreadyProcessed:
			return ctx.Status(fiber.StatusOK).JSON(SuccessResponse("already processed", nil))
		case entity.ErrKindValidation:
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(fiber.StatusBadRequest, err.Error()))
		default:
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse(fiber.StatusServiceUnavailable, "upstream unavailable"))
		}
	}
}
