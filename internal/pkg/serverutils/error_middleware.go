package serverutils

import (
	"errors"
	"fmt"

	"ai-jobadvisor-be/internal/pkg/logger"
	"ai-jobadvisor-be/pkg/advisor"
	"ai-jobadvisor-be/pkg/store"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts domain errors into JSON responses and
// recovers handler panics into the same 500 envelope. Internal details
// are logged, never sent to the client.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) (outErr error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("server", "handler panic", map[string]interface{}{
					"path":  ctx.Path(),
					"panic": fmt.Sprint(r),
				})
				outErr = ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
			}
		}()

		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		switch {
		case errors.Is(err, advisor.ErrMissingUserID):
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse("session id is missing"))
		case errors.Is(err, store.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse("session not found"))
		case errors.Is(err, store.ErrLocked):
			return ctx.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse("another request for this session is in progress"))
		case errors.As(err, &fiberErr):
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		default:
			log.Error("server", "unhandled request error", map[string]interface{}{
				"path":  ctx.Path(),
				"error": err.Error(),
			})
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
		}
	}
}
