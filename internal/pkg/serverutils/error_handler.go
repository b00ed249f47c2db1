package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// ErrorHandlerMiddleware recovers panics and turns errors escaping a handler
// into the standard JSON envelope. Streaming handlers never return errors
// once headers are committed, so this only ever fires pre-stream.
func ErrorHandlerMiddleware() fiber.Handler {
	recoverHandler := recover.New()
	return func(ctx *fiber.Ctx) error {
		if err := recoverHandler(ctx); err != nil {
			return ErrorResponse(ctx, err)
		}
		return nil
	}
}
