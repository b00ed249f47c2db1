package serverutils

import (
	"ai-chat-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// SuccessResponse writes the standard success envelope.
func SuccessResponse(ctx *fiber.Ctx, message string, data interface{}) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    fiber.StatusOK,
		"message": message,
		"data":    data,
	})
}

// ErrorResponse maps err to a single JSON error body. Typed errors carry
// their own status; anything else becomes a generic 500 so internals never
// leak.
func ErrorResponse(ctx *fiber.Ctx, err error) error {
	status := apperror.StatusOf(err)
	message := "internal server error"
	if appErr := apperror.From(err); appErr != nil {
		message = appErr.Message
	}
	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"code":    status,
		"error":   message,
	})
}
