package gateway

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/sidedoor/pkg/openai"
)

// apiError is an error that renders as an OpenAI-style error envelope with
// a specific HTTP status. Handlers return these and the fiber error handler
// does the encoding, so no handler writes an error body directly.
type apiError struct {
	status  int
	code    string
	message string
}

func (e *apiError) Error() string {
	return e.message
}

func newAPIError(status int, code, message string) *apiError {
	return &apiError{status: status, code: code, message: message}
}

// newErrorHandler builds the fiber ErrorHandler that turns every handler
// error into the error envelope. Unexpected errors are logged and masked as
// a generic 500 so internal detail never reaches clients.
func newErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var apiErr *apiError
		if errors.As(err, &apiErr) {
			return c.Status(apiErr.status).JSON(openai.ErrorResponse{
				Error: openai.ErrorDetail{
					Message: apiErr.message,
					Type:    openai.ErrorType,
					Code:    apiErr.code,
				},
			})
		}

		logger.Error("unhandled error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(openai.ErrorResponse{
			Error: openai.ErrorDetail{
				Message: "internal server error",
				Type:    openai.ErrorType,
				Code:    openai.CodeInternal,
			},
		})
	}
}
