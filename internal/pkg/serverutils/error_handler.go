package serverutils

import (
	"errors"

	"shopflow-be/pkg/returns"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps workflow errors onto HTTP codes:
// validation -> 400, unknown order -> 404, illegal transition and optimistic
// lock conflicts -> 409. The conflict body tells the client a single re-read
// and retry is safe; the state body names the current vs required status.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErr *returns.ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(
				ErrorResponseWithDetails(fiber.StatusBadRequest, validationErr.Error(), validationErr.Fields))
		}

		var notFoundErr *returns.NotFoundError
		if errors.As(err, &notFoundErr) {
			return ctx.Status(fiber.StatusNotFound).JSON(
				ErrorResponse(fiber.StatusNotFound, notFoundErr.Error()))
		}

		var stateErr *returns.StateError
		if errors.As(err, &stateErr) {
			return ctx.Status(fiber.StatusConflict).JSON(
				ErrorResponseWithDetails(fiber.StatusConflict, stateErr.Error(), fiber.Map{
					"current_status": stateErr.Current,
					"retryable":      false,
				}))
		}

		var conflictErr *returns.ConflictError
		if errors.As(err, &conflictErr) {
			return ctx.Status(fiber.StatusConflict).JSON(
				ErrorResponseWithDetails(fiber.StatusConflict, conflictErr.Error(), fiber.Map{
					"retryable": true,
				}))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(
			ErrorResponse(fiber.StatusInternalServerError, "internal server error"))
	}
}
