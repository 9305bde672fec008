package handlers

import (
	"errors"

	"eduhub/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
)

// fail maps service errors to HTTP responses. Known kinds carry their
// machine code and a fixed message; anything else is treated as input
// validation and echoed with a 400. Store details never reach the client.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrDuplicateCredential):
		return respond(c, 409, apperrors.CodeDuplicateCredential, "username or email already in use")
	case errors.Is(err, apperrors.ErrInvalidCredential):
		return respond(c, 401, apperrors.CodeInvalidCredential, "invalid username or password")
	case errors.Is(err, apperrors.ErrAuthenticationRequired):
		return respond(c, 401, apperrors.CodeAuthenticationRequired, "login required")
	case errors.Is(err, apperrors.ErrInvalidSession):
		return respond(c, 401, apperrors.CodeInvalidSession, "invalid or expired session")
	case errors.Is(err, apperrors.ErrInsufficientPermissions):
		return respond(c, 403, apperrors.CodeInsufficientPermissions, "operation not permitted for this role")
	case errors.Is(err, apperrors.ErrNotFound):
		return respond(c, 404, apperrors.CodeNotFound, "resource not found")
	case errors.Is(err, apperrors.ErrUpstreamGeneration):
		return respond(c, 502, apperrors.CodeUpstreamGeneration, "content generation failed, try again")
	case errors.Is(err, apperrors.ErrPersistence):
		return respond(c, 500, apperrors.CodePersistence, "temporary server error, try again")
	default:
		return respond(c, 400, apperrors.CodeInvalidInput, err.Error())
	}
}

func respond(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message, "code": code})
}
