package handlers

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"eduhub/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"duplicate credential", apperrors.ErrDuplicateCredential, 409, apperrors.CodeDuplicateCredential},
		{"invalid credential", apperrors.ErrInvalidCredential, 401, apperrors.CodeInvalidCredential},
		{"authentication required", apperrors.ErrAuthenticationRequired, 401, apperrors.CodeAuthenticationRequired},
		{"invalid session", apperrors.ErrInvalidSession, 401, apperrors.CodeInvalidSession},
		{"insufficient permissions", apperrors.ErrInsufficientPermissions, 403, apperrors.CodeInsufficientPermissions},
		{"not found", apperrors.ErrNotFound, 404, apperrors.CodeNotFound},
		{"upstream generation", apperrors.ErrUpstreamGeneration, 502, apperrors.CodeUpstreamGeneration},
		{"persistence", apperrors.ErrPersistence, 500, apperrors.CodePersistence},
		{"anything else", errors.New("subject must not be empty"), 400, apperrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/err", func(c *fiber.Ctx) error {
				return fail(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/err", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), tt.code)
		})
	}
}
