package middleware

import (
	"strings"

	"eduhub/pkg/apperrors"
	"eduhub/pkg/models"
	"eduhub/pkg/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys the auth middleware attaches for downstream handlers.
const (
	LocalUser         = "user"
	LocalSessionToken = "session_token"
)

type Auth struct {
	auth services.AuthService
}

func NewAuth(auth services.AuthService) *Auth {
	return &Auth{auth: auth}
}

// ExtractToken finds the session token, first present wins:
// bearer header, session cookie, request body, query parameter.
func ExtractToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return auth[7:]
	}

	if token := c.Cookies("session_token"); token != "" {
		return token
	}

	var body struct {
		SessionToken string `json:"session_token"`
	}
	if err := c.BodyParser(&body); err == nil && body.SessionToken != "" {
		return body.SessionToken
	}

	return c.Query("session_token")
}

// LoginRequired rejects unless the token resolves to an active user, and
// attaches the user record for the handler.
func (m *Auth) LoginRequired(c *fiber.Ctx) error {
	token := ExtractToken(c)
	if token == "" {
		return c.Status(401).JSON(fiber.Map{
			"error": "login required",
			"code":  apperrors.CodeAuthenticationRequired,
		})
	}

	user, ok := m.auth.ValidateSession(token)
	if !ok {
		return c.Status(401).JSON(fiber.Map{
			"error": "invalid or expired session",
			"code":  apperrors.CodeInvalidSession,
		})
	}

	c.Locals(LocalUser, user)
	c.Locals(LocalSessionToken, token)
	return c.Next()
}

// RoleRequired gates on the authenticated user's role. Must run after
// LoginRequired.
func (m *Auth) RoleRequired(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals(LocalUser).(models.User)
		if !ok {
			return c.Status(401).JSON(fiber.Map{
				"error": "login required",
				"code":  apperrors.CodeAuthenticationRequired,
			})
		}

		for _, role := range allowedRoles {
			if user.Role == role {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error":          "operation not permitted for this role",
			"code":           apperrors.CodeInsufficientPermissions,
			"required_roles": allowedRoles,
			"user_role":      user.Role,
		})
	}
}

// Optional attaches the user when the token resolves; never rejects.
func (m *Auth) Optional(c *fiber.Ctx) error {
	if token := ExtractToken(c); token != "" {
		if user, ok := m.auth.ValidateSession(token); ok {
			c.Locals(LocalUser, user)
			c.Locals(LocalSessionToken, token)
		}
	}
	return c.Next()
}

// CurrentUser returns the user attached by LoginRequired or Optional.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(LocalUser).(models.User)
	return user, ok
}
