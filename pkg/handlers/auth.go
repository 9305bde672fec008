package handlers

import (
	"time"

	"eduhub/pkg/apperrors"
	"eduhub/pkg/middleware"
	"eduhub/pkg/models"
	"eduhub/pkg/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	auth       services.AuthService
	production bool
}

func NewAuth(auth services.AuthService, production bool) *AuthHandler {
	return &AuthHandler{auth: auth, production: production}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, 400, apperrors.CodeInvalidInput, "invalid JSON")
	}

	resp, err := h.auth.Register(req, c.Get("User-Agent"), c.IP())
	if err != nil {
		return fail(c, err)
	}

	h.setSessionCookie(c, resp.SessionToken)
	return c.Status(201).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, 400, apperrors.CodeInvalidInput, "invalid JSON")
	}

	resp, err := h.auth.Login(req, c.Get("User-Agent"), c.IP())
	if err != nil {
		return fail(c, err)
	}

	h.setSessionCookie(c, resp.SessionToken)
	return c.JSON(resp)
}

// Logout revokes the presented token. Idempotent: succeeds even when the
// token is already gone.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := middleware.ExtractToken(c); token != "" {
		h.auth.DestroySession(token)
	}
	h.clearSessionCookie(c)
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	h.auth.DestroyAllSessions(user.ID)
	h.clearSessionCookie(c)
	return c.JSON(fiber.Map{"status": "ok", "message": "all sessions terminated"})
}

// CheckSession reports whether the presented token resolves. Never errors.
func (h *AuthHandler) CheckSession(c *fiber.Ctx) error {
	token := middleware.ExtractToken(c)
	if token == "" {
		return c.JSON(fiber.Map{"authenticated": false})
	}

	user, ok := h.auth.ValidateSession(token)
	if !ok {
		return c.JSON(fiber.Map{"authenticated": false})
	}

	return c.JSON(fiber.Map{"authenticated": true, "user": user})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	fresh, err := h.auth.Me(user.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"user": fresh})
}

func (h *AuthHandler) Sessions(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	sessions, err := h.auth.Sessions(user.ID)
	if err != nil {
		return fail(c, err)
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	return c.JSON(fiber.Map{"sessions": sessions})
}

// ChangePassword revokes every session of the user, including the one
// that made this request.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var req models.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, 400, apperrors.CodeInvalidInput, "invalid JSON")
	}

	if err := h.auth.ChangePassword(user.ID, req.OldPassword, req.NewPassword); err != nil {
		return fail(c, err)
	}

	h.clearSessionCookie(c)
	return c.JSON(fiber.Map{"status": "ok", "message": "password changed, log in again"})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "session_token",
		Value:    token,
		Expires:  time.Now().Add(h.auth.SessionTTL()),
		HTTPOnly: true,
		Secure:   h.production,
		SameSite: "Lax",
		Path:     "/",
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     "session_token",
		Value:    "",
		Expires:  time.Now().Add(-1 * time.Hour),
		HTTPOnly: true,
		Path:     "/",
	})
}
