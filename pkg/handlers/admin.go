package handlers

import (
	"log"

	"eduhub/pkg/apperrors"
	"eduhub/pkg/models"
	"eduhub/pkg/repository"
	"eduhub/pkg/services"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	users repository.UserRepository
	auth  services.AuthService
}

func NewAdmin(users repository.UserRepository, auth services.AuthService) *AdminHandler {
	return &AdminHandler{users: users, auth: auth}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.ListUsers()
	if err != nil {
		log.Println("[ADMIN] list users error:", err)
		return respond(c, 500, apperrors.CodePersistence, "temporary server error, try again")
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(fiber.Map{"users": users})
}

// SetUserActive flips a user's active flag. Deactivation also revokes the
// user's sessions so validation stops immediately rather than at next
// lookup.
func (h *AdminHandler) SetUserActive(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return respond(c, 400, apperrors.CodeInvalidInput, "invalid user id")
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respond(c, 400, apperrors.CodeInvalidInput, "invalid JSON")
	}

	if err := h.users.SetActive(userID, req.IsActive); err != nil {
		log.Println("[ADMIN] set active error:", err)
		return respond(c, 500, apperrors.CodePersistence, "temporary server error, try again")
	}

	if !req.IsActive {
		h.auth.DestroyAllSessions(userID)
	}

	return c.JSON(fiber.Map{"id": userID, "is_active": req.IsActive})
}

func (h *AdminHandler) CleanupSessions(c *fiber.Ctx) error {
	count := h.auth.CleanupExpired()
	return c.JSON(fiber.Map{"removed": count})
}
