package handlers

import (
	"eduhub/pkg/apperrors"
	"eduhub/pkg/middleware"
	"eduhub/pkg/models"
	"eduhub/pkg/services"

	"github.com/gofiber/fiber/v2"
)

type EducationHandler struct {
	education services.EducationService
}

func NewEducation(education services.EducationService) *EducationHandler {
	return &EducationHandler{education: education}
}

func (h *EducationHandler) GenerateEducation(c *fiber.Ctx) error {
	return h.generate(c, false)
}

func (h *EducationHandler) GenerateCurriculum(c *fiber.Ctx) error {
	return h.generate(c, true)
}

func (h *EducationHandler) generate(c *fiber.Ctx, curriculum bool) error {
	user, _ := middleware.CurrentUser(c)

	var req models.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, 400, apperrors.CodeInvalidInput, "invalid JSON")
	}

	var content models.EducationContent
	var err error
	if curriculum {
		content, err = h.education.GenerateCurriculum(c.Context(), user.ID, req)
	} else {
		content, err = h.education.GenerateEducation(c.Context(), user.ID, req)
	}
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "content": content})
}

func (h *EducationHandler) EvaluateAssignment(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var req models.EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, 400, apperrors.CodeInvalidInput, "invalid JSON")
	}

	eval, err := h.education.EvaluateAssignment(c.Context(), user.ID, req)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "evaluation": eval})
}

func (h *EducationHandler) ListContents(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	contents, err := h.education.ListContents(user.ID, c.Query("kind"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"contents": contents})
}

func (h *EducationHandler) ListEvaluations(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	evals, err := h.education.ListEvaluations(user.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"evaluations": evals})
}

func (h *EducationHandler) ToggleFavorite(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	contentID, err := c.ParamsInt("id")
	if err != nil {
		return respond(c, 400, apperrors.CodeInvalidInput, "invalid content id")
	}

	favorite, err := h.education.ToggleFavorite(user.ID, contentID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"id": contentID, "is_favorite": favorite})
}
