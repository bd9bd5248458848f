package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPublicSettings handles GET /api/settings/public
func (s *Server) GetPublicSettings(c *fiber.Ctx) error {
	values, err := s.settingService.PublicSettings(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"settings": values})
}

// GetSettings handles GET /api/admin/settings
func (s *Server) GetSettings(c *fiber.Ctx) error {
	settings, err := s.settingService.ListSettings(c.Context(), s.actor(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}

// CreateSetting handles POST /api/admin/settings
func (s *Server) CreateSetting(c *fiber.Ctx) error {
	var req struct {
		Key        string `json:"key"`
		Value      string `json:"value"`
		Type       string `json:"type"`
		IsPublic   bool   `json:"is_public"`
		IsEditable *bool  `json:"is_editable"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	setting, err := s.settingService.CreateSetting(c.Context(), service.CreateSettingInput{
		Actor:      s.actor(c),
		Key:        req.Key,
		Value:      req.Value,
		Type:       models.SettingType(req.Type),
		IsPublic:   req.IsPublic,
		IsEditable: req.IsEditable,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(setting)
}

// UpdateSetting handles PUT /api/admin/settings/:key
func (s *Server) UpdateSetting(c *fiber.Ctx) error {
	var req struct {
		Value    string `json:"value"`
		IsPublic *bool  `json:"is_public"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	setting, err := s.settingService.UpdateSetting(c.Context(), service.UpdateSettingInput{
		Actor:    s.actor(c),
		Key:      c.Params("key"),
		Value:    req.Value,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(setting)
}

// DeleteSetting handles DELETE /api/admin/settings/:key
func (s *Server) DeleteSetting(c *fiber.Ctx) error {
	if err := s.settingService.DeleteSetting(c.Context(), s.actor(c), c.Params("key")); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Setting deleted"})
}
