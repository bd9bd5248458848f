package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)
	user, err := s.userService.GetUser(c.Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		DisplayName *string `json:"display_name"`
		Bio         *string `json:"bio"`
		Email       *string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID, _ := c.Locals("userID").(uint)
	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:      userID,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Email:       req.Email,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user)
}

// ChangeMyPassword handles PUT /api/users/me/password
func (s *Server) ChangeMyPassword(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID, _ := c.Locals("userID").(uint)
	if err := s.userService.ChangePassword(c.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password changed"})
}

// GetUsers handles GET /api/admin/users
func (s *Server) GetUsers(c *fiber.Ctx) error {
	pagination := parsePagination(c, 50)

	page, err := s.userService.ListUsers(c.Context(), s.actor(c), pagination.Limit, pagination.Offset)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(page)
}

// ChangeUserRole handles PUT /api/admin/users/:id/role
func (s *Server) ChangeUserRole(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil || req.Role == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("role is required"))
	}

	user, err := s.userService.ChangeRole(c.Context(), s.actor(c), targetID, models.UserRole(req.Role))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user)
}

// ChangeUserStatus handles PUT /api/admin/users/:id/status
func (s *Server) ChangeUserStatus(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("status is required"))
	}

	user, err := s.userService.ChangeStatus(c.Context(), s.actor(c), targetID, models.UserStatus(req.Status))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user)
}
