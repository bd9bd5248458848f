package server

import (
	"encoding/base64"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.Context(), service.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return serviceError(c, err)
	}

	pair, err := s.tokens.Issue(c.Context(), user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":         pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user":          user,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		TOTPCode string `json:"totp_code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Authenticate(c.Context(), req.Email, req.Password, req.TOTPCode)
	if err != nil {
		return serviceError(c, err)
	}

	pair, err := s.tokens.Issue(c.Context(), user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token":         pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user":          user,
	})
}

// Refresh handles POST /api/auth/refresh. The presented refresh token is
// consumed whether or not a new pair is issued; a rotated token can never
// be replayed.
func (s *Server) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("refresh_token is required"))
	}

	userID, err := s.tokens.Rotate(c.Context(), req.RefreshToken)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid or expired refresh token"))
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid or expired refresh token"))
	}
	if !user.CanAuthenticate() {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Account is inactive"))
	}

	pair, err := s.tokens.Issue(c.Context(), user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token":         pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// Logout handles POST /api/auth/logout: revokes the refresh token and
// blacklists the presented access token until it expires on its own.
func (s *Server) Logout(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.BodyParser(&req)

	s.tokens.Revoke(c.Context(), req.RefreshToken)
	if claims, ok := c.Locals("accessClaims").(*accessClaims); ok {
		s.tokens.Blacklist(c.Context(), claims)
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}

// TwoFactorSetup handles POST /api/auth/2fa/setup: generates a pending
// TOTP secret and returns it with a provisioning QR code.
func (s *Server) TwoFactorSetup(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	if user.TwoFactorEnabled {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("Two-factor authentication is already enabled"))
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Inkwell",
		AccountName: user.Email,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if err := s.userService.SetTOTPSecret(c.Context(), userID, key.Secret()); err != nil {
		return serviceError(c, err)
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"secret":  key.Secret(),
		"qr_code": base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// TwoFactorEnable handles POST /api/auth/2fa/enable
func (s *Server) TwoFactorEnable(c *fiber.Ctx) error {
	var req struct {
		TOTPCode string `json:"totp_code"`
	}
	if err := c.BodyParser(&req); err != nil || req.TOTPCode == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("totp_code is required"))
	}

	userID, _ := c.Locals("userID").(uint)
	if err := s.userService.EnableTwoFactor(c.Context(), userID, req.TOTPCode); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Two-factor authentication enabled"})
}

// TwoFactorDisable handles POST /api/auth/2fa/disable
func (s *Server) TwoFactorDisable(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)
	if err := s.userService.DisableTwoFactor(c.Context(), userID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Two-factor authentication disabled"})
}
