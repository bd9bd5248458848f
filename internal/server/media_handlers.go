package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMedia handles GET /api/media
func (s *Server) GetMedia(c *fiber.Ctx) error {
	pagination := parsePagination(c, 20)

	page, err := s.mediaService.ListMedia(c.Context(), s.actor(c),
		uint(c.QueryInt("uploader_id", 0)), pagination.Limit, pagination.Offset)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(page)
}

// RegisterMedia handles POST /api/media. Registration is metadata only:
// the bytes live in an external store behind the configured base URL.
func (s *Server) RegisterMedia(c *fiber.Ctx) error {
	var req struct {
		OriginalName string `json:"original_name"`
		MimeType     string `json:"mime_type"`
		SizeBytes    int64  `json:"size_bytes"`
		AltText      string `json:"alt_text"`
		Caption      string `json:"caption"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	media, err := s.mediaService.RegisterMedia(c.Context(), service.RegisterMediaInput{
		Actor:        s.actor(c),
		OriginalName: req.OriginalName,
		MimeType:     req.MimeType,
		SizeBytes:    req.SizeBytes,
		AltText:      req.AltText,
		Caption:      req.Caption,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(media)
}

// UpdateMedia handles PUT /api/media/:id
func (s *Server) UpdateMedia(c *fiber.Ctx) error {
	mediaID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		AltText *string `json:"alt_text"`
		Caption *string `json:"caption"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	media, err := s.mediaService.UpdateMedia(c.Context(), service.UpdateMediaInput{
		Actor:   s.actor(c),
		MediaID: mediaID,
		AltText: req.AltText,
		Caption: req.Caption,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(media)
}

// DeleteMedia handles DELETE /api/media/:id
func (s *Server) DeleteMedia(c *fiber.Ctx) error {
	mediaID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.mediaService.DeleteMedia(c.Context(), s.actor(c), mediaID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Media deleted"})
}
