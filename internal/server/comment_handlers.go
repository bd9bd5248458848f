package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/posts/:slug/comments. The public sees
// approved comments only; moderators see the full set.
func (s *Server) GetComments(c *fiber.Ctx) error {
	pagination := parsePagination(c, 50)

	comments, err := s.commentService.ListComments(c.Context(), s.optionalActor(c),
		c.Params("slug"), pagination.Limit, pagination.Offset)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// CreateComment handles POST /api/posts/:slug/comments. Anonymous comments
// are accepted with a guest_name; authenticated authors skip moderation.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Content    string `json:"content"`
		ParentID   *uint  `json:"parent_id"`
		GuestName  string `json:"guest_name"`
		GuestEmail string `json:"guest_email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		Actor:      s.optionalActor(c),
		PostSlug:   c.Params("slug"),
		Content:    req.Content,
		ParentID:   req.ParentID,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PUT /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.Context(), service.UpdateCommentInput{
		Actor:     s.actor(c),
		CommentID: commentID,
		Content:   req.Content,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.Context(), s.actor(c), commentID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}

// ModerateComment handles PUT /api/comments/:id/status
func (s *Server) ModerateComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
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

	comment, err := s.commentService.ModerateComment(c.Context(), s.actor(c),
		commentID, models.CommentStatus(req.Status))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(comment)
}

// GetModerationQueue handles GET /api/admin/comments?status=
func (s *Server) GetModerationQueue(c *fiber.Ctx) error {
	pagination := parsePagination(c, 50)

	page, err := s.commentService.ModerationQueue(c.Context(), s.actor(c),
		models.CommentStatus(c.Query("status")), pagination.Limit, pagination.Offset)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(page)
}

// LikeComment handles POST /api/comments/:id/like (toggle semantics).
func (s *Server) LikeComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Type string `json:"type"`
	}
	_ = c.BodyParser(&req)
	if req.Type == "" {
		req.Type = string(models.LikeTypeLike)
	}

	result, err := s.likeService.ToggleCommentLike(c.Context(), s.actor(c), commentID, models.LikeType(req.Type))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}
