package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts with filtering, search and pagination.
// Visibility is actor-scoped: the public sees published posts only.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	pagination := parsePagination(c, 20)
	actor := s.optionalActor(c)

	page, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Actor:        actor,
		Status:       models.PostStatus(c.Query("status")),
		Type:         models.PostType(c.Query("type")),
		AuthorID:     uint(c.QueryInt("author_id", 0)),
		CategorySlug: c.Query("category"),
		TagSlug:      c.Query("tag"),
		Search:       c.Query("search"),
		Sort:         c.Query("sort"),
		Limit:        pagination.Limit,
		Offset:       pagination.Offset,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(page)
}

// GetPost handles GET /api/posts/:slug
func (s *Server) GetPost(c *fiber.Ctx) error {
	detail, err := s.postService.GetPostBySlug(c.Context(), s.optionalActor(c), c.Params("slug"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(detail)
}

// GetRelatedPosts handles GET /api/posts/:slug/related
func (s *Server) GetRelatedPosts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 5)
	if limit <= 0 || limit > 20 {
		limit = 5
	}

	related, err := s.postService.RelatedPosts(c.Context(), s.optionalActor(c), c.Params("slug"), limit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": related})
}

type postRequest struct {
	Title           *string `json:"title"`
	Content         *string `json:"content"`
	Excerpt         *string `json:"excerpt"`
	Status          string  `json:"status"`
	Type            *string `json:"type"`
	CategoryID      *uint   `json:"category_id"`
	FeaturedMediaID *uint   `json:"featured_media_id"`
	TagIDs          []uint  `json:"tag_ids"`
	AllowComments   *bool   `json:"allow_comments"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.CreatePostInput{
		Actor:           s.actor(c),
		Status:          models.PostStatus(req.Status),
		CategoryID:      req.CategoryID,
		FeaturedMediaID: req.FeaturedMediaID,
		TagIDs:          req.TagIDs,
		AllowComments:   req.AllowComments,
	}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Content != nil {
		in.Content = *req.Content
	}
	if req.Excerpt != nil {
		in.Excerpt = *req.Excerpt
	}
	if req.Type != nil {
		in.Type = models.PostType(*req.Type)
	}

	post, err := s.postService.CreatePost(c.Context(), in)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.UpdatePostInput{
		Actor:           s.actor(c),
		PostID:          postID,
		Title:           req.Title,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		CategoryID:      req.CategoryID,
		FeaturedMediaID: req.FeaturedMediaID,
		AllowComments:   req.AllowComments,
	}
	if req.Type != nil {
		postType := models.PostType(*req.Type)
		in.Type = &postType
	}
	if req.TagIDs != nil {
		in.TagIDs = req.TagIDs
		in.ReplaceTags = true
	}

	post, err := s.postService.UpdatePost(c.Context(), in)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(post)
}

// TransitionPost handles PUT /api/posts/:id/status
func (s *Server) TransitionPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
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

	post, err := s.postService.TransitionPost(c.Context(), s.actor(c), postID, models.PostStatus(req.Status))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id. The default is a soft delete
// to trash; ?hard=true removes the row and its dependents (admin only).
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		Actor:  s.actor(c),
		PostID: postID,
		Hard:   c.QueryBool("hard", false),
	}); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// LikePost handles POST /api/posts/:id/like (toggle semantics).
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
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

	result, err := s.likeService.TogglePostLike(c.Context(), s.actor(c), postID, models.LikeType(req.Type))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}
