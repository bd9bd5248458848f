// Package service implements the business rules on top of the repositories.
// Every operation takes the acting user explicitly; nothing here reads
// request state or a global current user.
package service

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/markdown"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/policy"
	"inkwell/internal/repository"
)

const (
	maxPostTitleLen   = 300
	maxPostContentLen = 100000
)

// PostService implements post lifecycle operations: creation, editing,
// status transitions, deletion and visibility-filtered reads.
type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	nowFn        func() time.Time
}

// NewPostService returns a PostService over the given repositories.
func NewPostService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository, tagRepo repository.TagRepository) *PostService {
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		nowFn:        time.Now,
	}
}

type CreatePostInput struct {
	Actor           policy.Actor
	Title           string
	Content         string
	Excerpt         string
	Status          models.PostStatus
	Type            models.PostType
	CategoryID      *uint
	FeaturedMediaID *uint
	TagIDs          []uint
	AllowComments   *bool
}

type UpdatePostInput struct {
	Actor           policy.Actor
	PostID          uint
	Title           *string
	Content         *string
	Excerpt         *string
	Type            *models.PostType
	CategoryID      *uint // 0 clears the category
	FeaturedMediaID *uint // 0 clears the featured media
	TagIDs          []uint
	ReplaceTags     bool
	AllowComments   *bool
}

type ListPostsInput struct {
	Actor        policy.Actor
	Status       models.PostStatus
	Type         models.PostType
	AuthorID     uint
	CategorySlug string
	TagSlug      string
	Search       string
	Sort         string
	Limit        int
	Offset       int
}

// PostPage is one page of a post listing plus the unpaginated total.
type PostPage struct {
	Posts []*models.Post `json:"posts"`
	Total int64          `json:"total"`
}

// PostDetail is a single post plus its content rendered to HTML.
type PostDetail struct {
	*models.Post
	ContentHTML string `json:"content_html"`
}

// applyPostEffects writes policy-mandated field mutations onto the struct
// before the insert, so the new row and its derived fields land together.
func applyPostEffects(post *models.Post, effects []policy.Effect) {
	for _, e := range effects {
		switch e.Field {
		case "slug":
			post.Slug = e.Value.(string)
		case "reading_time":
			post.ReadingTime = e.Value.(int)
		case "published_at":
			t := e.Value.(time.Time)
			post.PublishedAt = &t
		}
	}
}

func (s *PostService) validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxPostTitleLen {
		return models.NewValidationError("Title too long (max 300 characters)")
	}
	return nil
}

// resolveTags loads the referenced tags and fails when any ID is unknown.
func (s *PostService) resolveTags(ctx context.Context, ids []uint) ([]models.Tag, error) {
	tags, err := s.tagRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, models.NewValidationError("One or more tag IDs do not exist")
	}
	return tags, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := s.validateTitle(in.Title); err != nil {
		return nil, err
	}
	if len(in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 100000 characters)")
	}

	status := in.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if !status.Valid() {
		return nil, models.NewValidationError("Invalid post status")
	}
	postType := in.Type
	if postType == "" {
		postType = models.PostTypePost
	}
	if !postType.Valid() {
		return nil, models.NewValidationError("Invalid post type")
	}

	decision := policy.EvaluatePostCreate(in.Actor, in.Title, in.Content, status, s.nowFn())
	if !decision.Allowed {
		return nil, models.NewPermissionDeniedError(decision.Reason)
	}

	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}
	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}

	allowComments := true
	if in.AllowComments != nil {
		allowComments = *in.AllowComments
	}

	post := &models.Post{
		Title:           in.Title,
		Content:         in.Content,
		Excerpt:         in.Excerpt,
		Status:          status,
		Type:            postType,
		AuthorID:        in.Actor.ID,
		CategoryID:      in.CategoryID,
		FeaturedMediaID: in.FeaturedMediaID,
		AllowComments:   allowComments,
	}
	applyPostEffects(post, decision.Effects)

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := s.postRepo.ReplaceTags(ctx, post, tags); err != nil {
			return nil, err
		}
	}
	if status == models.PostStatusPublished {
		observability.PostsPublished.WithLabelValues(string(postType)).Inc()
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if err := s.validateTitle(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Content != nil && len(*in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 100000 characters)")
	}

	decision := policy.EvaluatePostUpdate(in.Actor, post, policy.PostChange{
		Title:   in.Title,
		Content: in.Content,
	}, s.nowFn())
	if !decision.Allowed {
		return nil, models.NewPermissionDeniedError(decision.Reason)
	}

	changes := map[string]any{}
	if in.Title != nil {
		changes["title"] = *in.Title
	}
	if in.Content != nil {
		changes["content"] = *in.Content
	}
	if in.Excerpt != nil {
		changes["excerpt"] = *in.Excerpt
	}
	if in.Type != nil {
		if !in.Type.Valid() {
			return nil, models.NewValidationError("Invalid post type")
		}
		changes["type"] = *in.Type
	}
	if in.AllowComments != nil {
		changes["allow_comments"] = *in.AllowComments
	}
	if in.CategoryID != nil {
		if *in.CategoryID == 0 {
			changes["category_id"] = nil
		} else {
			if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
				return nil, err
			}
			changes["category_id"] = *in.CategoryID
		}
	}
	if in.FeaturedMediaID != nil {
		if *in.FeaturedMediaID == 0 {
			changes["featured_media_id"] = nil
		} else {
			changes["featured_media_id"] = *in.FeaturedMediaID
		}
	}
	for _, e := range decision.Effects {
		changes[e.Field] = e.Value
	}

	if err := s.postRepo.ApplyChanges(ctx, post, changes); err != nil {
		return nil, err
	}

	if in.ReplaceTags {
		tags, err := s.resolveTags(ctx, in.TagIDs)
		if err != nil {
			return nil, err
		}
		if err := s.postRepo.ReplaceTags(ctx, post, tags); err != nil {
			return nil, err
		}
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// TransitionPost moves a post to a new status. The publish timestamp is
// stamped by the policy effect on the first transition to published and
// never again afterwards.
func (s *PostService) TransitionPost(ctx context.Context, actor policy.Actor, postID uint, status models.PostStatus) (*models.Post, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("Invalid post status")
	}
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	decision := policy.EvaluatePostUpdate(actor, post, policy.PostChange{Status: &status}, s.nowFn())
	if !decision.Allowed {
		return nil, models.NewPermissionDeniedError(decision.Reason)
	}

	changes := map[string]any{"status": status}
	for _, e := range decision.Effects {
		changes[e.Field] = e.Value
	}
	if err := s.postRepo.ApplyChanges(ctx, post, changes); err != nil {
		return nil, err
	}

	if status == models.PostStatusPublished && post.Status != models.PostStatusPublished {
		observability.PostsPublished.WithLabelValues(string(post.Type)).Inc()
	}

	return s.postRepo.GetByID(ctx, postID)
}

type DeletePostInput struct {
	Actor  policy.Actor
	PostID uint
	Hard   bool
}

// DeletePost trashes a post, or removes the row and its dependents when
// Hard is set. Hard deletion is reserved for admins.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if !policy.CanDeletePost(in.Actor, post) {
		return models.NewPermissionDeniedError("not allowed to delete this post")
	}

	if in.Hard {
		if !in.Actor.Role.AtLeast(models.RoleAdmin) {
			return models.NewPermissionDeniedError("permanent deletion requires admin access")
		}
		return s.postRepo.PermanentDelete(ctx, in.PostID)
	}
	return s.postRepo.ApplyChanges(ctx, post, map[string]any{"status": models.PostStatusTrash})
}

// GetPostBySlug serves the detail read. Public reads of publicly visible
// posts bump the view counter; authors and editors browsing their own or
// unpublished content do not inflate it.
func (s *PostService) GetPostBySlug(ctx context.Context, actor policy.Actor, slug string) (*PostDetail, error) {
	now := s.nowFn()

	var post *models.Post
	var err error
	if actor.Anonymous() {
		post, err = s.postRepo.GetPublishedBySlug(ctx, slug)
	} else {
		post, err = s.postRepo.GetBySlug(ctx, slug)
	}
	if err != nil {
		return nil, err
	}
	if !policy.CanReadPost(actor, post, now) {
		// Hide the existence of unpublished content.
		return nil, models.NewNotFoundError("Post", slug)
	}

	if policy.PubliclyVisible(post, now) && actor.ID != post.AuthorID {
		if err := s.postRepo.IncrementViews(ctx, post.ID); err == nil {
			post.ViewsCount++
		}
	}

	html, err := markdown.ToHTML(post.Content)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &PostDetail{Post: post, ContentHTML: html}, nil
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (*PostPage, error) {
	opts := repository.PostListOptions{
		Visibility: policy.ListFilterFor(in.Actor),
		Type:       in.Type,
		AuthorID:   in.AuthorID,
		Search:     in.Search,
		Sort:       in.Sort,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	if in.Status != "" {
		if !in.Status.Valid() {
			return nil, models.NewValidationError("Invalid post status")
		}
		opts.Status = in.Status
	}
	if in.CategorySlug != "" {
		category, err := s.categoryRepo.GetBySlug(ctx, in.CategorySlug)
		if err != nil {
			return nil, err
		}
		opts.CategoryID = category.ID
	}
	if in.TagSlug != "" {
		tag, err := s.tagRepo.GetBySlug(ctx, in.TagSlug)
		if err != nil {
			return nil, err
		}
		opts.TagID = tag.ID
	}

	posts, err := s.postRepo.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	total, err := s.postRepo.Count(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Total: total}, nil
}

// RelatedPosts returns published posts sharing the subject's category,
// excluding the subject itself.
func (s *PostService) RelatedPosts(ctx context.Context, actor policy.Actor, slug string, limit int) ([]*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadPost(actor, post, s.nowFn()) {
		return nil, models.NewNotFoundError("Post", slug)
	}
	if post.CategoryID == nil {
		return nil, nil
	}

	opts := repository.PostListOptions{
		Visibility: policy.PostListFilter{},
		CategoryID: *post.CategoryID,
		Limit:      limit + 1,
	}
	candidates, err := s.postRepo.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	related := make([]*models.Post, 0, limit)
	for _, c := range candidates {
		if c.ID == post.ID {
			continue
		}
		related = append(related, c)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}
