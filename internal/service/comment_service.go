package service

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/policy"
	"inkwell/internal/repository"
)

const maxCommentLen = 10000

// CommentService implements comment creation, threading, moderation and
// removal. Counter maintenance on the owning post rides the repository
// transactions; this layer only decides the deltas via policy.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	nowFn       func() time.Time
}

// NewCommentService returns a CommentService over the given repositories.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		nowFn:       time.Now,
	}
}

type CreateCommentInput struct {
	Actor      policy.Actor
	PostSlug   string
	Content    string
	ParentID   *uint
	GuestName  string
	GuestEmail string
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}
	if in.Actor.Anonymous() && strings.TrimSpace(in.GuestName) == "" {
		return nil, models.NewValidationError("guest_name is required for anonymous comments")
	}

	post, err := s.postRepo.GetBySlug(ctx, in.PostSlug)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadPost(in.Actor, post, s.nowFn()) {
		return nil, models.NewNotFoundError("Post", in.PostSlug)
	}
	if !post.AllowComments {
		return nil, models.NewConflictError("Comments are disabled for this post")
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != post.ID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
		if parent.ParentID != nil {
			// Threads are one level deep: replying to a reply attaches
			// to the top-level comment instead.
			in.ParentID = parent.ParentID
		}
	}

	comment := &models.Comment{
		Content:  in.Content,
		PostID:   post.ID,
		ParentID: in.ParentID,
		Status:   policy.InitialCommentStatus(in.Actor),
	}
	if in.Actor.Anonymous() {
		comment.GuestName = in.GuestName
		comment.GuestEmail = in.GuestEmail
	} else {
		userID := in.Actor.ID
		comment.UserID = &userID
	}

	counterDelta := 0
	if comment.Status == models.CommentStatusApproved {
		counterDelta = 1
	}
	if err := s.commentRepo.Create(ctx, comment, counterDelta); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns the comment tree for a post, restricted to the
// statuses the actor may see.
func (s *CommentService) ListComments(ctx context.Context, actor policy.Actor, postSlug string, limit, offset int) ([]*models.Comment, error) {
	post, err := s.postRepo.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadPost(actor, post, s.nowFn()) {
		return nil, models.NewNotFoundError("Post", postSlug)
	}
	return s.commentRepo.ListByPost(ctx, post.ID, policy.VisibleCommentStatuses(actor), limit, offset)
}

type UpdateCommentInput struct {
	Actor     policy.Actor
	CommentID uint
	Content   string
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if !policy.CanEditComment(in.Actor, comment) {
		return nil, models.NewPermissionDeniedError("not allowed to edit this comment")
	}

	comment.Content = in.Content
	if err := s.commentRepo.UpdateContent(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes the comment row (with its replies); the post's
// counter drops only for the approved ones that were counted.
func (s *CommentService) DeleteComment(ctx context.Context, actor policy.Actor, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !policy.CanDeleteComment(actor, comment) {
		return models.NewPermissionDeniedError("not allowed to delete this comment")
	}
	return s.commentRepo.Delete(ctx, comment)
}

// ModerateComment moves a comment through the moderation lifecycle.
// Approval is one-way: once approved, the only exit is trash.
func (s *CommentService) ModerateComment(ctx context.Context, actor policy.Actor, commentID uint, status models.CommentStatus) (*models.Comment, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("Invalid comment status")
	}
	if !policy.CanModerateComments(actor) {
		return nil, models.NewPermissionDeniedError("comment moderation requires editor access")
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	transition := policy.EvaluateCommentTransition(comment.Status, status)
	if !transition.Allowed {
		return nil, models.NewConflictError(transition.Reason)
	}
	if comment.Status == status {
		return comment, nil
	}

	if err := s.commentRepo.UpdateStatus(ctx, comment, status, transition.CounterDelta); err != nil {
		return nil, err
	}
	observability.CommentsModerated.WithLabelValues(string(status)).Inc()
	return comment, nil
}

// CommentPage is one page of the moderation queue.
type CommentPage struct {
	Comments []*models.Comment `json:"comments"`
	Total    int64             `json:"total"`
}

// ModerationQueue lists comments by status for the moderation view.
func (s *CommentService) ModerationQueue(ctx context.Context, actor policy.Actor, status models.CommentStatus, limit, offset int) (*CommentPage, error) {
	if !policy.CanModerateComments(actor) {
		return nil, models.NewPermissionDeniedError("comment moderation requires editor access")
	}
	if status == "" {
		status = models.CommentStatusPending
	}
	if !status.Valid() {
		return nil, models.NewValidationError("Invalid comment status")
	}

	comments, err := s.commentRepo.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.commentRepo.CountByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return &CommentPage{Comments: comments, Total: total}, nil
}
