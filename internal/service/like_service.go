package service

import (
	"context"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/policy"
	"inkwell/internal/repository"
)

// LikeService implements the reaction toggle for posts and comments. The
// repository runs each toggle in its own transaction; this layer gates
// access and reports what happened.
type LikeService struct {
	likeRepo    repository.LikeRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	nowFn       func() time.Time
}

// NewLikeService returns a LikeService over the given repositories.
func NewLikeService(likeRepo repository.LikeRepository, postRepo repository.PostRepository, commentRepo repository.CommentRepository) *LikeService {
	return &LikeService{
		likeRepo:    likeRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		nowFn:       time.Now,
	}
}

// ToggleResult reports the resolved toggle and the target's new count.
type ToggleResult struct {
	Action     string `json:"action"`
	LikesCount int    `json:"likes_count"`
}

func actionName(a policy.ToggleAction) string {
	switch a {
	case policy.ToggleCreate:
		return "created"
	case policy.ToggleDelete:
		return "removed"
	default:
		return "retyped"
	}
}

func (s *LikeService) validate(actor policy.Actor, likeType models.LikeType) error {
	if !policy.CanToggleLike(actor) {
		return models.NewPermissionDeniedError("reactions require an account")
	}
	if !likeType.Valid() {
		return models.NewValidationError("Invalid reaction type")
	}
	return nil
}

func (s *LikeService) TogglePostLike(ctx context.Context, actor policy.Actor, postID uint, likeType models.LikeType) (*ToggleResult, error) {
	if err := s.validate(actor, likeType); err != nil {
		return nil, err
	}
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadPost(actor, post, s.nowFn()) {
		return nil, models.NewNotFoundError("Post", postID)
	}

	outcome, err := s.likeRepo.TogglePostLike(ctx, actor.ID, postID, likeType)
	if err != nil {
		return nil, err
	}
	observability.LikesToggled.WithLabelValues(actionName(outcome.Action), "post").Inc()

	updated, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Action: actionName(outcome.Action), LikesCount: updated.LikesCount}, nil
}

func (s *LikeService) ToggleCommentLike(ctx context.Context, actor policy.Actor, commentID uint, likeType models.LikeType) (*ToggleResult, error) {
	if err := s.validate(actor, likeType); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	// Hidden comments are reactable only by the people who can see them.
	if comment.Status != models.CommentStatusApproved && !policy.CanModerateComments(actor) {
		return nil, models.NewNotFoundError("Comment", commentID)
	}

	outcome, err := s.likeRepo.ToggleCommentLike(ctx, actor.ID, commentID, likeType)
	if err != nil {
		return nil, err
	}
	observability.LikesToggled.WithLabelValues(actionName(outcome.Action), "comment").Inc()

	updated, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Action: actionName(outcome.Action), LikesCount: updated.LikesCount}, nil
}
