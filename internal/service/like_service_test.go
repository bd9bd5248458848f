package service

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLikeService(likeRepo *likeRepoStub, postRepo *postRepoStub, commentRepo *commentRepoStub) *LikeService {
	svc := NewLikeService(likeRepo, postRepo, commentRepo)
	svc.nowFn = fixedNow
	return svc
}

func TestTogglePostLikeAnonymousDenied(t *testing.T) {
	svc := newTestLikeService(noopLikeRepo(), noopPostRepo(), noopCommentRepo())

	_, err := svc.TogglePostLike(context.Background(), policy.Actor{}, 4, models.LikeTypeLike)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PERMISSION_DENIED", appErr.Code)
}

func TestTogglePostLikeReportsActionAndCount(t *testing.T) {
	postRepo := noopPostRepo()
	calls := 0
	postRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		calls++
		post := livePost()
		if calls > 1 {
			post.LikesCount = 6 // reload after the toggle
		} else {
			post.LikesCount = 5
		}
		return post, nil
	}
	likeRepo := noopLikeRepo()
	likeRepo.togglePostLikeFn = func(_ context.Context, userID, postID uint, likeType models.LikeType) (policy.ToggleOutcome, error) {
		assert.Equal(t, uint(9), userID)
		assert.Equal(t, uint(4), postID)
		assert.Equal(t, models.LikeTypeLike, likeType)
		return policy.ToggleOutcome{Action: policy.ToggleCreate}, nil
	}

	svc := newTestLikeService(likeRepo, postRepo, noopCommentRepo())
	result, err := svc.TogglePostLike(context.Background(), policy.Actor{ID: 9, Role: models.RoleSubscriber}, 4, models.LikeTypeLike)

	require.NoError(t, err)
	assert.Equal(t, "created", result.Action)
	assert.Equal(t, 6, result.LikesCount)
}

func TestTogglePostLikeOnDraftHidden(t *testing.T) {
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return &models.Post{Status: models.PostStatusDraft, AuthorID: 2}, nil
	}

	svc := newTestLikeService(noopLikeRepo(), postRepo, noopCommentRepo())
	_, err := svc.TogglePostLike(context.Background(), policy.Actor{ID: 9, Role: models.RoleSubscriber}, 4, models.LikeTypeLike)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestToggleCommentLikePendingHiddenFromSubscribers(t *testing.T) {
	commentRepo := noopCommentRepo()
	commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
		return &models.Comment{Status: models.CommentStatusPending}, nil
	}

	svc := newTestLikeService(noopLikeRepo(), noopPostRepo(), commentRepo)
	_, err := svc.ToggleCommentLike(context.Background(), policy.Actor{ID: 9, Role: models.RoleSubscriber}, 5, models.LikeTypeLike)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestToggleCommentLikeRetype(t *testing.T) {
	commentRepo := noopCommentRepo()
	commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
		return &models.Comment{Status: models.CommentStatusApproved, LikesCount: 3}, nil
	}
	likeRepo := noopLikeRepo()
	likeRepo.toggleCommentLikeFn = func(_ context.Context, _, _ uint, _ models.LikeType) (policy.ToggleOutcome, error) {
		return policy.ToggleOutcome{Action: policy.ToggleRetype}, nil
	}

	svc := newTestLikeService(likeRepo, noopPostRepo(), commentRepo)
	result, err := svc.ToggleCommentLike(context.Background(), policy.Actor{ID: 9, Role: models.RoleSubscriber}, 5, models.LikeTypeLove)

	require.NoError(t, err)
	assert.Equal(t, "retyped", result.Action)
	// A retype swaps the reaction without changing the count.
	assert.Equal(t, 3, result.LikesCount)
}
