package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/policy"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository implements the like toggle and lookup operations. The
// toggle reads the existing row, resolves the action, applies it, and shifts
// the target's likes_count all inside one transaction, which is what keeps
// concurrent toggles for the same (user, target) pair from double counting.
type LikeRepository interface {
	TogglePostLike(ctx context.Context, userID, postID uint, likeType models.LikeType) (policy.ToggleOutcome, error)
	ToggleCommentLike(ctx context.Context, userID, commentID uint, likeType models.LikeType) (policy.ToggleOutcome, error)
	LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error)
	GetForPost(ctx context.Context, userID, postID uint) (*models.Like, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func adjustLikesCount(tx *gorm.DB, model any, targetID uint, delta int) error {
	if delta == 0 {
		return nil
	}
	db := tx.Model(model)
	if delta < 0 {
		db = db.Where("id = ? AND likes_count >= ?", targetID, -delta)
	} else {
		db = db.Where("id = ?", targetID)
	}
	return db.UpdateColumn("likes_count", gorm.Expr("likes_count + ?", delta)).Error
}

// toggle runs the resolved action for one target column inside a transaction.
// The existing row is locked for update so a concurrent toggle for the same
// pair waits instead of acting on a stale read.
func (r *likeRepository) toggle(ctx context.Context, userID uint, targetColumn string, targetID uint, targetModel any, likeType models.LikeType, assign func(*models.Like)) (policy.ToggleOutcome, error) {
	var outcome policy.ToggleOutcome

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Like
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND "+targetColumn+" = ?", userID, targetID).
			First(&existing).Error

		var current *models.Like
		switch {
		case err == nil:
			current = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			current = nil
		default:
			return err
		}

		outcome = policy.ResolveToggle(current, likeType)

		switch outcome.Action {
		case policy.ToggleCreate:
			like := models.Like{UserID: userID, Type: likeType}
			assign(&like)
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
		case policy.ToggleDelete:
			if err := tx.Delete(&models.Like{}, existing.ID).Error; err != nil {
				return err
			}
		case policy.ToggleRetype:
			if err := tx.Model(&existing).Update("type", likeType).Error; err != nil {
				return err
			}
		}

		return adjustLikesCount(tx, targetModel, targetID, outcome.CounterDelta)
	})
	if err != nil {
		return policy.ToggleOutcome{}, translateError(err, "Like", targetID)
	}
	return outcome, nil
}

func (r *likeRepository) TogglePostLike(ctx context.Context, userID, postID uint, likeType models.LikeType) (policy.ToggleOutcome, error) {
	outcome, err := r.toggle(ctx, userID, "post_id", postID, &models.Post{}, likeType, func(l *models.Like) {
		l.PostID = &postID
	})
	if err == nil && outcome.CounterDelta != 0 {
		// The public detail is cached under the slug key; drop it so the
		// next read sees the moved counter.
		evictPostDetail(ctx, r.db.WithContext(ctx), postID)
	}
	return outcome, err
}

func (r *likeRepository) ToggleCommentLike(ctx context.Context, userID, commentID uint, likeType models.LikeType) (policy.ToggleOutcome, error) {
	return r.toggle(ctx, userID, "comment_id", commentID, &models.Comment{}, likeType, func(l *models.Like) {
		l.CommentID = &commentID
	})
}

// LikedPostIDs returns which of the given posts the user has reacted to,
// used to decorate list responses.
func (r *likeRepository) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var liked []uint
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &liked).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return liked, nil
}

// GetForPost returns (nil, nil) when the user has no like on the post.
func (r *likeRepository) GetForPost(ctx context.Context, userID, postID uint) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &like, nil
}
