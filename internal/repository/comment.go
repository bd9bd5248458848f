package repository

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/policy"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comments. Status
// transitions and removals adjust the owning post's comments_count inside the
// same transaction; the guarded decrement keeps the counter from going
// negative if state drifted.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment, counterDelta int) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint, statuses []models.CommentStatus, limit, offset int) ([]*models.Comment, error)
	ListByStatus(ctx context.Context, status models.CommentStatus, limit, offset int) ([]*models.Comment, error)
	CountByStatus(ctx context.Context, status models.CommentStatus) (int64, error)
	UpdateContent(ctx context.Context, comment *models.Comment) error
	UpdateStatus(ctx context.Context, comment *models.Comment, status models.CommentStatus, counterDelta int) error
	Delete(ctx context.Context, comment *models.Comment) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func adjustCommentsCount(tx *gorm.DB, postID uint, delta int) error {
	if delta == 0 {
		return nil
	}
	db := tx.Model(&models.Post{})
	if delta < 0 {
		db = db.Where("id = ? AND comments_count >= ?", postID, -delta)
	} else {
		db = db.Where("id = ?", postID)
	}
	return db.UpdateColumn("comments_count", gorm.Expr("comments_count + ?", delta)).Error
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment, counterDelta int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return adjustCommentsCount(tx, comment.PostID, counterDelta)
	})
	if err != nil {
		return translateError(err, "Comment", comment.PostID)
	}
	if counterDelta != 0 {
		evictPostDetail(ctx, r.db.WithContext(ctx), comment.PostID)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, translateError(err, "Comment", id)
	}
	return &comment, nil
}

// ListByPost returns top-level comments with replies nested one level, both
// restricted to the given statuses.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint, statuses []models.CommentStatus, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Where("status IN ?", statuses).Order("created_at ASC").Preload("User")
		}).
		Where("post_id = ? AND parent_id IS NULL AND status IN ?", postID, statuses).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// ListByStatus feeds the moderation queue.
func (r *commentRepository) ListByStatus(ctx context.Context, status models.CommentStatus, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) CountByStatus(ctx context.Context, status models.CommentStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Model(comment).Update("content", comment.Content).Error; err != nil {
		return translateError(err, "Comment", comment.ID)
	}
	return nil
}

func (r *commentRepository) UpdateStatus(ctx context.Context, comment *models.Comment, status models.CommentStatus, counterDelta int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(comment).Update("status", status).Error; err != nil {
			return err
		}
		return adjustCommentsCount(tx, comment.PostID, counterDelta)
	})
	if err != nil {
		return translateError(err, "Comment", comment.ID)
	}
	if counterDelta != 0 {
		evictPostDetail(ctx, r.db.WithContext(ctx), comment.PostID)
	}
	return nil
}

// Delete removes the comment, its direct replies, and any likes on them,
// decrementing the post counter by the number of approved comments removed.
func (r *commentRepository) Delete(ctx context.Context, comment *models.Comment) error {
	var delta int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var replies []models.Comment
		if err := tx.Where("parent_id = ?", comment.ID).Find(&replies).Error; err != nil {
			return err
		}

		delta = policy.CommentRemovalDelta(comment.Status)
		ids := make([]uint, 0, len(replies)+1)
		ids = append(ids, comment.ID)
		for _, reply := range replies {
			delta += policy.CommentRemovalDelta(reply.Status)
			ids = append(ids, reply.ID)
		}

		if err := tx.Where("comment_id IN ?", ids).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return adjustCommentsCount(tx, comment.PostID, delta)
	})
	if err != nil {
		return translateError(err, "Comment", comment.ID)
	}
	if delta != 0 {
		evictPostDetail(ctx, r.db.WithContext(ctx), comment.PostID)
	}
	return nil
}
