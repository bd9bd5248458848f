package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// MediaRepository defines persistence operations for the media library.
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id uint) (*models.Media, error)
	List(ctx context.Context, uploaderID uint, limit, offset int) ([]models.Media, error)
	Count(ctx context.Context, uploaderID uint) (int64, error)
	Update(ctx context.Context, media *models.Media) error
	Delete(ctx context.Context, id uint) error
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository returns a new MediaRepository implementation.
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *models.Media) error {
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return translateError(err, "Media", media.FileName)
	}
	return nil
}

func (r *mediaRepository) GetByID(ctx context.Context, id uint) (*models.Media, error) {
	var media models.Media
	if err := r.db.WithContext(ctx).First(&media, id).Error; err != nil {
		return nil, translateError(err, "Media", id)
	}
	return &media, nil
}

func (r *mediaRepository) List(ctx context.Context, uploaderID uint, limit, offset int) ([]models.Media, error) {
	db := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset)
	if uploaderID != 0 {
		db = db.Where("uploader_id = ?", uploaderID)
	}
	var media []models.Media
	if err := db.Find(&media).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return media, nil
}

func (r *mediaRepository) Count(ctx context.Context, uploaderID uint) (int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Media{})
	if uploaderID != 0 {
		db = db.Where("uploader_id = ?", uploaderID)
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *mediaRepository) Update(ctx context.Context, media *models.Media) error {
	if err := r.db.WithContext(ctx).Save(media).Error; err != nil {
		return translateError(err, "Media", media.ID)
	}
	return nil
}

// Delete removes the media row after clearing featured-image references so no
// post is left pointing at a missing file.
func (r *mediaRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("featured_media_id = ?", id).
			Update("featured_media_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Media{}, id).Error
	})
	if err != nil {
		return translateError(err, "Media", id)
	}
	return nil
}
