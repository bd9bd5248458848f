package repository

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// SettingRepository defines persistence operations for site settings.
type SettingRepository interface {
	GetByKey(ctx context.Context, key string) (*models.Setting, error)
	List(ctx context.Context) ([]models.Setting, error)
	PublicValues(ctx context.Context) (map[string]string, error)
	Create(ctx context.Context, setting *models.Setting) error
	Update(ctx context.Context, setting *models.Setting) error
	Delete(ctx context.Context, key string) error
}

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository returns a new SettingRepository implementation.
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) GetByKey(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		return nil, translateError(err, "Setting", key)
	}
	return &setting, nil
}

func (r *settingRepository) List(ctx context.Context) ([]models.Setting, error) {
	var settings []models.Setting
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return settings, nil
}

// PublicValues returns the key/value map served to anonymous clients,
// cached as one unit since public settings change rarely and are read on
// every page render.
func (r *settingRepository) PublicValues(ctx context.Context) (map[string]string, error) {
	values := map[string]string{}
	err := cache.CacheAside(ctx, cache.PublicSettingsKey, &values, cache.PublicSettingsTTL, func() error {
		var settings []models.Setting
		if err := r.db.WithContext(ctx).Where("is_public = ?", true).Find(&settings).Error; err != nil {
			return models.NewInternalError(err)
		}
		for _, s := range settings {
			values[s.Key] = s.Value
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (r *settingRepository) Create(ctx context.Context, setting *models.Setting) error {
	if err := r.db.WithContext(ctx).Create(setting).Error; err != nil {
		return translateError(err, "Setting", setting.Key)
	}
	cache.InvalidatePublicSettings(ctx)
	return nil
}

func (r *settingRepository) Update(ctx context.Context, setting *models.Setting) error {
	if err := r.db.WithContext(ctx).Save(setting).Error; err != nil {
		return translateError(err, "Setting", setting.Key)
	}
	cache.InvalidatePublicSettings(ctx)
	return nil
}

func (r *settingRepository) Delete(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Where("key = ?", key).Delete(&models.Setting{})
	if result.Error != nil {
		return translateError(result.Error, "Setting", key)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Setting", key)
	}
	cache.InvalidatePublicSettings(ctx)
	return nil
}
