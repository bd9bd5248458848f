package repository

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Tree(ctx context.Context) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint, reassignTo uint) error
	CountPosts(ctx context.Context, id uint) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return translateError(err, "Category", category.Slug)
	}
	cache.InvalidateCategoryTree(ctx)
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translateError(err, "Category", id)
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, translateError(err, "Category", slug)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

// Tree returns root categories with their children nested, assembled in
// memory from a single query over the whole table.
func (r *categoryRepository) Tree(ctx context.Context) ([]*models.Category, error) {
	var roots []*models.Category
	err := cache.CacheAside(ctx, cache.CategoryTreeKey, &roots, cache.CategoryTreeTTL, func() error {
		var all []*models.Category
		if err := r.db.WithContext(ctx).Order("name ASC").Find(&all).Error; err != nil {
			return models.NewInternalError(err)
		}

		byID := make(map[uint]*models.Category, len(all))
		for _, c := range all {
			byID[c.ID] = c
		}
		for _, c := range all {
			if c.ParentID == nil {
				roots = append(roots, c)
				continue
			}
			if parent, ok := byID[*c.ParentID]; ok {
				parent.Children = append(parent.Children, *c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return roots, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return translateError(err, "Category", category.ID)
	}
	cache.InvalidateCategoryTree(ctx)
	return nil
}

// Delete removes the category after flattening its subtree one level (children
// adopt the deleted node's parent) and reassigning attached posts to
// reassignTo. The caller must have verified that a target exists whenever
// posts are attached; reassignTo of zero clears category_id, which is only
// reachable for categories without posts.
func (r *categoryRepository) Delete(ctx context.Context, id uint, reassignTo uint) error {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return translateError(err, "Category", id)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Category{}).
			Where("parent_id = ?", id).
			Update("parent_id", category.ParentID).Error; err != nil {
			return err
		}

		var target any
		if reassignTo != 0 {
			target = reassignTo
		}
		if err := tx.Model(&models.Post{}).
			Where("category_id = ?", id).
			Update("category_id", target).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Category{}, id).Error
	})
	if err != nil {
		return translateError(err, "Category", id)
	}

	cache.InvalidateCategoryTree(ctx)
	return nil
}

func (r *categoryRepository) CountPosts(ctx context.Context, id uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("category_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
