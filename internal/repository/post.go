package repository

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/policy"

	"gorm.io/gorm"
)

// PostListOptions narrows a post listing. Visibility carries the scope the
// policy layer resolved for the requesting actor; the remaining fields are
// caller-chosen filters applied on top of it.
type PostListOptions struct {
	Visibility policy.PostListFilter
	Status     models.PostStatus
	Type       models.PostType
	AuthorID   uint
	CategoryID uint
	TagID      uint
	Search     string
	Sort       string
	Limit      int
	Offset     int
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context, opts PostListOptions) ([]*models.Post, error)
	Count(ctx context.Context, opts PostListOptions) (int64, error)
	Update(ctx context.Context, post *models.Post) error
	ApplyChanges(ctx context.Context, post *models.Post, changes map[string]any) error
	ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error
	PermanentDelete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return translateError(err, "Post", post.Slug)
	}
	return nil
}

func (r *postRepository) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Preload("FeaturedMedia")
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.preload(r.db.WithContext(ctx)).First(&post, id).Error; err != nil {
		return nil, translateError(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.preload(r.db.WithContext(ctx)).
		Where("slug = ?", slug).
		First(&post).Error; err != nil {
		return nil, translateError(err, "Post", slug)
	}
	return &post, nil
}

// GetPublishedBySlug serves the public read path. Only rows that are already
// publicly visible are queried, so the cached copy can never leak a draft or
// a scheduled post.
func (r *postRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	key := cache.PostSlugKey(slug)

	err := cache.CacheAside(ctx, key, &post, cache.PostTTL, func() error {
		if err := r.preload(r.db.WithContext(ctx)).
			Where("slug = ? AND status = ? AND published_at <= ?",
				slug, models.PostStatusPublished, time.Now()).
			First(&post).Error; err != nil {
			return translateError(err, "Post", slug)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// applyVisibility restricts the query to rows the actor may see. Explicit
// status browsing by non-editors is always scoped to their own posts, which
// is how authors reach their drafts and trash.
func (r *postRepository) applyVisibility(db *gorm.DB, opts PostListOptions) *gorm.DB {
	v := opts.Visibility
	if v.Everything {
		if opts.Status != "" {
			return db.Where("posts.status = ?", opts.Status)
		}
		// Trash stays out of general listings even for editors.
		return db.Where("posts.status <> ?", models.PostStatusTrash)
	}

	if opts.Status != "" && v.AuthorID != 0 {
		return db.Where("posts.author_id = ? AND posts.status = ?", v.AuthorID, opts.Status)
	}

	if v.AuthorID != 0 {
		return db.Where(
			"(posts.status = ? AND posts.published_at <= ?) OR (posts.author_id = ? AND posts.status <> ?)",
			models.PostStatusPublished, time.Now(), v.AuthorID, models.PostStatusTrash,
		)
	}
	return db.Where("posts.status = ? AND posts.published_at <= ?",
		models.PostStatusPublished, time.Now())
}

func (r *postRepository) applyFilters(db *gorm.DB, opts PostListOptions) *gorm.DB {
	db = r.applyVisibility(db, opts)

	if opts.Type != "" {
		db = db.Where("posts.type = ?", opts.Type)
	}
	if opts.AuthorID != 0 {
		db = db.Where("posts.author_id = ?", opts.AuthorID)
	}
	if opts.CategoryID != 0 {
		db = db.Where("posts.category_id = ?", opts.CategoryID)
	}
	if opts.TagID != 0 {
		db = db.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Where("post_tags.tag_id = ?", opts.TagID)
	}
	if q := strings.TrimSpace(opts.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ?", like, like)
	}
	return db
}

// applySort appends the ORDER BY clause for the requested sort type. The
// counter columns are persisted, so sorting by them needs no subqueries.
func (r *postRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "oldest":
		return db.Order("posts.created_at ASC")
	case "views":
		return db.Order("posts.views_count DESC, posts.created_at DESC")
	case "likes", "popular":
		return db.Order("posts.likes_count DESC, posts.created_at DESC")
	case "title":
		return db.Order("posts.title ASC")
	case "published":
		return db.Order("posts.published_at DESC")
	default: // "new" and anything unrecognized
		return db.Order("posts.created_at DESC")
	}
}

func (r *postRepository) List(ctx context.Context, opts PostListOptions) ([]*models.Post, error) {
	var posts []*models.Post
	db := r.applyFilters(r.preload(r.db.WithContext(ctx)), opts)
	err := r.applySort(db, opts.Sort).
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context, opts PostListOptions) (int64, error) {
	var count int64
	db := r.applyFilters(r.db.WithContext(ctx).Model(&models.Post{}), opts)
	if err := db.Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return translateError(err, "Post", post.ID)
	}
	cache.InvalidatePost(ctx, post.ID, post.Slug)
	return nil
}

// ApplyChanges writes only the given columns, which is how evaluated field
// effects (slug, reading_time, published_at, status) reach the row without
// clobbering concurrent counter updates.
func (r *postRepository) ApplyChanges(ctx context.Context, post *models.Post, changes map[string]any) error {
	if len(changes) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(post).Updates(changes).Error; err != nil {
		return translateError(err, "Post", post.ID)
	}
	cache.InvalidatePost(ctx, post.ID, post.Slug)
	return nil
}

func (r *postRepository) ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error {
	if err := r.db.WithContext(ctx).Model(post).Association("Tags").Replace(tags); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID, post.Slug)
	return nil
}

// PermanentDelete removes the post row together with its likes, comments,
// comment likes, and tag links. Used for emptying trash; the regular delete
// operation only moves posts to the trash status.
func (r *postRepository) PermanentDelete(ctx context.Context, id uint) error {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return translateError(err, "Post", id)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM likes WHERE comment_id IN (SELECT id FROM comments WHERE post_id = ?)", id,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return translateError(err, "Post", id)
	}

	cache.InvalidatePost(ctx, id, post.Slug)
	return nil
}

// IncrementViews bumps the view counter without touching updated_at.
func (r *postRepository) IncrementViews(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&models.Post{}).Where("slug = ?", slug)
	if excludeID != 0 {
		db = db.Where("id <> ?", excludeID)
	}
	if err := db.Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
