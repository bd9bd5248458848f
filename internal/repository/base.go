// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/database"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// translateError maps driver and GORM errors to application errors. Not-found
// is reported against the given resource and key; duplicate keys surface as
// conflicts so handlers can answer 409, named after the violated field when
// the driver reports the constraint.
func translateError(err error, resource string, key any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource, key)
	case database.IsUniqueViolation(err):
		if field := conflictField(database.ConstraintName(err)); field != "" {
			return models.NewConflictError(resource + " " + field + " already exists")
		}
		return models.NewConflictError(resource + " already exists")
	case database.IsForeignKeyViolation(err):
		return models.NewIntegrityError(resource + " references a missing record")
	case database.IsCheckViolation(err):
		return models.NewIntegrityError(resource + " violates a database constraint")
	default:
		return models.NewInternalError(err)
	}
}

// conflictField turns a unique constraint name like "idx_posts_slug" or
// "uni_users_email" into the column it guards. Names that do not follow the
// prefix_table_column shape yield "" and the caller falls back to the
// generic message.
func conflictField(constraint string) string {
	parts := strings.Split(constraint, "_")
	if len(parts) < 3 {
		return ""
	}
	switch parts[0] {
	case "idx", "uni", "uq", "unique":
		return strings.Join(parts[2:], "_")
	default:
		return ""
	}
}

// evictPostDetail drops the cached public detail of a post whose persisted
// counters were moved outside the post repository. The slug lookup only runs
// when a cache client is configured.
func evictPostDetail(ctx context.Context, db *gorm.DB, postID uint) {
	if !cache.Enabled() {
		return
	}
	var slug string
	err := db.Model(&models.Post{}).Where("id = ?", postID).Pluck("slug", &slug).Error
	if err != nil || slug == "" {
		return
	}
	cache.InvalidatePost(ctx, postID, slug)
}
