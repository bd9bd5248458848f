package database

import "inkwell/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM
// models, ordered so referenced tables migrate before their dependents.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.Media{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Setting{},
	}
}
