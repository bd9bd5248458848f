// Package bootstrap wires the runtime dependencies a process needs before
// serving traffic: database, Redis, the development root admin and the
// default site settings.
package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitRuntime connects to DB and Redis and ensures baseline data exists.
func InitRuntime(cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// May leave a nil client if Redis is unreachable; the server degrades
	// to read-only auth (no refresh tokens) and reports it as unready.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureDevRootAdmin(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development root admin: %w", err)
	}

	if err := EnsureDefaultSettings(db); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure default settings: %w", err)
	}

	return db, r, nil
}

// EnsureDefaultSettings inserts the site settings every installation needs,
// skipping any key an operator has already created.
func EnsureDefaultSettings(db *gorm.DB) error {
	defaults := []models.Setting{
		{Key: "site.title", Value: "Inkwell", Type: models.SettingTypeString, IsPublic: true, IsEditable: true},
		{Key: "site.description", Value: "A headless publishing platform", Type: models.SettingTypeString, IsPublic: true, IsEditable: true},
		{Key: "site.posts_per_page", Value: "20", Type: models.SettingTypeNumber, IsPublic: true, IsEditable: true},
		{Key: "comments.enabled", Value: "true", Type: models.SettingTypeBoolean, IsPublic: true, IsEditable: true},
		{Key: "comments.guest_allowed", Value: "true", Type: models.SettingTypeBoolean, IsPublic: true, IsEditable: true},
		{Key: "schema.version", Value: "1", Type: models.SettingTypeNumber, IsPublic: false, IsEditable: false},
	}

	for _, setting := range defaults {
		var existing models.Setting
		err := db.Where("key = ?", setting.Key).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&setting).Error; err != nil {
				return fmt.Errorf("create setting %q: %w", setting.Key, err)
			}
		case err != nil:
			return err
		}
	}
	return nil
}

// ensureDevRootAdmin guarantees user ID 1 is a super admin in development.
// It never runs outside APP_ENV=development.
func ensureDevRootAdmin(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapRoot {
		return nil
	}

	username := strings.TrimSpace(cfg.DevRootUsername)
	if username == "" {
		username = "inkwell_root"
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevRootEmail))
	if email == "" {
		email = "root@inkwell.local"
	}
	password := cfg.DevRootPassword
	if password == "" {
		return fmt.Errorf("DEV_ROOT_PASSWORD must be set when DEV_BOOTSTRAP_ROOT is enabled")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash root password: %w", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		var root models.User
		findErr := tx.First(&root, 1).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			root = models.User{
				ID:       1,
				Username: username,
				Email:    email,
				Password: string(hashedPassword),
				Role:     models.RoleSuperAdmin,
				Status:   models.UserStatusActive,
			}
			if err := tx.Create(&root).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		default:
			updates := map[string]any{"role": string(models.RoleSuperAdmin)}
			if cfg.DevRootForceCredentials {
				updates["username"] = username
				updates["email"] = email
				updates["password"] = string(hashedPassword)
			}
			if err := tx.Model(&models.User{}).Where("id = ?", 1).Updates(updates).Error; err != nil {
				return err
			}
		}

		// Ensure users ID sequence is not behind explicit ID insertion.
		// This is PostgreSQL-specific.
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec(`
				SELECT setval(
					pg_get_serial_sequence('users', 'id'),
					GREATEST((SELECT COALESCE(MAX(id), 1) FROM users), 1),
					true
				)
			`).Error; err != nil {
				return fmt.Errorf("failed to reset users sequence: %w", err)
			}
		}

		return nil
	}); err != nil {
		return err
	}

	log.Printf("development root admin bootstrap ensured for user ID 1 (%s)", email)
	return nil
}
