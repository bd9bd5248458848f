// Package testutil provides shared database, cache and config fixtures for
// tests that exercise real repositories end to end.
package testutil

import (
	"fmt"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB opens an isolated in-memory sqlite database with the full schema
// migrated. Each call returns a fresh database.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache DSN keeps the in-memory database alive across
	// the pooled connections GORM opens.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewRedis starts a miniredis instance and returns a client bound to it.
// Both are torn down with the test.
func NewRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// TestConfig returns a config suitable for in-process test servers.
func TestConfig() *config.Config {
	return &config.Config{
		JWTSecret:             "test-secret-key-for-tests-only",
		Port:                  "0",
		Env:                   "test",
		AllowedOrigins:        "http://localhost:5173",
		FeatureFlags:          "related_posts=on,guest_comments=on",
		AccessTokenTTLMinutes: 15,
		RefreshTokenTTLHours:  168,
		MediaBaseURL:          "http://localhost:8080/media",
		MediaMaxSizeMB:        10,
	}
}
