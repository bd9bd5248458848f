package bootstrap

import (
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestEnsureDefaultSettingsIsIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)

	require.NoError(t, EnsureDefaultSettings(db))
	require.NoError(t, EnsureDefaultSettings(db))

	var count int64
	require.NoError(t, db.Model(&models.Setting{}).Count(&count).Error)
	assert.Equal(t, int64(6), count)

	// operator overrides survive re-runs
	require.NoError(t, db.Model(&models.Setting{}).Where("key = ?", "site.title").
		Update("value", "My Site").Error)
	require.NoError(t, EnsureDefaultSettings(db))

	var setting models.Setting
	require.NoError(t, db.Where("key = ?", "site.title").First(&setting).Error)
	assert.Equal(t, "My Site", setting.Value)
}

func TestEnsureDevRootAdmin(t *testing.T) {
	db := testutil.OpenDB(t)
	cfg := &config.Config{
		Env:              "development",
		DevBootstrapRoot: true,
		DevRootPassword:  "Root-password-123!",
	}

	require.NoError(t, ensureDevRootAdmin(cfg, db))

	var root models.User
	require.NoError(t, db.First(&root, 1).Error)
	assert.Equal(t, models.RoleSuperAdmin, root.Role)
	assert.Equal(t, "inkwell_root", root.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(root.Password), []byte("Root-password-123!")))

	// a demoted root is promoted back on the next boot
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", 1).
		Update("role", string(models.RoleSubscriber)).Error)
	require.NoError(t, ensureDevRootAdmin(cfg, db))
	require.NoError(t, db.First(&root, 1).Error)
	assert.Equal(t, models.RoleSuperAdmin, root.Role)
}

func TestEnsureDevRootAdminSkippedOutsideDevelopment(t *testing.T) {
	db := testutil.OpenDB(t)
	cfg := &config.Config{
		Env:              "production",
		DevBootstrapRoot: true,
		DevRootPassword:  "Root-password-123!",
	}

	require.NoError(t, ensureDevRootAdmin(cfg, db))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEnsureDevRootAdminRequiresPassword(t *testing.T) {
	db := testutil.OpenDB(t)
	cfg := &config.Config{Env: "development", DevBootstrapRoot: true}

	err := ensureDevRootAdmin(cfg, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEV_ROOT_PASSWORD")
}
