package service

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc := NewUserService(noopUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "writer",
		Email:    "writer@example.com",
		Password: "short",
	})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{Email: "writer@example.com"}, nil
	}

	svc := NewUserService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "writer",
		Email:    "Writer@Example.com",
		Password: "Sufficient1Pass!",
	})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestRegisterHashesAndDefaultsRole(t *testing.T) {
	var saved *models.User
	repo := noopUserRepo()
	repo.createFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}

	svc := NewUserService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "writer",
		Email:    "Writer@Example.com",
		Password: "Sufficient1Pass!",
	})

	require.NoError(t, err)
	assert.Equal(t, "writer@example.com", saved.Email)
	assert.Equal(t, models.RoleSubscriber, saved.Role)
	assert.Equal(t, models.UserStatusActive, saved.Status)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("Sufficient1Pass!")))
}

func TestAuthenticateBadPasswordIsUnauthorized(t *testing.T) {
	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{
			Password: hashFor(t, "Sufficient1Pass!"),
			Status:   models.UserStatusActive,
		}, nil
	}

	svc := NewUserService(repo)
	_, err := svc.Authenticate(context.Background(), "writer@example.com", "wrong", "")

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

func TestAuthenticateInactiveAccountRejected(t *testing.T) {
	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{
			Password: hashFor(t, "Sufficient1Pass!"),
			Status:   models.UserStatusInactive,
		}, nil
	}

	svc := NewUserService(repo)
	_, err := svc.Authenticate(context.Background(), "writer@example.com", "Sufficient1Pass!", "")

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

func TestAuthenticateTwoFactorDemandsCode(t *testing.T) {
	secret := "JBSWY3DPEHPK3PXP"
	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{
			Password:         hashFor(t, "Sufficient1Pass!"),
			Status:           models.UserStatusActive,
			TwoFactorEnabled: true,
			TOTPSecret:       &secret,
		}, nil
	}

	svc := NewUserService(repo)
	_, err := svc.Authenticate(context.Background(), "writer@example.com", "Sufficient1Pass!", "")

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
	assert.Contains(t, appErr.Message, "totp_code")
}

func TestAuthenticateTwoFactorWithoutSecretIsInternal(t *testing.T) {
	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{
			Password:         hashFor(t, "Sufficient1Pass!"),
			Status:           models.UserStatusActive,
			TwoFactorEnabled: true,
		}, nil
	}

	svc := NewUserService(repo)
	_, err := svc.Authenticate(context.Background(), "writer@example.com", "Sufficient1Pass!", "123456")

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INTERNAL_ERROR", appErr.Code)
	require.Error(t, appErr.Err, "the cause must name the broken state for the log line")
	assert.Contains(t, appErr.Err.Error(), "two-factor")
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
		return &models.User{Password: hashFor(t, "Sufficient1Pass!")}, nil
	}

	svc := NewUserService(repo)
	err := svc.ChangePassword(context.Background(), 3, "wrong", "AnotherGood1Pass!")

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

func TestChangeRoleSuperAdminGuard(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		u := &models.User{Role: models.RoleSuperAdmin}
		u.ID = id
		return u, nil
	}

	svc := NewUserService(repo)
	admin := policy.Actor{ID: 1, Role: models.RoleAdmin}

	// An admin may not demote a super admin.
	_, err := svc.ChangeRole(context.Background(), admin, 2, models.RoleSubscriber)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PERMISSION_DENIED", appErr.Code)

	// Nor grant super admin.
	_, err = svc.ChangeRole(context.Background(), admin, 2, models.RoleSuperAdmin)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PERMISSION_DENIED", appErr.Code)
}

func TestChangeRoleCannotTargetSelf(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		u := &models.User{Role: models.RoleAdmin}
		u.ID = id
		return u, nil
	}

	svc := NewUserService(repo)
	_, err := svc.ChangeRole(context.Background(), policy.Actor{ID: 2, Role: models.RoleAdmin}, 2, models.RoleEditor)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestChangeStatusByAdmin(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		u := &models.User{Role: models.RoleAuthor, Status: models.UserStatusActive}
		u.ID = id
		return u, nil
	}
	var saved *models.User
	repo.updateFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}

	svc := NewUserService(repo)
	_, err := svc.ChangeStatus(context.Background(), policy.Actor{ID: 1, Role: models.RoleAdmin}, 3, models.UserStatusInactive)

	require.NoError(t, err)
	assert.Equal(t, models.UserStatusInactive, saved.Status)
}

func TestListUsersRequiresAdmin(t *testing.T) {
	svc := NewUserService(noopUserRepo())

	_, err := svc.ListUsers(context.Background(), policy.Actor{ID: 1, Role: models.RoleEditor}, 20, 0)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PERMISSION_DENIED", appErr.Code)
}
