package service

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/policy"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

// UserService implements account lifecycle: registration, authentication
// (with optional TOTP second factor), profile management and the admin
// role/status controls.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService returns a UserService over the given repository.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Username, email, and password are required")
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("An account with this email already exists")
	}
	existing, err = s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Username is taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:    in.Username,
		Email:       email,
		Password:    string(hashed),
		DisplayName: in.DisplayName,
		Role:        models.RoleSubscriber,
		Status:      models.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials and, when the account has a second
// factor enabled, the TOTP code. Missing accounts and bad passwords are
// indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password, totpCode string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		observability.AuthFailures.WithLabelValues("bad_credentials").Inc()
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		observability.AuthFailures.WithLabelValues("bad_credentials").Inc()
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if !user.CanAuthenticate() {
		observability.AuthFailures.WithLabelValues("inactive").Inc()
		return nil, models.NewUnauthorizedError("Account is inactive")
	}

	if user.TwoFactorEnabled {
		if user.TOTPSecret == nil {
			return nil, models.NewInternalError(errors.New("two-factor enabled without a stored secret"))
		}
		if totpCode == "" {
			observability.AuthFailures.WithLabelValues("totp_required").Inc()
			return nil, models.NewUnauthorizedError("totp_code is required")
		}
		if !totp.Validate(totpCode, *user.TOTPSecret) {
			observability.AuthFailures.WithLabelValues("totp_invalid").Inc()
			return nil, models.NewUnauthorizedError("Invalid totp_code")
		}
	}

	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

type UpdateProfileInput struct {
	UserID      uint
	DisplayName *string
	Bio         *string
	Email       *string
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.DisplayName != nil {
		user.DisplayName = *in.DisplayName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Email != nil {
		if err := validation.ValidateEmail(*in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before accepting the new one.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return models.NewUnauthorizedError("Current password is incorrect")
	}
	if err := validation.ValidatePassword(next); err != nil {
		return models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hashed)
	return s.userRepo.Update(ctx, user)
}

// SetTOTPSecret stores a pending TOTP secret without enabling the factor.
func (s *UserService) SetTOTPSecret(ctx context.Context, userID uint, secret string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.TOTPSecret = &secret
	user.TwoFactorEnabled = false
	return s.userRepo.Update(ctx, user)
}

// EnableTwoFactor turns the second factor on after the user proves they
// hold the secret by presenting a valid code.
func (s *UserService) EnableTwoFactor(ctx context.Context, userID uint, code string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TOTPSecret == nil {
		return models.NewConflictError("two-factor setup has not been started")
	}
	if !totp.Validate(code, *user.TOTPSecret) {
		return models.NewValidationError("Invalid totp_code")
	}
	user.TwoFactorEnabled = true
	return s.userRepo.Update(ctx, user)
}

func (s *UserService) DisableTwoFactor(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.TOTPSecret = nil
	user.TwoFactorEnabled = false
	return s.userRepo.Update(ctx, user)
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
}

func (s *UserService) ListUsers(ctx context.Context, actor policy.Actor, limit, offset int) (*UserPage, error) {
	if !policy.Allows(actor, policy.OpUserManage, actor.ID) {
		return nil, models.NewPermissionDeniedError("user management requires admin access")
	}
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Total: total}, nil
}

// canAdministerTarget guards the admin mutations: super admins may only be
// touched by super admins, and nobody edits their own role or status.
func canAdministerTarget(actor policy.Actor, target *models.User) error {
	if !policy.Allows(actor, policy.OpUserManage, actor.ID) {
		return models.NewPermissionDeniedError("user management requires admin access")
	}
	if actor.ID == target.ID {
		return models.NewConflictError("cannot change your own account here")
	}
	if target.Role == models.RoleSuperAdmin && actor.Role != models.RoleSuperAdmin {
		return models.NewPermissionDeniedError("only a super admin may modify a super admin")
	}
	return nil
}

func (s *UserService) ChangeRole(ctx context.Context, actor policy.Actor, targetID uint, role models.UserRole) (*models.User, error) {
	if !role.Valid() {
		return nil, models.NewValidationError("Invalid role")
	}
	if role == models.RoleSuperAdmin && actor.Role != models.RoleSuperAdmin {
		return nil, models.NewPermissionDeniedError("only a super admin may grant super admin")
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := canAdministerTarget(actor, target); err != nil {
		return nil, err
	}

	target.Role = role
	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *UserService) ChangeStatus(ctx context.Context, actor policy.Actor, targetID uint, status models.UserStatus) (*models.User, error) {
	if status != models.UserStatusActive && status != models.UserStatusInactive {
		return nil, models.NewValidationError("Invalid status")
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := canAdministerTarget(actor, target); err != nil {
		return nil, err
	}

	target.Status = status
	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}
