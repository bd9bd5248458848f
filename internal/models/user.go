// Package models contains data structures for the application's domain models.
package models

import "time"

// UserRole defines a user's site-wide role. Roles are ranked; every role
// includes the capabilities of the ranks below it.
type UserRole string

const (
	// RoleSuperAdmin has full control, including managing other admins.
	RoleSuperAdmin UserRole = "super_admin"
	// RoleAdmin manages all content, users and settings.
	RoleAdmin UserRole = "admin"
	// RoleEditor manages all content regardless of ownership.
	RoleEditor UserRole = "editor"
	// RoleAuthor creates and manages only their own content.
	RoleAuthor UserRole = "author"
	// RoleSubscriber is the default role: read, comment, like.
	RoleSubscriber UserRole = "subscriber"
)

// roleRanks orders roles for minimum-role checks.
var roleRanks = map[UserRole]int{
	RoleSubscriber: 0,
	RoleAuthor:     1,
	RoleEditor:     2,
	RoleAdmin:      3,
	RoleSuperAdmin: 4,
}

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// AtLeast reports whether r ranks at or above min.
func (r UserRole) AtLeast(min UserRole) bool {
	return roleRanks[r] >= roleRanks[min]
}

// UserStatus marks whether an account may authenticate.
type UserStatus string

const (
	// UserStatusActive is the default account status.
	UserStatusActive UserStatus = "active"
	// UserStatusInactive blocks authentication without deleting the account.
	UserStatusInactive UserStatus = "inactive"
)

// User represents an account in the Inkwell application.
type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Username         string     `gorm:"unique;not null" json:"username"`
	Email            string     `gorm:"unique;not null" json:"email"`
	Password         string     `gorm:"not null" json:"-"`
	Role             UserRole   `gorm:"type:varchar(20);not null;default:'subscriber';index" json:"role"`
	Status           UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	DisplayName      string     `json:"display_name"`
	Bio              string     `json:"bio"`
	TOTPSecret       *string    `gorm:"type:varchar(64)" json:"-"`
	TwoFactorEnabled bool       `gorm:"not null;default:false" json:"two_factor_enabled"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Posts            []Post     `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

// CanAuthenticate reports whether the account is allowed to log in or
// exchange tokens.
func (u *User) CanAuthenticate() bool {
	return u.Status == UserStatusActive
}
