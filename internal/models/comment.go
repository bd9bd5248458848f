package models

import (
	"time"

	"gorm.io/gorm"
)

// CommentStatus represents a comment's moderation state.
type CommentStatus string

const (
	// CommentStatusPending awaits moderation; the default for new comments.
	CommentStatusPending CommentStatus = "pending"
	// CommentStatusApproved is publicly visible and counted on the post.
	CommentStatusApproved CommentStatus = "approved"
	// CommentStatusSpam is hidden, flagged by moderation.
	CommentStatusSpam CommentStatus = "spam"
	// CommentStatusTrash is soft-deleted, kept for recovery.
	CommentStatusTrash CommentStatus = "trash"
)

// Valid reports whether s is a known comment status.
func (s CommentStatus) Valid() bool {
	switch s {
	case CommentStatusPending, CommentStatusApproved, CommentStatusSpam, CommentStatusTrash:
		return true
	}
	return false
}

// Comment represents reader feedback on a post. UserID is nil for guest
// comments, which carry their author identity in GuestName/GuestEmail.
type Comment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`

	PostID uint  `gorm:"not null;index" json:"post_id"`
	Post   *Post `gorm:"foreignKey:PostID" json:"post,omitempty"`

	UserID *uint `gorm:"index" json:"user_id,omitempty"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	GuestName  string `gorm:"type:varchar(100)" json:"guest_name,omitempty"`
	GuestEmail string `gorm:"type:varchar(255)" json:"guest_email,omitempty"`

	ParentID *uint    `gorm:"index" json:"parent_id,omitempty"`
	Parent   *Comment `gorm:"foreignKey:ParentID" json:"-"`

	// Replies is populated only by the threaded listing.
	Replies []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`

	Status CommentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	// IsReply always equals ParentID != nil; kept consistent by BeforeSave
	// and never accepted from input.
	IsReply bool `gorm:"not null;default:false" json:"is_reply"`

	LikesCount int `gorm:"not null;default:0" json:"likes_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeSave derives IsReply from ParentID on every write.
func (c *Comment) BeforeSave(_ *gorm.DB) error {
	c.IsReply = c.ParentID != nil
	return nil
}

// AuthorLabel returns the display name for the comment's author,
// falling back to the guest name for anonymous comments.
func (c *Comment) AuthorLabel() string {
	if c.User != nil && c.User.Username != "" {
		return c.User.Username
	}
	if c.GuestName != "" {
		return c.GuestName
	}
	return "Anonymous"
}
