package models

import "time"

// LikeType is the reaction attached to a like.
type LikeType string

const (
	LikeTypeLike    LikeType = "like"
	LikeTypeDislike LikeType = "dislike"
	LikeTypeLove    LikeType = "love"
	LikeTypeLaugh   LikeType = "laugh"
	LikeTypeAngry   LikeType = "angry"
	LikeTypeSad     LikeType = "sad"
)

// Valid reports whether t is a known like type.
func (t LikeType) Valid() bool {
	switch t {
	case LikeTypeLike, LikeTypeDislike, LikeTypeLove, LikeTypeLaugh, LikeTypeAngry, LikeTypeSad:
		return true
	}
	return false
}

// Like represents one user's reaction to exactly one post or one comment.
// The check constraint enforces exactly-one-target; the two partial unique
// indexes enforce at most one like per user per target. A user changing
// their reaction retypes the existing row instead of creating a second one.
type Like struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index;uniqueIndex:idx_likes_user_post,where:post_id IS NOT NULL;uniqueIndex:idx_likes_user_comment,where:comment_id IS NOT NULL" json:"user_id"`

	PostID    *uint `gorm:"uniqueIndex:idx_likes_user_post,where:post_id IS NOT NULL;check:chk_likes_one_target,(post_id IS NULL) <> (comment_id IS NULL)" json:"post_id,omitempty"`
	CommentID *uint `gorm:"uniqueIndex:idx_likes_user_comment,where:comment_id IS NOT NULL" json:"comment_id,omitempty"`

	Type LikeType `gorm:"type:varchar(20);not null;default:'like'" json:"type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User    User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Post    *Post    `gorm:"foreignKey:PostID" json:"-"`
	Comment *Comment `gorm:"foreignKey:CommentID" json:"-"`
}
