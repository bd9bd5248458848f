package models

import (
	"time"
)

// PostStatus represents where a post sits in its publication lifecycle.
type PostStatus string

const (
	// PostStatusDraft is work in progress, visible to its author and editors.
	PostStatusDraft PostStatus = "draft"
	// PostStatusPublished is publicly visible once published_at has passed.
	PostStatusPublished PostStatus = "published"
	// PostStatusPrivate is finished content restricted to privileged readers.
	PostStatusPrivate PostStatus = "private"
	// PostStatusPending awaits editorial review.
	PostStatusPending PostStatus = "pending"
	// PostStatusTrash is soft-deleted content kept for recovery.
	PostStatusTrash PostStatus = "trash"
)

// Valid reports whether s is a known post status.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusPrivate, PostStatusPending, PostStatusTrash:
		return true
	}
	return false
}

// PostType distinguishes the content kinds sharing the posts table.
type PostType string

const (
	// PostTypePost is a regular blog post.
	PostTypePost PostType = "post"
	// PostTypePage is standalone site content.
	PostTypePage PostType = "page"
	// PostTypeProduct is commerce content.
	PostTypeProduct PostType = "product"
	// PostTypeEvent is dated event content.
	PostTypeEvent PostType = "event"
)

// Valid reports whether t is a known post type.
func (t PostType) Valid() bool {
	switch t {
	case PostTypePost, PostTypePage, PostTypeProduct, PostTypeEvent:
		return true
	}
	return false
}

// Post represents a content entry in the Inkwell application. Counters are
// persisted columns maintained transactionally alongside the writes that
// change them, never recomputed per request.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"not null" json:"title"`
	Slug    string `gorm:"uniqueIndex;not null" json:"slug"`
	Content string `gorm:"type:text" json:"content"`
	Excerpt string `gorm:"type:text" json:"excerpt"`

	Status PostStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Type   PostType   `gorm:"type:varchar(20);not null;default:'post';index" json:"type"`

	AuthorID uint `gorm:"not null;index" json:"author_id"`
	Author   User `gorm:"foreignKey:AuthorID" json:"author"`

	CategoryID *uint     `gorm:"index" json:"category_id,omitempty"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags       []Tag     `gorm:"many2many:post_tags" json:"tags,omitempty"`

	FeaturedMediaID *uint  `gorm:"index" json:"featured_media_id,omitempty"`
	FeaturedMedia   *Media `gorm:"foreignKey:FeaturedMediaID" json:"featured_media,omitempty"`

	// AllowComments has no column default; the create path applies the
	// documented default (true) so an explicit false is never lost.
	AllowComments bool `gorm:"not null" json:"allow_comments"`

	// PublishedAt is set exactly once, on the first transition to
	// published. Unpublishing never clears it.
	PublishedAt *time.Time `gorm:"index" json:"published_at,omitempty"`

	// ReadingTime is minutes at 200 words per minute, rounded up.
	ReadingTime int `gorm:"not null;default:0" json:"reading_time"`

	ViewsCount    int `gorm:"not null;default:0" json:"views_count"`
	LikesCount    int `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int `gorm:"not null;default:0" json:"comments_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
