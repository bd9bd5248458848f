package policy

import (
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// wordsPerMinute is the reading speed assumed for reading_time.
const wordsPerMinute = 200

// PubliclyVisible reports whether a post is readable without privileges:
// published status and a publish timestamp that has passed.
func PubliclyVisible(post *models.Post, now time.Time) bool {
	return post.Status == models.PostStatusPublished &&
		post.PublishedAt != nil &&
		!post.PublishedAt.After(now)
}

// CanReadPost decides read visibility for a single post. Editors and above
// see every status, authors see their own work in any state, everyone else
// sees only what is publicly visible.
func CanReadPost(actor Actor, post *models.Post, now time.Time) bool {
	if actor.Role.AtLeast(models.RoleEditor) {
		return true
	}
	if !actor.Anonymous() && actor.ID == post.AuthorID {
		return true
	}
	return PubliclyVisible(post, now)
}

// PostListFilter restricts a post listing to what the actor may see.
// Everything=true means no visibility clause at all; otherwise the store
// returns publicly visible posts plus, when AuthorID is non-zero, that
// author's own posts in any status.
type PostListFilter struct {
	Everything bool
	AuthorID   uint
}

// ListFilterFor computes the visibility filter for post listings.
func ListFilterFor(actor Actor) PostListFilter {
	if actor.Role.AtLeast(models.RoleEditor) {
		return PostListFilter{Everything: true}
	}
	return PostListFilter{AuthorID: actor.ID}
}

// PostChange describes the fields an update intends to modify. Nil members
// are left untouched.
type PostChange struct {
	Title   *string
	Content *string
	Status  *models.PostStatus
}

// EvaluatePostCreate decides whether actor may create posts and returns
// the derived-field effects for the new row.
func EvaluatePostCreate(actor Actor, title, content string, status models.PostStatus, now time.Time) Decision {
	if !Allows(actor, OpPostCreate, actor.ID) {
		return deny("role may not create posts")
	}
	effects := []Effect{
		{Field: "slug", Value: slug.Make(title)},
		{Field: "reading_time", Value: ReadingTime(content)},
	}
	if status == models.PostStatusPublished {
		effects = append(effects, Effect{Field: "published_at", Value: now})
	}
	return allow(effects...)
}

// EvaluatePostUpdate decides whether actor may apply change to post and
// returns the field mutations that must ride the same transaction:
// slug tracking a changed title, reading_time tracking changed content,
// and published_at stamped exactly once on the first transition to
// published. A post already carrying published_at never has it changed,
// whatever the status does afterwards.
func EvaluatePostUpdate(actor Actor, post *models.Post, change PostChange, now time.Time) Decision {
	if !Allows(actor, OpPostUpdate, post.AuthorID) {
		return deny("not allowed to modify this post")
	}

	var effects []Effect
	if change.Title != nil && *change.Title != post.Title {
		effects = append(effects, Effect{Field: "slug", Value: slug.Make(*change.Title)})
	}
	if change.Content != nil && *change.Content != post.Content {
		effects = append(effects, Effect{Field: "reading_time", Value: ReadingTime(*change.Content)})
	}
	if change.Status != nil &&
		*change.Status == models.PostStatusPublished &&
		post.Status != models.PostStatusPublished &&
		post.PublishedAt == nil {
		effects = append(effects, Effect{Field: "published_at", Value: now})
	}
	return allow(effects...)
}

// CanDeletePost decides delete permission (soft or hard).
func CanDeletePost(actor Actor, post *models.Post) bool {
	return Allows(actor, OpPostDelete, post.AuthorID)
}

// ReadingTime is minutes at wordsPerMinute, rounded up. Empty content
// reads in zero minutes.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
