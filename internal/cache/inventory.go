package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix     = "user:%d"
	postKeyPrefix     = "post:%d"
	postSlugKeyPrefix = "post:slug:%s"

	// CategoryTreeKey caches the full nested category tree.
	CategoryTreeKey = "categories:tree"
	// TagListKey caches the complete tag list.
	TagListKey = "tags:all"
	// PublicSettingsKey caches the public settings map served to anonymous clients.
	PublicSettingsKey = "settings:public"
)

const (
	UserTTL           = 5 * time.Minute
	PostTTL           = 30 * time.Minute
	CategoryTreeTTL   = 10 * time.Minute
	TagListTTL        = 10 * time.Minute
	PublicSettingsTTL = 15 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

func PostSlugKey(slug string) string {
	return fmt.Sprintf(postSlugKeyPrefix, slug)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePost drops both the ID-keyed and slug-keyed entries for a post.
func InvalidatePost(ctx context.Context, postID uint, slug string) {
	Invalidate(ctx, PostKey(postID), PostSlugKey(slug))
}

func InvalidateCategoryTree(ctx context.Context) {
	Invalidate(ctx, CategoryTreeKey)
}

func InvalidateTagList(ctx context.Context) {
	Invalidate(ctx, TagListKey)
}

func InvalidatePublicSettings(ctx context.Context) {
	Invalidate(ctx, PublicSettingsKey)
}
