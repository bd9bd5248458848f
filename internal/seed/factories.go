// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/slug"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand

	// counters keep generated usernames and slugs unique within a run
	userSeq int
	postSeq int
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	now := time.Now().UnixNano()
	gofakeit.Seed(now)
	return &Factory{db: db, rng: rand.New(rand.NewSource(now))}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	f.userSeq++
	user := &models.User{
		Username:    fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), f.userSeq),
		Email:       fmt.Sprintf("user%d@%s", f.userSeq, gofakeit.DomainName()),
		DisplayName: gofakeit.Name(),
		Bio:         gofakeit.Sentence(10),
		Role:        models.RoleSubscriber,
		Status:      models.UserStatusActive,
	}

	// MinCost keeps large seed runs fast; these are throwaway accounts.
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user.Password = string(hashed)

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCategory persists a category with a slug derived from its name.
func (f *Factory) CreateCategory(name string, parentID *uint) (*models.Category, error) {
	category := &models.Category{
		Name:        name,
		Slug:        slug.Make(name),
		Description: gofakeit.Sentence(8),
		ParentID:    parentID,
	}
	if err := f.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// CreateTag persists a tag with a slug derived from its name.
func (f *Factory) CreateTag(name string) (*models.Tag, error) {
	tag := &models.Tag{Name: name, Slug: slug.Make(name)}
	if err := f.db.Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// BuildPost constructs a post without persisting it. Useful for batching.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	f.postSeq++
	title := strings.TrimSuffix(gofakeit.Sentence(f.rng.Intn(5)+3), ".")

	paragraphs := make([]string, 0, 4)
	for i := 0; i < f.rng.Intn(3)+2; i++ {
		paragraphs = append(paragraphs, gofakeit.Paragraph(1, 4, 10, " "))
	}
	content := fmt.Sprintf("## %s\n\n%s", title, strings.Join(paragraphs, "\n\n"))

	post := &models.Post{
		Title:         title,
		Slug:          fmt.Sprintf("%s-%d", slug.Make(title), f.postSeq),
		Content:       content,
		Excerpt:       gofakeit.Sentence(12),
		Status:        models.PostStatusDraft,
		Type:          models.PostTypePost,
		AuthorID:      author.ID,
		AllowComments: true,
		ReadingTime:   f.rng.Intn(9) + 1,
	}

	// spread creation over the past quarter for realistic archives
	daysBack := time.Duration(f.rng.Intn(90)) * 24 * time.Hour
	post.CreatedAt = time.Now().Add(-daysBack - time.Duration(f.rng.Intn(86400))*time.Second)

	for _, override := range overrides {
		override(post)
	}

	if post.Status == models.PostStatusPublished && post.PublishedAt == nil {
		publishedAt := post.CreatedAt.Add(time.Duration(f.rng.Intn(48)) * time.Hour)
		post.PublishedAt = &publishedAt
	}
	return post
}

// CreatePost builds and persists a post.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(author, overrides...)
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateComment persists a comment. A nil user produces a guest comment.
// The parent post's counter is incremented for approved comments.
func (f *Factory) CreateComment(post *models.Post, user *models.User, status models.CommentStatus, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content: gofakeit.Sentence(f.rng.Intn(12) + 4),
		PostID:  post.ID,
		Status:  status,
	}
	if user != nil {
		comment.UserID = &user.ID
	} else {
		comment.GuestName = gofakeit.Name()
		comment.GuestEmail = gofakeit.Email()
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}

	if comment.Status == models.CommentStatusApproved {
		err := f.db.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
		if err != nil {
			return nil, err
		}
	}
	return comment, nil
}

// CreatePostLike persists a like on a post and bumps its counter.
func (f *Factory) CreatePostLike(post *models.Post, user *models.User, likeType models.LikeType) error {
	like := &models.Like{UserID: user.ID, PostID: &post.ID, Type: likeType}
	if err := f.db.Create(like).Error; err != nil {
		return err
	}
	return f.db.Model(&models.Post{}).Where("id = ?", post.ID).
		UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
}

// RandomLikeType returns a weighted random reaction, mostly plain likes.
func (f *Factory) RandomLikeType() models.LikeType {
	switch f.rng.Intn(10) {
	case 0:
		return models.LikeTypeLove
	case 1:
		return models.LikeTypeLaugh
	default:
		return models.LikeTypeLike
	}
}
