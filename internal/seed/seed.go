package seed

import (
	"fmt"
	"log"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var defaultCategories = []string{
	"Technology", "Engineering", "Design", "Culture", "Announcements",
}

var defaultTags = []string{
	"go", "databases", "performance", "tutorial", "opinion",
	"release-notes", "deep-dive", "how-to",
}

// Seed populates the database with demo content: a staff roster, a small
// taxonomy, posts in every publication state, and reader activity on the
// published ones.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db)

	users, err := createRoster(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	categories, tags, err := createTaxonomy(f)
	if err != nil {
		return fmt.Errorf("failed to create taxonomy: %w", err)
	}
	log.Printf("created %d categories and %d tags", len(categories), len(tags))

	posts, err := createPosts(f, users, categories, tags, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := createActivity(f, posts, users); err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	for _, table := range []string{
		"likes", "comments", "post_tags", "posts", "media",
		"tags", "categories", "settings", "users",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

// createRoster builds a writing staff plus subscribers: one admin, one
// editor, a quarter of the remainder authors, the rest subscribers.
func createRoster(f *Factory, count int) ([]*models.User, error) {
	if count < 4 {
		count = 4
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		role := models.RoleSubscriber
		switch {
		case i == 0:
			role = models.RoleAdmin
		case i == 1:
			role = models.RoleEditor
		case i%4 == 2:
			role = models.RoleAuthor
		}

		user, err := f.CreateUser(func(u *models.User) {
			u.Role = role
		})
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createTaxonomy(f *Factory) ([]*models.Category, []*models.Tag, error) {
	categories := make([]*models.Category, 0, len(defaultCategories)+1)
	for _, name := range defaultCategories {
		category, err := f.CreateCategory(name, nil)
		if err != nil {
			return nil, nil, err
		}
		categories = append(categories, category)
	}

	// one nested category so the tree endpoint has depth to show
	child, err := f.CreateCategory("Tooling", &categories[0].ID)
	if err != nil {
		return nil, nil, err
	}
	categories = append(categories, child)

	tags := make([]*models.Tag, 0, len(defaultTags))
	for _, name := range defaultTags {
		tag, err := f.CreateTag(name)
		if err != nil {
			return nil, nil, err
		}
		tags = append(tags, tag)
	}
	return categories, tags, nil
}

func createPosts(f *Factory, users []*models.User, categories []*models.Category, tags []*models.Tag, count int) ([]*models.Post, error) {
	authors := make([]*models.User, 0, len(users))
	for _, user := range users {
		if user.Role.AtLeast(models.RoleAuthor) {
			authors = append(authors, user)
		}
	}
	if len(authors) == 0 {
		return nil, fmt.Errorf("no authors in roster")
	}

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := authors[f.rng.Intn(len(authors))]
		category := categories[f.rng.Intn(len(categories))]

		// roughly 70% published, the rest drafts and pending reviews
		status := models.PostStatusPublished
		switch f.rng.Intn(10) {
		case 0, 1:
			status = models.PostStatusDraft
		case 2:
			status = models.PostStatusPending
		}

		post := f.BuildPost(author, func(p *models.Post) {
			p.Status = status
			p.CategoryID = &category.ID
		})
		posts = append(posts, post)
	}

	if err := f.CreatePostsBatch(posts); err != nil {
		return nil, err
	}

	// attach one to three tags per post
	for _, post := range posts {
		picked := map[uint]bool{}
		for i := 0; i < f.rng.Intn(3)+1; i++ {
			tag := tags[f.rng.Intn(len(tags))]
			if picked[tag.ID] {
				continue
			}
			picked[tag.ID] = true
			if err := f.db.Model(post).Association("Tags").Append(tag); err != nil {
				return nil, err
			}
		}
	}
	return posts, nil
}

// createActivity sprinkles comments and likes over published posts,
// keeping the denormalized counters accurate.
func createActivity(f *Factory, posts []*models.Post, users []*models.User) error {
	for _, post := range posts {
		if post.Status != models.PostStatusPublished {
			continue
		}

		for i := 0; i < f.rng.Intn(5); i++ {
			var commenter *models.User
			status := models.CommentStatusPending
			if f.rng.Intn(3) > 0 {
				commenter = users[f.rng.Intn(len(users))]
				status = models.CommentStatusApproved
			}
			if _, err := f.CreateComment(post, commenter, status); err != nil {
				return err
			}
		}

		liked := map[uint]bool{}
		for i := 0; i < f.rng.Intn(6); i++ {
			user := users[f.rng.Intn(len(users))]
			if liked[user.ID] {
				continue
			}
			liked[user.ID] = true
			if err := f.CreatePostLike(post, user, f.RandomLikeType()); err != nil {
				return err
			}
		}
	}
	return nil
}
