package seed

import (
	"fmt"
	"os"

	"inkwell/internal/models"
	"inkwell/internal/slug"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixture describes deterministic seed data loaded from a YAML file.
// Unlike the random generators this gives demos and acceptance tests a
// stable, reviewable dataset.
type Fixture struct {
	Users []struct {
		Username    string `yaml:"username"`
		Email       string `yaml:"email"`
		Password    string `yaml:"password"`
		DisplayName string `yaml:"display_name"`
		Role        string `yaml:"role"`
	} `yaml:"users"`

	Categories []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Parent      string `yaml:"parent"`
	} `yaml:"categories"`

	Tags []string `yaml:"tags"`

	Posts []struct {
		Title    string   `yaml:"title"`
		Content  string   `yaml:"content"`
		Author   string   `yaml:"author"`
		Category string   `yaml:"category"`
		Tags     []string `yaml:"tags"`
		Status   string   `yaml:"status"`
	} `yaml:"posts"`

	Settings []struct {
		Key    string `yaml:"key"`
		Value  string `yaml:"value"`
		Type   string `yaml:"type"`
		Public bool   `yaml:"public"`
	} `yaml:"settings"`
}

// LoadFixture reads and parses a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &fixture, nil
}

// Apply writes the fixture's entities to the database. Entities reference
// each other by name (author username, category name), so ordering inside
// the file does not matter.
func (fx *Fixture) Apply(db *gorm.DB) error {
	f := NewFactory(db)

	usersByName := make(map[string]*models.User, len(fx.Users))
	for _, spec := range fx.Users {
		password := spec.Password
		if password == "" {
			password = "password123"
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			return err
		}

		user := &models.User{
			Username:    spec.Username,
			Email:       spec.Email,
			Password:    string(hashed),
			DisplayName: spec.DisplayName,
			Role:        models.RoleSubscriber,
			Status:      models.UserStatusActive,
		}
		if spec.Role != "" {
			user.Role = models.UserRole(spec.Role)
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("fixture user %q: %w", spec.Username, err)
		}
		usersByName[spec.Username] = user
	}

	categoriesByName := make(map[string]*models.Category, len(fx.Categories))
	// two passes so children can reference parents declared later
	for _, spec := range fx.Categories {
		category := &models.Category{
			Name:        spec.Name,
			Slug:        slug.Make(spec.Name),
			Description: spec.Description,
		}
		if err := db.Create(category).Error; err != nil {
			return fmt.Errorf("fixture category %q: %w", spec.Name, err)
		}
		categoriesByName[spec.Name] = category
	}
	for _, spec := range fx.Categories {
		if spec.Parent == "" {
			continue
		}
		parent, ok := categoriesByName[spec.Parent]
		if !ok {
			return fmt.Errorf("fixture category %q: unknown parent %q", spec.Name, spec.Parent)
		}
		child := categoriesByName[spec.Name]
		child.ParentID = &parent.ID
		if err := db.Save(child).Error; err != nil {
			return err
		}
	}

	tagsByName := make(map[string]*models.Tag, len(fx.Tags))
	for _, name := range fx.Tags {
		tag, err := f.CreateTag(name)
		if err != nil {
			return fmt.Errorf("fixture tag %q: %w", name, err)
		}
		tagsByName[name] = tag
	}

	for _, spec := range fx.Posts {
		author, ok := usersByName[spec.Author]
		if !ok {
			return fmt.Errorf("fixture post %q: unknown author %q", spec.Title, spec.Author)
		}

		post := f.BuildPost(author, func(p *models.Post) {
			p.Title = spec.Title
			p.Slug = slug.Make(spec.Title)
			if spec.Content != "" {
				p.Content = spec.Content
			}
			if spec.Status != "" {
				p.Status = models.PostStatus(spec.Status)
			}
			if category, ok := categoriesByName[spec.Category]; ok {
				p.CategoryID = &category.ID
			}
		})
		if err := db.Create(post).Error; err != nil {
			return fmt.Errorf("fixture post %q: %w", spec.Title, err)
		}

		for _, tagName := range spec.Tags {
			tag, ok := tagsByName[tagName]
			if !ok {
				return fmt.Errorf("fixture post %q: unknown tag %q", spec.Title, tagName)
			}
			if err := db.Model(post).Association("Tags").Append(tag); err != nil {
				return err
			}
		}
	}

	for _, spec := range fx.Settings {
		setting := &models.Setting{
			Key:        spec.Key,
			Value:      spec.Value,
			Type:       models.SettingTypeString,
			IsPublic:   spec.Public,
			IsEditable: true,
		}
		if spec.Type != "" {
			setting.Type = models.SettingType(spec.Type)
		}
		if err := db.Create(setting).Error; err != nil {
			return fmt.Errorf("fixture setting %q: %w", spec.Key, err)
		}
	}
	return nil
}
