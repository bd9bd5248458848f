package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/policy"
	"inkwell/internal/repository"
	"inkwell/internal/slug"
)

// TagService implements flat tag management.
type TagService struct {
	tagRepo repository.TagRepository
}

// NewTagService returns a TagService over the given repository.
func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

func (s *TagService) CreateTag(ctx context.Context, actor policy.Actor, name string) (*models.Tag, error) {
	if !policy.Allows(actor, policy.OpTagManage, actor.ID) {
		return nil, models.NewPermissionDeniedError("tag management requires editor access")
	}
	if strings.TrimSpace(name) == "" {
		return nil, models.NewValidationError("Tag name is required")
	}

	tag := &models.Tag{Name: name, Slug: slug.Make(name)}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) UpdateTag(ctx context.Context, actor policy.Actor, tagID uint, name string) (*models.Tag, error) {
	if !policy.Allows(actor, policy.OpTagManage, actor.ID) {
		return nil, models.NewPermissionDeniedError("tag management requires editor access")
	}
	if strings.TrimSpace(name) == "" {
		return nil, models.NewValidationError("Tag name is required")
	}

	tag, err := s.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		return nil, err
	}
	tag.Name = name
	tag.Slug = slug.Make(name)
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) DeleteTag(ctx context.Context, actor policy.Actor, tagID uint) error {
	if !policy.Allows(actor, policy.OpTagManage, actor.ID) {
		return models.NewPermissionDeniedError("tag management requires editor access")
	}
	if _, err := s.tagRepo.GetByID(ctx, tagID); err != nil {
		return err
	}
	return s.tagRepo.Delete(ctx, tagID)
}

func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tagRepo.List(ctx)
}

func (s *TagService) GetTagBySlug(ctx context.Context, tagSlug string) (*models.Tag, error) {
	return s.tagRepo.GetBySlug(ctx, tagSlug)
}
