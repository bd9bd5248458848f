package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/policy"
	"inkwell/internal/repository"
	"inkwell/internal/slug"
)

// CategoryService implements the category tree: creation, re-parenting
// with cycle protection, and the reassignment-guarded delete cascade.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService returns a CategoryService over the given repository.
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

type CreateCategoryInput struct {
	Actor       policy.Actor
	Name        string
	Description string
	ParentID    *uint
}

func (s *CategoryService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if !policy.Allows(in.Actor, policy.OpCategoryManage, in.Actor.ID) {
		return nil, models.NewPermissionDeniedError("category management requires editor access")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, models.NewValidationError("Category name is required")
	}
	if in.ParentID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.ParentID); err != nil {
			return nil, err
		}
	}

	category := &models.Category{
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Description: in.Description,
		ParentID:    in.ParentID,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

type UpdateCategoryInput struct {
	Actor       policy.Actor
	CategoryID  uint
	Name        *string
	Description *string
	ParentID    *uint // 0 makes the category a root
}

// wouldCreateCycle walks up from candidate's ancestry and reports whether
// it passes through id, which would make id its own ancestor.
func (s *CategoryService) wouldCreateCycle(ctx context.Context, id, candidateParent uint) (bool, error) {
	current := candidateParent
	for current != 0 {
		if current == id {
			return true, nil
		}
		parent, err := s.categoryRepo.GetByID(ctx, current)
		if err != nil {
			return false, err
		}
		if parent.ParentID == nil {
			return false, nil
		}
		current = *parent.ParentID
	}
	return false, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, in UpdateCategoryInput) (*models.Category, error) {
	if !policy.Allows(in.Actor, policy.OpCategoryManage, in.Actor.ID) {
		return nil, models.NewPermissionDeniedError("category management requires editor access")
	}
	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, models.NewValidationError("Category name is required")
		}
		category.Name = *in.Name
		category.Slug = slug.Make(*in.Name)
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.ParentID != nil {
		switch {
		case *in.ParentID == 0:
			category.ParentID = nil
		case *in.ParentID == category.ID:
			return nil, models.NewIntegrityError("a category cannot be its own parent")
		default:
			if _, err := s.categoryRepo.GetByID(ctx, *in.ParentID); err != nil {
				return nil, err
			}
			cyclic, err := s.wouldCreateCycle(ctx, category.ID, *in.ParentID)
			if err != nil {
				return nil, err
			}
			if cyclic {
				return nil, models.NewIntegrityError("cannot move a category under one of its descendants")
			}
			parentID := *in.ParentID
			category.ParentID = &parentID
		}
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

type DeleteCategoryInput struct {
	Actor      policy.Actor
	CategoryID uint
	ReassignTo uint
}

// DeleteCategory removes a category. Attached posts demand an explicit
// reassignment target; children are re-parented to the deleted node's
// parent inside the same transaction.
func (s *CategoryService) DeleteCategory(ctx context.Context, in DeleteCategoryInput) error {
	if !policy.Allows(in.Actor, policy.OpCategoryManage, in.Actor.ID) {
		return models.NewPermissionDeniedError("category management requires editor access")
	}
	if _, err := s.categoryRepo.GetByID(ctx, in.CategoryID); err != nil {
		return err
	}

	attached, err := s.categoryRepo.CountPosts(ctx, in.CategoryID)
	if err != nil {
		return err
	}
	if attached > 0 {
		if in.ReassignTo == 0 {
			return models.NewConflictError("category has attached posts; a reassign_to target is required")
		}
		if in.ReassignTo == in.CategoryID {
			return models.NewValidationError("reassign_to cannot be the category being deleted")
		}
		if _, err := s.categoryRepo.GetByID(ctx, in.ReassignTo); err != nil {
			return err
		}
	}

	return s.categoryRepo.Delete(ctx, in.CategoryID, in.ReassignTo)
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *CategoryService) CategoryTree(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.Tree(ctx)
}

func (s *CategoryService) GetCategoryBySlug(ctx context.Context, categorySlug string) (*models.Category, error) {
	return s.categoryRepo.GetBySlug(ctx, categorySlug)
}
