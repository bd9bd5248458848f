package service

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func editorActor() policy.Actor {
	return policy.Actor{ID: 1, Role: models.RoleEditor}
}

func TestCreateCategoryRequiresEditor(t *testing.T) {
	svc := NewCategoryService(noopCategoryRepo())

	_, err := svc.CreateCategory(context.Background(), CreateCategoryInput{
		Actor: policy.Actor{ID: 3, Role: models.RoleAuthor},
		Name:  "News",
	})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PERMISSION_DENIED", appErr.Code)
}

func TestCreateCategorySlugsName(t *testing.T) {
	var saved *models.Category
	repo := noopCategoryRepo()
	repo.createFn = func(_ context.Context, c *models.Category) error {
		saved = c
		return nil
	}

	svc := NewCategoryService(repo)
	_, err := svc.CreateCategory(context.Background(), CreateCategoryInput{
		Actor: editorActor(),
		Name:  "Tech & Science",
	})

	require.NoError(t, err)
	assert.Equal(t, "tech-science", saved.Slug)
}

func TestUpdateCategoryRejectsSelfParent(t *testing.T) {
	repo := noopCategoryRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Category, error) {
		c := &models.Category{Name: "News"}
		c.ID = id
		return c, nil
	}

	svc := NewCategoryService(repo)
	parent := uint(5)
	_, err := svc.UpdateCategory(context.Background(), UpdateCategoryInput{
		Actor:      editorActor(),
		CategoryID: 5,
		ParentID:   &parent,
	})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INTEGRITY_ERROR", appErr.Code)
}

func TestUpdateCategoryRejectsCycle(t *testing.T) {
	// 1 is the parent of 2; moving 1 under 2 would make 1 its own ancestor.
	repo := noopCategoryRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Category, error) {
		c := &models.Category{}
		c.ID = id
		if id == 2 {
			parent := uint(1)
			c.ParentID = &parent
		}
		return c, nil
	}

	svc := NewCategoryService(repo)
	parent := uint(2)
	_, err := svc.UpdateCategory(context.Background(), UpdateCategoryInput{
		Actor:      editorActor(),
		CategoryID: 1,
		ParentID:   &parent,
	})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INTEGRITY_ERROR", appErr.Code)
}

func TestDeleteCategoryWithPostsNeedsReassign(t *testing.T) {
	repo := noopCategoryRepo()
	repo.countPostsFn = func(_ context.Context, _ uint) (int64, error) { return 3, nil }

	svc := NewCategoryService(repo)
	err := svc.DeleteCategory(context.Background(), DeleteCategoryInput{
		Actor:      editorActor(),
		CategoryID: 5,
	})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestDeleteCategoryReassigns(t *testing.T) {
	repo := noopCategoryRepo()
	repo.countPostsFn = func(_ context.Context, _ uint) (int64, error) { return 3, nil }
	var gotID, gotTarget uint
	repo.deleteFn = func(_ context.Context, id, reassignTo uint) error {
		gotID, gotTarget = id, reassignTo
		return nil
	}

	svc := NewCategoryService(repo)
	err := svc.DeleteCategory(context.Background(), DeleteCategoryInput{
		Actor:      editorActor(),
		CategoryID: 5,
		ReassignTo: 9,
	})

	require.NoError(t, err)
	assert.Equal(t, uint(5), gotID)
	assert.Equal(t, uint(9), gotTarget)
}

func TestDeleteEmptyCategoryNeedsNoReassign(t *testing.T) {
	repo := noopCategoryRepo()

	svc := NewCategoryService(repo)
	err := svc.DeleteCategory(context.Background(), DeleteCategoryInput{
		Actor:      editorActor(),
		CategoryID: 5,
	})

	require.NoError(t, err)
}
