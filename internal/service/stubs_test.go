package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/policy"
	"inkwell/internal/repository"
)

// Function-field repository stubs shared by the service tests. Each noop
// builder returns a stub whose methods succeed with zero values; tests
// override only the calls they care about.

type postRepoStub struct {
	createFn             func(context.Context, *models.Post) error
	getByIDFn            func(context.Context, uint) (*models.Post, error)
	getBySlugFn          func(context.Context, string) (*models.Post, error)
	getPublishedBySlugFn func(context.Context, string) (*models.Post, error)
	listFn               func(context.Context, repository.PostListOptions) ([]*models.Post, error)
	countFn              func(context.Context, repository.PostListOptions) (int64, error)
	updateFn             func(context.Context, *models.Post) error
	applyChangesFn       func(context.Context, *models.Post, map[string]any) error
	replaceTagsFn        func(context.Context, *models.Post, []models.Tag) error
	permanentDeleteFn    func(context.Context, uint) error
	incrementViewsFn     func(context.Context, uint) error
	slugTakenFn          func(context.Context, string, uint) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *postRepoStub) GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.getPublishedBySlugFn(ctx, slug)
}
func (s *postRepoStub) List(ctx context.Context, opts repository.PostListOptions) ([]*models.Post, error) {
	return s.listFn(ctx, opts)
}
func (s *postRepoStub) Count(ctx context.Context, opts repository.PostListOptions) (int64, error) {
	return s.countFn(ctx, opts)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) ApplyChanges(ctx context.Context, post *models.Post, changes map[string]any) error {
	return s.applyChangesFn(ctx, post, changes)
}
func (s *postRepoStub) ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error {
	return s.replaceTagsFn(ctx, post, tags)
}
func (s *postRepoStub) PermanentDelete(ctx context.Context, id uint) error {
	return s.permanentDeleteFn(ctx, id)
}
func (s *postRepoStub) IncrementViews(ctx context.Context, id uint) error {
	return s.incrementViewsFn(ctx, id)
}
func (s *postRepoStub) SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return s.slugTakenFn(ctx, slug, excludeID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:             func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:            func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		getBySlugFn:          func(_ context.Context, _ string) (*models.Post, error) { return &models.Post{}, nil },
		getPublishedBySlugFn: func(_ context.Context, _ string) (*models.Post, error) { return &models.Post{}, nil },
		listFn:               func(_ context.Context, _ repository.PostListOptions) ([]*models.Post, error) { return nil, nil },
		countFn:              func(_ context.Context, _ repository.PostListOptions) (int64, error) { return 0, nil },
		updateFn:             func(_ context.Context, _ *models.Post) error { return nil },
		applyChangesFn:       func(_ context.Context, _ *models.Post, _ map[string]any) error { return nil },
		replaceTagsFn:        func(_ context.Context, _ *models.Post, _ []models.Tag) error { return nil },
		permanentDeleteFn:    func(_ context.Context, _ uint) error { return nil },
		incrementViewsFn:     func(_ context.Context, _ uint) error { return nil },
		slugTakenFn:          func(_ context.Context, _ string, _ uint) (bool, error) { return false, nil },
	}
}

type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment, int) error
	getByIDFn       func(context.Context, uint) (*models.Comment, error)
	listByPostFn    func(context.Context, uint, []models.CommentStatus, int, int) ([]*models.Comment, error)
	listByStatusFn  func(context.Context, models.CommentStatus, int, int) ([]*models.Comment, error)
	countByStatusFn func(context.Context, models.CommentStatus) (int64, error)
	updateContentFn func(context.Context, *models.Comment) error
	updateStatusFn  func(context.Context, *models.Comment, models.CommentStatus, int) error
	deleteFn        func(context.Context, *models.Comment) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment, counterDelta int) error {
	return s.createFn(ctx, comment, counterDelta)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, statuses []models.CommentStatus, limit, offset int) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, statuses, limit, offset)
}
func (s *commentRepoStub) ListByStatus(ctx context.Context, status models.CommentStatus, limit, offset int) ([]*models.Comment, error) {
	return s.listByStatusFn(ctx, status, limit, offset)
}
func (s *commentRepoStub) CountByStatus(ctx context.Context, status models.CommentStatus) (int64, error) {
	return s.countByStatusFn(ctx, status)
}
func (s *commentRepoStub) UpdateContent(ctx context.Context, comment *models.Comment) error {
	return s.updateContentFn(ctx, comment)
}
func (s *commentRepoStub) UpdateStatus(ctx context.Context, comment *models.Comment, status models.CommentStatus, counterDelta int) error {
	return s.updateStatusFn(ctx, comment, status, counterDelta)
}
func (s *commentRepoStub) Delete(ctx context.Context, comment *models.Comment) error {
	return s.deleteFn(ctx, comment)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *models.Comment, _ int) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Comment, error) { return &models.Comment{}, nil },
		listByPostFn: func(_ context.Context, _ uint, _ []models.CommentStatus, _, _ int) ([]*models.Comment, error) {
			return nil, nil
		},
		listByStatusFn: func(_ context.Context, _ models.CommentStatus, _, _ int) ([]*models.Comment, error) {
			return nil, nil
		},
		countByStatusFn: func(_ context.Context, _ models.CommentStatus) (int64, error) { return 0, nil },
		updateContentFn: func(_ context.Context, _ *models.Comment) error { return nil },
		updateStatusFn:  func(_ context.Context, _ *models.Comment, _ models.CommentStatus, _ int) error { return nil },
		deleteFn:        func(_ context.Context, _ *models.Comment) error { return nil },
	}
}

type likeRepoStub struct {
	togglePostLikeFn    func(context.Context, uint, uint, models.LikeType) (policy.ToggleOutcome, error)
	toggleCommentLikeFn func(context.Context, uint, uint, models.LikeType) (policy.ToggleOutcome, error)
	likedPostIDsFn      func(context.Context, uint, []uint) ([]uint, error)
	getForPostFn        func(context.Context, uint, uint) (*models.Like, error)
}

func (s *likeRepoStub) TogglePostLike(ctx context.Context, userID, postID uint, likeType models.LikeType) (policy.ToggleOutcome, error) {
	return s.togglePostLikeFn(ctx, userID, postID, likeType)
}
func (s *likeRepoStub) ToggleCommentLike(ctx context.Context, userID, commentID uint, likeType models.LikeType) (policy.ToggleOutcome, error) {
	return s.toggleCommentLikeFn(ctx, userID, commentID, likeType)
}
func (s *likeRepoStub) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error) {
	return s.likedPostIDsFn(ctx, userID, postIDs)
}
func (s *likeRepoStub) GetForPost(ctx context.Context, userID, postID uint) (*models.Like, error) {
	return s.getForPostFn(ctx, userID, postID)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		togglePostLikeFn: func(_ context.Context, _, _ uint, _ models.LikeType) (policy.ToggleOutcome, error) {
			return policy.ToggleOutcome{}, nil
		},
		toggleCommentLikeFn: func(_ context.Context, _, _ uint, _ models.LikeType) (policy.ToggleOutcome, error) {
			return policy.ToggleOutcome{}, nil
		},
		likedPostIDsFn: func(_ context.Context, _ uint, _ []uint) ([]uint, error) { return nil, nil },
		getForPostFn:   func(_ context.Context, _, _ uint) (*models.Like, error) { return nil, nil },
	}
}

type categoryRepoStub struct {
	createFn     func(context.Context, *models.Category) error
	getByIDFn    func(context.Context, uint) (*models.Category, error)
	getBySlugFn  func(context.Context, string) (*models.Category, error)
	listFn       func(context.Context) ([]models.Category, error)
	treeFn       func(context.Context) ([]*models.Category, error)
	updateFn     func(context.Context, *models.Category) error
	deleteFn     func(context.Context, uint, uint) error
	countPostsFn func(context.Context, uint) (int64, error)
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *categoryRepoStub) List(ctx context.Context) ([]models.Category, error) {
	return s.listFn(ctx)
}
func (s *categoryRepoStub) Tree(ctx context.Context) ([]*models.Category, error) {
	return s.treeFn(ctx)
}
func (s *categoryRepoStub) Update(ctx context.Context, category *models.Category) error {
	return s.updateFn(ctx, category)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint, reassignTo uint) error {
	return s.deleteFn(ctx, id, reassignTo)
}
func (s *categoryRepoStub) CountPosts(ctx context.Context, id uint) (int64, error) {
	return s.countPostsFn(ctx, id)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn:     func(_ context.Context, _ *models.Category) error { return nil },
		getByIDFn:    func(_ context.Context, _ uint) (*models.Category, error) { return &models.Category{}, nil },
		getBySlugFn:  func(_ context.Context, _ string) (*models.Category, error) { return &models.Category{}, nil },
		listFn:       func(_ context.Context) ([]models.Category, error) { return nil, nil },
		treeFn:       func(_ context.Context) ([]*models.Category, error) { return nil, nil },
		updateFn:     func(_ context.Context, _ *models.Category) error { return nil },
		deleteFn:     func(_ context.Context, _, _ uint) error { return nil },
		countPostsFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

type tagRepoStub struct {
	createFn    func(context.Context, *models.Tag) error
	getByIDFn   func(context.Context, uint) (*models.Tag, error)
	getBySlugFn func(context.Context, string) (*models.Tag, error)
	findByIDsFn func(context.Context, []uint) ([]models.Tag, error)
	listFn      func(context.Context) ([]models.Tag, error)
	updateFn    func(context.Context, *models.Tag) error
	deleteFn    func(context.Context, uint) error
}

func (s *tagRepoStub) Create(ctx context.Context, tag *models.Tag) error {
	return s.createFn(ctx, tag)
}
func (s *tagRepoStub) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	return s.getByIDFn(ctx, id)
}
func (s *tagRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *tagRepoStub) FindByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	return s.findByIDsFn(ctx, ids)
}
func (s *tagRepoStub) List(ctx context.Context) ([]models.Tag, error) {
	return s.listFn(ctx)
}
func (s *tagRepoStub) Update(ctx context.Context, tag *models.Tag) error {
	return s.updateFn(ctx, tag)
}
func (s *tagRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopTagRepo() *tagRepoStub {
	return &tagRepoStub{
		createFn:    func(_ context.Context, _ *models.Tag) error { return nil },
		getByIDFn:   func(_ context.Context, _ uint) (*models.Tag, error) { return &models.Tag{}, nil },
		getBySlugFn: func(_ context.Context, _ string) (*models.Tag, error) { return &models.Tag{}, nil },
		findByIDsFn: func(_ context.Context, _ []uint) ([]models.Tag, error) { return nil, nil },
		listFn:      func(_ context.Context) ([]models.Tag, error) { return nil, nil },
		updateFn:    func(_ context.Context, _ *models.Tag) error { return nil },
		deleteFn:    func(_ context.Context, _ uint) error { return nil },
	}
}

type mediaRepoStub struct {
	createFn  func(context.Context, *models.Media) error
	getByIDFn func(context.Context, uint) (*models.Media, error)
	listFn    func(context.Context, uint, int, int) ([]models.Media, error)
	countFn   func(context.Context, uint) (int64, error)
	updateFn  func(context.Context, *models.Media) error
	deleteFn  func(context.Context, uint) error
}

func (s *mediaRepoStub) Create(ctx context.Context, media *models.Media) error {
	return s.createFn(ctx, media)
}
func (s *mediaRepoStub) GetByID(ctx context.Context, id uint) (*models.Media, error) {
	return s.getByIDFn(ctx, id)
}
func (s *mediaRepoStub) List(ctx context.Context, uploaderID uint, limit, offset int) ([]models.Media, error) {
	return s.listFn(ctx, uploaderID, limit, offset)
}
func (s *mediaRepoStub) Count(ctx context.Context, uploaderID uint) (int64, error) {
	return s.countFn(ctx, uploaderID)
}
func (s *mediaRepoStub) Update(ctx context.Context, media *models.Media) error {
	return s.updateFn(ctx, media)
}
func (s *mediaRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopMediaRepo() *mediaRepoStub {
	return &mediaRepoStub{
		createFn:  func(_ context.Context, _ *models.Media) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Media, error) { return &models.Media{}, nil },
		listFn:    func(_ context.Context, _ uint, _, _ int) ([]models.Media, error) { return nil, nil },
		countFn:   func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		updateFn:  func(_ context.Context, _ *models.Media) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
	}
}

type settingRepoStub struct {
	getByKeyFn     func(context.Context, string) (*models.Setting, error)
	listFn         func(context.Context) ([]models.Setting, error)
	publicValuesFn func(context.Context) (map[string]string, error)
	createFn       func(context.Context, *models.Setting) error
	updateFn       func(context.Context, *models.Setting) error
	deleteFn       func(context.Context, string) error
}

func (s *settingRepoStub) GetByKey(ctx context.Context, key string) (*models.Setting, error) {
	return s.getByKeyFn(ctx, key)
}
func (s *settingRepoStub) List(ctx context.Context) ([]models.Setting, error) {
	return s.listFn(ctx)
}
func (s *settingRepoStub) PublicValues(ctx context.Context) (map[string]string, error) {
	return s.publicValuesFn(ctx)
}
func (s *settingRepoStub) Create(ctx context.Context, setting *models.Setting) error {
	return s.createFn(ctx, setting)
}
func (s *settingRepoStub) Update(ctx context.Context, setting *models.Setting) error {
	return s.updateFn(ctx, setting)
}
func (s *settingRepoStub) Delete(ctx context.Context, key string) error {
	return s.deleteFn(ctx, key)
}

func noopSettingRepo() *settingRepoStub {
	return &settingRepoStub{
		getByKeyFn:     func(_ context.Context, _ string) (*models.Setting, error) { return &models.Setting{}, nil },
		listFn:         func(_ context.Context) ([]models.Setting, error) { return nil, nil },
		publicValuesFn: func(_ context.Context) (map[string]string, error) { return nil, nil },
		createFn:       func(_ context.Context, _ *models.Setting) error { return nil },
		updateFn:       func(_ context.Context, _ *models.Setting) error { return nil },
		deleteFn:       func(_ context.Context, _ string) error { return nil },
	}
}

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, int, int) ([]models.User, error)
	countFn         func(context.Context) (int64, error)
	countByRoleFn   func(context.Context, models.UserRole) (int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *userRepoStub) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	return s.countByRoleFn(ctx, role)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		countFn:         func(_ context.Context) (int64, error) { return 0, nil },
		countByRoleFn:   func(_ context.Context, _ models.UserRole) (int64, error) { return 0, nil },
	}
}
