package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"pictora/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database so services can open real
// transactions around stubbed repositories.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func assertAppErrorStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %T", err)
	assert.Equal(t, status, appErr.Status)
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
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

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, FullName: "Test User", Username: "testuser"}, nil
		},
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post) error
	getByIDFn         func(context.Context, uint, uint) (*models.Post, error)
	listFn            func(context.Context, string, uint) ([]*models.Post, error)
	listSavedByUserFn func(context.Context, uint) ([]*models.Post, error)
	deleteFn          func(context.Context, uint) error
	countByUserFn     func(context.Context, uint) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *postRepoStub) List(ctx context.Context, search string, viewerID uint) ([]*models.Post, error) {
	return s.listFn(ctx, search, viewerID)
}
func (s *postRepoStub) ListSavedByUser(ctx context.Context, userID uint) ([]*models.Post, error) {
	return s.listSavedByUserFn(ctx, userID)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserFn(ctx, userID)
}

func noopPostRepo() *postRepoStub {
	owner := uint(10)
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: &owner, Caption: "hello"}, nil
		},
		listFn:            func(_ context.Context, _ string, _ uint) ([]*models.Post, error) { return nil, nil },
		listSavedByUserFn: func(_ context.Context, _ uint) ([]*models.Post, error) { return nil, nil },
		deleteFn:          func(_ context.Context, _ uint) error { return nil },
		countByUserFn:     func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// interactionRepoStub is a stub for repository.InteractionRepository.
type interactionRepoStub struct {
	insertLikeFn func(context.Context, *gorm.DB, uint, uint) (bool, error)
	deleteLikeFn func(context.Context, *gorm.DB, uint, uint) (bool, error)
	countLikesFn func(context.Context, uint) (int64, error)
	insertSaveFn func(context.Context, uint, uint) (bool, error)
	deleteSaveFn func(context.Context, uint, uint) (bool, error)
}

func (s *interactionRepoStub) InsertLike(ctx context.Context, tx *gorm.DB, postID, userID uint) (bool, error) {
	return s.insertLikeFn(ctx, tx, postID, userID)
}
func (s *interactionRepoStub) DeleteLike(ctx context.Context, tx *gorm.DB, postID, userID uint) (bool, error) {
	return s.deleteLikeFn(ctx, tx, postID, userID)
}
func (s *interactionRepoStub) CountLikes(ctx context.Context, postID uint) (int64, error) {
	return s.countLikesFn(ctx, postID)
}
func (s *interactionRepoStub) InsertSave(ctx context.Context, postID, userID uint) (bool, error) {
	return s.insertSaveFn(ctx, postID, userID)
}
func (s *interactionRepoStub) DeleteSave(ctx context.Context, postID, userID uint) (bool, error) {
	return s.deleteSaveFn(ctx, postID, userID)
}

func noopInteractionRepo() *interactionRepoStub {
	return &interactionRepoStub{
		insertLikeFn: func(_ context.Context, _ *gorm.DB, _, _ uint) (bool, error) { return true, nil },
		deleteLikeFn: func(_ context.Context, _ *gorm.DB, _, _ uint) (bool, error) { return true, nil },
		countLikesFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		insertSaveFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		deleteSaveFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn           func(context.Context, *gorm.DB, *models.Comment) error
	getByIDFn          func(context.Context, uint) (*models.Comment, error)
	listByPostFn       func(context.Context, uint) ([]*models.Comment, error)
	listLatestByPostFn func(context.Context, uint, int) ([]*models.Comment, error)
	deleteFn           func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, tx *gorm.DB, comment *models.Comment) error {
	return s.createFn(ctx, tx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) ListLatestByPost(ctx context.Context, postID uint, limit int) ([]*models.Comment, error) {
	return s.listLatestByPostFn(ctx, postID, limit)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *gorm.DB, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) {
			return nil, nil
		},
		listLatestByPostFn: func(_ context.Context, _ uint, _ int) ([]*models.Comment, error) {
			return nil, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	insertFn         func(context.Context, *gorm.DB, uint, uint) (bool, error)
	deleteFn         func(context.Context, *gorm.DB, uint, uint) (bool, error)
	existsFn         func(context.Context, uint, uint) (bool, error)
	countFollowersFn func(context.Context, uint) (int64, error)
	countFollowingFn func(context.Context, uint) (int64, error)
	listFollowersFn  func(context.Context, uint) ([]*models.User, error)
	listFollowingFn  func(context.Context, uint) ([]*models.User, error)
}

func (s *followRepoStub) Insert(ctx context.Context, tx *gorm.DB, followerID, followingID uint) (bool, error) {
	return s.insertFn(ctx, tx, followerID, followingID)
}
func (s *followRepoStub) Delete(ctx context.Context, tx *gorm.DB, followerID, followingID uint) (bool, error) {
	return s.deleteFn(ctx, tx, followerID, followingID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followingID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, userID uint) ([]*models.User, error) {
	return s.listFollowersFn(ctx, userID)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, userID uint) ([]*models.User, error) {
	return s.listFollowingFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		insertFn:         func(_ context.Context, _ *gorm.DB, _, _ uint) (bool, error) { return true, nil },
		deleteFn:         func(_ context.Context, _ *gorm.DB, _, _ uint) (bool, error) { return true, nil },
		existsFn:         func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		countFollowersFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countFollowingFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		listFollowersFn:  func(_ context.Context, _ uint) ([]*models.User, error) { return nil, nil },
		listFollowingFn:  func(_ context.Context, _ uint) ([]*models.User, error) { return nil, nil },
	}
}

// notifRepoStub is a stub for repository.NotificationRepository. created
// collects every notification passed to Create.
type notifRepoStub struct {
	created       []*models.Notification
	createErr     error
	listByUserFn  func(context.Context, uint, int) ([]*models.Notification, error)
	countUnreadFn func(context.Context, uint) (int64, error)
	markAllReadFn func(context.Context, uint) (int64, error)
}

func (s *notifRepoStub) Create(_ context.Context, _ *gorm.DB, n *models.Notification) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, n)
	return nil
}
func (s *notifRepoStub) ListByUser(ctx context.Context, userID uint, limit int) ([]*models.Notification, error) {
	return s.listByUserFn(ctx, userID, limit)
}
func (s *notifRepoStub) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.countUnreadFn(ctx, userID)
}
func (s *notifRepoStub) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.markAllReadFn(ctx, userID)
}

func noopNotifRepo() *notifRepoStub {
	return &notifRepoStub{
		listByUserFn:  func(_ context.Context, _ uint, _ int) ([]*models.Notification, error) { return nil, nil },
		countUnreadFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		markAllReadFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// imageStoreStub is a stub for storage.ImageStore.
type imageStoreStub struct {
	uploadFn func(context.Context, string, io.Reader, int64) (string, error)
	deleteFn func(context.Context, string) error
}

func (s *imageStoreStub) Upload(ctx context.Context, fileName string, r io.Reader, size int64) (string, error) {
	return s.uploadFn(ctx, fileName, r, size)
}

func (s *imageStoreStub) Delete(ctx context.Context, url string) error {
	return s.deleteFn(ctx, url)
}

func noopImageStore() *imageStoreStub {
	return &imageStoreStub{
		uploadFn: func(_ context.Context, fileName string, _ io.Reader, _ int64) (string, error) {
			return "http://images.local/posts/" + fileName, nil
		},
		deleteFn: func(context.Context, string) error { return nil },
	}
}
