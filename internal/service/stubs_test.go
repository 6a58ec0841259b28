package service

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository. Unset funcs return
// zero values.
type postRepoStub struct {
	createFn     func(context.Context, *models.Post) error
	getByIDFn    func(context.Context, uint, uint) (*models.Post, error)
	existsFn     func(context.Context, uint) error
	updateFn     func(context.Context, *models.Post) error
	deleteFn     func(context.Context, uint) error
	listFeedFn   func(context.Context, uint, int, int) ([]*models.Post, error)
	listByUserFn func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	searchFn     func(context.Context, string, int, int, uint) ([]*models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	if s.getByIDFn == nil {
		return &models.Post{ID: id}, nil
	}
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) Exists(ctx context.Context, id uint) error {
	if s.existsFn == nil {
		return nil
	}
	return s.existsFn(ctx, id)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) ListFeed(ctx context.Context, excludeUserID uint, limit, offset int) ([]*models.Post, error) {
	if s.listFeedFn == nil {
		return nil, nil
	}
	return s.listFeedFn(ctx, excludeUserID, limit, offset)
}
func (s *postRepoStub) ListByUser(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, authorID, limit, offset, currentUserID)
}
func (s *postRepoStub) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if s.searchFn == nil {
		return nil, nil
	}
	return s.searchFn(ctx, query, limit, offset, currentUserID)
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn       func(context.Context, *models.Comment) error
	getByIDFn      func(context.Context, uint) (*models.Comment, error)
	listTopLevelFn func(context.Context, uint) ([]*models.Comment, error)
	listRepliesFn  func(context.Context, uint) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	if s.getByIDFn == nil {
		return &models.Comment{ID: id}, nil
	}
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListTopLevel(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if s.listTopLevelFn == nil {
		return nil, nil
	}
	return s.listTopLevelFn(ctx, postID)
}
func (s *commentRepoStub) ListReplies(ctx context.Context, parentID uint) ([]*models.Comment, error) {
	if s.listRepliesFn == nil {
		return nil, nil
	}
	return s.listRepliesFn(ctx, parentID)
}
func (s *commentRepoStub) DeleteTree(context.Context, uint) (int64, error) {
	return 0, nil
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	toggleFn     func(context.Context, uint, uint) (*models.LikeResult, error)
	listLikersFn func(context.Context, uint) ([]*models.User, error)
}

func (s *likeRepoStub) Toggle(ctx context.Context, userID, postID uint) (*models.LikeResult, error) {
	return s.toggleFn(ctx, userID, postID)
}
func (s *likeRepoStub) Get(context.Context, uint, uint) (*models.Like, error) {
	return nil, models.NewNotFoundError("Like", 0)
}
func (s *likeRepoStub) CountActive(context.Context, uint) (int, error) {
	return 0, nil
}
func (s *likeRepoStub) ListLikers(ctx context.Context, postID uint) ([]*models.User, error) {
	if s.listLikersFn == nil {
		return nil, nil
	}
	return s.listLikersFn(ctx, postID)
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	toggleFn func(context.Context, uint, uint) (*models.FollowResult, error)
}

func (s *followRepoStub) Toggle(ctx context.Context, userID, profileID uint) (*models.FollowResult, error) {
	return s.toggleFn(ctx, userID, profileID)
}
func (s *followRepoStub) Get(context.Context, uint, uint) (*models.Follow, error) {
	return nil, models.NewNotFoundError("Follow", 0)
}
func (s *followRepoStub) CountFollowers(context.Context, uint) (int, error) { return 0, nil }
func (s *followRepoStub) ListFollowers(context.Context, uint) ([]*models.Profile, error) {
	return nil, nil
}
func (s *followRepoStub) ListFollowing(context.Context, uint) ([]*models.Profile, error) {
	return nil, nil
}

// bookmarkRepoStub is a stub for repository.BookmarkRepository.
type bookmarkRepoStub struct {
	toggleFn func(context.Context, uint, uint) (*models.BookmarkResult, error)
}

func (s *bookmarkRepoStub) Toggle(ctx context.Context, userID, postID uint) (*models.BookmarkResult, error) {
	return s.toggleFn(ctx, userID, postID)
}
func (s *bookmarkRepoStub) ListPosts(context.Context, uint) ([]*models.Post, error) {
	return nil, nil
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getProfileFn func(context.Context, uint) (*models.Profile, error)
}

func (s *userRepoStub) CreateWithProfile(context.Context, *models.User) error { return nil }
func (s *userRepoStub) GetByID(_ context.Context, id uint) (*models.User, error) {
	return &models.User{ID: id}, nil
}
func (s *userRepoStub) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return nil, models.NewNotFoundError("User", username)
}
func (s *userRepoStub) GetProfile(ctx context.Context, profileID uint) (*models.Profile, error) {
	return s.getProfileFn(ctx, profileID)
}
func (s *userRepoStub) GetProfileByUserID(_ context.Context, userID uint) (*models.Profile, error) {
	return &models.Profile{UserID: userID}, nil
}
func (s *userRepoStub) UpdateProfile(context.Context, *models.Profile) error { return nil }
func (s *userRepoStub) Delete(context.Context, uint) error                   { return nil }

// leaderboardRepoStub is a stub for repository.LeaderboardRepository.
type leaderboardRepoStub struct {
	postsCalls   int
	authorsCalls int
	posts        []*models.Post
	authors      []models.AuthorStanding
}

func (s *leaderboardRepoStub) MostLikedPosts(_ context.Context, limit int) ([]*models.Post, error) {
	s.postsCalls++
	if len(s.posts) > limit {
		return s.posts[:limit], nil
	}
	return s.posts, nil
}
func (s *leaderboardRepoStub) MostLikedAuthors(_ context.Context, limit int) ([]models.AuthorStanding, error) {
	s.authorsCalls++
	if len(s.authors) > limit {
		return s.authors[:limit], nil
	}
	return s.authors, nil
}
func (s *leaderboardRepoStub) TotalLikesForAuthor(context.Context, uint) (int, error) {
	return 0, nil
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
