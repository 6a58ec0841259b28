package service

import (
	"context"
	"math"
	"strings"
	"testing"

	"inkwell/internal/cache"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type services struct {
	users       *UserService
	posts       *PostService
	comments    *CommentService
	engagement  *EngagementService
	leaderboard *LeaderboardService
}

func setupServices(t *testing.T) *services {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)

	return &services{
		users:       NewUserService(userRepo).WithBcryptCost(bcrypt.MinCost),
		posts:       NewPostService(postRepo, userRepo, followRepo, leaderboardRepo, 5),
		comments:    NewCommentService(commentRepo, postRepo),
		engagement:  NewEngagementService(likeRepo, followRepo, bookmarkRepo, userRepo, postRepo),
		leaderboard: NewLeaderboardService(leaderboardRepo, 5),
	}
}

// useRedisCache points the shared cache at a miniredis server for the test.
func useRedisCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		_ = cache.Close()
		mr.Close()
	})
	return mr
}

func (s *services) register(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := s.users.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return u
}

func (s *services) publish(t *testing.T, author *models.User, title string) *models.Post {
	t.Helper()
	p, err := s.posts.CreatePost(context.Background(), CreatePostInput{
		UserID:  author.ID,
		Title:   title,
		Content: strings.Repeat("Go is expressive. ", 12),
	})
	require.NoError(t, err)
	return p
}

func TestScenario_LikeToggleRoundTrip(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	a := s.register(t, "alice")
	b := s.register(t, "bobby")
	post := s.publish(t, a, "Hello")

	res, err := s.engagement.ToggleLike(ctx, b.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.LikesCount)

	likers, err := s.engagement.PostLikers(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, likers, 1)
	assert.Equal(t, b.ID, likers[0].ID)

	res, err = s.engagement.ToggleLike(ctx, b.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 0, res.LikesCount)

	got, err := s.posts.GetPost(ctx, post.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, got.Liked)
}

func TestScenario_CommentAndReply(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	a := s.register(t, "alice")
	b := s.register(t, "bobby")
	post := s.publish(t, a, "Thread")

	top, err := s.comments.PostComment(ctx, CreateCommentInput{UserID: a.ID, PostID: post.ID, Content: "Hi"})
	require.NoError(t, err)
	reply, err := s.comments.PostComment(ctx, CreateCommentInput{UserID: b.ID, PostID: post.ID, Content: "Hello", ParentID: &top.ID})
	require.NoError(t, err)

	comments, err := s.comments.ListTopLevelComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, top.ID, comments[0].ID)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, reply.ID, comments[0].Replies[0].ID)
	assert.Equal(t, "bobby", comments[0].Replies[0].User.Username)

	replies, err := s.comments.ListReplies(ctx, top.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "Hello", replies[0].Content)
}

func TestScenario_DeletePostEmptiesListings(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	a := s.register(t, "alice")
	b := s.register(t, "bobby")
	post := s.publish(t, a, "Ephemeral")

	_, err := s.comments.PostComment(ctx, CreateCommentInput{UserID: b.ID, PostID: post.ID, Content: "first"})
	require.NoError(t, err)
	_, err = s.engagement.ToggleLike(ctx, b.ID, post.ID)
	require.NoError(t, err)
	_, err = s.engagement.ToggleBookmark(ctx, b.ID, post.ID)
	require.NoError(t, err)

	err = s.posts.DeletePost(ctx, DeletePostInput{UserID: b.ID, PostID: post.ID})
	assertAppError(t, err, models.CodeForbidden)
	require.NoError(t, s.posts.DeletePost(ctx, DeletePostInput{UserID: a.ID, PostID: post.ID}))

	bookmarks, err := s.engagement.ListBookmarks(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, bookmarks)

	top, err := s.leaderboard.MostLikedPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, top)

	_, err = s.comments.ListTopLevelComments(ctx, post.ID)
	assertAppError(t, err, models.CodeNotFound)
}

func TestScenario_UserPage(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	a := s.register(t, "alice")
	b := s.register(t, "bobby")
	c := s.register(t, "carol")

	p1 := s.publish(t, a, "One")
	p2 := s.publish(t, a, "Two")
	for _, fan := range []*models.User{b, c} {
		_, err := s.engagement.ToggleLike(ctx, fan.ID, p1.ID)
		require.NoError(t, err)
	}
	_, err := s.engagement.ToggleLike(ctx, b.ID, p2.ID)
	require.NoError(t, err)

	_, err = s.engagement.ToggleFollow(ctx, b.ID, a.Profile.ID)
	require.NoError(t, err)
	_, err = s.engagement.ToggleFollow(ctx, a.ID, c.Profile.ID)
	require.NoError(t, err)
	_, err = s.engagement.ToggleFollow(ctx, a.ID, a.Profile.ID)
	assertAppError(t, err, models.CodeValidation)

	page, err := s.posts.UserPosts(ctx, "alice", Page{}, b.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, page.User.ID)
	assert.Equal(t, 3, page.TotalLikes)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, p2.ID, page.Posts[0].ID)
	assert.True(t, page.Posts[0].Liked)
	require.Len(t, page.Followers, 1)
	assert.Equal(t, b.ID, page.Followers[0].UserID)
	require.Len(t, page.Following, 1)
	assert.Equal(t, c.Profile.ID, page.Following[0].ID)

	_, err = s.posts.UserPosts(ctx, "nobody", Page{}, b.ID)
	assertAppError(t, err, models.CodeNotFound)

	authors, err := s.leaderboard.MostLikedAuthors(ctx)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, models.AuthorStanding{UserID: a.ID, Username: "alice", LikesCount: 3}, authors[0])
}

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	_, err := s.users.Register(ctx, RegisterInput{Username: "al", Email: "al@example.com", Password: "password123"})
	assertAppError(t, err, models.CodeValidation)
	_, err = s.users.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "short"})
	assertAppError(t, err, models.CodeValidation)

	u := s.register(t, "alice")
	assert.NotEqual(t, "password123", u.Password)

	_, err = s.users.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "password123"})
	assertAppError(t, err, models.CodeValidation)

	got, err := s.users.Authenticate(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.users.Authenticate(ctx, "alice", "wrong-password1")
	assertAppError(t, err, models.CodeUnauthorized)
	_, err = s.users.Authenticate(ctx, "nobody", "password123")
	assertAppError(t, err, models.CodeUnauthorized)
}

func TestUserService_UpdateProfileAndDelete(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	u := s.register(t, "alice")

	bio := "  Gopher  "
	profile, err := s.users.UpdateProfile(ctx, UpdateProfileInput{UserID: u.ID, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Gopher", profile.Bio)
	assert.Equal(t, models.DefaultProfileImage, profile.Image)

	long := strings.Repeat("b", 501)
	_, err = s.users.UpdateProfile(ctx, UpdateProfileInput{UserID: u.ID, Bio: &long})
	assertAppError(t, err, models.CodeValidation)

	s.publish(t, u, "Gone soon")
	require.NoError(t, s.users.DeleteUser(ctx, u.ID))
	_, err = s.users.GetUserByID(ctx, u.ID)
	assertAppError(t, err, models.CodeNotFound)
}

func TestScenario_DeletedAuthorPostRejectsComments(t *testing.T) {
	mr := useRedisCache(t)
	s := setupServices(t)
	ctx := context.Background()
	a := s.register(t, "alice")
	b := s.register(t, "bobby")
	post := s.publish(t, a, "Cached")

	_, err := s.comments.PostComment(ctx, CreateCommentInput{UserID: b.ID, PostID: post.ID, Content: "first"})
	require.NoError(t, err)
	_, err = s.posts.GetPost(ctx, post.ID, 0)
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.PostKey(post.ID)))

	require.NoError(t, s.users.DeleteUser(ctx, a.ID))
	assert.False(t, mr.Exists(cache.PostKey(post.ID)))

	_, err = s.comments.PostComment(ctx, CreateCommentInput{UserID: b.ID, PostID: post.ID, Content: "again"})
	assertAppError(t, err, models.CodeNotFound)
	_, err = s.comments.ListTopLevelComments(ctx, post.ID)
	assertAppError(t, err, models.CodeNotFound)
	_, err = s.engagement.PostLikers(ctx, post.ID)
	assertAppError(t, err, models.CodeNotFound)
}

func TestScenario_StaleCachedPostDoesNotAdmitWrites(t *testing.T) {
	mr := useRedisCache(t)
	s := setupServices(t)
	ctx := context.Background()
	a := s.register(t, "alice")
	b := s.register(t, "bobby")
	post := s.publish(t, a, "Stale")

	_, err := s.posts.GetPost(ctx, post.ID, 0)
	require.NoError(t, err)
	key := cache.PostKey(post.ID)
	cached, err := mr.Get(key)
	require.NoError(t, err)

	require.NoError(t, s.posts.DeletePost(ctx, DeletePostInput{UserID: a.ID, PostID: post.ID}))
	// Put the entry back as if another replica had cached it after the delete.
	require.NoError(t, mr.Set(key, cached))

	_, err = s.comments.PostComment(ctx, CreateCommentInput{UserID: b.ID, PostID: post.ID, Content: "ghost"})
	assertAppError(t, err, models.CodeNotFound)
	_, err = s.comments.ListTopLevelComments(ctx, post.ID)
	assertAppError(t, err, models.CodeNotFound)
	_, err = s.engagement.PostLikers(ctx, post.ID)
	assertAppError(t, err, models.CodeNotFound)
}

func TestScenario_DeletedUserCannotEngage(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	a := s.register(t, "alice")
	b := s.register(t, "bobby")
	post := s.publish(t, a, "Still here")

	require.NoError(t, s.users.DeleteUser(ctx, b.ID))

	_, err := s.engagement.ToggleLike(ctx, b.ID, post.ID)
	assertAppError(t, err, models.CodeNotFound)
	_, err = s.engagement.ToggleBookmark(ctx, b.ID, post.ID)
	assertAppError(t, err, models.CodeNotFound)
	_, err = s.engagement.ToggleFollow(ctx, b.ID, a.Profile.ID)
	assertAppError(t, err, models.CodeNotFound)
	_, err = s.comments.PostComment(ctx, CreateCommentInput{UserID: b.ID, PostID: post.ID, Content: "from beyond"})
	assertAppError(t, err, models.CodeNotFound)
	_, err = s.posts.CreatePost(ctx, CreatePostInput{UserID: b.ID, Title: "Orphan", Content: strings.Repeat("x", models.PostContentMinLength)})
	assertAppError(t, err, models.CodeNotFound)

	top, err := s.leaderboard.MostLikedPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, top)

	got, err := s.posts.GetPost(ctx, post.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LikesCount)
	assert.Equal(t, 0, got.CommentsCount)
}

func TestScenario_HugePageIsEmpty(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	a := s.register(t, "alice")
	b := s.register(t, "bobby")
	s.publish(t, a, "Only one")

	feed, err := s.posts.HomeFeed(ctx, b.ID, Page{Page: math.MaxInt, Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, feed)

	found, err := s.posts.Search(ctx, "only", Page{Page: math.MaxInt}, b.ID)
	require.NoError(t, err)
	assert.Empty(t, found)
}
