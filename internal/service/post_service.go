package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	postRepo        repository.PostRepository
	userRepo        repository.UserRepository
	followRepo      repository.FollowRepository
	leaderboardRepo repository.LeaderboardRepository
	pageSize        int
}

type CreatePostInput struct {
	UserID  uint
	Title   string
	Content string
}

// UpdatePostInput carries the fields to change. Empty fields are kept.
type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Title   string
	Content string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	leaderboardRepo repository.LeaderboardRepository,
	pageSize int,
) *PostService {
	if pageSize <= 0 {
		pageSize = 5
	}
	return &PostService{
		postRepo:        postRepo,
		userRepo:        userRepo,
		followRepo:      followRepo,
		leaderboardRepo: leaderboardRepo,
		pageSize:        pageSize,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if err := validation.ValidatePostTitle(title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{
		Title:   title,
		Content: in.Content,
		UserID:  in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.LogServiceCall(ctx, "PostService", "CreatePost", map[string]any{"post_id": post.ID})
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		if err := validation.ValidatePostTitle(title); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Title = title
	}
	if in.Content != "" {
		if err := validation.ValidatePostContent(in.Content); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Content = in.Content
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// DeletePost removes the post together with its comments, likes and bookmarks.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "DeletePost",
		attribute.Int64("post.id", int64(in.PostID)))
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, in.PostID)
}

func (s *PostService) GetPost(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID, currentUserID)
}

// Search matches the trimmed query against titles and bodies.
func (s *PostService) Search(ctx context.Context, query string, page Page, currentUserID uint) ([]*models.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewBadRequestError("Search query is required")
	}
	limit, offset := page.bounds(s.pageSize)
	return s.postRepo.Search(ctx, query, limit, offset, currentUserID)
}

// HomeFeed lists posts written by everyone except userID, newest first.
func (s *PostService) HomeFeed(ctx context.Context, userID uint, page Page) ([]*models.Post, error) {
	limit, offset := page.bounds(s.pageSize)
	return s.postRepo.ListFeed(ctx, userID, limit, offset)
}

// UserPosts assembles the author page for username.
func (s *PostService) UserPosts(ctx context.Context, username string, page Page, currentUserID uint) (up *models.UserPage, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "UserPosts",
		attribute.String("user.username", username))
	defer func() { observability.EndSpan(span, err) }()

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	profile, err := s.userRepo.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	limit, offset := page.bounds(s.pageSize)
	posts, err := s.postRepo.ListByUser(ctx, user.ID, limit, offset, currentUserID)
	if err != nil {
		return nil, err
	}
	totalLikes, err := s.leaderboardRepo.TotalLikesForAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	followers, err := s.followRepo.ListFollowers(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.ListFollowing(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.UserPage{
		User:       user,
		Profile:    profile,
		Posts:      posts,
		TotalLikes: totalLikes,
		Followers:  followers,
		Following:  following,
	}, nil
}
