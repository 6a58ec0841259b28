package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// EngagementService runs the like, follow and bookmark toggles.
type EngagementService struct {
	likeRepo     repository.LikeRepository
	followRepo   repository.FollowRepository
	bookmarkRepo repository.BookmarkRepository
	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
}

func NewEngagementService(
	likeRepo repository.LikeRepository,
	followRepo repository.FollowRepository,
	bookmarkRepo repository.BookmarkRepository,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
) *EngagementService {
	return &EngagementService{
		likeRepo:     likeRepo,
		followRepo:   followRepo,
		bookmarkRepo: bookmarkRepo,
		userRepo:     userRepo,
		postRepo:     postRepo,
	}
}

// ToggleLike flips userID's like on postID. The first call for a pair likes
// the post.
func (s *EngagementService) ToggleLike(ctx context.Context, userID, postID uint) (res *models.LikeResult, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "EngagementService", "ToggleLike",
		attribute.Int64("user.id", int64(userID)), attribute.Int64("post.id", int64(postID)))
	defer func() { observability.EndSpan(span, err) }()

	res, err = s.likeRepo.Toggle(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	observability.RecordToggle("like", res.Liked)
	return res, nil
}

// ToggleFollow flips userID's follow of profileID. Following one's own
// profile is rejected.
func (s *EngagementService) ToggleFollow(ctx context.Context, userID, profileID uint) (res *models.FollowResult, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "EngagementService", "ToggleFollow",
		attribute.Int64("user.id", int64(userID)), attribute.Int64("profile.id", int64(profileID)))
	defer func() { observability.EndSpan(span, err) }()

	profile, err := s.userRepo.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.UserID == userID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}

	res, err = s.followRepo.Toggle(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}
	observability.RecordToggle("follow", res.Following)
	return res, nil
}

func (s *EngagementService) ToggleBookmark(ctx context.Context, userID, postID uint) (res *models.BookmarkResult, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "EngagementService", "ToggleBookmark",
		attribute.Int64("user.id", int64(userID)), attribute.Int64("post.id", int64(postID)))
	defer func() { observability.EndSpan(span, err) }()

	res, err = s.bookmarkRepo.Toggle(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	observability.RecordToggle("bookmark", res.Bookmarked)
	return res, nil
}

// ListBookmarks returns userID's bookmarked posts, most recently bookmarked first.
func (s *EngagementService) ListBookmarks(ctx context.Context, userID uint) ([]*models.Post, error) {
	return s.bookmarkRepo.ListPosts(ctx, userID)
}

// PostLikers returns the users currently liking postID.
func (s *EngagementService) PostLikers(ctx context.Context, postID uint) ([]*models.User, error) {
	if err := s.postRepo.Exists(ctx, postID); err != nil {
		return nil, err
	}
	return s.likeRepo.ListLikers(ctx, postID)
}
