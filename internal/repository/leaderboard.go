package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// LeaderboardRepository computes like-based aggregations.
type LeaderboardRepository interface {
	MostLikedPosts(ctx context.Context, limit int) ([]*models.Post, error)
	MostLikedAuthors(ctx context.Context, limit int) ([]models.AuthorStanding, error)
	TotalLikesForAuthor(ctx context.Context, authorID uint) (int, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

// NewLeaderboardRepository returns a new LeaderboardRepository implementation.
func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

// MostLikedPosts ranks posts by their number of Like rows. Posts without any
// like are not ranked. Ties go to the lower post ID.
func (r *leaderboardRepository) MostLikedPosts(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("posts.*, COUNT(likes.id) AS likes_count").
		Joins("JOIN likes ON likes.post_id = posts.id AND likes.value = ?", activeLike).
		Group("posts.id").
		Order("likes_count DESC, posts.id ASC").
		Limit(limit).
		Preload("User").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// MostLikedAuthors ranks authors by the Like rows across all of their posts.
func (r *leaderboardRepository) MostLikedAuthors(ctx context.Context, limit int) ([]models.AuthorStanding, error) {
	standings := []models.AuthorStanding{}
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id AS user_id, users.username AS username, COUNT(likes.id) AS likes_count").
		Joins("JOIN posts ON posts.user_id = users.id").
		Joins("JOIN likes ON likes.post_id = posts.id AND likes.value = ?", activeLike).
		Group("users.id, users.username").
		Order("likes_count DESC, users.id ASC").
		Limit(limit).
		Scan(&standings).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return standings, nil
}

func (r *leaderboardRepository) TotalLikesForAuthor(ctx context.Context, authorID uint) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("posts.user_id = ? AND likes.value = ?", authorID, activeLike).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return int(count), nil
}
