package service

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// LeaderboardService serves the most-liked rankings, memoized in Redis.
type LeaderboardService struct {
	repo repository.LeaderboardRepository
	size int
}

func NewLeaderboardService(repo repository.LeaderboardRepository, size int) *LeaderboardService {
	if size <= 0 {
		size = 5
	}
	return &LeaderboardService{repo: repo, size: size}
}

func (s *LeaderboardService) MostLikedPosts(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := cache.Aside(ctx, cache.LeaderboardPostsKey, &posts, cache.LeaderboardTTL, func() error {
		var err error
		posts, err = s.repo.MostLikedPosts(ctx, s.size)
		return err
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *LeaderboardService) MostLikedAuthors(ctx context.Context) ([]models.AuthorStanding, error) {
	var standings []models.AuthorStanding
	err := cache.Aside(ctx, cache.LeaderboardAuthorsKey, &standings, cache.LeaderboardTTL, func() error {
		var err error
		standings, err = s.repo.MostLikedAuthors(ctx, s.size)
		return err
	})
	if err != nil {
		return nil, err
	}
	return standings, nil
}
