package service

import (
	"context"
	"testing"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardService_MemoizesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		_ = cache.Close()
		mr.Close()
	})

	repo := &leaderboardRepoStub{
		posts:   []*models.Post{{ID: 3, LikesCount: 9}, {ID: 1, LikesCount: 4}},
		authors: []models.AuthorStanding{{UserID: 7, Username: "ada", LikesCount: 13}},
	}
	svc := NewLeaderboardService(repo, 5)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		posts, err := svc.MostLikedPosts(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, uint(3), posts[0].ID)
		assert.Equal(t, 9, posts[0].LikesCount)
	}
	assert.Equal(t, 1, repo.postsCalls)
	assert.True(t, mr.Exists(cache.LeaderboardPostsKey))
	assert.Equal(t, cache.LeaderboardTTL, mr.TTL(cache.LeaderboardPostsKey))

	authors, err := svc.MostLikedAuthors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.AuthorStanding{{UserID: 7, Username: "ada", LikesCount: 13}}, authors)

	cache.InvalidateLeaderboards(ctx)
	_, err = svc.MostLikedAuthors(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.authorsCalls)
}

func TestLeaderboardService_WithoutRedis(t *testing.T) {
	cache.SetClient(nil)
	repo := &leaderboardRepoStub{}
	for i := 0; i < 6; i++ {
		repo.posts = append(repo.posts, &models.Post{ID: uint(i + 1)})
	}
	svc := NewLeaderboardService(repo, 0)

	posts, err := svc.MostLikedPosts(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 5)
	_, err = svc.MostLikedPosts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.postsCalls)
}
