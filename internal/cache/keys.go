package cache

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/middleware"
)

const (
	PostKeyPrefix         = "post:%d"
	ProfileKeyPrefix      = "profile:%d"
	LeaderboardPostsKey   = "leaderboard:posts"
	LeaderboardAuthorsKey = "leaderboard:authors"
)

const (
	PostTTL        = 30 * time.Minute
	ProfileTTL     = 5 * time.Minute
	LeaderboardTTL = 10 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func ProfileKey(profileID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, profileID)
}

// Invalidate deletes keys. It is a no-op without a client.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed",
			"keys", keys, "error", err.Error())
	}
}

// InvalidatePost drops the cached post and both leaderboards, which may
// contain it.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID), LeaderboardPostsKey, LeaderboardAuthorsKey)
}

// InvalidateLeaderboards drops both memoized leaderboards.
func InvalidateLeaderboards(ctx context.Context) {
	Invalidate(ctx, LeaderboardPostsKey, LeaderboardAuthorsKey)
}

// InvalidateProfile drops a cached profile.
func InvalidateProfile(ctx context.Context, profileID uint) {
	Invalidate(ctx, ProfileKey(profileID))
}
