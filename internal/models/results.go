package models

// LikeResult is returned by a like toggle.
type LikeResult struct {
	PostID     uint `json:"post_id"`
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// FollowResult is returned by a follow toggle.
type FollowResult struct {
	ProfileID      uint        `json:"profile_id"`
	Following      bool        `json:"following"`
	Value          FollowValue `json:"value"`
	FollowersCount int         `json:"followers_count"`
}

// BookmarkResult is returned by a bookmark toggle.
type BookmarkResult struct {
	PostID     uint `json:"post_id"`
	Bookmarked bool `json:"bookmarked"`
}

// AuthorStanding is one row of the most-liked-authors leaderboard.
type AuthorStanding struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	LikesCount int    `json:"likes_count"`
}

// UserPage aggregates everything shown on an author's page.
type UserPage struct {
	User       *User      `json:"user"`
	Profile    *Profile   `json:"profile"`
	Posts      []*Post    `json:"posts"`
	TotalLikes int        `json:"total_likes"`
	Followers  []*Profile `json:"followers"`
	Following  []*Profile `json:"following"`
}
