package models

import "time"

// LikeValue is the state of a Like row.
type LikeValue string

const (
	// LikeValueLike marks the user as a member of the post's liked set.
	LikeValueLike LikeValue = "Like"
	// LikeValueUnlike marks a previously liked post as no longer liked.
	LikeValueUnlike LikeValue = "Unlike"
)

// Flip returns the opposite state.
func (v LikeValue) Flip() LikeValue {
	if v == LikeValueLike {
		return LikeValueUnlike
	}
	return LikeValueLike
}

// Like is the single record of a user's like state for one post.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post;index" json:"post_id"`
	Value     LikeValue `gorm:"type:varchar(10);not null;default:'Like';index" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether the row puts its user in the liked set.
func (l *Like) Active() bool {
	return l.Value == LikeValueLike
}
