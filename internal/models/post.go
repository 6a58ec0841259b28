package models

import "time"

const (
	// PostTitleMaxLength is the maximum number of characters in a post title.
	PostTitleMaxLength = 100
	// PostContentMinLength is the minimum number of characters in a post body.
	PostContentMinLength = 200
	// PostContentMaxLength caps post bodies.
	PostContentMaxLength = 50000
)

// Post is a piece of long-form content authored by a user.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"size:100;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->;-:migration" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->;-:migration" json:"comments_count"`
	// Liked reports whether the requesting user currently likes the post
	Liked bool `gorm:"->;-:migration" json:"liked"`
	// Bookmarked reports whether the requesting user has bookmarked the post
	Bookmarked bool      `gorm:"->;-:migration" json:"bookmarked"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
