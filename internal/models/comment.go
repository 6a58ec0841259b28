package models

import "time"

// CommentMaxLength is the maximum number of characters in a comment.
const CommentMaxLength = 300

// Comment is a remark on a post, optionally replying to another comment on
// the same post.
type Comment struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	PostID    uint       `gorm:"not null;index" json:"post_id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID" json:"user"`
	Content   string     `gorm:"size:300;not null" json:"content"`
	ReplyToID *uint      `gorm:"index" json:"reply_to_id,omitempty"`
	Replies   []*Comment `gorm:"foreignKey:ReplyToID" json:"replies,omitempty"`
	// ReplyCount is computed at query time
	ReplyCount int       `gorm:"->;-:migration" json:"reply_count"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
