// Package models contains data structures for the application's domain models.
package models

import "time"

// User is an account that authors posts and interacts with other users' content.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:30;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:254;uniqueIndex;not null" json:"email,omitempty"`
	Password  string    `gorm:"not null" json:"-"`
	Profile   *Profile  `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultProfileImage is assigned to profiles that never uploaded an avatar.
const DefaultProfileImage = "default.jpg"

// Profile is the public face of a User and the target of follows.
type Profile struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;uniqueIndex" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Bio    string `gorm:"size:500" json:"bio"`
	Image  string `gorm:"size:255;default:'default.jpg'" json:"image"`
	// FollowersCount is computed at query time
	FollowersCount int       `gorm:"->;-:migration" json:"followers_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
