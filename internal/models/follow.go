package models

import "time"

// FollowValue is the state of a Follow row.
type FollowValue string

const (
	// FollowValueFollowing means the user currently follows the profile.
	FollowValueFollowing FollowValue = "Following"
	// FollowValueFollow means the user does not follow the profile (anymore).
	FollowValueFollow FollowValue = "Follow"
)

// Flip returns the opposite state.
func (v FollowValue) Flip() FollowValue {
	if v == FollowValueFollowing {
		return FollowValueFollow
	}
	return FollowValueFollowing
}

// Follow is the single record of a user's follow state toward one profile.
type Follow struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    uint        `gorm:"not null;uniqueIndex:idx_follows_user_profile" json:"user_id"`
	ProfileID uint        `gorm:"not null;uniqueIndex:idx_follows_user_profile;index" json:"profile_id"`
	Value     FollowValue `gorm:"type:varchar(10);not null;default:'Following';index" json:"value"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Active reports whether the row puts its user in the profile's followed set.
func (f *Follow) Active() bool {
	return f.Value == FollowValueFollowing
}
