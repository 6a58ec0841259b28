package repository

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for users and their profiles.
type UserRepository interface {
	CreateWithProfile(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetProfile(ctx context.Context, profileID uint) (*models.Profile, error)
	GetProfileByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger("users")}
}

// CreateWithProfile stores the user and an empty profile atomically.
// Duplicate usernames or emails surface as a ValidationError.
func (r *userRepository) CreateWithProfile(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		profile := &models.Profile{UserID: user.ID, Image: models.DefaultProfileImage}
		if err := tx.Omit(clause.Associations).Create(profile).Error; err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Username or email already taken")
		}
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"user_id": user.ID})
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		return nil, wrapError(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, wrapError(err, "User", username)
	}
	return &user, nil
}

func (r *userRepository) GetProfile(ctx context.Context, profileID uint) (*models.Profile, error) {
	var profile models.Profile
	err := cache.Aside(ctx, cache.ProfileKey(profileID), &profile, cache.ProfileTTL, func() error {
		return withFollowersCount(r.db.WithContext(ctx)).
			Preload("User").
			Where("profiles.id = ?", profileID).
			Take(&profile).Error
	})
	if err != nil {
		return nil, wrapError(err, "Profile", profileID)
	}
	return &profile, nil
}

func (r *userRepository) GetProfileByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := withFollowersCount(r.db.WithContext(ctx)).
		Preload("User").
		Where("profiles.user_id = ?", userID).
		Take(&profile).Error
	if err != nil {
		return nil, wrapError(err, "Profile", userID)
	}
	return &profile, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	res := r.db.WithContext(ctx).
		Model(&models.Profile{ID: profile.ID}).
		Updates(map[string]interface{}{"bio": profile.Bio, "image": profile.Image})
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "update")
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Profile", profile.ID)
	}
	cache.InvalidateProfile(ctx, profile.ID)
	r.log.LogUpdate(ctx, map[string]any{"profile_id": profile.ID})
	return nil
}

// Delete removes the user and, in the same transaction, their posts (with
// likes, bookmarks and threads), comment threads, likes, bookmarks, follows
// in both directions and profile.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	var profileIDs, postIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.User{}, id, "User"); err != nil {
			return err
		}
		// Cached post details of the user's own posts and of every post whose
		// counts drop with the cascade must not outlive the commit.
		var err error
		if postIDs, err = affectedPostIDs(tx, id); err != nil {
			return err
		}
		if err := tx.Model(&models.Profile{}).Where("user_id = ?", id).Pluck("id", &profileIDs).Error; err != nil {
			return err
		}
		var followed []uint
		if err := tx.Model(&models.Follow{}).Where("user_id = ?", id).Pluck("profile_id", &followed).Error; err != nil {
			return err
		}
		profileIDs = append(profileIDs, followed...)
		return deleteUserCascade(tx, id)
	})
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return wrapError(err, "User", id)
	}
	cache.InvalidateLeaderboards(ctx)
	for _, pid := range postIDs {
		cache.InvalidatePost(ctx, pid)
	}
	for _, pid := range profileIDs {
		cache.InvalidateProfile(ctx, pid)
	}
	r.log.LogDelete(ctx, map[string]any{"user_id": id, "posts_invalidated": len(postIDs)})
	return nil
}

// affectedPostIDs lists the posts authored, liked or commented on by the user.
func affectedPostIDs(tx *gorm.DB, userID uint) ([]uint, error) {
	var ids []uint
	err := tx.Model(&models.Post{}).
		Where("user_id = ?", userID).
		Or("id IN (?)", tx.Model(&models.Like{}).Select("post_id").Where("user_id = ?", userID)).
		Or("id IN (?)", tx.Model(&models.Comment{}).Select("post_id").Where("user_id = ?", userID)).
		Pluck("id", &ids).Error
	return ids, err
}

func withFollowersCount(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Profile{}).Select(
		"profiles.*, (SELECT COUNT(*) FROM follows WHERE follows.profile_id = profiles.id AND follows.value = ?) AS followers_count",
		activeFollow,
	)
}
