package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository persists the per-(user, profile) follow state.
type FollowRepository interface {
	Toggle(ctx context.Context, userID, profileID uint) (*models.FollowResult, error)
	Get(ctx context.Context, userID, profileID uint) (*models.Follow, error)
	CountFollowers(ctx context.Context, profileID uint) (int, error)
	ListFollowers(ctx context.Context, profileID uint) ([]*models.Profile, error)
	ListFollowing(ctx context.Context, userID uint) ([]*models.Profile, error)
}

type followRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db, log: observability.NewRepoLogger("follows")}
}

// Toggle flips the follow state for (userID, profileID) inside one
// transaction, creating the row in the Following state on first use.
func (r *followRepository) Toggle(ctx context.Context, userID, profileID uint) (*models.FollowResult, error) {
	defer observability.TrackQuery("toggle", "follows")()

	var follow *models.Follow
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Profile{}, profileID, "Profile"); err != nil {
			return err
		}
		if err := requireRow(tx, &models.User{}, userID, "User"); err != nil {
			return err
		}

		var err error
		follow, err = lockFollow(tx, userID, profileID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			follow = &models.Follow{UserID: userID, ProfileID: profileID, Value: models.FollowValueFollowing}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(follow)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				if follow, err = lockFollow(tx, userID, profileID); err != nil {
					return err
				}
				if err := flipFollow(tx, follow); err != nil {
					return err
				}
			}
		case err != nil:
			return err
		default:
			if err := flipFollow(tx, follow); err != nil {
				return err
			}
		}

		return tx.Model(&models.Follow{}).
			Where("profile_id = ? AND value = ?", profileID, activeFollow).
			Count(&count).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "toggle")
		return nil, wrapError(err, "Profile", profileID)
	}

	cache.InvalidateProfile(ctx, profileID)
	r.log.LogToggle(ctx, map[string]any{"user_id": userID, "profile_id": profileID, "value": follow.Value})

	return &models.FollowResult{
		ProfileID:      profileID,
		Following:      follow.Active(),
		Value:          follow.Value,
		FollowersCount: int(count),
	}, nil
}

func lockFollow(tx *gorm.DB, userID, profileID uint) (*models.Follow, error) {
	var follow models.Follow
	err := forUpdate(tx).
		Where("user_id = ? AND profile_id = ?", userID, profileID).
		Take(&follow).Error
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

func flipFollow(tx *gorm.DB, follow *models.Follow) error {
	follow.Value = follow.Value.Flip()
	return tx.Model(follow).Update("value", string(follow.Value)).Error
}

func (r *followRepository) Get(ctx context.Context, userID, profileID uint) (*models.Follow, error) {
	var follow models.Follow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND profile_id = ?", userID, profileID).
		Take(&follow).Error
	if err != nil {
		return nil, wrapError(err, "Follow", profileID)
	}
	return &follow, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, profileID uint) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("profile_id = ? AND value = ?", profileID, activeFollow).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return int(count), nil
}

// ListFollowers returns the profiles of users actively following profileID.
func (r *followRepository) ListFollowers(ctx context.Context, profileID uint) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := withFollowersCount(r.db.WithContext(ctx)).
		Preload("User").
		Joins("JOIN follows ON follows.user_id = profiles.user_id").
		Where("follows.profile_id = ? AND follows.value = ?", profileID, activeFollow).
		Order("follows.updated_at DESC, follows.id DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

// ListFollowing returns the profiles userID actively follows.
func (r *followRepository) ListFollowing(ctx context.Context, userID uint) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := withFollowersCount(r.db.WithContext(ctx)).
		Preload("User").
		Joins("JOIN follows ON follows.profile_id = profiles.id").
		Where("follows.user_id = ? AND follows.value = ?", userID, activeFollow).
		Order("follows.updated_at DESC, follows.id DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}
