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

// LikeRepository persists the per-(user, post) like state.
type LikeRepository interface {
	Toggle(ctx context.Context, userID, postID uint) (*models.LikeResult, error)
	Get(ctx context.Context, userID, postID uint) (*models.Like, error)
	CountActive(ctx context.Context, postID uint) (int, error)
	ListLikers(ctx context.Context, postID uint) ([]*models.User, error)
}

type likeRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db, log: observability.NewRepoLogger("likes")}
}

// Toggle flips the like state for (userID, postID) inside one transaction,
// creating the row in the Like state on first use. Concurrent toggles of the
// same pair serialize on the row lock or, for the very first insert, on the
// unique index.
func (r *likeRepository) Toggle(ctx context.Context, userID, postID uint) (*models.LikeResult, error) {
	defer observability.TrackQuery("toggle", "likes")()

	var like *models.Like
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Post{}, postID, "Post"); err != nil {
			return err
		}
		if err := requireRow(tx, &models.User{}, userID, "User"); err != nil {
			return err
		}

		var err error
		like, err = lockLike(tx, userID, postID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			like = &models.Like{UserID: userID, PostID: postID, Value: models.LikeValueLike}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// A concurrent first toggle created the row; toggle on top of it.
				if like, err = lockLike(tx, userID, postID); err != nil {
					return err
				}
				if err := flipLike(tx, like); err != nil {
					return err
				}
			}
		case err != nil:
			return err
		default:
			if err := flipLike(tx, like); err != nil {
				return err
			}
		}

		return tx.Model(&models.Like{}).
			Where("post_id = ? AND value = ?", postID, activeLike).
			Count(&count).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "toggle")
		return nil, wrapError(err, "Post", postID)
	}

	cache.InvalidatePost(ctx, postID)
	r.log.LogToggle(ctx, map[string]any{"user_id": userID, "post_id": postID, "value": like.Value})

	return &models.LikeResult{
		PostID:     postID,
		Liked:      like.Active(),
		LikesCount: int(count),
	}, nil
}

func lockLike(tx *gorm.DB, userID, postID uint) (*models.Like, error) {
	var like models.Like
	err := forUpdate(tx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Take(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func flipLike(tx *gorm.DB, like *models.Like) error {
	like.Value = like.Value.Flip()
	return tx.Model(like).Update("value", string(like.Value)).Error
}

func (r *likeRepository) Get(ctx context.Context, userID, postID uint) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Take(&like).Error
	if err != nil {
		return nil, wrapError(err, "Like", postID)
	}
	return &like, nil
}

func (r *likeRepository) CountActive(ctx context.Context, postID uint) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ? AND value = ?", postID, activeLike).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return int(count), nil
}

// ListLikers returns the users currently in the post's liked set, most recent
// first.
func (r *likeRepository) ListLikers(ctx context.Context, postID uint) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.post_id = ? AND likes.value = ?", postID, activeLike).
		Order("likes.updated_at DESC, likes.id DESC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
