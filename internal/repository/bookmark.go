package repository

import (
	"context"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookmarkRepository persists bookmarks. A row exists iff the post is bookmarked.
type BookmarkRepository interface {
	Toggle(ctx context.Context, userID, postID uint) (*models.BookmarkResult, error)
	ListPosts(ctx context.Context, userID uint) ([]*models.Post, error)
}

type bookmarkRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewBookmarkRepository returns a new BookmarkRepository implementation.
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db, log: observability.NewRepoLogger("bookmarks")}
}

func (r *bookmarkRepository) Toggle(ctx context.Context, userID, postID uint) (*models.BookmarkResult, error) {
	result := &models.BookmarkResult{PostID: postID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Post{}, postID, "Post"); err != nil {
			return err
		}
		if err := requireRow(tx, &models.User{}, userID, "User"); err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Bookmark{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			result.Bookmarked = false
			return nil
		}

		res = tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Bookmark{UserID: userID, PostID: postID, CreatedAt: time.Now()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// A concurrent toggle bookmarked first; toggle on top of it.
			result.Bookmarked = false
			return tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Bookmark{}).Error
		}
		result.Bookmarked = true
		return nil
	})
	if err != nil {
		r.log.LogError(ctx, err, "toggle")
		return nil, wrapError(err, "Post", postID)
	}

	r.log.LogToggle(ctx, map[string]any{"user_id": userID, "post_id": postID, "bookmarked": result.Bookmarked})
	return result, nil
}

// ListPosts returns the user's bookmarked posts, most recently bookmarked first.
func (r *bookmarkRepository) ListPosts(ctx context.Context, userID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := withPostDetails(r.db.WithContext(ctx), userID).
		Preload("User").
		Joins("JOIN bookmarks ON bookmarks.post_id = posts.id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC, bookmarks.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}
