package repository

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListTopLevel(ctx context.Context, postID uint) ([]*models.Comment, error)
	ListReplies(ctx context.Context, parentID uint) ([]*models.Comment, error)
	DeleteTree(ctx context.Context, id uint) (int64, error)
}

type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, log: observability.NewRepoLogger("comments")}
}

// Create stores the comment after checking, in the same transaction, that
// the post and author exist and that a parent belongs to the same post.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Post{}, comment.PostID, "Post"); err != nil {
			return err
		}
		if err := requireRow(tx, &models.User{}, comment.UserID, "User"); err != nil {
			return err
		}
		if comment.ReplyToID != nil {
			var parent models.Comment
			if err := tx.Select("id", "post_id").Take(&parent, *comment.ReplyToID).Error; err != nil {
				return wrapError(err, "Comment", *comment.ReplyToID)
			}
			if parent.PostID != comment.PostID {
				return models.NewValidationError("Parent comment belongs to a different post")
			}
		}
		return tx.Omit(clause.Associations).Create(comment).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return wrapError(err, "Comment", comment.ID)
	}
	if err := r.db.WithContext(ctx).Preload("User").First(comment, comment.ID).Error; err != nil {
		return wrapError(err, "Comment", comment.ID)
	}
	cache.Invalidate(ctx, cache.PostKey(comment.PostID))
	r.log.LogCreate(ctx, map[string]any{"comment_id": comment.ID, "post_id": comment.PostID, "reply_to_id": comment.ReplyToID})
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, wrapError(err, "Comment", id)
	}
	return &comment, nil
}

// ListTopLevel returns the post's comments that reply to nothing, newest
// first, each with its direct replies oldest first.
func (r *commentRepository) ListTopLevel(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := withReplyCount(r.db.WithContext(ctx)).
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return withReplyCount(db).Order("comments.created_at ASC, comments.id ASC")
		}).
		Preload("Replies.User").
		Where("comments.post_id = ? AND comments.reply_to_id IS NULL", postID).
		Order("comments.created_at DESC, comments.id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// ListReplies returns the direct replies of a comment, oldest first.
func (r *commentRepository) ListReplies(ctx context.Context, parentID uint) ([]*models.Comment, error) {
	var replies []*models.Comment
	err := withReplyCount(r.db.WithContext(ctx)).
		Preload("User").
		Where("comments.reply_to_id = ?", parentID).
		Order("comments.created_at ASC, comments.id ASC").
		Find(&replies).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return replies, nil
}

// DeleteTree removes a comment and, transitively, its replies.
func (r *commentRepository) DeleteTree(ctx context.Context, id uint) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Comment{}, id, "Comment"); err != nil {
			return err
		}
		var err error
		deleted, err = deleteCommentTrees(tx, []uint{id})
		return err
	})
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return 0, wrapError(err, "Comment", id)
	}
	r.log.LogDelete(ctx, map[string]any{"comment_id": id, "rows": deleted})
	return deleted, nil
}

func withReplyCount(db *gorm.DB) *gorm.DB {
	return db.Select("comments.*, (SELECT COUNT(*) FROM comments AS r WHERE r.reply_to_id = comments.id) AS reply_count")
}
