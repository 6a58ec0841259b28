package repository

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	Exists(ctx context.Context, id uint) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	ListFeed(ctx context.Context, excludeUserID uint, limit, offset int) ([]*models.Post, error)
	ListByUser(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error)
}

type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.User{}, post.UserID, "User"); err != nil {
			return err
		}
		return tx.Create(post).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return wrapError(err, "Post", post.ID)
	}
	r.log.LogCreate(ctx, map[string]any{"post_id": post.ID, "user_id": post.UserID})
	return nil
}

// Exists reports NotFound unless the post row is present. It always reads
// the database, never the cache.
func (r *postRepository) Exists(ctx context.Context, id uint) error {
	if err := requireRow(r.db.WithContext(ctx), &models.Post{}, id, "Post"); err != nil {
		return wrapError(err, "Post", id)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	load := func() error {
		return withPostDetails(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			Where("posts.id = ?", id).
			Take(&post).Error
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, load)
	} else {
		err = load()
	}
	if err != nil {
		return nil, wrapError(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{ID: post.ID}).
		Updates(map[string]interface{}{"title": post.Title, "content": post.Content})
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "update")
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	cache.Invalidate(ctx, cache.PostKey(post.ID))
	r.log.LogUpdate(ctx, map[string]any{"post_id": post.ID})
	return nil
}

// Delete removes the post with its likes, bookmarks and comment threads in
// one transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Post{}, id, "Post"); err != nil {
			return err
		}
		return deletePostsCascade(tx, []uint{id})
	})
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return wrapError(err, "Post", id)
	}
	cache.InvalidatePost(ctx, id)
	r.log.LogDelete(ctx, map[string]any{"post_id": id})
	return nil
}

func (r *postRepository) ListFeed(ctx context.Context, excludeUserID uint, limit, offset int) ([]*models.Post, error) {
	limit, offset = pageBounds(limit, offset)
	var posts []*models.Post
	err := withPostDetails(r.db.WithContext(ctx), excludeUserID).
		Preload("User").
		Where("posts.user_id <> ?", excludeUserID).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByUser(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	limit, offset = pageBounds(limit, offset)
	var posts []*models.Post
	err := withPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("posts.user_id = ?", authorID).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Search matches query case-insensitively against title or content.
func (r *postRepository) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	limit, offset = pageBounds(limit, offset)
	pattern := likePattern(query)
	var posts []*models.Post
	err := withPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("LOWER(posts.title) LIKE ? ESCAPE '!' OR LOWER(posts.content) LIKE ? ESCAPE '!'", pattern, pattern).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// withPostDetails selects the computed counters and the acting user's
// like/bookmark flags alongside each post. A zero user ID yields false flags.
func withPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	return db.Model(&models.Post{}).Select(
		"posts.*, "+
			"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id AND likes.value = ?) AS likes_count, "+
			"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count, "+
			"EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ? AND likes.value = ?) AS liked, "+
			"EXISTS(SELECT 1 FROM bookmarks WHERE bookmarks.post_id = posts.id AND bookmarks.user_id = ?) AS bookmarked",
		activeLike, currentUserID, activeLike, currentUserID,
	)
}
