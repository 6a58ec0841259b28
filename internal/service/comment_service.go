package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	UserID   uint
	PostID   uint
	Content  string
	ParentID *uint
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// PostComment stores a top-level comment, or a reply when ParentID is set.
// The repository rejects a missing post or author and a parent on another
// post.
func (s *CommentService) PostComment(ctx context.Context, in CreateCommentInput) (c *models.Comment, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "CommentService", "PostComment")
	defer func() { observability.EndSpan(span, err) }()

	content := strings.TrimSpace(in.Content)
	if err := validation.ValidateComment(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment := &models.Comment{
		PostID:    in.PostID,
		UserID:    in.UserID,
		Content:   content,
		ReplyToID: in.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListTopLevelComments returns the post's top-level comments with their
// direct replies.
func (s *CommentService) ListTopLevelComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if err := s.postRepo.Exists(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListTopLevel(ctx, postID)
}

func (s *CommentService) ListReplies(ctx context.Context, commentID uint) ([]*models.Comment, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListReplies(ctx, commentID)
}
