package service

import (
	"context"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestCommentService_PostCommentValidation(t *testing.T) {
	created := false
	comments := &commentRepoStub{
		createFn: func(context.Context, *models.Comment) error {
			created = true
			return nil
		},
	}
	svc := NewCommentService(comments, &postRepoStub{})

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t"},
		{"too long", strings.Repeat("a", models.CommentMaxLength+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PostComment(context.Background(), CreateCommentInput{UserID: 1, PostID: 1, Content: tt.content})
			assertAppError(t, err, models.CodeValidation)
		})
	}
	assert.False(t, created)
}

func TestCommentService_PostCommentTrimsAndStores(t *testing.T) {
	var stored *models.Comment
	comments := &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 42
			stored = c
			return nil
		},
	}
	svc := NewCommentService(comments, &postRepoStub{})

	padded := "  " + strings.Repeat("b", models.CommentMaxLength) + "  "
	c, err := svc.PostComment(context.Background(), CreateCommentInput{UserID: 3, PostID: 8, Content: padded})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, uint(42), c.ID)
	assert.Equal(t, strings.Repeat("b", models.CommentMaxLength), c.Content)
	assert.Equal(t, uint(3), c.UserID)
	assert.Nil(t, c.ReplyToID)
}

func TestCommentService_PostCommentPassesRepositoryErrors(t *testing.T) {
	comments := &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			if c.ReplyToID != nil {
				return models.NewValidationError("Parent comment belongs to a different post")
			}
			return models.NewNotFoundError("Post", c.PostID)
		},
	}
	svc := NewCommentService(comments, &postRepoStub{})
	ctx := context.Background()

	_, err := svc.PostComment(ctx, CreateCommentInput{UserID: 1, PostID: 5, Content: "hi"})
	assertAppError(t, err, models.CodeNotFound)

	_, err = svc.PostComment(ctx, CreateCommentInput{UserID: 1, PostID: 5, Content: "hi", ParentID: uintPtr(9)})
	assertAppError(t, err, models.CodeValidation)
}

func TestCommentService_ListTopLevelChecksPostUncached(t *testing.T) {
	posts := &postRepoStub{
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		existsFn: func(_ context.Context, id uint) error {
			return models.NewNotFoundError("Post", id)
		},
	}
	listed := false
	comments := &commentRepoStub{
		listTopLevelFn: func(context.Context, uint) ([]*models.Comment, error) {
			listed = true
			return nil, nil
		},
	}
	svc := NewCommentService(comments, posts)

	_, err := svc.ListTopLevelComments(context.Background(), 3)
	assertAppError(t, err, models.CodeNotFound)
	assert.False(t, listed)
}

func TestCommentService_ListRepliesMissingComment(t *testing.T) {
	comments := &commentRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return nil, models.NewNotFoundError("Comment", id)
		},
	}
	svc := NewCommentService(comments, &postRepoStub{})

	_, err := svc.ListReplies(context.Background(), 1)
	assertAppError(t, err, models.CodeNotFound)
}
