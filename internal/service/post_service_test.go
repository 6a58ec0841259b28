package service

import (
	"context"
	"math"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_Bounds(t *testing.T) {
	tests := []struct {
		name       string
		page       Page
		wantLimit  int
		wantOffset int
	}{
		{"zero value", Page{}, 5, 0},
		{"second page", Page{Page: 2}, 5, 5},
		{"custom limit", Page{Page: 3, Limit: 10}, 10, 20},
		{"capped limit", Page{Page: 1, Limit: 1000}, 100, 0},
		{"negative page", Page{Page: -4}, 5, 0},
		{"huge page", Page{Page: math.MaxInt, Limit: 100}, 100, (maxPage - 1) * 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := tt.page.bounds(5)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
			assert.GreaterOrEqual(t, offset, 0)
		})
	}
}

func TestPostService_CreatePostValidation(t *testing.T) {
	var created *models.Post
	posts := &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			p.ID = 1
			created = p
			return nil
		},
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return created, nil
		},
	}
	svc := NewPostService(posts, nil, nil, nil, 5)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Title: "Short", Content: strings.Repeat("x", 199)})
	assertAppError(t, err, models.CodeValidation)

	_, err = svc.CreatePost(ctx, CreatePostInput{UserID: 1, Title: "   ", Content: strings.Repeat("x", 200)})
	assertAppError(t, err, models.CodeValidation)

	_, err = svc.CreatePost(ctx, CreatePostInput{UserID: 1, Title: strings.Repeat("t", 101), Content: strings.Repeat("x", 200)})
	assertAppError(t, err, models.CodeValidation)

	post, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Title: " Exact ", Content: strings.Repeat("x", 200)})
	require.NoError(t, err)
	assert.Equal(t, "Exact", post.Title)
	assert.Equal(t, uint(1), post.UserID)
}

func TestPostService_AuthorOnlyMutations(t *testing.T) {
	deleted := false
	updated := false
	posts := &postRepoStub{
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1, Title: "Mine", Content: strings.Repeat("x", 200)}, nil
		},
		updateFn: func(context.Context, *models.Post) error {
			updated = true
			return nil
		},
		deleteFn: func(context.Context, uint) error {
			deleted = true
			return nil
		},
	}
	svc := NewPostService(posts, nil, nil, nil, 5)
	ctx := context.Background()

	_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 2, PostID: 1, Title: "Hijack"})
	assertAppError(t, err, models.CodeForbidden)
	err = svc.DeletePost(ctx, DeletePostInput{UserID: 2, PostID: 1})
	assertAppError(t, err, models.CodeForbidden)
	assert.False(t, updated)
	assert.False(t, deleted)

	_, err = svc.UpdatePost(ctx, UpdatePostInput{UserID: 1, PostID: 1, Content: "too short"})
	assertAppError(t, err, models.CodeValidation)

	post, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 1, PostID: 1, Title: "Renamed"})
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, uint(1), post.ID)

	require.NoError(t, svc.DeletePost(ctx, DeletePostInput{UserID: 1, PostID: 1}))
	assert.True(t, deleted)
}

func TestPostService_SearchRequiresQuery(t *testing.T) {
	var gotQuery string
	var gotLimit, gotOffset int
	posts := &postRepoStub{
		searchFn: func(_ context.Context, q string, limit, offset int, _ uint) ([]*models.Post, error) {
			gotQuery, gotLimit, gotOffset = q, limit, offset
			return []*models.Post{{ID: 1}}, nil
		},
	}
	svc := NewPostService(posts, nil, nil, nil, 5)
	ctx := context.Background()

	_, err := svc.Search(ctx, "", Page{}, 0)
	assertAppError(t, err, models.CodeBadRequest)
	_, err = svc.Search(ctx, "   ", Page{}, 0)
	assertAppError(t, err, models.CodeBadRequest)

	res, err := svc.Search(ctx, "  golang ", Page{Page: 2}, 0)
	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Equal(t, "golang", gotQuery)
	assert.Equal(t, 5, gotLimit)
	assert.Equal(t, 5, gotOffset)
}

func TestPostService_HomeFeedUsesPageSize(t *testing.T) {
	var gotExclude uint
	var gotLimit, gotOffset int
	posts := &postRepoStub{
		listFeedFn: func(_ context.Context, exclude uint, limit, offset int) ([]*models.Post, error) {
			gotExclude, gotLimit, gotOffset = exclude, limit, offset
			return nil, nil
		},
	}
	svc := NewPostService(posts, nil, nil, nil, 0)

	_, err := svc.HomeFeed(context.Background(), 4, Page{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, uint(4), gotExclude)
	assert.Equal(t, 5, gotLimit)
	assert.Equal(t, 10, gotOffset)
}
