package repository

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fixtureSeq atomic.Int64

// setupTestDB returns a migrated in-memory SQLite database. A single
// connection keeps every query on the same in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	n := fixtureSeq.Add(1)
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s_%d@example.com", username, n),
		Password: "hash",
	}
	require.NoError(t, NewUserRepository(db).CreateWithProfile(context.Background(), user))
	return user
}

func createPost(t *testing.T, db *gorm.DB, author *models.User, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:   title,
		Content: strings.Repeat("lorem ipsum ", 20),
		UserID:  author.ID,
	}
	require.NoError(t, NewPostRepository(db).Create(context.Background(), post))
	return post
}

func createComment(t *testing.T, db *gorm.DB, author *models.User, post *models.Post, parent *models.Comment, content string) *models.Comment {
	t.Helper()
	c := &models.Comment{PostID: post.ID, UserID: author.ID, Content: content}
	if parent != nil {
		c.ReplyToID = &parent.ID
	}
	require.NoError(t, NewCommentRepository(db).Create(context.Background(), c))
	return c
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
