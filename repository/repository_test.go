package repository

import (
	"context"
	"testing"

	"inkwell/database"
	"inkwell/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func createTestUser(t *testing.T, users UserRepository, email string) *models.User {
	t.Helper()

	user := &models.User{Name: "tester", Email: email, Password: "hashed"}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	createTestUser(t, users, "alice@x.com")

	err := users.Create(ctx, &models.User{Name: "impostor", Email: "alice@x.com", Password: "hashed"})
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeConstraintViolation))

	// exactly one row for that email afterwards
	var count int64
	db.Model(&models.User{}).Where("email = ?", "alice@x.com").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestUserGetByEmailAbsent(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)

	user, err := users.GetByEmail(context.Background(), "nobody@x.com")
	require.NoError(t, err, "absence is not an error")
	assert.Nil(t, user)
}

func TestPostCreateDuplicateTitle(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, users, "author@x.com")

	first := &models.Post{Title: "Hello", Subtitle: "s", Body: "b", ImageURL: "i", Date: "d", AuthorID: author.ID}
	require.NoError(t, posts.Create(ctx, first))

	second := &models.Post{Title: "Hello", Subtitle: "s2", Body: "b2", ImageURL: "i2", Date: "d", AuthorID: author.ID}
	err := posts.Create(ctx, second)
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeConstraintViolation))
}

func TestPostListReadAfterWrite(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, users, "author@x.com")

	post := &models.Post{Title: "Hello", Subtitle: "s", Body: "b", ImageURL: "i", Date: "d", AuthorID: author.ID}
	require.NoError(t, posts.Create(ctx, post))

	all, err := posts.List(ctx)
	require.NoError(t, err)

	seen := 0
	for _, p := range all {
		if p.Title == "Hello" {
			seen++
		}
	}
	assert.Equal(t, 1, seen, "a created post appears exactly once")
}

func TestPostGetByIDAbsent(t *testing.T) {
	db := setupTestDB(t)
	posts := NewPostRepository(db)

	post, err := posts.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, post)
}

func TestPostDeleteCascadesComments(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, users, "author@x.com")

	post := &models.Post{Title: "Hello", Subtitle: "s", Body: "b", ImageURL: "i", Date: "d", AuthorID: author.ID}
	require.NoError(t, posts.Create(ctx, post))

	require.NoError(t, comments.Create(ctx, &models.Comment{Text: "Nice!", UserID: author.ID, PostID: post.ID}))
	require.NoError(t, comments.Create(ctx, &models.Comment{Text: "Again!", UserID: author.ID, PostID: post.ID}))

	require.NoError(t, posts.Delete(ctx, post.ID))

	var orphanCount int64
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&orphanCount)
	assert.EqualValues(t, 0, orphanCount, "no orphan comments may remain")

	gone, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCommentListByPost(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, users, "author@x.com")

	post := &models.Post{Title: "Hello", Subtitle: "s", Body: "b", ImageURL: "i", Date: "d", AuthorID: author.ID}
	require.NoError(t, posts.Create(ctx, post))

	other := &models.Post{Title: "Other", Subtitle: "s", Body: "b", ImageURL: "i", Date: "d", AuthorID: author.ID}
	require.NoError(t, posts.Create(ctx, other))

	require.NoError(t, comments.Create(ctx, &models.Comment{Text: "Nice!", UserID: author.ID, PostID: post.ID}))
	require.NoError(t, comments.Create(ctx, &models.Comment{Text: "Elsewhere", UserID: author.ID, PostID: other.ID}))

	list, err := comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Nice!", list[0].Text)
	assert.Equal(t, author.Email, list[0].User.Email, "comment preloads its author")
}
