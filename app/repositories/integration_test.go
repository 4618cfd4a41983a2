package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"toyblog/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests talk to a real mongo deployment and only run when MONGO_URI
// points at a disposable instance.

func setupMongoStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := ConnectMongo(ctx, uri)
	require.NoError(t, err)
	db := client.Database("toyblog_test_" + models.NewID())
	require.NoError(t, EnsureMongoIndexes(ctx, db))

	store := NewMongoStore(client, db)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = store.Close(ctx)
	})
	return store
}

func TestMongoBlogRepository(t *testing.T) {
	store := setupMongoStore(t)
	ctx := context.Background()

	first := newPost("First mongo post")
	require.NoError(t, store.Blogs.Create(ctx, first))
	time.Sleep(5 * time.Millisecond)
	second := newPost("Second mongo post")
	require.NoError(t, store.Blogs.Create(ctx, second))

	posts, err := store.Blogs.FindAllSorted(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)

	updated, err := store.Blogs.UpdateByID(ctx, first.ID, newPost("Renamed mongo post"))
	require.NoError(t, err)
	assert.Equal(t, "Renamed mongo post", updated.Title)

	ok, err := store.Blogs.ExistsByTitle(ctx, "Renamed mongo post")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = store.Blogs.DeleteByID(ctx, first.ID)
	require.NoError(t, err)
	_, err = store.Blogs.FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Blogs.FindByID(ctx, "malformed")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoCommentRepository(t *testing.T) {
	store := setupMongoStore(t)
	ctx := context.Background()
	postA, postB := models.NewID(), models.NewID()

	comment := newComment(postB, "Alice")
	require.NoError(t, store.Comments.Create(ctx, comment))

	_, err := store.Comments.AddReply(ctx, postA, comment.ID, newReply("Bob", "Wrong post"))
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := store.Comments.AddReply(ctx, postB, comment.ID, newReply("Bob", "Right post"))
	require.NoError(t, err)
	require.Len(t, updated.Replies, 1)

	_, err = store.Comments.Delete(ctx, postA, comment.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Comments.Delete(ctx, postB, comment.ID)
	assert.NoError(t, err)
}

func TestMongoUserRepository(t *testing.T) {
	store := setupMongoStore(t)
	ctx := context.Background()

	require.NoError(t, store.Users.Create(ctx, &models.User{Email: "ann@example.com", PasswordHash: "hash"}))
	err := store.Users.Create(ctx, &models.User{Email: "ANN@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrDuplicate)
}
