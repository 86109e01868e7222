package db

import (
	"context"
	"testing"
	"time"

	"posts-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testUser(email string) *models.User {
	return &models.User{
		ID:        primitive.NewObjectID(),
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}
}

func testPost(title, description string, userID primitive.ObjectID, offset time.Duration) *models.Post {
	return &models.Post{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		Photo:       title + ".jpg",
		UserID:      userID,
		CreatedAt:   baseTime.Add(offset),
		UpdatedAt:   baseTime.Add(offset),
	}
}

func assertSamePost(t *testing.T, want, got *models.Post) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Description, got.Description)
	assert.Equal(t, want.Photo, got.Photo)
	assert.Equal(t, want.UserID, got.UserID)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "createdAt %v != %v", want.CreatedAt, got.CreatedAt)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updatedAt %v != %v", want.UpdatedAt, got.UpdatedAt)
}

func titles(posts []models.PostWithUser) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}

// runStoreSuite checks the behaviour every Store driver must share.
// newStore must return an empty store.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("CreateAndGetUser", func(t *testing.T) {
		s := newStore(t)
		u := testUser("ada@example.com")
		require.NoError(t, s.CreateUser(ctx, u))

		got, err := s.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, u.Email, got.Email)
		assert.True(t, u.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.CreateUser(ctx, testUser("dup@example.com")))

		err := s.CreateUser(ctx, testUser("dup@example.com"))
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("GetMissingUser", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetUser(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("CreateAndGetPost", func(t *testing.T) {
		s := newStore(t)
		p := testPost("hello", "5", primitive.NewObjectID(), 0)
		require.NoError(t, s.CreatePost(ctx, p))

		got, err := s.GetPost(ctx, p.ID)
		require.NoError(t, err)
		assertSamePost(t, p, got)
	})

	t.Run("UpdatePostChangesOnlyPatchedFields", func(t *testing.T) {
		s := newStore(t)
		p := testPost("before", "desc", primitive.NewObjectID(), 0)
		require.NoError(t, s.CreatePost(ctx, p))

		title := "after"
		patch := models.PostPatch{Title: &title, UpdatedAt: baseTime.Add(time.Hour)}
		got, err := s.UpdatePost(ctx, p.ID, patch)
		require.NoError(t, err)

		want := patch.Apply(*p)
		assertSamePost(t, &want, got)

		stored, err := s.GetPost(ctx, p.ID)
		require.NoError(t, err)
		assertSamePost(t, &want, stored)
	})

	t.Run("UpdateMissingPost", func(t *testing.T) {
		s := newStore(t)
		title := "x"
		_, err := s.UpdatePost(ctx, primitive.NewObjectID(), models.PostPatch{Title: &title, UpdatedAt: baseTime})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("DeletePostReturnsPriorValues", func(t *testing.T) {
		s := newStore(t)
		p := testPost("gone", "desc", primitive.NewObjectID(), 0)
		require.NoError(t, s.CreatePost(ctx, p))

		deleted, err := s.DeletePost(ctx, p.ID)
		require.NoError(t, err)
		assertSamePost(t, p, deleted)

		_, err = s.GetPost(ctx, p.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.DeletePost(ctx, p.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ListPostsLeftJoinsUsers", func(t *testing.T) {
		s := newStore(t)
		u := testUser("owner@example.com")
		require.NoError(t, s.CreateUser(ctx, u))

		owned := testPost("owned", "1", u.ID, 0)
		orphan := testPost("orphan", "2", primitive.NewObjectID(), time.Minute)
		require.NoError(t, s.CreatePost(ctx, owned))
		require.NoError(t, s.CreatePost(ctx, orphan))

		q := models.PostQuery{SortBy: models.SortByCreatedAt, Page: 1, Limit: 10}
		posts, err := s.ListPosts(ctx, q)
		require.NoError(t, err)
		require.Len(t, posts, 2)

		assert.Equal(t, owned.ID, posts[0].ID)
		assert.Equal(t, u.ID, posts[0].UserID)
		assert.Equal(t, models.UserDetails{FirstName: "Ada", LastName: "Lovelace", Email: "owner@example.com"}, posts[0].UserDetails)

		assert.Equal(t, orphan.ID, posts[1].ID)
		assert.Equal(t, models.UserDetails{}, posts[1].UserDetails)
	})

	t.Run("ListPostsSortsAndPages", func(t *testing.T) {
		s := newStore(t)
		uid := primitive.NewObjectID()
		for i, title := range []string{"c", "a", "e", "b", "d"} {
			require.NoError(t, s.CreatePost(ctx, testPost(title, "x", uid, time.Duration(i)*time.Minute)))
		}

		q := models.PostQuery{SortBy: models.SortByTitle, Descending: true, Page: 2, Limit: 2}
		posts, err := s.ListPosts(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "b"}, titles(posts))

		q = models.PostQuery{SortBy: models.SortByCreatedAt, Page: 1, Limit: 3}
		posts, err = s.ListPosts(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "a", "e"}, titles(posts))

		total, err := s.CountPosts(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)

		q.Page = 3
		posts, err = s.ListPosts(ctx, q)
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})

	t.Run("ListPostsNumericRange", func(t *testing.T) {
		s := newStore(t)
		uid := primitive.NewObjectID()
		for i, d := range []string{"1", "5", "10", "abc", "2.5", "1e999"} {
			require.NoError(t, s.CreatePost(ctx, testPost("p"+d, d, uid, time.Duration(i)*time.Minute)))
		}

		lo, hi := 2.0, 10.0
		q := models.PostQuery{SortBy: models.SortByCreatedAt, Page: 1, Limit: 10, Min: &lo, Max: &hi}
		posts, err := s.ListPosts(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []string{"p5", "p10", "p2.5"}, titles(posts))

		total, err := s.CountPosts(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		q.Min, q.Max = nil, &lo
		total, err = s.CountPosts(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)

		// 1e999 does not fit a double and never matches a bound.
		zero := 0.0
		q.Min, q.Max = &zero, nil
		posts, err = s.ListPosts(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p5", "p10", "p2.5"}, titles(posts))
		total, err = s.CountPosts(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})
}
