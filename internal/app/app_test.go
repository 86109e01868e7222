package app

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"posts-api/internal/db"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	return New(Config{MaxPageLimit: 100}, db.NewMemoryStore())
}

func do(t *testing.T, app *fiber.App, method, target string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func createUser(t *testing.T, app *fiber.App, first, last, email string) string {
	t.Helper()
	status, body := do(t, app, http.MethodPost, "/users", map[string]string{
		"firstName": first, "lastName": last, "email": email,
	})
	require.Equal(t, http.StatusCreated, status, body)
	return body["user"].(map[string]any)["id"].(string)
}

func createPost(t *testing.T, app *fiber.App, title, description, userID string) string {
	t.Helper()
	status, body := do(t, app, http.MethodPost, "/posts", map[string]string{
		"title": title, "description": description, "photo": "p.jpg", "userId": userID,
	})
	require.Equal(t, http.StatusCreated, status, body)
	return body["post"].(map[string]any)["id"].(string)
}

func TestCreateUserListPostsExample(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodPost, "/users", map[string]string{
		"firstName": "A", "lastName": "B", "email": "a@x.com",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "User created", body["message"])
	user := body["user"].(map[string]any)
	userID := user["id"].(string)
	assert.Len(t, userID, 24)
	assert.NotEmpty(t, user["createdAt"])

	status, body = do(t, app, http.MethodGet, "/users/"+userID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a@x.com", body["user"].(map[string]any)["email"])

	status, body = do(t, app, http.MethodPost, "/posts", map[string]string{
		"title": "T", "description": "5", "photo": "p.jpg", "userId": userID,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Post created", body["message"])

	status, body = do(t, app, http.MethodGet, "/posts?limit=10&page=1", nil)
	require.Equal(t, http.StatusOK, status)
	posts := body["posts"].([]any)
	require.Len(t, posts, 1)
	details := posts[0].(map[string]any)["user_details"].(map[string]any)
	assert.Equal(t, "A", details["firstName"])
	assert.Equal(t, "B", details["lastName"])
	assert.Equal(t, "a@x.com", details["email"])
	assert.Equal(t, 1.0, body["totalPosts"])
	assert.Equal(t, 1.0, body["totalPages"])
	assert.Equal(t, 1.0, body["currentPage"])
}

func TestCreateUserErrors(t *testing.T) {
	app := newTestApp(t)
	createUser(t, app, "A", "B", "a@x.com")

	status, body := do(t, app, http.MethodPost, "/users", map[string]string{
		"firstName": "C", "lastName": "D", "email": "a@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Error creating user", body["error"])
	assert.Contains(t, body["details"], "already exists")

	status, body = do(t, app, http.MethodPost, "/users", map[string]string{"firstName": "C"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "lastName: is required", body["details"])

	status, _ = do(t, app, http.MethodGet, "/users/"+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreatePostValidation(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodPost, "/posts", map[string]string{
		"description": "5", "photo": "p.jpg", "userId": primitive.NewObjectID().Hex(),
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Error creating post", body["error"])
	assert.Equal(t, "title: is required", body["details"])

	_, body = do(t, app, http.MethodGet, "/posts", nil)
	assert.Equal(t, 0.0, body["totalPosts"])
	assert.Empty(t, body["posts"])

	req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListPostsOrphanAndPaging(t *testing.T) {
	app := newTestApp(t)
	userID := createUser(t, app, "A", "B", "a@x.com")
	createPost(t, app, "owned", "1", userID)
	createPost(t, app, "orphan", "2", primitive.NewObjectID().Hex())
	createPost(t, app, "third", "3", userID)

	status, body := do(t, app, http.MethodGet, "/posts?sortBy=title&order=asc&limit=2&page=1", nil)
	require.Equal(t, http.StatusOK, status)
	posts := body["posts"].([]any)
	require.Len(t, posts, 2)
	first := posts[0].(map[string]any)
	assert.Equal(t, "orphan", first["title"])
	assert.Empty(t, first["user_details"])
	assert.Equal(t, 3.0, body["totalPosts"])
	assert.Equal(t, 2.0, body["totalPages"])

	status, body = do(t, app, http.MethodGet, "/posts?sortBy=title&limit=2&page=2", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["posts"].([]any), 1)
	assert.Equal(t, 2.0, body["currentPage"])

	status, body = do(t, app, http.MethodGet, "/posts?min=2&max=3", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2.0, body["totalPosts"])
}

func TestListPostsRejectsBadParams(t *testing.T) {
	app := newTestApp(t)

	for _, query := range []string{
		"limit=0", "limit=-1", "limit=abc", "limit=1000",
		"page=0", "page=-2", "order=up", "sortBy=secret", "min=abc",
	} {
		status, body := do(t, app, http.MethodGet, "/posts?"+query, nil)
		assert.Equal(t, http.StatusBadRequest, status, query)
		assert.Equal(t, "Error fetching posts", body["error"], query)
	}
}

func TestListPostsHugePage(t *testing.T) {
	app := newTestApp(t)
	createPost(t, app, "T", "5", primitive.NewObjectID().Hex())

	status, body := do(t, app, http.MethodGet, "/posts?page=922337203685477582&limit=10", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Error fetching posts", body["error"])
	assert.Equal(t, "page: is too large for the given limit", body["details"])

	status, body = do(t, app, http.MethodGet, "/posts?page=922337203685477580&limit=10", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["posts"])
	assert.Equal(t, 1.0, body["totalPosts"])
	assert.Equal(t, 922337203685477580.0, body["currentPage"])
}

func TestUpdatePost(t *testing.T) {
	app := newTestApp(t)
	userID := createUser(t, app, "A", "B", "a@x.com")
	postID := createPost(t, app, "T", "5", userID)

	status, body := do(t, app, http.MethodPut, "/posts/"+postID, map[string]string{"title": "T2"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Post updated", body["message"])
	updated := body["updatedPost"].(map[string]any)
	assert.Equal(t, "T2", updated["title"])
	assert.Equal(t, "5", updated["description"])
	assert.Equal(t, "p.jpg", updated["photo"])
	assert.Equal(t, userID, updated["userId"])

	missing := primitive.NewObjectID().Hex()
	status, body = do(t, app, http.MethodPut, "/posts/"+missing, map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Post not found", body["error"])

	status, _ = do(t, app, http.MethodPut, "/posts/not-an-id", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPut, "/posts/"+postID, map[string]string{"userId": "u1"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDeletePost(t *testing.T) {
	app := newTestApp(t)
	postID := createPost(t, app, "T", "5", primitive.NewObjectID().Hex())

	status, body := do(t, app, http.MethodDelete, "/posts/"+postID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Post deleted", body["message"])
	assert.Equal(t, "T", body["deletedPost"].(map[string]any)["title"])

	status, _ = do(t, app, http.MethodGet, "/posts/"+postID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodDelete, "/posts/"+postID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthAndUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "up", body["store"])

	status, body = do(t, app, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not Found", body["error"])
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRES_HOST", "pg")
	t.Setenv("MAX_PAGE_LIMIT", "25")

	cfg := LoadConfig()
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, db.DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "postgres://postgres:postgres@pg:5432/postsdb?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, 25, cfg.MaxPageLimit)
	assert.Equal(t, db.DriverPostgres, cfg.StoreOptions().Driver)
}
