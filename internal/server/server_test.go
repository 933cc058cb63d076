package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"pictora/internal/config"
	"pictora/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

// newTestServer wires the full stack against an in-memory database. Redis is
// absent (cache disabled) and uploads go to a fake store that mints URLs.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Env:       "test",
		JWTSecret: "test_secret",
		Port:      "0",
	}

	s := NewServerWithDeps(cfg, db, nil, fakeImageStore{})
	return s, s.App()
}

type fakeImageStore struct{}

func (fakeImageStore) Upload(_ context.Context, fileName string, r io.Reader, _ int64) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	return "http://images.test/posts/" + uuid.New().String() + "-" + fileName, nil
}

func (fakeImageStore) Delete(context.Context, string) error { return nil }

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

// registerUser creates an account through the API and returns (userID, token).
func registerUser(t *testing.T, app *fiber.App, username string) (uint, string) {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"fullName": "User " + username,
		"username":  username,
		"email":     username + "@example.com",
		"password":  "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register failed: %v", body)

	user := body["user"].(map[string]any)
	return uint(user["id"].(float64)), body["token"].(string)
}

// createPost publishes a post with n images through the multipart endpoint.
func createPost(t *testing.T, app *fiber.App, token, caption string, n int) uint {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("caption", caption))
	for i := 0; i < n; i++ {
		part, err := w.CreateFormFile("images", fmt.Sprintf("photo%d.jpg", i))
		require.NoError(t, err)
		_, err = part.Write([]byte("not-really-a-jpeg"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/createPost", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	post := body["post"].(map[string]any)
	return uint(post["id"].(float64))
}

func TestRegisterAndLoginFlow(t *testing.T) {
	_, app := newTestServer(t)

	resp, body := doJSON(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"fullName": "Alice Smith",
		"username":  "alice",
		"email":     "Alice@Example.com",
		"password":  "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "alice@example.com", user["email"])
	_, hasPassword := user["password"]
	assert.False(t, hasPassword, "password must never be serialized")

	t.Run("duplicate email conflicts regardless of casing", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/auth/register", "", map[string]string{
			"fullName": "Other",
			"username":  "other",
			"email":     "ALICE@example.COM",
			"password":  "secret1",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, false, body["success"])
	})

	t.Run("login succeeds with registered credentials", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "secret1",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, body["token"])
	})

	t.Run("login unknown email is 404", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "nobody@example.com",
			"password": "secret1",
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("login wrong password is 401", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestCreatePostAndFeed(t *testing.T) {
	_, app := newTestServer(t)
	_, token := registerUser(t, app, "alice")

	postID := createPost(t, app, token, "golden hour", 2)

	t.Run("feed returns the enriched post", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/getPosts", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		posts := body["posts"].([]any)
		require.Len(t, posts, 1)
		post := posts[0].(map[string]any)
		assert.Equal(t, float64(postID), post["id"])
		assert.Equal(t, "golden hour", post["caption"])
		assert.Equal(t, "golden hour", post["description"])
		assert.Equal(t, "User alice", post["author"])
		assert.Equal(t, "U", post["avatar"])
		assert.Len(t, post["images"].([]any), 2)
		assert.Equal(t, post["images"].([]any)[0], post["image"])
		assert.Equal(t, float64(0), post["likes"])
		assert.Equal(t, false, post["is_liked"])
	})

	t.Run("search filters by caption and author", func(t *testing.T) {
		createPost(t, app, token, "mountain trail", 1)

		resp, body := doJSON(t, app, http.MethodGet, "/getPosts?search=GOLDEN", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body["posts"].([]any), 1)

		resp, body = doJSON(t, app, http.MethodGet, "/getPosts?search=alice", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body["posts"].([]any), 2)

		resp, body = doJSON(t, app, http.MethodGet, "/getPosts?search=nomatch", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, body["posts"])
	})

	t.Run("caption required", func(t *testing.T) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, _ := w.CreateFormFile("images", "a.jpg")
		_, _ = part.Write([]byte("x"))
		_ = w.Close()

		req := httptest.NewRequest(http.MethodPost, "/createPost", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("anonymous creation has no author", func(t *testing.T) {
		anonID := createPost(t, app, "", "street shot", 1)

		resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/posts/%d", anonID), "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		post := body["post"].(map[string]any)
		assert.Nil(t, post["user_id"])
		assert.Equal(t, "User", post["author"])
		assert.Equal(t, "user", post["username"])
		assert.Equal(t, "U", post["avatar"])
	})
}

func TestLikeToggleAndNotifications(t *testing.T) {
	_, app := newTestServer(t)
	aliceID, aliceToken := registerUser(t, app, "alice")
	_, bobToken := registerUser(t, app, "bob")

	postID := createPost(t, app, aliceToken, "sunset", 1)
	likePath := fmt.Sprintf("/posts/%d/like", postID)

	// like
	resp, body := doJSON(t, app, http.MethodPost, likePath, bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(1), body["like_count"])

	// owner sees exactly one like notification
	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/notifications/%d", aliceID), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	notifications := body["notifications"].([]any)
	require.Len(t, notifications, 1)
	n := notifications[0].(map[string]any)
	assert.Equal(t, "like", n["type"])
	assert.Equal(t, "User bob liked your post", n["message"])
	assert.Equal(t, float64(1), body["unread_count"])

	// second toggle unlikes and does not add a notification
	resp, body = doJSON(t, app, http.MethodPost, likePath, bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["liked"])
	assert.Equal(t, float64(0), body["like_count"])

	_, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/notifications/%d", aliceID), aliceToken, nil)
	assert.Len(t, body["notifications"].([]any), 1)

	t.Run("self-like never notifies", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, likePath, aliceToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		_, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/notifications/%d", aliceID), aliceToken, nil)
		assert.Len(t, body["notifications"].([]any), 1)
	})

	t.Run("missing post is 404", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/posts/9999/like", bobToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("mark all read", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPut, fmt.Sprintf("/notifications/%d/read-all", aliceID), aliceToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), body["updated"])

		_, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/notifications/%d", aliceID), aliceToken, nil)
		assert.Equal(t, float64(0), body["unread_count"])
	})

	t.Run("notifications are private", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, fmt.Sprintf("/notifications/%d", aliceID), bobToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestCommentsFlow(t *testing.T) {
	_, app := newTestServer(t)
	aliceID, aliceToken := registerUser(t, app, "alice")
	_, bobToken := registerUser(t, app, "bob")

	postID := createPost(t, app, aliceToken, "beach day", 1)
	commentsPath := fmt.Sprintf("/posts/%d/comments", postID)

	resp, body := doJSON(t, app, http.MethodPost, commentsPath, bobToken, map[string]string{
		"text": "first!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	comment := body["comment"].(map[string]any)
	assert.Equal(t, "first!", comment["comment_text"])
	assert.Equal(t, "User bob", comment["author"])
	commentID := uint(comment["id"].(float64))

	_, _ = doJSON(t, app, http.MethodPost, commentsPath, aliceToken, map[string]string{
		"text": "thanks for coming",
	})

	t.Run("list is oldest first", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, commentsPath, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		comments := body["comments"].([]any)
		require.Len(t, comments, 2)
		assert.Equal(t, "first!", comments[0].(map[string]any)["comment_text"])
		assert.Equal(t, "thanks for coming", comments[1].(map[string]any)["comment_text"])
	})

	t.Run("comment notifies the post owner", func(t *testing.T) {
		_, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/notifications/%d", aliceID), aliceToken, nil)
		notifications := body["notifications"].([]any)
		require.Len(t, notifications, 1, "self-comment must not notify")
		n := notifications[0].(map[string]any)
		assert.Equal(t, "comment", n["type"])
		assert.Equal(t, `User bob commented: "first!"`, n["message"])
	})

	t.Run("empty comment rejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, commentsPath, bobToken, map[string]string{
			"text": "   ",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("only the author deletes a comment", func(t *testing.T) {
		path := fmt.Sprintf("/comments/%d", commentID)
		resp, _ := doJSON(t, app, http.MethodDelete, path, aliceToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodDelete, path, bobToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodDelete, path, bobToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestFollowFlow(t *testing.T) {
	_, app := newTestServer(t)
	aliceID, aliceToken := registerUser(t, app, "alice")
	bobID, bobToken := registerUser(t, app, "bob")

	followPath := fmt.Sprintf("/users/%d/follow", aliceID)

	t.Run("self-follow rejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/users/%d/follow", bobID), bobToken, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	resp, body := doJSON(t, app, http.MethodPost, followPath, bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["following"])
	assert.Equal(t, float64(1), body["follower_count"])

	t.Run("follow notifies the target", func(t *testing.T) {
		_, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/notifications/%d", aliceID), aliceToken, nil)
		notifications := body["notifications"].([]any)
		require.Len(t, notifications, 1)
		n := notifications[0].(map[string]any)
		assert.Equal(t, "follow", n["type"])
		assert.Equal(t, "User bob started following you", n["message"])
	})

	t.Run("profile reflects follow state", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/users/%d", aliceID), bobToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		user := body["user"].(map[string]any)
		assert.Equal(t, float64(1), user["follower_count"])
		assert.Equal(t, true, user["is_following"])

		resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/users/%d", aliceID), "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, false, body["user"].(map[string]any)["is_following"])
	})

	t.Run("followers list", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/users/%d/followers", aliceID), "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		users := body["users"].([]any)
		require.Len(t, users, 1)
		assert.Equal(t, "bob", users[0].(map[string]any)["username"])
	})

	t.Run("second toggle unfollows", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, followPath, bobToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, false, body["following"])
		assert.Equal(t, float64(0), body["follower_count"])
	})
}

func TestSavedPostsFlow(t *testing.T) {
	_, app := newTestServer(t)
	_, aliceToken := registerUser(t, app, "alice")
	bobID, bobToken := registerUser(t, app, "bob")

	postID := createPost(t, app, aliceToken, "city lights", 1)

	resp, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/posts/%d/save", postID), bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["saved"])

	t.Run("saved list is owner-only", func(t *testing.T) {
		path := fmt.Sprintf("/users/%d/saved", bobID)
		resp, body := doJSON(t, app, http.MethodGet, path, bobToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		posts := body["posts"].([]any)
		require.Len(t, posts, 1)
		assert.Equal(t, true, posts[0].(map[string]any)["is_saved"])

		resp, _ = doJSON(t, app, http.MethodGet, path, aliceToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("second toggle unsaves", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/posts/%d/save", postID), bobToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, false, body["saved"])

		_, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/users/%d/saved", bobID), bobToken, nil)
		assert.Empty(t, body["posts"])
	})
}

func TestDeletePostCascades(t *testing.T) {
	_, app := newTestServer(t)
	_, aliceToken := registerUser(t, app, "alice")
	_, bobToken := registerUser(t, app, "bob")

	postID := createPost(t, app, aliceToken, "short lived", 1)
	_, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/posts/%d/like", postID), bobToken, nil)
	_, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/posts/%d/comments", postID), bobToken, map[string]string{
		"text": "nice",
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/posts/%d", postID), bobToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	resp, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/posts/%d", postID), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/posts/%d", postID), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/posts/%d/comments", postID), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body := doJSON(t, app, http.MethodGet, "/getPosts", "", nil)
	assert.Empty(t, body["posts"])
}

func TestUpdateProfile(t *testing.T) {
	_, app := newTestServer(t)
	aliceID, aliceToken := registerUser(t, app, "alice")
	_, bobToken := registerUser(t, app, "bob")

	path := fmt.Sprintf("/users/%d", aliceID)

	t.Run("self update", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPut, path, aliceToken, map[string]string{
			"bio":     "photographer",
			"website": "https://alice.example.com",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		user := body["user"].(map[string]any)
		assert.Equal(t, "photographer", user["bio"])
		assert.Equal(t, "https://alice.example.com", user["website"])
	})

	t.Run("full name uses the client body key", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPut, path, aliceToken, map[string]string{
			"fullName": "Alice M. Smith",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		user := body["user"].(map[string]any)
		assert.Equal(t, "Alice M. Smith", user["full_name"])
	})

	t.Run("cannot update someone else", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, path, bobToken, map[string]string{"bio": "hacked"})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("no fields is 400", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, path, aliceToken, map[string]string{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing user is 404", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/users/9999", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAuthMiddleware(t *testing.T) {
	s, app := newTestServer(t)

	t.Run("missing token", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/posts/1/like", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, false, body["success"])
	})

	t.Run("garbage token", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/posts/1/like", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong secret", func(t *testing.T) {
		forged := &Server{config: &config.Config{JWTSecret: "different_secret"}}
		token, err := forged.generateToken(1, "alice")
		require.NoError(t, err)

		resp, _ := doJSON(t, app, http.MethodPost, "/posts/1/like", token, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token reaches the handler", func(t *testing.T) {
		token, err := s.generateToken(1, "alice")
		require.NoError(t, err)

		// post 1 does not exist, so passing auth yields 404 rather than 401
		resp, _ := doJSON(t, app, http.MethodPost, "/posts/1/like", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
