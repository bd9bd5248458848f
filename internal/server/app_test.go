package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp wires a full server against in-memory sqlite and miniredis.
func newTestApp(t *testing.T) (*fiber.App, *Server) {
	t.Helper()

	srv, err := NewServerWithDeps(testutil.TestConfig(), testutil.OpenDB(t), testutil.NewRedis(t))
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)
	return app, srv
}

func jsonReq(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()
	if payload == nil {
		return httptest.NewRequest(method, path, nil)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authReq(t *testing.T, method, path, token string, payload any) *http.Request {
	t.Helper()
	req := jsonReq(t, method, path, payload)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func doJSON(t *testing.T, app *fiber.App, req *http.Request, out any) int {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type sessionTokens struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID   uint   `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func registerUser(t *testing.T, app *fiber.App, name string) sessionTokens {
	t.Helper()

	var out sessionTokens
	status := doJSON(t, app, jsonReq(t, "POST", "/api/auth/register", map[string]string{
		"username": name,
		"email":    fmt.Sprintf("%s@example.com", name),
		"password": "Sup3r-secret-pass!",
	}), &out)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, out.Token)
	require.NotEmpty(t, out.RefreshToken)
	require.NotZero(t, out.User.ID)
	return out
}

func promote(t *testing.T, srv *Server, userID uint, role models.UserRole) {
	t.Helper()
	err := srv.db.Model(&models.User{}).Where("id = ?", userID).
		Update("role", string(role)).Error
	require.NoError(t, err)
}

func TestAuthSessionLifecycle(t *testing.T) {
	app, _ := newTestApp(t)

	session := registerUser(t, app, "lifecycle")

	// Access token works against a protected route.
	status := doJSON(t, app, authReq(t, "GET", "/api/users/me", session.Token, nil), nil)
	assert.Equal(t, http.StatusOK, status)

	// Refresh rotates the pair.
	var rotated sessionTokens
	status = doJSON(t, app, jsonReq(t, "POST", "/api/auth/refresh", map[string]string{
		"refresh_token": session.RefreshToken,
	}), &rotated)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, rotated.Token)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	// The consumed refresh token cannot be replayed.
	status = doJSON(t, app, jsonReq(t, "POST", "/api/auth/refresh", map[string]string{
		"refresh_token": session.RefreshToken,
	}), nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// Logout revokes the refresh token and blacklists the access token.
	status = doJSON(t, app, authReq(t, "POST", "/api/auth/logout", rotated.Token, map[string]string{
		"refresh_token": rotated.RefreshToken,
	}), nil)
	require.Equal(t, http.StatusOK, status)

	status = doJSON(t, app, authReq(t, "GET", "/api/users/me", rotated.Token, nil), nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = doJSON(t, app, jsonReq(t, "POST", "/api/auth/refresh", map[string]string{
		"refresh_token": rotated.RefreshToken,
	}), nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	app, _ := newTestApp(t)
	registerUser(t, app, "cautious")

	status := doJSON(t, app, jsonReq(t, "POST", "/api/auth/login", map[string]string{
		"email":    "cautious@example.com",
		"password": "wrong-password-123",
	}), nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRoleGates(t *testing.T) {
	app, srv := newTestApp(t)
	session := registerUser(t, app, "climber")

	// A fresh account is a subscriber: no editor or admin surface.
	status := doJSON(t, app, authReq(t, "POST", "/api/categories", session.Token, map[string]string{
		"name": "News",
	}), nil)
	assert.Equal(t, http.StatusForbidden, status)

	status = doJSON(t, app, authReq(t, "GET", "/api/admin/users", session.Token, nil), nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Role checks read the database row, not the token claims.
	promote(t, srv, session.User.ID, models.RoleEditor)
	status = doJSON(t, app, authReq(t, "POST", "/api/categories", session.Token, map[string]string{
		"name": "News",
	}), nil)
	assert.Equal(t, http.StatusCreated, status)

	status = doJSON(t, app, authReq(t, "GET", "/api/admin/users", session.Token, nil), nil)
	assert.Equal(t, http.StatusForbidden, status)

	promote(t, srv, session.User.ID, models.RoleAdmin)
	status = doJSON(t, app, authReq(t, "GET", "/api/admin/users", session.Token, nil), nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestPublishFlowControlsPublicVisibility(t *testing.T) {
	app, srv := newTestApp(t)
	session := registerUser(t, app, "writer")
	promote(t, srv, session.User.ID, models.RoleAuthor)

	var created models.Post
	status := doJSON(t, app, authReq(t, "POST", "/api/posts", session.Token, map[string]any{
		"title":   "Field Notes From a Quiet Harbor",
		"content": "Boats came in before the fog did.",
		"status":  "draft",
	}), &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "field-notes-from-a-quiet-harbor", created.Slug)
	assert.Nil(t, created.PublishedAt)

	// Drafts are invisible to the public.
	status = doJSON(t, app, jsonReq(t, "GET", "/api/posts/"+created.Slug, nil), nil)
	assert.Equal(t, http.StatusNotFound, status)

	var published models.Post
	status = doJSON(t, app, authReq(t, "PUT",
		fmt.Sprintf("/api/posts/%d/status", created.ID), session.Token,
		map[string]string{"status": "published"}), &published)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, published.PublishedAt)

	var detail struct {
		models.Post
		ContentHTML string `json:"content_html"`
	}
	status = doJSON(t, app, jsonReq(t, "GET", "/api/posts/"+created.Slug, nil), &detail)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, detail.ContentHTML, "Boats came in")

	var page struct {
		Posts []models.Post `json:"posts"`
		Total int64         `json:"total"`
	}
	status = doJSON(t, app, jsonReq(t, "GET", "/api/posts", nil), &page)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), page.Total)
}

func TestGuestCommentModerationFlow(t *testing.T) {
	app, srv := newTestApp(t)
	session := registerUser(t, app, "moderator")
	promote(t, srv, session.User.ID, models.RoleEditor)

	var post models.Post
	status := doJSON(t, app, authReq(t, "POST", "/api/posts", session.Token, map[string]any{
		"title":   "Open Thread",
		"content": "Say hello.",
		"status":  "published",
	}), &post)
	require.Equal(t, http.StatusCreated, status)

	commentsPath := "/api/posts/" + post.Slug + "/comments"

	// Guests must identify themselves.
	status = doJSON(t, app, jsonReq(t, "POST", commentsPath, map[string]string{
		"content": "First!",
	}), nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var guestComment models.Comment
	status = doJSON(t, app, jsonReq(t, "POST", commentsPath, map[string]string{
		"content":    "Hello from the road.",
		"guest_name": "Wanderer",
	}), &guestComment)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, models.CommentStatusPending, guestComment.Status)
	assert.Nil(t, guestComment.UserID)

	// Pending comments stay out of the public thread.
	var listed struct {
		Comments []models.Comment `json:"comments"`
	}
	status = doJSON(t, app, jsonReq(t, "GET", commentsPath, nil), &listed)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, listed.Comments)

	var approved models.Comment
	status = doJSON(t, app, authReq(t, "PUT",
		fmt.Sprintf("/api/comments/%d/status", guestComment.ID), session.Token,
		map[string]string{"status": "approved"}), &approved)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.CommentStatusApproved, approved.Status)

	status = doJSON(t, app, jsonReq(t, "GET", commentsPath, nil), &listed)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, listed.Comments, 1)
	assert.Equal(t, "Hello from the road.", listed.Comments[0].Content)
}

func TestLikeToggleRoundTrip(t *testing.T) {
	app, srv := newTestApp(t)
	author := registerUser(t, app, "liked-author")
	promote(t, srv, author.User.ID, models.RoleAuthor)

	var post models.Post
	status := doJSON(t, app, authReq(t, "POST", "/api/posts", author.Token, map[string]any{
		"title":   "Likable",
		"content": "Toggle me.",
		"status":  "published",
	}), &post)
	require.Equal(t, http.StatusCreated, status)

	reader := registerUser(t, app, "reader")
	likePath := fmt.Sprintf("/api/posts/%d/like", post.ID)

	var result struct {
		Action     string `json:"action"`
		LikesCount int    `json:"likes_count"`
	}
	status = doJSON(t, app, authReq(t, "POST", likePath, reader.Token, nil), &result)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "created", result.Action)
	assert.Equal(t, 1, result.LikesCount)

	// Same like again toggles it off and returns the count to zero.
	status = doJSON(t, app, authReq(t, "POST", likePath, reader.Token, nil), &result)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "removed", result.Action)
	assert.Equal(t, 0, result.LikesCount)

	// Anonymous toggles are rejected.
	status = doJSON(t, app, jsonReq(t, "POST", likePath, nil), nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRegisterRateLimit(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	app, _ := newTestApp(t)

	for i := 0; i < 3; i++ {
		registerUser(t, app, fmt.Sprintf("burst%d", i))
	}

	status := doJSON(t, app, jsonReq(t, "POST", "/api/auth/register", map[string]string{
		"username": "burst3",
		"email":    "burst3@example.com",
		"password": "Sup3r-secret-pass!",
	}), nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
}
