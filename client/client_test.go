package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func decodeBody(t *testing.T, r *http.Request, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r.Body).Decode(out))
}

func TestLoginStoresSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var req map[string]string
		decodeBody(t, r, &req)
		if req["email"] != "petra@example.com" || req["password"] != "correct" {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"token":         "access-1",
			"refresh_token": "refresh-1",
			"user":          models.User{ID: 9, Username: "petra", Role: models.RoleAuthor},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	require.NoError(t, c.Login(context.Background(), "petra@example.com", "correct", ""))

	user := c.User()
	require.NotNil(t, user)
	assert.Equal(t, uint(9), user.ID)
	assert.Equal(t, "refresh-1", c.RefreshToken())

	err := c.Login(context.Background(), "petra@example.com", "wrong", "")
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestRequestRetriesOnceThroughRefresh(t *testing.T) {
	var refreshes atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			refreshes.Add(1)
			var req map[string]string
			decodeBody(t, r, &req)
			require.Equal(t, "stale-refresh", req["refresh_token"])
			writeJSON(t, w, http.StatusOK, map[string]string{
				"token":         "fresh-access",
				"refresh_token": "fresh-refresh",
			})
		case "/api/users/me":
			if r.Header.Get("Authorization") != "Bearer fresh-access" {
				writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
				return
			}
			writeJSON(t, w, http.StatusOK, models.User{ID: 3, Username: "reader"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	c := New(server.URL)
	c.accessToken = "stale-access"
	c.refreshToken = "stale-refresh"

	var user models.User
	require.NoError(t, c.Get(context.Background(), "/users/me", &user))
	assert.Equal(t, uint(3), user.ID)
	assert.Equal(t, int32(1), refreshes.Load())
	assert.Equal(t, "fresh-refresh", c.RefreshToken())
}

func TestRequestDoesNotRetryTwice(t *testing.T) {
	var meCalls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			writeJSON(t, w, http.StatusOK, map[string]string{
				"token":         "still-bad",
				"refresh_token": "next-refresh",
			})
		case "/api/users/me":
			meCalls.Add(1)
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	c := New(server.URL)
	c.accessToken = "bad"
	c.refreshToken = "refresh"

	err := c.Get(context.Background(), "/users/me", nil)
	require.Error(t, err)
	assert.Equal(t, int32(2), meCalls.Load())
}

func TestReAuthenticateRestoresSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			var req map[string]string
			decodeBody(t, r, &req)
			if req["refresh_token"] != "persisted" {
				writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired refresh token"})
				return
			}
			writeJSON(t, w, http.StatusOK, map[string]string{
				"token":         "restored-access",
				"refresh_token": "restored-refresh",
			})
		case "/api/users/me":
			require.Equal(t, "Bearer restored-access", r.Header.Get("Authorization"))
			writeJSON(t, w, http.StatusOK, models.User{ID: 5, Username: "returning"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	c := New(server.URL)
	require.NoError(t, c.ReAuthenticate(context.Background(), "persisted"))

	user := c.User()
	require.NotNil(t, user)
	assert.Equal(t, "returning", user.Username)
	assert.Equal(t, "restored-refresh", c.RefreshToken())

	// A bogus persisted token fails cleanly.
	c2 := New(server.URL)
	require.Error(t, c2.ReAuthenticate(context.Background(), "forged"))
	assert.Nil(t, c2.User())
}
