// Package test holds black-box API tests that drive a fully wired server
// over HTTP semantics (fiber's in-process transport).
package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/server"
	"inkwell/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type testApp struct {
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
}

type session struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"user"`
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := testutil.TestConfig()
	db := testutil.OpenDB(t)

	srv, err := server.NewServerWithDeps(cfg, db, testutil.NewRedis(t))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)
	return &testApp{app: app, db: db, cfg: cfg}
}

func (ta *testApp) register(t *testing.T, name string) session {
	t.Helper()

	var out session
	status := ta.doJSON(t, jsonReq(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": name,
		"email":    fmt.Sprintf("%s@example.com", name),
		"password": "TestPass123!@#",
	}), &out)
	if status != http.StatusCreated {
		t.Fatalf("register expected 201 got %d", status)
	}
	if out.Token == "" || out.RefreshToken == "" || out.User.ID == 0 {
		t.Fatalf("invalid register response: %+v", out)
	}
	return out
}

// promote changes a user's role directly in the database; authorization
// middleware reads the row, so the active token picks it up immediately.
func (ta *testApp) promote(t *testing.T, userID uint, role models.UserRole) {
	t.Helper()
	err := ta.db.Model(&models.User{}).Where("id = ?", userID).
		Update("role", string(role)).Error
	if err != nil {
		t.Fatalf("promote user %d: %v", userID, err)
	}
}

func (ta *testApp) doJSON(t *testing.T, req *http.Request, out any) int {
	t.Helper()
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
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
