package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campdir/internal/apperr"
	"campdir/internal/middleware"
	"campdir/internal/models"
)

type fakeAuthStore struct {
	user  models.User
	token string
	err   error

	gotEmail    string
	gotPassword string
	gotResetURL string
}

func (f *fakeAuthStore) Register(_ context.Context, input models.User) (models.User, string, error) {
	if f.err != nil {
		return models.User{}, "", f.err
	}
	input.ID = primitive.NewObjectID()
	return input, f.token, nil
}

func (f *fakeAuthStore) Login(_ context.Context, email, password string) (models.User, string, error) {
	f.gotEmail, f.gotPassword = email, password
	if f.err != nil {
		return models.User{}, "", f.err
	}
	return f.user, f.token, nil
}

func (f *fakeAuthStore) UpdateDetails(_ context.Context, _ primitive.ObjectID, name, email string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	f.user.Name, f.user.Email = name, email
	return f.user, nil
}

func (f *fakeAuthStore) UpdatePassword(_ context.Context, _ *models.User, _, _ string) (string, error) {
	return f.token, f.err
}

func (f *fakeAuthStore) ForgotPassword(_ context.Context, email string, buildURL func(string) string) error {
	f.gotEmail = email
	f.gotResetURL = buildURL("abc123")
	return f.err
}

func (f *fakeAuthStore) ResetPassword(_ context.Context, _, _ string) (models.User, string, error) {
	if f.err != nil {
		return models.User{}, "", f.err
	}
	return f.user, f.token, nil
}

func newAuthApp(store *fakeAuthStore) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(zerolog.Nop())})
	h := NewAuthHandler(store, 24*time.Hour, false)
	auth := app.Group("/api/v1/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)
	auth.Post("/forgot-password", h.ForgotPassword)
	auth.Put("/resetpassword/:token", h.ResetPassword)
	return app
}

func tokenCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" {
			return cookie
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	store := &fakeAuthStore{
		user:  models.User{ID: primitive.NewObjectID(), Email: "john@example.com", Role: models.RolePublisher},
		token: "signed.jwt.token",
	}
	app := newAuthApp(store)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"john@example.com","password":"123456"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "john@example.com", store.gotEmail)
	assert.Equal(t, "123456", store.gotPassword)

	cookie := tokenCookie(resp)
	require.NotNil(t, cookie)
	assert.Equal(t, "signed.jwt.token", cookie.Value)
	assert.True(t, cookie.HttpOnly)

	var body struct {
		Success bool        `json:"success"`
		Token   string      `json:"token"`
		Data    models.User `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "signed.jwt.token", body.Token)
	assert.Equal(t, "john@example.com", body.Data.Email)
}

func TestLoginInvalidCredentials(t *testing.T) {
	store := &fakeAuthStore{err: apperr.Unauthorized("Invalid credentials")}
	app := newAuthApp(store)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"john@example.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "Invalid credentials", body.Error)
}

func TestRegister(t *testing.T) {
	store := &fakeAuthStore{token: "signed.jwt.token"}
	app := newAuthApp(store)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"name":"John","email":"john@example.com","password":"123456","role":"publisher"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, tokenCookie(resp))
}

func TestLogoutExpiresCookie(t *testing.T) {
	app := newAuthApp(&fakeAuthStore{})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := tokenCookie(resp)
	require.NotNil(t, cookie)
	assert.Equal(t, "none", cookie.Value)
	assert.WithinDuration(t, time.Now(), cookie.Expires, time.Minute)
}

func TestForgotPasswordBuildsResetURL(t *testing.T) {
	store := &fakeAuthStore{}
	app := newAuthApp(store)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/forgot-password",
		strings.NewReader(`{"email":"john@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Host = "example.com"

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "john@example.com", store.gotEmail)
	assert.Equal(t, "http://example.com/api/v1/auth/resetpassword/abc123", store.gotResetURL)
}

func TestResetPasswordInvalidToken(t *testing.T) {
	store := &fakeAuthStore{err: apperr.BadRequest("Invalid token")}
	app := newAuthApp(store)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/resetpassword/badtoken",
		strings.NewReader(`{"password":"123456"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
