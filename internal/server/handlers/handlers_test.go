package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/akarpovs/bannerdesk/internal/server/auth"
	"github.com/akarpovs/bannerdesk/internal/server/config"
	"github.com/akarpovs/bannerdesk/internal/server/storage"
)

const usersSchema = `
CREATE TABLE users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name          TEXT NOT NULL DEFAULT '',
    first_name    TEXT NOT NULL DEFAULT '',
    last_name     TEXT NOT NULL DEFAULT '',
    phone         TEXT NOT NULL DEFAULT '',
    country_code  TEXT NOT NULL DEFAULT '',
    image         TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

func setupRouter(t *testing.T) (*gin.Engine, *storage.Storage, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(usersSchema)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.JWTSecret = "test-secret"

	store := storage.NewStorage(db)
	return NewRouter(store, cfg), store, cfg
}

func seedUser(t *testing.T, store *storage.Storage, email, password string) *storage.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u, err := store.CreateUser(context.Background(), email, hash)
	require.NoError(t, err)
	return u
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestLogin_Success(t *testing.T) {
	r, store, _ := setupRouter(t)
	seedUser(t, store, "a@b.com", "password123")

	w, out := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"email": "a@b.com", "password": "password123"})

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, out["success"])

	body := out["body"].(map[string]any)
	tokens := body["tokens"].(map[string]any)
	require.NotEmpty(t, tokens["accessToken"])

	admin := body["admin"].(map[string]any)
	require.Equal(t, "a@b.com", admin["email"])
	require.NotContains(t, admin, "password_hash")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	r, store, _ := setupRouter(t)
	seedUser(t, store, "a@b.com", "password123")

	w, out := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"email": "a@b.com", "password": "wrong-password"})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, false, out["success"])
	require.Equal(t, "Invalid credentials", out["message"])
}

func TestLogin_UnknownUserSameMessage(t *testing.T) {
	r, _, _ := setupRouter(t)

	w, out := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"email": "nobody@b.com", "password": "password123"})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Invalid credentials", out["message"])
}

func TestLogin_MissingFields(t *testing.T) {
	r, _, _ := setupRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"email": "a@b.com"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func loginToken(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w, out := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code)
	body := out["body"].(map[string]any)
	return body["tokens"].(map[string]any)["accessToken"].(string)
}

func TestLogout_RequiresToken(t *testing.T) {
	r, store, _ := setupRouter(t)
	seedUser(t, store, "a@b.com", "password123")

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/auth/logout", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token := loginToken(t, r, "a@b.com", "password123")
	w, out := doJSON(t, r, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, out["success"])
}

func TestGetProfile(t *testing.T) {
	r, store, _ := setupRouter(t)
	u := seedUser(t, store, "a@b.com", "password123")
	first := "Alice"
	_, err := store.UpdateProfile(context.Background(), u.ID, storage.ProfileUpdate{FirstName: &first})
	require.NoError(t, err)

	token := loginToken(t, r, "a@b.com", "password123")
	w, out := doJSON(t, r, http.MethodGet, "/api/v1/profile", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	admin := out["body"].(map[string]any)["admin"].(map[string]any)
	require.Equal(t, "Alice", admin["first_name"])
}

func TestUpdateProfile_PartialChange(t *testing.T) {
	r, store, _ := setupRouter(t)
	u := seedUser(t, store, "a@b.com", "password123")
	first := "Alice"
	_, err := store.UpdateProfile(context.Background(), u.ID, storage.ProfileUpdate{FirstName: &first})
	require.NoError(t, err)

	token := loginToken(t, r, "a@b.com", "password123")
	w, out := doJSON(t, r, http.MethodPatch, "/api/v1/profile", token,
		map[string]string{"phone": "5550100", "country_code": "+371"})

	require.Equal(t, http.StatusOK, w.Code)
	admin := out["body"].(map[string]any)["admin"].(map[string]any)
	require.Equal(t, "5550100", admin["phone"])
	require.Equal(t, "+371", admin["country_code"])
	require.Equal(t, "Alice", admin["first_name"], "unmentioned fields keep their values")
	require.Equal(t, "a@b.com", admin["email"])
}

func TestUpdateProfile_InvalidEmail(t *testing.T) {
	r, store, _ := setupRouter(t)
	seedUser(t, store, "a@b.com", "password123")

	token := loginToken(t, r, "a@b.com", "password123")
	w, out := doJSON(t, r, http.MethodPatch, "/api/v1/profile", token,
		map[string]string{"email": "not-an-email"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid email format", out["message"])
}

func TestRequireAuth_RejectsGarbageToken(t *testing.T) {
	r, _, _ := setupRouter(t)

	w, out := doJSON(t, r, http.MethodGet, "/api/v1/profile", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "invalid token", out["message"])
}
