package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akarpovs/bannerdesk/internal/server/auth"
	"github.com/akarpovs/bannerdesk/internal/server/config"
	"github.com/akarpovs/bannerdesk/internal/server/storage"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler authenticates an administrator and returns an access token
// together with the profile, nested the way the console expects:
//
//	{"success":true,"body":{"tokens":{"accessToken":"..."},"admin":{...}}}
func LoginHandler(store *storage.Storage, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid json")
			return
		}

		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" || req.Password == "" {
			fail(c, http.StatusBadRequest, "email and password required")
			return
		}

		u, err := store.GetByEmail(c.Request.Context(), req.Email)
		if err != nil {
			fail(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if err := auth.ComparePasswordHash(u.PasswordHash, req.Password); err != nil {
			fail(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		token, err := auth.GenerateToken(u.ID, u.Email, cfg)
		if err != nil {
			fail(c, http.StatusInternalServerError, "token error")
			return
		}

		ok(c, http.StatusOK, gin.H{
			"tokens": gin.H{"accessToken": token},
			"admin":  u,
		})
	}
}

// LogoutHandler acknowledges a logout. Tokens are stateless, so there is
// nothing to revoke server-side; the console discards its local session
// regardless of this response.
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, http.StatusOK, nil)
	}
}
