package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akarpovs/bannerdesk/internal/common"
	"github.com/akarpovs/bannerdesk/internal/server/storage"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// GetProfileHandler returns the authenticated administrator's profile.
func GetProfileHandler(store *storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, found := userIDFromContext(c)
		if !found {
			fail(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		u, err := store.GetByID(c.Request.Context(), userID)
		if err != nil {
			fail(c, http.StatusInternalServerError, "db error")
			return
		}

		ok(c, http.StatusOK, gin.H{"admin": u})
	}
}

// UpdateProfileHandler applies a partial profile change and returns the
// updated profile. Fields absent from the payload keep their stored values.
func UpdateProfileHandler(store *storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, found := userIDFromContext(c)
		if !found {
			fail(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req storage.ProfileUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid json")
			return
		}

		if req.Email != nil {
			trimmed := strings.TrimSpace(*req.Email)
			if !emailRegex.MatchString(trimmed) {
				fail(c, http.StatusBadRequest, "invalid email format")
				return
			}
			req.Email = &trimmed
		}

		u, err := store.UpdateProfile(c.Request.Context(), userID, req)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				fail(c, http.StatusNotFound, "user not found")
				return
			}
			fail(c, http.StatusInternalServerError, "db error")
			return
		}

		ok(c, http.StatusOK, gin.H{"admin": u})
	}
}
