package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/akarpovs/bannerdesk/internal/server/config"
	"github.com/akarpovs/bannerdesk/internal/server/storage"
)

// NewRouter builds the gin engine with all console-facing routes.
func NewRouter(store *storage.Storage, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", LoginHandler(store, cfg))

		authed := api.Group("")
		authed.Use(RequireAuth(cfg))
		{
			authed.POST("/auth/logout", LogoutHandler())
			authed.GET("/profile", GetProfileHandler(store))
			authed.PATCH("/profile", UpdateProfileHandler(store))
		}
	}

	return r
}
