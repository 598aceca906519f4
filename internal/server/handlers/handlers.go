// Package handlers contains the HTTP surface of the development API server:
// login, logout and the profile endpoints the admin console talks to.
//
// Every response uses the same envelope the console's gateway normalizes:
//
//	{"success": true,  "body": {...}}
//	{"success": false, "message": "..."}
package handlers

import (
	"github.com/gin-gonic/gin"
)

func ok(c *gin.Context, status int, body gin.H) {
	if body == nil {
		c.JSON(status, gin.H{"success": true})
		return
	}
	c.JSON(status, gin.H{"success": true, "body": body})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
