package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	ServiceName    = "Form Check API"
	ServiceVersion = "0.1.0"
)

// Root returns the static API descriptor.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    ServiceName,
		"version": ServiceVersion,
		"status":  "running",
	})
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": ServiceName + " is running",
	})
}
