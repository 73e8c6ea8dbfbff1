package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Constants for context keys and headers
const (
	ContextRequestIDKey = "requestID"
	HeaderRequestID     = "X-Request-Id"
)

const (
	defaultCSP = "default-src 'self'"
	// Swagger UI is served from a CDN.
	docsCSP = "default-src 'self'; script-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; img-src 'self' data: https://cdn.jsdelivr.net"
	hstsValue = "max-age=31536000; includeSubDomains"
)

// CORSMiddleware allows the configured browser origins.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", HeaderRequestID},
		ExposeHeaders:    []string{HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// SecurityHeadersMiddleware sets the response hardening headers. Documentation
// routes get a CSP that admits the Swagger UI assets and are left untouched in
// production; HSTS is only sent in production.
func SecurityHeadersMiddleware(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		docs := isDocsPath(c.Request.URL.Path)
		if docs && production {
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		if docs {
			h.Set("Content-Security-Policy", docsCSP)
		} else {
			h.Set("Content-Security-Policy", defaultCSP)
		}
		if production {
			h.Set("Strict-Transport-Security", hstsValue)
		}
		c.Next()
	}
}

// RequestIDMiddleware ensures every request has an X-Request-Id.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func isDocsPath(path string) bool {
	return path == docsPath || path == openAPIPath || strings.HasPrefix(path, docsPath+"/")
}

// Helper to return a {"detail": ...} JSON error response and abort request
func abortWithDetail(c *gin.Context, code int, detail any) {
	c.AbortWithStatusJSON(code, gin.H{"detail": detail})
}

// Helper function to get the request ID from context (used by handlers)
func getRequestID(c *gin.Context) string {
	id, _ := c.Get(ContextRequestIDKey)
	s, _ := id.(string)
	return s
}

func notFound(c *gin.Context) {
	abortWithDetail(c, http.StatusNotFound, "Not Found")
}
