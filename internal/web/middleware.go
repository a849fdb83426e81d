package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/nippo/internal/github"
)

// bearerToken forwards a caller-supplied GitHub token to the hosting client.
// Requests without one fall back to the configured credential.
func bearerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFromHeader(c.GetHeader("Authorization")); token != "" {
			c.Request = c.Request.WithContext(github.WithToken(c.Request.Context(), token))
		}
		c.Next()
	}
}

func tokenFromHeader(h string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok {
		return ""
	}
	switch strings.ToLower(scheme) {
	case "bearer", "token":
		return strings.TrimSpace(token)
	}
	return ""
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.InfoContext(c.Request.Context(), "http_request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
