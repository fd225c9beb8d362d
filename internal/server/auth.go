package server

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthRequired authenticates requests against the static shared secret. The
// header may carry the bare key or a Bearer prefix. An unset server-side key
// rejects everything.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := s.cfg.APIKey
		if expected == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		presented := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		if subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Next()
	}
}
