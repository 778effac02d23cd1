package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// idempotent rejects a repeated Idempotency-Key within the TTL so retried
// generate and payment requests cannot double-book. Without redis the
// middleware is a no-op.
func (s *Server) idempotent() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.redis == nil {
			c.Next()
			return
		}
		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		stored := "idem:" + c.FullPath() + ":" + key
		set, err := s.redis.SetNX(c.Request.Context(), stored, time.Now().UTC().Format(time.RFC3339), idempotencyTTL).Result()
		if err != nil {
			// Redis being down must not block billing.
			c.Next()
			return
		}
		if !set {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": "duplicate request for idempotency key",
			})
			return
		}
		c.Next()
	}
}
