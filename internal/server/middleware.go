package server

import (
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wardbooklabs/wardbook/internal/actorctx"
	"go.uber.org/zap"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
	apiKeyHeader    = "X-API-Key"
)

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDKey)),
		)
	}
}

// authenticate resolves the API key to a staff actor, installs it on the
// request context and enforces the role policy for the route.
func (s *Server) authenticate() gin.HandlerFunc {
	keys := make(map[string]actorctx.Actor, len(s.cfg.Auth.APIKeys))
	roles := make(map[string]string, len(s.cfg.Auth.APIKeys))
	for _, k := range s.cfg.Auth.APIKeys {
		keys[k.Key] = actorctx.Actor{
			ID:   snowflake.ID(k.ActorID),
			Name: k.Name,
			Role: k.Role,
		}
		roles[k.Key] = k.Role
	}

	return func(c *gin.Context) {
		key := c.GetHeader(apiKeyHeader)
		actor, ok := keys[key]
		if key == "" || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or unknown API key"})
			return
		}

		if !s.enforcer.Allowed(roles[key], c.Request.URL.Path, c.Request.Method) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role not permitted"})
			return
		}

		ctx := actorctx.WithActor(c.Request.Context(), actor)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
