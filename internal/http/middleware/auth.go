package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tripbook/internal/domain"
)

const actorKey = "actor"

// TokenParser turns a bearer token into the acting user.
type TokenParser interface {
	Parse(raw string) (domain.Actor, error)
}

// Auth requires a valid bearer token and stores the actor on the context.
func Auth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "token tidak ditemukan")
			return
		}
		actor, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", "token tidak valid")
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRoles lets only the listed roles through. It must run after Auth.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized", "token tidak ditemukan")
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "forbidden", "akses ditolak untuk role "+string(actor.Role))
	}
}

// ActorFrom returns the actor set by Auth.
func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      message,
		"code":       code,
		"message":    message,
		"request_id": GetRequestID(c),
	})
}
