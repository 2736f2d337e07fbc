package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"travelhub/internal/domain"
	"travelhub/internal/pkg/jwt"
	"travelhub/internal/pkg/response"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxActor  = "actor"
)

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// JWTAuth validates the bearer token and stores the caller as a domain.Actor.
func JWTAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header required")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization format")
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		SetActor(c, domain.Actor{UserID: claims.UserID, Role: domain.UserRole(claims.Role)})
		c.Next()
	}
}

func SetActor(c *gin.Context, a domain.Actor) {
	c.Set(ctxActor, a)
	c.Set(ctxUserID, a.UserID)
	c.Set(ctxRole, string(a.Role))
}

// ActorFrom returns the authenticated caller, or the zero Actor for anonymous requests.
func ActorFrom(c *gin.Context) domain.Actor {
	if v, ok := c.Get(ctxActor); ok {
		if a, ok := v.(domain.Actor); ok {
			return a
		}
	}
	return domain.Actor{}
}
