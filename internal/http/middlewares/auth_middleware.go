package middlewares

import (
	"net/http"
	"strings"

	"github.com/geocoder89/travellog/internal/actorctx"
	"github.com/geocoder89/travellog/internal/auth"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="travellog"`)
	abort(c, http.StatusUnauthorized, "unauthorized", msg)
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header is missing")
			return
		}

		scheme, raw, found := strings.Cut(authHeader, " ")
		raw = strings.TrimSpace(raw)
		if !found || !strings.EqualFold(scheme, "Bearer") || raw == "" {
			unauthorized(c, "Authorization header is not a bearer token")
			return
		}

		claims, err := m.jwt.VerifyToken(raw)
		if err != nil || claims.UserID <= 0 {
			unauthorized(c, "Your token is invalid or has expired")
			return
		}

		// Stash identity on both contexts: gin for handlers, request ctx for services.
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxEmail, claims.Email)
		c.Request = c.Request.WithContext(actorctx.WithUserID(c.Request.Context(), claims.UserID))

		c.Next()
	}
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
